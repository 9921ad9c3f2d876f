package browserfall

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Olamide1/leadengine/internal/lead"
)

// parseResults extracts organic results from the DuckDuckGo HTML endpoint's
// markup. Ads (results carrying the ad badge class) are skipped.
func parseResults(html string, maxResults int) ([]lead.RawResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	out := make([]lead.RawResult, 0, maxResults)
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		a := s.Find("a.result__a").First()
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		link := cleanRedirect(href)
		if link == "" || title == "" {
			return true
		}
		out = append(out, lead.RawResult{
			Title:   title,
			Link:    link,
			Snippet: snippet,
			Source:  providerName,
		})
		return len(out) < maxResults
	})
	return out, nil
}

// cleanRedirect unwraps the engine's /l/?uddg= redirect to the real target.
func cleanRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.Contains(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			if decoded, err := url.QueryUnescape(target); err == nil {
				return decoded
			}
			return target
		}
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
