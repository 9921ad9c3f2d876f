// Package fileprov loads results from a local JSON file for offline runs
// and tests. The file holds an array of objects with title/link/snippet and
// optional phone/address columns.
package fileprov

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
)

const providerName = "file"

type Provider struct {
	Path string
}

func (f *Provider) Name() string { return providerName }

type fileEntry struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Fetch filters the file's entries by substring match against the query.
func (f *Provider) Fetch(_ context.Context, intent lead.Intent, maxResults int) ([]lead.RawResult, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, provider.Errf(providerName, provider.KindFatal, "file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, provider.Wrap(providerName, provider.KindFatal, err)
	}
	var raw []fileEntry
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, provider.Wrap(providerName, provider.KindFatal, err)
	}
	q := strings.ToLower(strings.TrimSpace(intent.CleanedQuery))
	if q == "" {
		q = strings.ToLower(strings.TrimSpace(intent.RawQuery))
	}
	out := make([]lead.RawResult, 0, len(raw))
	for _, e := range raw {
		if e.Link == "" || e.Title == "" {
			continue
		}
		hay := strings.ToLower(e.Title + " " + e.Snippet + " " + e.Address)
		if q != "" && !containsAnyWord(hay, q) {
			continue
		}
		out = append(out, lead.RawResult{
			Title:   e.Title,
			Link:    e.Link,
			Snippet: e.Snippet,
			Phone:   e.Phone,
			Address: e.Address,
			Source:  providerName,
		})
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

func containsAnyWord(hay, q string) bool {
	for _, w := range strings.Fields(q) {
		if strings.Contains(hay, w) {
			return true
		}
	}
	return false
}
