// Package paidsearch adapts a keyed web-search API (Custom Search JSON API
// shape). Calls are metered: a conservative daily budget derived from the
// monthly free tier is enforced locally before any request is sent.
package paidsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
	"github.com/Olamide1/leadengine/internal/quota"
)

const providerName = "paidsearch"

// perCallMax is the API's own cap on results per request.
const perCallMax = 10

// DefaultLimits reflects the published free tier (100 queries/day).
var DefaultLimits = quota.Limits{DailyLimit: 100, MonthlyLimit: 3000}

// Client is the paid-search ProviderAdapter.
type Client struct {
	APIKey     string
	EngineID   string
	Endpoint   string // defaults to the Google Custom Search endpoint
	HTTPClient *http.Client
	Governor   *quota.Governor
}

// New registers the client's budget with the governor and returns it.
func New(apiKey, engineID string, gov *quota.Governor) *Client {
	if gov != nil {
		gov.Configure(providerName, DefaultLimits)
	}
	return &Client{APIKey: apiKey, EngineID: engineID, Governor: gov}
}

func (c *Client) Name() string { return providerName }

// Fetch performs at most one metered API call, degrading the requested
// result count to the per-call cap rather than spending extra calls.
func (c *Client) Fetch(ctx context.Context, intent lead.Intent, maxResults int) ([]lead.RawResult, error) {
	if c.APIKey == "" || c.EngineID == "" {
		return nil, provider.Errf(providerName, provider.KindFatal, "api key or engine id not configured")
	}
	// Reserve consumes the slot up front; refund it on the paths where no
	// request ever leaves the process.
	if c.Governor != nil && !c.Governor.Reserve(providerName) {
		return nil, provider.Errf(providerName, provider.KindQuotaExceeded, "daily call budget spent")
	}
	if maxResults <= 0 || maxResults > perCallMax {
		maxResults = perCallMax
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = "https://www.googleapis.com/customsearch/v1"
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		c.release()
		return nil, provider.Wrap(providerName, provider.KindFatal, err)
	}
	query := intent.RawQuery
	if len(intent.Variants) > 0 {
		query = intent.Variants[0]
	}
	q := u.Query()
	q.Set("key", c.APIKey)
	q.Set("cx", c.EngineID)
	q.Set("q", query)
	q.Set("num", fmt.Sprintf("%d", maxResults))
	if intent.CountryCode != "" {
		q.Set("gl", intent.CountryCode)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.release()
		return nil, provider.Wrap(providerName, provider.KindFatal, err)
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		// The request may have reached the backend before the transport
		// failed; keep the slot consumed rather than risk overspending.
		return nil, provider.Wrap(providerName, provider.KindTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusBadRequest:
		return nil, provider.Errf(providerName, provider.KindFatal, "%s", authDiagnostic(resp))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, provider.Errf(providerName, provider.KindRateLimited, "status 429")
	case resp.StatusCode >= 500:
		return nil, provider.Errf(providerName, provider.KindTransient, "status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, provider.Errf(providerName, provider.KindTransient, "unexpected status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, provider.Errf(providerName, provider.KindTransient, "decode: %v", err)
	}
	out := make([]lead.RawResult, 0, len(sr.Items))
	for _, it := range sr.Items {
		if it.Link == "" || it.Title == "" {
			continue
		}
		out = append(out, lead.RawResult{
			Title:   strings.TrimSpace(it.Title),
			Link:    strings.TrimSpace(it.Link),
			Snippet: strings.TrimSpace(it.Snippet),
			Source:  providerName,
		})
		if len(out) >= maxResults {
			break
		}
	}
	log.Debug().Int("results", len(out)).Int("remaining", c.remaining()).Msg("paid search call")
	return out, nil
}

func (c *Client) release() {
	if c.Governor != nil {
		c.Governor.Release(providerName)
	}
}

func (c *Client) remaining() int {
	if c.Governor == nil {
		return -1
	}
	return c.Governor.Remaining(providerName)
}

// authDiagnostic turns an authorization failure into an actionable message
// instead of a bare status code. These conditions are permanently fatal for
// the process; retrying cannot fix a bad key.
func authDiagnostic(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &apiErr) == nil {
		msg = apiErr.Error.Message
	}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "api key not valid") || strings.Contains(lower, "invalid"):
		return fmt.Sprintf("API key rejected (status %d): %s — check that the key exists and the search API is enabled for its project", resp.StatusCode, msg)
	case strings.Contains(lower, "billing"):
		return fmt.Sprintf("billing not enabled (status %d): %s — enable billing on the key's project", resp.StatusCode, msg)
	case strings.Contains(lower, "referer") || strings.Contains(lower, "restricted") || strings.Contains(lower, "blocked"):
		return fmt.Sprintf("key restricted (status %d): %s — the key's application restrictions do not allow server-side use", resp.StatusCode, msg)
	case msg != "":
		return fmt.Sprintf("authorization failed (status %d): %s", resp.StatusCode, msg)
	}
	return fmt.Sprintf("authorization failed (status %d) with no diagnostic body", resp.StatusCode)
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}
