// Package geocode implements the structured-geocoder provider against
// Nominatim-compatible endpoints. Mirrors are raced concurrently; the first
// usable response wins and the rest are cancelled.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Olamide1/leadengine/internal/classify"
	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
)

const providerName = "geocode"

// DefaultMirrors are public Nominatim-compatible endpoints.
var DefaultMirrors = []string{
	"https://nominatim.openstreetmap.org",
	"https://nominatim.geocoding.ai",
}

// Geocoder queries keyword/tag geocoding mirrors and post-filters the hits
// into plausible business results.
type Geocoder struct {
	Mirrors    []string
	HTTPClient *http.Client
	UserAgent  string
	// MirrorTimeout bounds each individual mirror request; the race as a
	// whole is bounded by the caller's context. Defaults to 8s.
	MirrorTimeout time.Duration
}

func (g *Geocoder) Name() string { return providerName }

// errWon cancels the remaining mirror goroutines once one has succeeded.
var errWon = errors.New("mirror race won")

// Fetch races all configured mirrors and strictly post-filters the winner's
// results against the requested location and country.
func (g *Geocoder) Fetch(ctx context.Context, intent lead.Intent, maxResults int) ([]lead.RawResult, error) {
	mirrors := g.Mirrors
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	var (
		mu      sync.Mutex
		winner  []nominatimPlace
		lastErr error
	)
	grp, gctx := errgroup.WithContext(ctx)
	for _, m := range mirrors {
		mirror := m
		grp.Go(func() error {
			places, err := g.queryMirror(gctx, mirror, intent, maxResults)
			if err != nil {
				mu.Lock()
				lastErr = err
				mu.Unlock()
				// Let the other mirrors keep racing.
				return nil
			}
			mu.Lock()
			if winner == nil {
				winner = places
			}
			mu.Unlock()
			return errWon
		})
	}
	if err := grp.Wait(); err != nil && !errors.Is(err, errWon) {
		return nil, provider.Wrap(providerName, provider.KindTransient, err)
	}
	if winner == nil {
		if lastErr == nil {
			lastErr = errors.New("no mirror responded")
		}
		if provider.IsKind(lastErr, provider.KindRateLimited) {
			return nil, lastErr
		}
		return nil, provider.Wrap(providerName, provider.KindTransient, lastErr)
	}

	return g.filter(winner, intent, maxResults), nil
}

// filter applies the strict geographic and business-shape post-filters and
// converts surviving places into raw results.
func (g *Geocoder) filter(places []nominatimPlace, intent lead.Intent, maxResults int) []lead.RawResult {
	out := make([]lead.RawResult, 0, len(places))
	for _, pl := range places {
		if pl.DisplayName == "" {
			continue
		}
		// Keyword search on a global index returns geography when the tag
		// search finds nothing local; drop features outright.
		// Judge the tagged feature type only; display names legitimately
		// contain words like "Island" in street addresses.
		if isGeoFeatureClass(pl.Class) || classify.IsGeographicFeature(pl.Type) {
			log.Debug().Str("name", pl.DisplayName).Str("class", pl.Class).Msg("dropping geographic feature")
			continue
		}
		display := strings.ToLower(pl.DisplayName)
		if intent.Location != "" && !strings.Contains(display, strings.ToLower(intent.Location)) {
			continue
		}
		if intent.CountryCode != "" && intent.Location == "" && !matchesCountryCode(pl, intent.CountryCode) {
			continue
		}

		name := pl.name()
		link := pl.website()
		if link == "" {
			// Resolve-later link: downstream extraction follows the
			// search query to find the real site.
			link = resolveLaterLink(name, intent.Location)
		}
		out = append(out, lead.RawResult{
			Title:   name,
			Link:    link,
			Snippet: pl.DisplayName,
			Phone:   pl.phone(),
			Address: pl.DisplayName,
			Source:  providerName,
		})
		if len(out) >= maxResults {
			break
		}
	}
	return out
}

func (g *Geocoder) queryMirror(ctx context.Context, mirror string, intent lead.Intent, maxResults int) ([]nominatimPlace, error) {
	timeout := g.MirrorTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u, err := url.Parse(mirror)
	if err != nil {
		return nil, provider.Wrap(providerName, provider.KindFatal, err)
	}
	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = strings.TrimRight(u.Path, "/") + "/search"
	}
	query := intent.RawQuery
	if len(intent.Variants) > 0 {
		query = intent.Variants[0]
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("extratags", "1")
	q.Set("limit", fmt.Sprintf("%d", maxResults*2))
	if intent.CountryCode != "" {
		q.Set("countrycodes", intent.CountryCode)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, provider.Wrap(providerName, provider.KindFatal, err)
	}
	ua := g.UserAgent
	if ua == "" {
		ua = "leadengine/1.0"
	}
	req.Header.Set("User-Agent", ua)

	hc := g.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, provider.Wrap(providerName, provider.KindTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, provider.Errf(providerName, provider.KindRateLimited, "mirror %s: status 429", mirror)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, provider.Errf(providerName, provider.KindTransient, "mirror %s: status %d", mirror, resp.StatusCode)
	}
	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, provider.Errf(providerName, provider.KindTransient, "mirror %s: decode: %v", mirror, err)
	}
	return places, nil
}

// resolveLaterLink builds the placeholder search URL for entries with no
// website of their own.
func resolveLaterLink(name, location string) string {
	q := name
	if location != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(location)) {
		q += " " + location
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(q)
}

func isGeoFeatureClass(class string) bool {
	switch strings.ToLower(class) {
	case "natural", "boundary", "waterway", "landuse", "place", "leisure", "highway":
		return true
	}
	return false
}

func matchesCountryCode(pl nominatimPlace, code string) bool {
	return strings.EqualFold(pl.Address.CountryCode, code)
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Class       string `json:"category"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Address     struct {
		CountryCode string `json:"country_code"`
		Country     string `json:"country"`
		City        string `json:"city"`
		State       string `json:"state"`
	} `json:"address"`
	ExtraTags map[string]string `json:"extratags"`
}

func (p nominatimPlace) name() string {
	if p.Name != "" {
		return p.Name
	}
	if i := strings.Index(p.DisplayName, ","); i > 0 {
		return strings.TrimSpace(p.DisplayName[:i])
	}
	return p.DisplayName
}

func (p nominatimPlace) website() string {
	for _, k := range []string{"website", "contact:website", "url"} {
		if v := strings.TrimSpace(p.ExtraTags[k]); v != "" {
			return v
		}
	}
	return ""
}

func (p nominatimPlace) phone() string {
	for _, k := range []string{"phone", "contact:phone"} {
		if v := strings.TrimSpace(p.ExtraTags[k]); v != "" {
			return v
		}
	}
	return ""
}
