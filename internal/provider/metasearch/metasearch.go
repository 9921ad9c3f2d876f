// Package metasearch queries a pool of self-hosted SearxNG instances,
// rotating instances and user agents so that one blocked mirror never takes
// the whole provider down.
package metasearch

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
	"github.com/Olamide1/leadengine/internal/useragent"
)

const providerName = "metasearch"

// instanceCooldown is how long a rate-limited instance is remembered and
// skipped before being tried again.
const instanceCooldown = 10 * time.Minute

// Pool is a ProviderAdapter federating over multiple SearxNG instances.
type Pool struct {
	Instances  []string
	APIKey     string
	HTTPClient *http.Client
	UserAgents *useragent.Pool
	// Limiter paces requests across instances; nil means a default of one
	// request per 1.5s with burst 1.
	Limiter *rate.Limiter
	// JitterMax adds a random extra delay per request on top of the
	// limiter, defaulting to 700ms.
	JitterMax time.Duration

	mu          sync.Mutex
	rateLimited map[string]time.Time // instance -> when it told us to back off
}

func (p *Pool) Name() string { return providerName }

// Fetch tries the instance pool in shuffled order until one returns usable
// JSON. It raises RateLimited only if every instance tried in this attempt
// was rate-limited; blocked or non-JSON instances are skipped without
// counting toward that verdict.
func (p *Pool) Fetch(ctx context.Context, intent lead.Intent, maxResults int) ([]lead.RawResult, error) {
	if len(p.Instances) == 0 {
		return nil, provider.Errf(providerName, provider.KindFatal, "no instances configured")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	instances := p.shuffled()
	allRateLimited := true
	tried := 0

	for _, inst := range instances {
		if p.onCooldown(inst) {
			continue
		}
		if err := p.pace(ctx); err != nil {
			return nil, provider.Wrap(providerName, provider.KindTransient, err)
		}
		tried++
		results, err := p.queryInstance(ctx, inst, intent, maxResults)
		if err == nil {
			return results, nil
		}
		if provider.IsKind(err, provider.KindRateLimited) {
			p.rememberRateLimited(inst)
			log.Debug().Str("instance", inst).Msg("instance rate limited, trying next")
			continue
		}
		// Blocked, non-JSON, or network failure: move on without letting
		// this instance decide the provider-level verdict.
		allRateLimited = false
		log.Debug().Str("instance", inst).Err(err).Msg("instance failed, trying next")
	}

	if tried == 0 {
		return nil, provider.Errf(providerName, provider.KindRateLimited, "all instances cooling down")
	}
	if allRateLimited {
		return nil, provider.Errf(providerName, provider.KindRateLimited, "all %d instances rate limited", tried)
	}
	return nil, provider.Errf(providerName, provider.KindTransient, "no instance returned results")
}

func (p *Pool) queryInstance(ctx context.Context, instance string, intent lead.Intent, maxResults int) ([]lead.RawResult, error) {
	u, err := url.Parse(instance)
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
	q.Set("format", "json")
	q.Set("language", "auto")
	q.Set("safesearch", "1")
	q.Set("categories", "general")
	q.Set("count", fmt.Sprintf("%d", maxResults))
	if p.APIKey != "" {
		q.Set("apikey", p.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, provider.Wrap(providerName, provider.KindFatal, err)
	}
	if p.UserAgents != nil {
		req.Header.Set("User-Agent", p.UserAgents.Next())
	}
	req.Header.Set("Accept", "application/json")

	hc := p.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, provider.Wrap(providerName, provider.KindTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, provider.Errf(providerName, provider.KindRateLimited, "instance %s: status 429", instance)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, provider.Errf(providerName, provider.KindTransient, "instance %s: status %d", instance, resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(ct), "json") {
		// Blocked instances tend to serve an HTML challenge page here.
		return nil, provider.Errf(providerName, provider.KindTransient, "instance %s: non-JSON response (%s)", instance, ct)
	}

	var sr searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, provider.Errf(providerName, provider.KindTransient, "instance %s: decode: %v", instance, err)
	}
	out := make([]lead.RawResult, 0, len(sr.Results))
	for _, r := range sr.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		out = append(out, lead.RawResult{
			Title:   strings.TrimSpace(r.Title),
			Link:    strings.TrimSpace(r.URL),
			Snippet: strings.TrimSpace(r.Content),
			Source:  providerName,
		})
		if len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

func (p *Pool) pace(ctx context.Context) error {
	p.mu.Lock()
	if p.Limiter == nil {
		p.Limiter = rate.NewLimiter(rate.Every(1500*time.Millisecond), 1)
	}
	lim := p.Limiter
	p.mu.Unlock()
	if err := lim.Wait(ctx); err != nil {
		return err
	}
	jitter := p.JitterMax
	if jitter == 0 {
		jitter = 700 * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(rand.Int63n(int64(jitter)))):
	}
	return nil
}

func (p *Pool) shuffled() []string {
	out := make([]string, len(p.Instances))
	copy(out, p.Instances)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (p *Pool) onCooldown(instance string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rateLimited == nil {
		return false
	}
	t, ok := p.rateLimited[instance]
	if !ok {
		return false
	}
	if time.Since(t) > instanceCooldown {
		delete(p.rateLimited, instance)
		return false
	}
	return true
}

func (p *Pool) rememberRateLimited(instance string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rateLimited == nil {
		p.rateLimited = make(map[string]time.Time)
	}
	p.rateLimited[instance] = time.Now()
}

type searxResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}
