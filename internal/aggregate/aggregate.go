// Package aggregate runs the provider chain, filters each provider's hits
// through the relevance classifier, and merges the survivors into a
// deduplicated, ranked candidate list.
package aggregate

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/unicode/norm"

	"github.com/Olamide1/leadengine/internal/classify"
	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
)

// ErrAllProvidersFailed is returned only when every provider in the chain
// failed hard (fatal or transient-exhausted), so the caller can tell an
// infrastructure outage apart from "genuinely no matches". A chain that was
// merely rate-limited or out of budget returns an empty list instead.
var ErrAllProvidersFailed = errors.New("all search backends unavailable")

// Aggregator owns one ordered provider chain. Providers are attempted
// strictly in declared priority order; there is no reordering based on
// historical success.
type Aggregator struct {
	Providers  []provider.Provider
	Classifier *classify.Classifier
	Backoff    provider.Backoff
}

// Run walks the chain until targetCount candidates are collected or the
// chain is exhausted. Exhaustion below target is not an error.
func (a *Aggregator) Run(ctx context.Context, intent lead.Intent, targetCount int) ([]lead.Candidate, error) {
	if targetCount <= 0 {
		targetCount = 10
	}
	cls := a.Classifier
	if cls == nil {
		cls = classify.New(classify.DefaultTables(), classify.DefaultGeoPolicy)
	}

	merged := newMerger()
	anySucceeded := false
	hardFailures := 0
	softSkips := 0

	for _, p := range a.Providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if merged.len() >= targetCount {
			break
		}
		need := targetCount - merged.len()

		raw, err := provider.Do(ctx, a.Backoff, func(ctx context.Context) ([]lead.RawResult, error) {
			return p.Fetch(ctx, intent, need)
		})
		if err != nil {
			kind := provider.KindOf(err)
			log.Debug().Str("provider", p.Name()).Str("kind", kind.String()).Err(err).Msg("provider skipped")
			// A single provider never aborts the run, but the skip reason
			// matters at the end: spent budgets and rate limits are normal
			// operating conditions, not an outage.
			switch kind {
			case provider.KindRateLimited, provider.KindQuotaExceeded:
				softSkips++
			default:
				hardFailures++
			}
			continue
		}
		anySucceeded = true

		kept := 0
		for _, r := range raw {
			v := cls.Classify(r, intent)
			if !v.Accepted() {
				log.Debug().Str("provider", p.Name()).Str("link", r.Link).Str("reason", v.Reason).Msg("result rejected")
				continue
			}
			merged.add(r)
			kept++
		}
		log.Debug().Str("provider", p.Name()).Int("raw", len(raw)).Int("kept", kept).Int("total", merged.len()).Msg("provider done")
	}

	if !anySucceeded && hardFailures > 0 && softSkips == 0 {
		return nil, ErrAllProvidersFailed
	}
	return merged.candidates(), nil
}

// merger deduplicates across providers by normalized title + registrable
// link host, keeping first-seen order and provenance and backfilling
// phone/address from later duplicates.
type merger struct {
	order []string
	byKey map[string]*lead.Candidate
}

func newMerger() *merger {
	return &merger{byKey: make(map[string]*lead.Candidate)}
}

func (m *merger) len() int { return len(m.order) }

func (m *merger) add(r lead.RawResult) {
	key := dedupeKey(r.Title, r.Link)
	if c, ok := m.byKey[key]; ok {
		if c.Phone == "" && r.Phone != "" {
			c.Phone = r.Phone
		}
		if c.Address == "" && r.Address != "" {
			c.Address = r.Address
		}
		for _, src := range c.Provenance {
			if src == r.Source {
				return
			}
		}
		c.Provenance = append(c.Provenance, r.Source)
		return
	}
	m.byKey[key] = &lead.Candidate{
		Title:      r.Title,
		Link:       r.Link,
		Snippet:    r.Snippet,
		Phone:      r.Phone,
		Address:    r.Address,
		Provenance: []string{r.Source},
	}
	m.order = append(m.order, key)
}

func (m *merger) candidates() []lead.Candidate {
	out := make([]lead.Candidate, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, *m.byKey[key])
	}
	return out
}

// dedupeKey folds the title (case-insensitive, whitespace-collapsed, NFC)
// and reduces the host to its registrable domain so www./m. variants of the
// same site collapse together.
func dedupeKey(title, link string) string {
	t := norm.NFC.String(strings.ToLower(strings.Join(strings.Fields(title), " ")))
	host := ""
	if u, err := url.Parse(strings.TrimSpace(link)); err == nil {
		host = strings.ToLower(u.Hostname())
		if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			host = etld
		}
	}
	return t + "|" + host
}
