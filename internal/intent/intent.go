// Package intent turns a free-text lead query into a structured search
// intent: industry, location, country, and the ordered query variants the
// provider chain will actually send.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Olamide1/leadengine/internal/lead"
)

// Classifier extracts the industry phrase from a query. The LLM-backed
// implementation is optional; parsing falls back to the keyword table when
// it is absent or fails.
type Classifier interface {
	Industry(ctx context.Context, query string) (string, error)
}

// Expander supplies synonym expansions for an industry term. Optional; the
// static synonym table is used when nil.
type Expander interface {
	Synonyms(industry string) []string
}

// Options carries explicit values supplied by the caller. Explicit input
// always wins over inference.
type Options struct {
	Country  string
	Location string
	Industry string
}

// Parser builds intents. Safe for concurrent use.
type Parser struct {
	Classifier Classifier // optional
	Expander   Expander   // optional
	// MaxVariants caps the variant list; zero means the default of 4.
	MaxVariants int
}

var (
	// "in Lagos", "near Lagos", "around Lagos, Nigeria"
	locPrepRe = regexp.MustCompile(`(?i)\b(?:in|near|around|at|within)\s+([a-zA-ZÀ-ÿ' .-]+?)(?:\s*,\s*([a-zA-ZÀ-ÿ' .-]+))?\s*$`)
	// "Lagos companies", "Lagos businesses"
	locSuffixRe = regexp.MustCompile(`(?i)^([a-zA-ZÀ-ÿ' .-]+?)\s+(?:companies|businesses|firms|agencies|startups)\s*$`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Parse extracts structured fields from query. Re-parsing an already
// cleaned query yields the same fields.
func (p *Parser) Parse(ctx context.Context, query string, opts Options) lead.Intent {
	raw := collapse(query)
	it := lead.Intent{
		RawQuery:    raw,
		Industry:    collapse(opts.Industry),
		Location:    collapse(opts.Location),
		CountryCode: strings.ToLower(collapse(opts.Country)),
	}

	cleaned := raw
	if it.Location == "" {
		loc, country, rest := extractLocation(raw)
		it.Location = loc
		cleaned = rest
		if it.CountryCode == "" && country != "" {
			it.CountryCode = codeForCountry(country)
		}
	} else {
		// Explicit location: still strip it from the query if present so
		// cleanedQuery stays the industry part.
		cleaned = stripPhrase(raw, it.Location)
	}

	if it.Industry == "" {
		it.Industry = p.inferIndustry(ctx, cleaned)
	}
	if it.Industry != "" {
		cleaned = stripPhrase(cleaned, it.Industry)
	}
	it.CleanedQuery = collapse(cleaned)

	it.Variants = p.buildVariants(it)
	log.Debug().
		Str("query", raw).
		Str("industry", it.Industry).
		Str("location", it.Location).
		Str("country", it.CountryCode).
		Int("variants", len(it.Variants)).
		Msg("parsed intent")
	return it
}

// buildVariants produces the ordered query-string set: the raw query first,
// then synonym expansions with the location appended exactly once.
func (p *Parser) buildVariants(it lead.Intent) []string {
	max := p.MaxVariants
	if max <= 0 {
		max = 4
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, max)
	add := func(q string) {
		q = collapse(q)
		if q == "" {
			return
		}
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if len(out) < max {
			out = append(out, q)
		}
	}

	add(it.RawQuery)

	terms := []string{}
	if it.Industry != "" {
		terms = append(terms, it.Industry)
		if p.Expander != nil {
			terms = append(terms, p.Expander.Synonyms(it.Industry)...)
		} else {
			terms = append(terms, staticSynonyms(it.Industry)...)
		}
	}
	for _, t := range terms {
		add(withLocation(t, it.Location))
	}
	return out
}

// withLocation appends the location unless the term already mentions it,
// guarding against doubled phrases like "lagos lagos".
func withLocation(term, location string) string {
	term = collapse(term)
	if location == "" {
		return term
	}
	if strings.Contains(strings.ToLower(term), strings.ToLower(location)) {
		return term
	}
	return term + " in " + location
}

func (p *Parser) inferIndustry(ctx context.Context, cleaned string) string {
	if p.Classifier != nil {
		if ind, err := p.Classifier.Industry(ctx, cleaned); err == nil && collapse(ind) != "" {
			return collapse(ind)
		} else if err != nil {
			log.Debug().Err(err).Msg("industry classifier failed, using keyword fallback")
		}
	}
	return keywordIndustry(cleaned)
}

// extractLocation pulls a location phrase out of the query via preposition
// patterns, returning (location, trailing country if comma-separated, rest).
func extractLocation(q string) (loc, country, rest string) {
	if m := locPrepRe.FindStringSubmatchIndex(q); m != nil {
		sub := locPrepRe.FindStringSubmatch(q)
		loc = collapse(sub[1])
		country = collapse(sub[2])
		rest = collapse(q[:m[0]])
		return loc, country, rest
	}
	if sub := locSuffixRe.FindStringSubmatch(q); sub != nil {
		loc = collapse(sub[1])
		// Keep the "companies" tail as the cleaned query; the industry
		// table resolves it to a generic business search.
		rest = collapse(strings.TrimPrefix(q, sub[1]))
		return loc, "", rest
	}
	return "", "", q
}

// stripPhrase removes one case-insensitive occurrence of phrase plus any
// preposition immediately before it.
func stripPhrase(q, phrase string) string {
	if phrase == "" {
		return q
	}
	lower := strings.ToLower(q)
	idx := strings.Index(lower, strings.ToLower(phrase))
	if idx < 0 {
		return q
	}
	before := q[:idx]
	after := q[idx+len(phrase):]
	for _, prep := range []string{"in ", "near ", "around ", "at ", "within "} {
		if strings.HasSuffix(strings.ToLower(before), prep) {
			before = before[:len(before)-len(prep)]
			break
		}
	}
	return collapse(before + " " + after)
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
