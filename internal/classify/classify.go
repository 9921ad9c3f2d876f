// Package classify decides whether a raw search hit is a plausible business
// website or listing noise. Every check is a total function over its inputs
// with no I/O, so classification is safe to run in parallel across results.
package classify

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/Olamide1/leadengine/internal/lead"
)

// Classifier applies the heuristic tables to individual results.
type Classifier struct {
	tables Tables
	policy GeoPolicy
}

// New builds a classifier. Zero-valued tables fall back to the defaults.
func New(tables Tables, policy GeoPolicy) *Classifier {
	if len(tables.DirectoryDomains) == 0 && len(tables.DirectoryPathHints) == 0 &&
		len(tables.DirectoryTitleHints) == 0 && len(tables.SocialDomains) == 0 {
		tables = DefaultTables()
	}
	return &Classifier{tables: tables, policy: policy}
}

// Classify judges a single result against the intent. Pure and
// deterministic: the same inputs always produce the same verdict.
func (c *Classifier) Classify(r lead.RawResult, intent lead.Intent) lead.Verdict {
	v := lead.Verdict{LocationMatch: true, CountryMatch: true}

	host := hostOf(r.Link)

	switch {
	case r.DirectoryHint:
		v.IsDirectory = true
		v.Reason = "provider directory hint"
	case c.isDeniedDomain(host):
		v.IsDirectory = true
		v.Reason = "directory domain"
	case !c.isSearchEngineHost(host) && c.hasDirectoryPath(r.Link):
		// Search engine URLs are resolve-later placeholders, not listing
		// pages; the path hints do not apply to them.
		v.IsDirectory = true
		v.Reason = "directory path pattern"
	case c.hasDirectoryTitle(r.Title):
		v.IsDirectory = true
		v.Reason = "directory title pattern"
	}

	if c.isSocialDomain(host) {
		v.IsSocialMedia = true
		if v.Reason == "" {
			v.Reason = "social platform"
		}
	}

	// Strict geography: absence of the requested location/country in the
	// address is a rejection, not a demotion. Keyword geocoders fall back
	// to a global index and happily return businesses on the wrong
	// continent otherwise.
	haystack := strings.ToLower(r.Address + " " + r.Title + " " + r.Snippet)
	if c.policy.RequireLocationMatch && intent.Location != "" {
		if !strings.Contains(haystack, strings.ToLower(intent.Location)) {
			v.LocationMatch = false
			if v.Reason == "" {
				v.Reason = "location mismatch"
			}
		}
	}
	if c.policy.RequireCountryMatch && intent.CountryCode != "" {
		if !c.matchesCountry(haystack, intent.CountryCode) {
			// A matched location is accepted as implying the country;
			// many addresses omit the country name entirely.
			if !(v.LocationMatch && intent.Location != "") {
				v.CountryMatch = false
				if v.Reason == "" {
					v.Reason = "country mismatch"
				}
			}
		}
	}

	// Business-plausibility fallback: no address and no category signal,
	// but a direct own-domain link is evidence enough of a real business.
	if r.Address == "" && !v.IsDirectory && !v.IsSocialMedia {
		if !c.policy.AcceptBareWebsite || !c.hasOwnDomainLink(host) {
			if intent.Location == "" && intent.CountryCode == "" {
				v.LocationMatch = false
				v.Reason = "no business signal"
			}
		}
	}

	if v.Accepted() && v.Reason == "" {
		v.Reason = "ok"
	}
	return v
}

// IsGeographicFeature reports whether a structured-geocoder display name
// describes geography rather than a business.
func IsGeographicFeature(displayName string) bool {
	s := strings.ToLower(displayName)
	for _, w := range geoFeatureWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func (c *Classifier) isDeniedDomain(host string) bool {
	if host == "" {
		return false
	}
	for _, allow := range c.tables.AllowedDomains {
		if host == allow || strings.HasSuffix(host, "."+allow) {
			return false
		}
	}
	for _, deny := range c.tables.DirectoryDomains {
		if strings.Contains(host, deny) {
			return true
		}
	}
	return false
}

func (c *Classifier) isSocialDomain(host string) bool {
	for _, s := range c.tables.SocialDomains {
		if host == s || strings.HasSuffix(host, "."+s) || strings.Contains(host, s) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasDirectoryPath(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	if u.RawQuery != "" {
		p += "?" + strings.ToLower(u.RawQuery)
	}
	for _, hint := range c.tables.DirectoryPathHints {
		if strings.Contains(p, hint) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasDirectoryTitle(title string) bool {
	t := strings.ToLower(title)
	for _, hint := range c.tables.DirectoryTitleHints {
		if strings.Contains(t, hint) {
			return true
		}
	}
	return false
}

// hasOwnDomainLink reports whether the host is a registrable domain that is
// not a search engine, i.e. plausibly the business's own site.
func (c *Classifier) hasOwnDomainLink(host string) bool {
	if host == "" || c.isSearchEngineHost(host) {
		return false
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return false
	}
	return true
}

func (c *Classifier) isSearchEngineHost(host string) bool {
	for _, se := range c.tables.SearchEngineHosts {
		if host == se || strings.HasSuffix(host, "."+se) {
			return true
		}
	}
	return false
}

func (c *Classifier) matchesCountry(haystack, code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, name := range countryNames[code] {
		if strings.Contains(haystack, name) {
			return true
		}
	}
	return false
}

func hostOf(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
