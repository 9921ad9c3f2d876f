package lead

// Intent is the structured form of a free-text lead query, produced once per
// search request by the intent parser and immutable afterwards.
type Intent struct {
	RawQuery    string
	Industry    string // empty when no industry could be inferred
	Location    string // e.g. "Lagos"
	CountryCode string // ISO 3166-1 alpha-2, lower case, e.g. "ng"
	// CleanedQuery is RawQuery with the location and industry phrases
	// stripped; safe to re-parse (idempotent).
	CleanedQuery string
	// Variants is the ordered set of query strings to send to providers
	// that need exact phrasing. Always contains at least RawQuery.
	Variants []string
}

// RawResult is a single hit as normalized by a provider adapter. Transient
// within one search run; never persisted.
type RawResult struct {
	Title   string
	Link    string
	Snippet string
	Phone   string
	Address string
	// Source is the provider name for observability and provenance.
	Source string
	// DirectoryHint marks results the provider itself flagged as a
	// listing/aggregator page (some backends label these).
	DirectoryHint bool
}

// Candidate is one deduplicated, classified search result ready for
// downstream contact extraction.
type Candidate struct {
	Title   string
	Link    string
	Snippet string
	Phone   string
	Address string
	// Provenance lists every provider that surfaced this business,
	// first-seen first.
	Provenance []string
}

// Verdict is the classifier's judgment of a single RawResult. Ephemeral,
// computed per result, never stored.
type Verdict struct {
	IsDirectory   bool
	IsSocialMedia bool
	LocationMatch bool
	CountryMatch  bool
	Reason        string
}

// Accepted reports whether the verdict lets the result through to the
// candidate list.
func (v Verdict) Accepted() bool {
	return !v.IsDirectory && !v.IsSocialMedia && v.LocationMatch && v.CountryMatch
}
