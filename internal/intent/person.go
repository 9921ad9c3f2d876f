package intent

import (
	"regexp"
	"strings"
)

var (
	honorificRe = regexp.MustCompile(`(?i)^(?:dr|mr|mrs|ms|prof|engr|barr|chief|rev|pastor|alhaji)\.?\s+[A-Z]`)
	// Two or three capitalized words with no business vocabulary.
	nameShapeRe = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}$`)
)

// businessWords disqualify a query from being treated as a person name even
// when it is shaped like one ("Lagos Hospital" is not a person). Matched as
// word prefixes so plurals hit too.
var businessWords = []string{
	"ltd", "limited", "inc", "llc", "plc", "company", "companies",
	"hospital", "hotel", "school", "restaurant", "clinic", "bank",
	"service", "solution", "group", "agency", "enterprise",
}

// connectorWords mark search phrasing rather than names. Matched as whole
// words only; "Kevin" is not "in".
var connectorWords = map[string]struct{}{
	"in": {}, "near": {}, "around": {}, "best": {}, "top": {},
}

// IsPersonQuery recognizes name-shaped input ("John Smith", "Dr. Smith")
// so the caller can branch to a people-search pipeline instead.
func IsPersonQuery(query string) bool {
	q := collapse(query)
	if q == "" {
		return false
	}
	for _, f := range strings.Fields(strings.ToLower(q)) {
		f = strings.Trim(f, ".,")
		if _, ok := connectorWords[f]; ok {
			return false
		}
		for _, w := range businessWords {
			if strings.HasPrefix(f, w) {
				return false
			}
		}
	}
	if honorificRe.MatchString(q) {
		return true
	}
	return nameShapeRe.MatchString(q)
}
