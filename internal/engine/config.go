package engine

import (
	"time"

	"github.com/Olamide1/leadengine/internal/quota"
)

// Config holds runtime configuration for the search engine. A provider
// whose credentials or endpoints are absent is silently disabled rather
// than erroring the chain.
type Config struct {
	// Geocoder
	GeocoderMirrors []string
	GeocoderUA      string

	// Metasearch federation
	MetasearchInstances []string
	MetasearchKey       string

	// Paid search API
	PaidAPIKey   string
	PaidEngineID string
	PaidEndpoint string
	PaidLimits   quota.Limits
	DisablePaid  bool

	// Headless browser fallback
	EnableBrowser  bool
	BrowserPath    string
	BrowserTimeout time.Duration

	// Offline file provider (dev/tests)
	ResultsFile string

	// LLM-assisted intent classification (optional)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Result shaping
	TargetCount int

	// Classifier overrides; empty slices keep the built-in tables.
	ExtraDirectoryDomains []string
	ExtraAllowedDomains   []string
	ExtraPathHints        []string
	ExtraTitleHints       []string

	// Behavior
	Verbose bool
}
