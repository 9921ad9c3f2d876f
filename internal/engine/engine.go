// Package engine is the inbound facade of the lead search core: it builds
// the provider chain from configuration and exposes a single Search call to
// the surrounding application.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Olamide1/leadengine/internal/aggregate"
	"github.com/Olamide1/leadengine/internal/classify"
	"github.com/Olamide1/leadengine/internal/intent"
	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
	"github.com/Olamide1/leadengine/internal/provider/browserfall"
	"github.com/Olamide1/leadengine/internal/provider/fileprov"
	"github.com/Olamide1/leadengine/internal/provider/geocode"
	"github.com/Olamide1/leadengine/internal/provider/metasearch"
	"github.com/Olamide1/leadengine/internal/provider/paidsearch"
	"github.com/Olamide1/leadengine/internal/quota"
	"github.com/Olamide1/leadengine/internal/useragent"
)

// Options carries per-search caller input.
type Options struct {
	Country    string
	Location   string
	Industry   string
	MaxResults int
}

// Engine wires the intent parser, provider chain, classifier, and
// aggregator. Construct once, share across requests; the quota governor is
// process-wide state owned here.
type Engine struct {
	cfg      Config
	parser   *intent.Parser
	agg      *aggregate.Aggregator
	governor *quota.Governor
}

// New builds an engine from configuration. Providers whose credentials are
// missing are left out of the chain.
func New(cfg Config) *Engine {
	gov := quota.NewGovernor()
	uas := useragent.NewPool(nil)

	parser := &intent.Parser{}
	if cfg.LLMBaseURL != "" && cfg.LLMModel != "" {
		oaCfg := openai.DefaultConfig(cfg.LLMAPIKey)
		oaCfg.BaseURL = cfg.LLMBaseURL
		parser.Classifier = &intent.LLMClassifier{
			Client: openai.NewClientWithConfig(oaCfg),
			Model:  cfg.LLMModel,
		}
	}

	tables := classify.DefaultTables()
	tables.DirectoryDomains = append(tables.DirectoryDomains, cfg.ExtraDirectoryDomains...)
	tables.AllowedDomains = append(tables.AllowedDomains, cfg.ExtraAllowedDomains...)
	tables.DirectoryPathHints = append(tables.DirectoryPathHints, cfg.ExtraPathHints...)
	tables.DirectoryTitleHints = append(tables.DirectoryTitleHints, cfg.ExtraTitleHints...)

	// Priority order: cheapest and most reliable first, the browser dead
	// last. The order is fixed per run; no success-rate reordering.
	var chain []provider.Provider
	if cfg.ResultsFile != "" {
		chain = append(chain, &fileprov.Provider{Path: cfg.ResultsFile})
	}
	chain = append(chain, &geocode.Geocoder{
		Mirrors:   cfg.GeocoderMirrors,
		UserAgent: cfg.GeocoderUA,
	})
	if len(cfg.MetasearchInstances) > 0 {
		chain = append(chain, &metasearch.Pool{
			Instances:  cfg.MetasearchInstances,
			APIKey:     cfg.MetasearchKey,
			UserAgents: uas,
		})
	}
	if !cfg.DisablePaid && cfg.PaidAPIKey != "" && cfg.PaidEngineID != "" {
		paid := paidsearch.New(cfg.PaidAPIKey, cfg.PaidEngineID, gov)
		paid.Endpoint = cfg.PaidEndpoint
		if cfg.PaidLimits != (quota.Limits{}) {
			gov.Configure(paid.Name(), cfg.PaidLimits)
		}
		chain = append(chain, paid)
	}
	if cfg.EnableBrowser {
		browser := &browserfall.Fallback{
			UserAgents: uas,
			Timeout:    cfg.BrowserTimeout,
			ExecPath:   cfg.BrowserPath,
		}
		// A browser that keeps hitting block pages gets a cooldown instead
		// of a relaunch on every run.
		chain = append(chain, provider.WithBreaker(browser, provider.BreakerConfig{
			MaxFailures: 2,
			Cooldown:    5 * time.Minute,
		}))
	}

	return &Engine{
		cfg:    cfg,
		parser: parser,
		agg: &aggregate.Aggregator{
			Providers:  chain,
			Classifier: classify.New(tables, classify.DefaultGeoPolicy),
			Backoff:    provider.DefaultBackoff,
		},
		governor: gov,
	}
}

// Search is the sole entry point consumed by the surrounding application.
// It returns a possibly-empty candidate list, or an error only when every
// backend was unreachable.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]lead.Candidate, error) {
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Logger()

	target := opts.MaxResults
	if target <= 0 {
		target = e.cfg.TargetCount
	}
	if target <= 0 {
		target = 10
	}

	it := e.parser.Parse(ctx, query, intent.Options{
		Country:  opts.Country,
		Location: opts.Location,
		Industry: opts.Industry,
	})
	logger.Info().
		Str("query", query).
		Str("industry", it.Industry).
		Str("location", it.Location).
		Str("country", it.CountryCode).
		Int("target", target).
		Msg("search run started")

	candidates, err := e.agg.Run(ctx, it, target)
	if err != nil {
		logger.Warn().Err(err).Msg("search run failed")
		return nil, err
	}
	logger.Info().Int("candidates", len(candidates)).Msg("search run finished")
	return candidates, nil
}

// IsPersonQuery lets callers branch name-shaped input to a people pipeline
// before spending provider budget on it.
func (e *Engine) IsPersonQuery(query string) bool {
	return intent.IsPersonQuery(query)
}

// Governor exposes the quota governor for operational introspection.
func (e *Engine) Governor() *quota.Governor { return e.governor }
