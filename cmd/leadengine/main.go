package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Olamide1/leadengine/internal/aggregate"
	"github.com/Olamide1/leadengine/internal/engine"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		query       string
		country     string
		location    string
		industry    string
		maxResults  int
		configPath  string
		mirrors     string
		instances   string
		searxKey    string
		paidKey     string
		paidEngine  string
		resultsFile string
		llmBase     string
		llmModel    string
		llmKey      string
		useBrowser  bool
		browserPath string
		timeout     time.Duration
		verbose     bool
	)

	flag.StringVar(&query, "q", "", "Search query, e.g. 'hospitals in Lagos'")
	flag.StringVar(&country, "country", "", "ISO country code filter, e.g. 'ng'")
	flag.StringVar(&location, "location", "", "Explicit location (skips inference)")
	flag.StringVar(&industry, "industry", "", "Explicit industry (skips inference)")
	flag.IntVar(&maxResults, "n", 10, "Target number of candidate leads")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&mirrors, "geocoder.mirrors", "", "Comma-separated geocoder mirror URLs")
	flag.StringVar(&instances, "searx.instances", os.Getenv("SEARX_INSTANCES"), "Comma-separated SearxNG instance URLs")
	flag.StringVar(&searxKey, "searx.key", os.Getenv("SEARX_KEY"), "SearxNG API key (optional)")
	flag.StringVar(&paidKey, "paid.key", os.Getenv("SEARCH_API_KEY"), "Paid search API key")
	flag.StringVar(&paidEngine, "paid.engine", os.Getenv("SEARCH_ENGINE_ID"), "Paid search engine id")
	flag.StringVar(&resultsFile, "search.file", os.Getenv("RESULTS_FILE"), "Path to JSON file for offline file-based provider")
	flag.StringVar(&llmBase, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL for intent classification")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name for intent classification")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.BoolVar(&useBrowser, "browser", false, "Enable headless browser fallback provider")
	flag.StringVar(&browserPath, "browser.path", "", "Path to Chrome binary for the browser fallback")
	flag.DurationVar(&timeout, "timeout", 90*time.Second, "Overall search deadline")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(os.Stderr, "usage: leadengine -q 'hospitals in Lagos' [-country ng] [-n 10]")
		os.Exit(2)
	}

	cfg := engine.Config{
		GeocoderMirrors:     splitFlag(mirrors),
		MetasearchInstances: splitFlag(instances),
		MetasearchKey:       searxKey,
		PaidAPIKey:          paidKey,
		PaidEngineID:        paidEngine,
		ResultsFile:         resultsFile,
		LLMBaseURL:          llmBase,
		LLMModel:            llmModel,
		LLMAPIKey:           llmKey,
		EnableBrowser:       useBrowser,
		BrowserPath:         browserPath,
		TargetCount:         maxResults,
		Verbose:             verbose,
	}
	if configPath != "" {
		if err := engine.LoadConfigFile(configPath, &cfg); err != nil {
			log.Fatal().Err(err).Msg("config file")
		}
	}
	engine.ApplyEnvToConfig(&cfg)

	eng := engine.New(cfg)

	if eng.IsPersonQuery(query) {
		log.Warn().Str("query", query).Msg("query looks like a person name; this tool finds businesses")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	leads, err := eng.Search(ctx, query, engine.Options{
		Country:    country,
		Location:   location,
		Industry:   industry,
		MaxResults: maxResults,
	})
	if err != nil {
		if errors.Is(err, aggregate.ErrAllProvidersFailed) {
			log.Fatal().Err(err).Msg("no search backend could be reached")
		}
		log.Fatal().Err(err).Msg("search failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		log.Fatal().Err(err).Msg("encode output")
	}
}

func splitFlag(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
