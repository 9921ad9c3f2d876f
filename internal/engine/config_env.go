package engine

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvToConfig populates unset fields of cfg from environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if len(cfg.GeocoderMirrors) == 0 {
		cfg.GeocoderMirrors = splitList(os.Getenv("GEOCODER_MIRRORS"))
	}
	if len(cfg.MetasearchInstances) == 0 {
		// Support both SEARX_INSTANCES and SEARXNG_INSTANCES
		v := os.Getenv("SEARX_INSTANCES")
		if v == "" {
			v = os.Getenv("SEARXNG_INSTANCES")
		}
		cfg.MetasearchInstances = splitList(v)
	}
	if cfg.MetasearchKey == "" {
		cfg.MetasearchKey = os.Getenv("SEARX_KEY")
	}

	if cfg.PaidAPIKey == "" {
		cfg.PaidAPIKey = os.Getenv("SEARCH_API_KEY")
	}
	if cfg.PaidEngineID == "" {
		cfg.PaidEngineID = os.Getenv("SEARCH_ENGINE_ID")
	}
	if cfg.PaidLimits.DailyLimit == 0 {
		if n, err := strconv.Atoi(os.Getenv("SEARCH_DAILY_LIMIT")); err == nil && n > 0 {
			cfg.PaidLimits.DailyLimit = n
		}
	}
	if cfg.PaidLimits.MonthlyLimit == 0 {
		if n, err := strconv.Atoi(os.Getenv("SEARCH_MONTHLY_LIMIT")); err == nil && n > 0 {
			cfg.PaidLimits.MonthlyLimit = n
		}
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}

	if cfg.ResultsFile == "" {
		cfg.ResultsFile = os.Getenv("RESULTS_FILE")
	}
	if cfg.BrowserPath == "" {
		cfg.BrowserPath = os.Getenv("BROWSER_PATH")
	}
	if !cfg.EnableBrowser {
		cfg.EnableBrowser = os.Getenv("ENABLE_BROWSER") == "1" || strings.EqualFold(os.Getenv("ENABLE_BROWSER"), "true")
	}

	if cfg.TargetCount == 0 {
		if n, err := strconv.Atoi(os.Getenv("TARGET_COUNT")); err == nil && n > 0 {
			cfg.TargetCount = n
		}
	}
}

func splitList(s string) []string {
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
