package engine

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/Olamide1/leadengine/internal/quota"
)

// FileConfig is the single-file YAML configuration schema. Nested sections
// map naturally onto flags and env vars.
type FileConfig struct {
	Geocoder struct {
		Mirrors   []string `yaml:"mirrors"`
		UserAgent string   `yaml:"ua"`
	} `yaml:"geocoder"`

	Metasearch struct {
		Instances []string `yaml:"instances"`
		Key       string   `yaml:"key"`
	} `yaml:"metasearch"`

	Paid struct {
		Key      string `yaml:"key"`
		EngineID string `yaml:"engineId"`
		Endpoint string `yaml:"endpoint"`
		Daily    int    `yaml:"dailyLimit"`
		Monthly  int    `yaml:"monthlyLimit"`
		Disable  bool   `yaml:"disable"`
	} `yaml:"paid"`

	Browser struct {
		Enable  bool          `yaml:"enable"`
		Path    string        `yaml:"path"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"browser"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	ResultsFile string `yaml:"resultsFile"`
	TargetCount int    `yaml:"targetCount"`

	Classify struct {
		DenyDomains  []string `yaml:"denyDomains"`
		AllowDomains []string `yaml:"allowDomains"`
		PathHints    []string `yaml:"pathHints"`
		TitleHints   []string `yaml:"titleHints"`
	} `yaml:"classify"`

	Verbose bool `yaml:"verbose"`
}

// LoadConfigFile reads a YAML config file and merges it into cfg. Values
// already set on cfg win over the file.
func LoadConfigFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if len(cfg.GeocoderMirrors) == 0 {
		cfg.GeocoderMirrors = fc.Geocoder.Mirrors
	}
	if cfg.GeocoderUA == "" {
		cfg.GeocoderUA = fc.Geocoder.UserAgent
	}
	if len(cfg.MetasearchInstances) == 0 {
		cfg.MetasearchInstances = fc.Metasearch.Instances
	}
	if cfg.MetasearchKey == "" {
		cfg.MetasearchKey = fc.Metasearch.Key
	}
	if cfg.PaidAPIKey == "" {
		cfg.PaidAPIKey = fc.Paid.Key
	}
	if cfg.PaidEngineID == "" {
		cfg.PaidEngineID = fc.Paid.EngineID
	}
	if cfg.PaidEndpoint == "" {
		cfg.PaidEndpoint = fc.Paid.Endpoint
	}
	if cfg.PaidLimits == (quota.Limits{}) {
		cfg.PaidLimits = quota.Limits{DailyLimit: fc.Paid.Daily, MonthlyLimit: fc.Paid.Monthly}
	}
	if fc.Paid.Disable {
		cfg.DisablePaid = true
	}
	if fc.Browser.Enable {
		cfg.EnableBrowser = true
	}
	if cfg.BrowserPath == "" {
		cfg.BrowserPath = fc.Browser.Path
	}
	if cfg.BrowserTimeout == 0 {
		cfg.BrowserTimeout = fc.Browser.Timeout
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.ResultsFile == "" {
		cfg.ResultsFile = fc.ResultsFile
	}
	if cfg.TargetCount == 0 {
		cfg.TargetCount = fc.TargetCount
	}
	if len(cfg.ExtraDirectoryDomains) == 0 {
		cfg.ExtraDirectoryDomains = fc.Classify.DenyDomains
	}
	if len(cfg.ExtraAllowedDomains) == 0 {
		cfg.ExtraAllowedDomains = fc.Classify.AllowDomains
	}
	if len(cfg.ExtraPathHints) == 0 {
		cfg.ExtraPathHints = fc.Classify.PathHints
	}
	if len(cfg.ExtraTitleHints) == 0 {
		cfg.ExtraTitleHints = fc.Classify.TitleHints
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}
