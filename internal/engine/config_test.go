package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Olamide1/leadengine/internal/quota"
)

func TestApplyEnvToConfig_ExplicitWins(t *testing.T) {
	t.Setenv("SEARX_INSTANCES", "https://env.example")
	t.Setenv("SEARCH_API_KEY", "env-key")
	t.Setenv("SEARCH_DAILY_LIMIT", "50")

	cfg := Config{
		MetasearchInstances: []string{"https://flag.example"},
	}
	ApplyEnvToConfig(&cfg)

	if cfg.MetasearchInstances[0] != "https://flag.example" {
		t.Fatalf("explicit instances overridden by env: %v", cfg.MetasearchInstances)
	}
	if cfg.PaidAPIKey != "env-key" {
		t.Fatalf("unset field should fall back to env, got %q", cfg.PaidAPIKey)
	}
	if cfg.PaidLimits.DailyLimit != 50 {
		t.Fatalf("daily limit = %d, want 50", cfg.PaidLimits.DailyLimit)
	}
}

func TestApplyEnvToConfig_SearxngAlias(t *testing.T) {
	t.Setenv("SEARX_INSTANCES", "")
	t.Setenv("SEARXNG_INSTANCES", "https://a.example, https://b.example")

	var cfg Config
	ApplyEnvToConfig(&cfg)
	if len(cfg.MetasearchInstances) != 2 || cfg.MetasearchInstances[1] != "https://b.example" {
		t.Fatalf("alias env var not split, got %v", cfg.MetasearchInstances)
	}
}

func TestLoadConfigFile_MergeAndPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadengine.yaml")
	doc := `
geocoder:
  mirrors: ["https://nominatim.file.example"]
paid:
  key: file-key
  engineId: file-engine
  dailyLimit: 80
  monthlyLimit: 2400
browser:
  enable: true
targetCount: 25
classify:
  denyDomains: ["spamlist.example"]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{PaidAPIKey: "flag-key"}
	if err := LoadConfigFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.PaidAPIKey != "flag-key" {
		t.Fatalf("flag value must win over file, got %q", cfg.PaidAPIKey)
	}
	if cfg.PaidEngineID != "file-engine" {
		t.Fatalf("unset field should come from file, got %q", cfg.PaidEngineID)
	}
	if cfg.PaidLimits != (quota.Limits{DailyLimit: 80, MonthlyLimit: 2400}) {
		t.Fatalf("limits not merged: %+v", cfg.PaidLimits)
	}
	if !cfg.EnableBrowser {
		t.Fatal("browser.enable not applied")
	}
	if cfg.TargetCount != 25 {
		t.Fatalf("targetCount = %d, want 25", cfg.TargetCount)
	}
	if len(cfg.ExtraDirectoryDomains) != 1 || cfg.ExtraDirectoryDomains[0] != "spamlist.example" {
		t.Fatalf("classify overrides not merged: %v", cfg.ExtraDirectoryDomains)
	}
	if len(cfg.GeocoderMirrors) != 1 {
		t.Fatalf("mirrors not merged: %v", cfg.GeocoderMirrors)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	var cfg Config
	if err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Fatal("missing file must error")
	}
}
