package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// loadFromString writes yaml to a temp file and loads it.
func loadFromString(t *testing.T, yaml string) *Config {
	t.Helper()
	cfg, err := tryLoad(t, yaml)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func tryLoad(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}

func TestLoad_Valid(t *testing.T) {
	yaml := `
post:
  server_url: "http://hub.local/apps/api/1/update"
  post_interval: 30s
  target_unit: METRICWX
  max_backlog: 5
  stale: 5m
  timeout: 3s
  max_tries: 3
  retry_wait: 2s
  log_success: true
source:
  endpoint: "http://localhost:9100/metrics"
  sample_interval: 15s
  unit_system: US
  fields:
    outTemp: station_outdoor_temp_fahrenheit
    outHumidity: station_outdoor_humidity_percent
metrics:
  addr: ":9090"
`
	cfg := loadFromString(t, yaml)

	if cfg.Post.ServerURL != "http://hub.local/apps/api/1/update" {
		t.Errorf("server_url: got %q", cfg.Post.ServerURL)
	}
	if cfg.Post.PostInterval != 30*time.Second {
		t.Errorf("post_interval: got %v", cfg.Post.PostInterval)
	}
	if cfg.Post.TargetUnit != "METRICWX" {
		t.Errorf("target_unit: got %q", cfg.Post.TargetUnit)
	}
	if cfg.Post.MaxBacklog != 5 {
		t.Errorf("max_backlog: got %d", cfg.Post.MaxBacklog)
	}
	if cfg.Post.Stale != 5*time.Minute {
		t.Errorf("stale: got %v", cfg.Post.Stale)
	}
	if cfg.Post.MaxTries != 3 {
		t.Errorf("max_tries: got %d", cfg.Post.MaxTries)
	}
	if !cfg.Post.LogSuccess {
		t.Error("log_success: got false")
	}
	if cfg.Post.LogFailure {
		t.Error("log_failure: got true, want default false")
	}
	if !cfg.Source.Enabled() {
		t.Fatal("source not enabled")
	}
	if cfg.Source.SampleInterval != 15*time.Second {
		t.Errorf("sample_interval: got %v", cfg.Source.SampleInterval)
	}
	if got := cfg.Source.Fields["outTemp"]; got != "station_outdoor_temp_fahrenheit" {
		t.Errorf("fields[outTemp]: got %q", got)
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("metrics.addr: got %q", cfg.Metrics.Addr)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, `
post:
  server_url: "http://hub.local/update"
`)
	if cfg.Post.PostInterval != DefaultPostInterval {
		t.Errorf("post_interval: got %v, want %v", cfg.Post.PostInterval, DefaultPostInterval)
	}
	if cfg.Post.Timeout != DefaultTimeout {
		t.Errorf("timeout: got %v, want %v", cfg.Post.Timeout, DefaultTimeout)
	}
	if cfg.Post.MaxTries != DefaultMaxTries {
		t.Errorf("max_tries: got %d, want %d", cfg.Post.MaxTries, DefaultMaxTries)
	}
	if cfg.Post.RetryWait != DefaultRetryWait {
		t.Errorf("retry_wait: got %v, want %v", cfg.Post.RetryWait, DefaultRetryWait)
	}
	if cfg.Post.MaxBacklog != 0 {
		t.Errorf("max_backlog: got %d, want 0", cfg.Post.MaxBacklog)
	}
	if cfg.Post.Stale != 0 {
		t.Errorf("stale: got %v, want 0", cfg.Post.Stale)
	}
	if cfg.Post.SkipUpload {
		t.Error("skip_upload: got true, want default false")
	}
	if cfg.Source.Enabled() {
		t.Error("source enabled with no endpoint")
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("metrics.addr: got %q, want empty", cfg.Metrics.Addr)
	}
}

func TestLoad_MissingServerURL(t *testing.T) {
	_, err := tryLoad(t, `
post:
  post_interval: 30s
`)
	if err == nil {
		t.Fatal("want error for missing server_url")
	}
	if !strings.Contains(err.Error(), "server_url") {
		t.Errorf("error does not mention server_url: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "post: ["},
		{"zero max_tries", "post:\n  server_url: http://h\n  max_tries: 0\n"},
		{"negative backlog", "post:\n  server_url: http://h\n  max_backlog: -1\n"},
		{"negative stale", "post:\n  server_url: http://h\n  stale: -10s\n"},
		{"zero timeout", "post:\n  server_url: http://h\n  timeout: 0s\n"},
		{"source without fields", "post:\n  server_url: http://h\nsource:\n  endpoint: http://s/metrics\n"},
	}
	for _, tc := range cases {
		if _, err := tryLoad(t, tc.yaml); err == nil {
			t.Errorf("%s: want error, got nil", tc.name)
		}
	}
}

func TestLoad_TargetUnitNotValidatedHere(t *testing.T) {
	// An unknown target_unit must load fine; it disables the pipeline at
	// construction time instead of failing the whole config.
	cfg := loadFromString(t, `
post:
  server_url: "http://hub.local/update"
  target_unit: FURLONGS
`)
	if cfg.Post.TargetUnit != "FURLONGS" {
		t.Errorf("target_unit: got %q", cfg.Post.TargetUnit)
	}
}

func TestLoad_FileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}
}
