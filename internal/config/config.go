package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPostInterval   = 60 * time.Second
	DefaultTimeout        = 10 * time.Second
	DefaultMaxTries       = 1
	DefaultRetryWait      = 1 * time.Second
	DefaultSampleInterval = 10 * time.Second
	DefaultUnitSystem     = "US"
)

// Config is the top-level wxrelay configuration.
type Config struct {
	Post    PostConfig    `yaml:"post"`
	Source  SourceConfig  `yaml:"source"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PostConfig holds all settings for the posting pipeline. It is resolved
// once at startup and never mutated afterwards.
type PostConfig struct {
	// ServerURL is the device endpoint records are POSTed to. Required.
	ServerURL string `yaml:"server_url"`

	// PostInterval is the minimum spacing between successive send attempts.
	// Records arriving inside the window are dropped (latest value wins).
	PostInterval time.Duration `yaml:"post_interval"`

	// TargetUnit optionally names the unit system records are converted to
	// before posting: US | METRIC | METRICWX. Empty means no conversion.
	TargetUnit string `yaml:"target_unit"`

	// MaxBacklog caps how many queued records are retained per post cycle.
	// Oldest excess records are discarded. 0 means no cap.
	MaxBacklog int `yaml:"max_backlog"`

	// Stale is the maximum record age; older records are discarded instead
	// of sent. 0 disables the check.
	Stale time.Duration `yaml:"stale"`

	// Timeout bounds each HTTP POST attempt.
	Timeout time.Duration `yaml:"timeout"`

	// MaxTries is the number of attempts per record, including the first.
	MaxTries int `yaml:"max_tries"`

	// RetryWait is the fixed pause between attempts.
	RetryWait time.Duration `yaml:"retry_wait"`

	// SkipUpload runs the full pipeline but omits the network call.
	SkipUpload bool `yaml:"skip_upload"`

	// LogSuccess raises successful posts from debug to info level.
	LogSuccess bool `yaml:"log_success"`

	// LogFailure raises exhausted/rejected posts from debug to error level.
	LogFailure bool `yaml:"log_failure"`
}

// SourceConfig describes the optional built-in record source, which samples
// a Prometheus exposition endpoint and feeds the pipeline. Disabled when
// Endpoint is empty; an external producer may feed the dispatcher instead.
type SourceConfig struct {
	// Endpoint is the full URL of the exposition endpoint to sample.
	Endpoint string `yaml:"endpoint"`

	// SampleInterval controls how often the endpoint is sampled.
	SampleInterval time.Duration `yaml:"sample_interval"`

	// UnitSystem names the unit system the sampled values are in.
	UnitSystem string `yaml:"unit_system"`

	// Fields maps record field name (e.g. "outTemp") to the metric name
	// that carries its value at the endpoint.
	Fields map[string]string `yaml:"fields"`
}

// Enabled reports whether a source endpoint is configured.
func (s SourceConfig) Enabled() bool {
	return s.Endpoint != ""
}

// MetricsConfig configures the optional Prometheus /metrics listener.
type MetricsConfig struct {
	// Addr is the listen address (e.g. ":9090"). Empty disables the listener.
	Addr string `yaml:"addr"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Post: PostConfig{
			PostInterval: DefaultPostInterval,
			Timeout:      DefaultTimeout,
			MaxTries:     DefaultMaxTries,
			RetryWait:    DefaultRetryWait,
		},
		Source: SourceConfig{
			SampleInterval: DefaultSampleInterval,
			UnitSystem:     DefaultUnitSystem,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Post.ServerURL == "" {
		return fmt.Errorf("post.server_url is required")
	}
	if cfg.Post.PostInterval <= 0 {
		return fmt.Errorf("post.post_interval must be positive")
	}
	if cfg.Post.Timeout <= 0 {
		return fmt.Errorf("post.timeout must be positive")
	}
	if cfg.Post.MaxTries < 1 {
		return fmt.Errorf("post.max_tries must be at least 1")
	}
	if cfg.Post.RetryWait < 0 {
		return fmt.Errorf("post.retry_wait must not be negative")
	}
	if cfg.Post.MaxBacklog < 0 {
		return fmt.Errorf("post.max_backlog must not be negative")
	}
	if cfg.Post.Stale < 0 {
		return fmt.Errorf("post.stale must not be negative")
	}
	if cfg.Source.Enabled() {
		if cfg.Source.SampleInterval <= 0 {
			return fmt.Errorf("source.sample_interval must be positive")
		}
		if len(cfg.Source.Fields) == 0 {
			return fmt.Errorf("source.fields must name at least one metric")
		}
	}
	return nil
}
