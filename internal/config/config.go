// Package config holds the parameters of a collection run.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "https://hymnary.org/"
	DefaultWorkers        = 5
	DefaultMaxWorkers     = 5
	DefaultRequestDelay   = 500 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
	DefaultThreshold      = 0.85
	DefaultMaxMatches     = 15
	DefaultUserAgent      = "hymnal-scraper/0.1.0"
)

// Environment overrides, usually set through .env.
const (
	EnvBaseURL   = "HYMNAL_BASE_URL"
	EnvUserAgent = "HYMNAL_USER_AGENT"
)

var (
	ErrNoHymnals = errors.New("at least one hymnal code is required")
	ErrInvalid   = errors.New("invalid configuration")
)

// Similarity tunes the near-duplicate report.
type Similarity struct {
	Threshold float64 `yaml:"threshold"`
	// MaxMatches caps matches per hymn; 0 means unbounded.
	MaxMatches int `yaml:"max_matches"`
	// Workers bounds pair scoring parallelism; 0 uses every CPU.
	Workers int `yaml:"workers"`
}

// Config is a complete run description.
type Config struct {
	BaseURL string   `yaml:"base_url"`
	Hymnals []string `yaml:"hymnals"`

	// Workers is the requested pool size. MaxWorkers is a separate hard upper bound
	// (0 disables it); the pool is further capped at the number of hymnals.
	Workers    int `yaml:"workers"`
	MaxWorkers int `yaml:"max_workers"`

	RequestDelay   time.Duration `yaml:"request_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	UserAgent      string        `yaml:"user_agent"`

	OutputDir   string     `yaml:"output_dir"`
	MetricsFile string     `yaml:"metrics_file"`
	Similarity  Similarity `yaml:"similarity"`
}

// Default returns a config with every default filled in and no hymnals.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Workers:        DefaultWorkers,
		MaxWorkers:     DefaultMaxWorkers,
		RequestDelay:   DefaultRequestDelay,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
		OutputDir:      ".",
		Similarity: Similarity{
			Threshold:  DefaultThreshold,
			MaxMatches: DefaultMaxMatches,
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides the base URL and user agent from the environment when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		c.UserAgent = v
	}
}

// Validate checks every parameter before a run starts.
func (c Config) Validate() error {
	if len(c.Hymnals) == 0 {
		return ErrNoHymnals
	}
	for i, code := range c.Hymnals {
		if code == "" {
			return fmt.Errorf("%w: hymnal code %d is empty", ErrInvalid, i+1)
		}
	}
	if u, err := url.Parse(c.BaseURL); err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: base url %q must be absolute", ErrInvalid, c.BaseURL)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("%w: max workers must not be negative, got %d", ErrInvalid, c.MaxWorkers)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("%w: request delay must not be negative, got %s", ErrInvalid, c.RequestDelay)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalid, c.RequestTimeout)
	}
	if c.Similarity.Threshold < 0 || c.Similarity.Threshold > 1 {
		return fmt.Errorf("%w: similarity threshold must be within [0,1], got %g", ErrInvalid, c.Similarity.Threshold)
	}
	if c.Similarity.MaxMatches < 0 {
		return fmt.Errorf("%w: max matches must not be negative, got %d", ErrInvalid, c.Similarity.MaxMatches)
	}
	return nil
}

// EffectiveWorkers is the pool size actually used: Workers, bounded by MaxWorkers when
// set and by the number of hymnals.
func (c Config) EffectiveWorkers() int {
	n := c.Workers
	if c.MaxWorkers > 0 && n > c.MaxWorkers {
		n = c.MaxWorkers
	}
	if n > len(c.Hymnals) {
		n = len(c.Hymnals)
	}
	return max(n, 1)
}
