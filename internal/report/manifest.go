package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// RunConfig is the configuration section of the run manifest.
type RunConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Hymnals        []string      `yaml:"hymnals"`
	Workers        int           `yaml:"workers"`
	RequestDelay   time.Duration `yaml:"request_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Threshold      float64       `yaml:"threshold"`
	MaxMatches     int           `yaml:"max_matches"`
}

// HymnalResult records how one hymnal fared.
type HymnalResult struct {
	Code     string        `yaml:"code"`
	Hymns    int           `yaml:"hymns"`
	Duration time.Duration `yaml:"duration"`
	Error    string        `yaml:"error,omitempty"`
}

// Manifest describes a completed run.
type Manifest struct {
	RunID          string         `yaml:"run_id"`
	StartedAt      time.Time      `yaml:"started_at"`
	FinishedAt     time.Time      `yaml:"finished_at"`
	Config         RunConfig      `yaml:"config"`
	Hymnals        []HymnalResult `yaml:"hymnals"`
	TotalHymns     int            `yaml:"total_hymns"`
	TotalRequests  int64          `yaml:"total_requests"`
	SimilarityRows int            `yaml:"similarity_rows"`
	Files          []string       `yaml:"files,omitempty"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(startedAt time.Time, cfg RunConfig) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
		Config:    cfg,
	}
}

// Failed counts the hymnals that ended with an error.
func (m *Manifest) Failed() int {
	n := 0
	for _, h := range m.Hymnals {
		if h.Error != "" {
			n++
		}
	}
	return n
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
