package importer

import (
	"fmt"

	"github.com/heartmarshall/wiktapi/internal/config"
)

// Config holds bulk import settings.
type Config struct {
	InputDir      string `yaml:"input_dir"      env:"IMPORT_INPUT_DIR"      env-default:"./data/jsonl"`
	Edition       string `yaml:"edition"        env:"IMPORT_EDITION"`
	Fresh         bool   `yaml:"fresh"          env:"IMPORT_FRESH"`
	SkipIndexes   bool   `yaml:"skip_indexes"   env:"IMPORT_SKIP_INDEXES"`
	BatchSize     int    `yaml:"batch_size"     env:"IMPORT_BATCH_SIZE"     env-default:"50000"`
	DryRun        bool   `yaml:"dry_run"        env:"IMPORT_DRY_RUN"`
	RemoveSources bool   `yaml:"remove_sources" env:"IMPORT_REMOVE_SOURCES"`
}

// LoadConfig reads import settings from the YAML file at path, if given,
// and IMPORT_* environment variables. An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := config.ReadInto(config.Source{Path: path}, &cfg); err != nil {
		return nil, fmt.Errorf("import config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.InputDir == "" {
		return fmt.Errorf("input_dir must not be empty")
	}
	return nil
}
