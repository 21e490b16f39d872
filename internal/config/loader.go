package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read by Load when CONFIG_PATH is unset.
const DefaultPath = "./config.yaml"

// Validatable is a settings struct that can check itself after loading.
type Validatable interface {
	Validate() error
}

// Source says where ReadInto takes settings from. An empty Path reads the
// environment and env-default tags only.
type Source struct {
	Path string
	// Optional falls back to the environment when Path does not exist.
	Optional bool
}

// ReadInto fills dst with ENV > YAML > env-default precedence, then
// validates it. Both the server and the importer load their settings here.
func ReadInto(src Source, dst Validatable) error {
	fromFile := false
	if src.Path != "" {
		_, err := os.Stat(src.Path)
		switch {
		case err == nil:
			fromFile = true
		case !src.Optional:
			return fmt.Errorf("file %s: %w", src.Path, err)
		}
	}

	if fromFile {
		if err := cleanenv.ReadConfig(src.Path, dst); err != nil {
			return fmt.Errorf("read %s: %w", src.Path, err)
		}
	} else if err := cleanenv.ReadEnv(dst); err != nil {
		return fmt.Errorf("read env: %w", err)
	}

	if err := dst.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Load reads the server configuration. CONFIG_PATH names the YAML file; when
// it is unset a missing ./config.yaml is not an error.
func Load() (*Config, error) {
	src := Source{Path: os.Getenv("CONFIG_PATH")}
	if src.Path == "" {
		src = Source{Path: DefaultPath, Optional: true}
	}

	var cfg Config
	if err := ReadInto(src, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
