package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level moneta.yaml configuration. It is passed
// explicitly into the import and aggregation entry points; nothing in the
// engine reads ambient global state.
type Config struct {
	Owner   string        `yaml:"owner"`
	Storage StorageConfig `yaml:"storage"`
	Import  ImportConfig  `yaml:"import"`
	FX      FXConfig      `yaml:"fx"`
}

// StorageConfig locates the local sqlite datastore.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ImportConfig controls CSV import behavior.
type ImportConfig struct {
	// Profile names the built-in header alias set used when the user does
	// not pick one explicitly.
	Profile string `yaml:"profile"`
	// DateFormats are the accepted Go layouts for the date column, tried
	// in order.
	DateFormats []string `yaml:"date_formats"`
	// MaxRows bounds the number of data rows per import file.
	MaxRows int `yaml:"max_rows"`
	// Aliases adds extra accepted header names per canonical field,
	// merged over the selected profile.
	Aliases map[string][]string `yaml:"aliases,omitempty"`
}

// FXConfig controls currency normalization.
type FXConfig struct {
	BaseCurrency string `yaml:"base_currency"`
}

// Load reads a moneta.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(owner string) *Config {
	return &Config{
		Owner: owner,
		Storage: StorageConfig{
			DBPath: "data/moneta.db",
		},
		Import: ImportConfig{
			Profile:     "generic",
			DateFormats: []string{"2006-01-02", "02.01.2006", "01/02/2006"},
			MaxRows:     10000,
		},
		FX: FXConfig{
			BaseCurrency: "EUR",
		},
	}
}
