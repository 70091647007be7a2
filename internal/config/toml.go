// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Report   ReportConfig   `toml:"report"`
}

// PracticeConfig maps session-related settings.
type PracticeConfig struct {
	Size            *string `toml:"size"`
	FreezeThreshold *int    `toml:"freeze-threshold"`
}

// ReportConfig maps report derivation settings.
type ReportConfig struct {
	HesitationMs  *int64 `toml:"hesitation-ms"`
	LongPauseMs   *int64 `toml:"long-pause-ms"`
	TrendBucketMs *int64 `toml:"trend-bucket-ms"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
