// Package config reads the campaign tool's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/squad-campaign/internal/storage"
)

// Config holds every setting of the campaign tool.
type Config struct {
	SaveDir    string         `env:"SQUAD_SAVE_DIR" envDefault:"data/saves"`
	Driver     storage.Driver `env:"SQUAD_STORAGE_DRIVER" envDefault:"fs"`
	SQLitePath string         `env:"SQUAD_SQLITE_PATH" envDefault:"data/campaign.db"`

	S3Bucket    string `env:"SQUAD_S3_BUCKET"`
	S3Region    string `env:"SQUAD_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"SQUAD_S3_ENDPOINT"`
	S3PathStyle bool   `env:"SQUAD_S3_PATH_STYLE"`
	S3Prefix    string `env:"SQUAD_S3_PREFIX"`

	LogLevel string `env:"SQUAD_LOG_LEVEL" envDefault:"info"`
	// Seed drives mission rotation; 0 selects crypto randomness.
	Seed uint64 `env:"SQUAD_SEED"`
	// ArchiveRecords stores resolved mission records in SQLite.
	ArchiveRecords bool `env:"SQUAD_ARCHIVE_RECORDS"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	switch c.Driver {
	case storage.DriverFilesystem, storage.DriverMemory, storage.DriverSQLite:
	case storage.DriverS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("validate config: s3 driver requires SQUAD_S3_BUCKET")
		}
	default:
		return fmt.Errorf("validate config: unknown storage driver %q", c.Driver)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// StorageOptions maps the settings onto storage.Open.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver: c.Driver,
		Dir:    c.SaveDir,
		S3: storage.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			PathStyle: c.S3PathStyle,
			Prefix:    c.S3Prefix,
		},
	}
}

// ParseLevel converts a level name such as "warn" or "debug+2" to a
// slog.Level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}
	return l, nil
}
