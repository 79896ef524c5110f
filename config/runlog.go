package config

import (
	"fmt"
)

// RunLogConfig defines settings for run log storage and rotation.
type RunLogConfig struct {
	// Backend selects the store: "jsonl", "sqlite", "postgres" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the jsonl or sqlite store.
	Path string `json:"path"`
	// DSN is the postgres connection string.
	DSN string `json:"dsn"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *RunLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "jsonl":
			c.Path = "runs.jsonl"
		case "sqlite":
			c.Path = "runs.db"
		}
	}
}

// Validate checks mandatory fields.
func (c RunLogConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
	case "postgres":
		if c.DSN == "" {
			return fmt.Errorf("dsn is required")
		}
	case "none":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}
