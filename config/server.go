package config

import (
	"fmt"
	"time"
)

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Token enables bearer authentication on /api routes when set.
	Token        string        `json:"token"`
	MaxUploadMB  int           `json:"max_upload_mb"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 32
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
