package config

import (
	"fmt"
	"unicode/utf8"
)

// DatasetConfig locates the pre-computed station table.
type DatasetConfig struct {
	Path string `json:"path"`
	// Delimiter separates fields; a single character.
	Delimiter string `json:"delimiter"`
}

// SetDefaults applies sane defaults.
func (c *DatasetConfig) SetDefaults() {
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
}

// Validate checks mandatory fields.
func (c DatasetConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return nil
}

// Rune returns the delimiter as a rune.
func (c DatasetConfig) Rune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
