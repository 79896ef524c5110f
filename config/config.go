package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/failpredict/core/factory"
	"github.com/kilianp07/failpredict/core/metrics"
)

// EnvPrefix marks environment variables that override file values. Nested
// keys are separated by a double underscore, e.g. FP_DATASET__PATH.
const EnvPrefix = "FP_"

type Config struct {
	Model   factory.ModuleConfig `json:"model"`
	Dataset DatasetConfig        `json:"dataset"`
	Server  ServerConfig         `json:"server"`
	Metrics metrics.Config       `json:"metrics"`
	RunLog  RunLogConfig         `json:"runlog"`
	Notify  NotifyConfig         `json:"notify"`
	Sentry  SentryConfig         `json:"sentry"`
}

// NotifyConfig lists the notifier modules receiving prediction summaries.
type NotifyConfig struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section with its defaults.
func (c *Config) SetDefaults() {
	c.Dataset.SetDefaults()
	c.Server.SetDefaults()
	c.RunLog.SetDefaults()
	c.Sentry.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Model.Type == "" {
		return fmt.Errorf("model: type is required")
	}
	if err := c.Dataset.Validate(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.RunLog.Validate(); err != nil {
		return fmt.Errorf("runlog: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	for i, s := range c.Notify.Sinks {
		if s.Type == "" {
			return fmt.Errorf("notify: sink %d has no type", i)
		}
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics: sink %d has no type", i)
		}
	}
	return nil
}
