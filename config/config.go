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

	"github.com/kilianp07/planavail/core/availability"
	"github.com/kilianp07/planavail/core/metrics"
	"github.com/kilianp07/planavail/infra/mqtt"
)

type Config struct {
	Calendar availability.Config `json:"calendar"`
	HTTP     HTTPConfig          `json:"http"`
	Metrics  metrics.Config      `json:"metrics"`
	MQTT     mqtt.Config         `json:"mqtt"`
	Audit    AuditConfig         `json:"audit"`
	Log      LogConfig           `json:"log"`
	Sentry   SentryConfig        `json:"sentry"`
}

// Load reads a YAML or JSON file, applies K_ environment overrides
// (K_CALENDAR__TIMEZONE sets calendar.timezone), then fills defaults and
// validates every section.
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
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
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

// Default returns a configuration with every default applied, used when the
// CLI runs without a configuration file.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Calendar.SetDefaults()
	c.HTTP.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.Audit.SetDefaults()
	c.Log.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	return nil
}
