package metrics

import "errors"

// DefaultMaxCategoryLabels bounds the category types reported under their own
// label when no explicit list is configured.
const DefaultMaxCategoryLabels = 20

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`

	// CategoryLabels lists the category types reported under their own
	// label; every other category is reported as "other". When empty the
	// first MaxCategoryLabels distinct categories seen are kept.
	CategoryLabels    []string `json:"category_labels"`
	MaxCategoryLabels int      `json:"max_category_labels"`

	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}

// SetDefaults fills the Prometheus listen address and the label bound.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9100"
	}
	if c.MaxCategoryLabels == 0 {
		c.MaxCategoryLabels = DefaultMaxCategoryLabels
	}
}

// InfluxEnabled reports whether evaluations are also written to InfluxDB.
func (c Config) InfluxEnabled() bool { return c.InfluxURL != "" }

// Validate checks the label bound and the InfluxDB target.
func (c Config) Validate() error {
	if c.MaxCategoryLabels < 0 {
		return errors.New("max_category_labels must not be negative")
	}
	if c.InfluxEnabled() && (c.InfluxOrg == "" || c.InfluxBucket == "") {
		return errors.New("influx_org and influx_bucket are required with influx_url")
	}
	return nil
}
