package config

import (
	"os"
	"path/filepath"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `calendar:
  timezone: "America/Chicago"
  trial_category: "TRIAL"
  max_range_days: 90
http:
  address: ":9000"
  token: "secret"
metrics:
  prometheus_enabled: true
  category_labels: ["MC", "TR"]
  influx_url: "http://influx:8086"
  influx_org: "org"
  influx_bucket: "availability"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic: "availability/slots"
  qos: 1
audit:
  backend: "jsonl"
  path: "/tmp/audit.log"
  max_backups: 3
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"timezone", cfg.Calendar.Timezone, "America/Chicago"},
		{"trial_category", cfg.Calendar.TrialCategory, "TRIAL"},
		{"trial_unit_minutes", cfg.Calendar.TrialUnitMinutes, 60},
		{"cancelled_status", cfg.Calendar.CancelledStatus, "CANCELLED"},
		{"http.address", cfg.HTTP.Address, ":9000"},
		{"http.token", cfg.HTTP.Token, "secret"},
		{"prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"prometheus_port", cfg.Metrics.PrometheusPort, ":9100"},
		{"max_range_days", cfg.Calendar.MaxRangeDays, 90},
		{"category_labels", len(cfg.Metrics.CategoryLabels), 2},
		{"max_category_labels", cfg.Metrics.MaxCategoryLabels, 20},
		{"influx_bucket", cfg.Metrics.InfluxBucket, "availability"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"topic", cfg.MQTT.Topic, "availability/slots"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"audit.path", cfg.Audit.Path, "/tmp/audit.log"},
		{"audit.max_backups", cfg.Audit.MaxBackups, 3},
		{"audit.max_size_mb", cfg.Audit.MaxSizeMB, 50},
		{"log.level", cfg.Log.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"calendar":{"timezone":"America/New_York"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("K_CALENDAR__TIMEZONE", "Europe/Paris")
	t.Setenv("K_CALENDAR__TRIAL_UNIT_MINUTES", "30")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Calendar.Timezone != "Europe/Paris" {
		t.Fatalf("env override ignored: %s", cfg.Calendar.Timezone)
	}
	if cfg.Calendar.TrialUnitMinutes != 30 {
		t.Fatalf("trial unit = %d", cfg.Calendar.TrialUnitMinutes)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad.toml":      "a = 1",
		"tz.yaml":       "calendar:\n  timezone: Atlantis/Capital\n",
		"audit.yaml":    "audit:\n  backend: kafka\n",
		"level.yaml":    "log:\n  level: loud\n",
		"sentry.yaml":   "sentry:\n  traces_sample_rate: 2\n",
		"mqtt_qos.yaml": "mqtt:\n  broker: tcp://x:1883\n  qos: 3\n",
		"influx.yaml":   "metrics:\n  influx_url: http://influx:8086\n",
		"labels.yaml":   "metrics:\n  max_category_labels: -1\n",
		"range.yaml":    "calendar:\n  max_range_days: -3\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("missing file: expected error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.HTTP.Address != ":8080" || cfg.Audit.Backend != "jsonl" || cfg.Calendar.Timezone != "America/New_York" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MQTT.Enabled() {
		t.Fatalf("mqtt must be disabled without a broker")
	}
}

func TestAuditOptions(t *testing.T) {
	c := AuditConfig{Backend: "sqlite", Path: "audit.db"}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("sqlite backend rejected: %v", err)
	}
	o := c.Options()
	if o.Backend != "sqlite" || o.Path != "audit.db" || o.MaxSizeMB != 50 {
		t.Fatalf("unexpected options %+v", o)
	}
	if (AuditConfig{Backend: "none"}).Enabled() {
		t.Fatalf("none backend must be disabled")
	}
}
