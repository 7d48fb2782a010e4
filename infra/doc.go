// Package infra contains technical adapters: the zerolog logger, Prometheus
// sinks, the Sentry monitor and the MQTT slot publisher. These packages
// depend only on the interfaces defined in the core packages.
package infra
