// Package metrics defines the observations the service records.
// Backends (see the prometheus subpackage) implement Collector.
package metrics

import "time"

// Collector receives request and engine observations.
type Collector interface {
	// HTTP
	RecordRequest(method, route string, status int, duration time.Duration)

	// Summary engine
	RecordSummary(mode string, listed int, duration time.Duration)

	// Write path
	RecordMutation(resource, action string)
}

// NoOpCollector is used when metrics are disabled.
type NoOpCollector struct{}

// RecordRequest does nothing.
func (NoOpCollector) RecordRequest(method, route string, status int, duration time.Duration) {}

// RecordSummary does nothing.
func (NoOpCollector) RecordSummary(mode string, listed int, duration time.Duration) {}

// RecordMutation does nothing.
func (NoOpCollector) RecordMutation(resource, action string) {}
