// Package metrics defines interfaces and event types for recording
// optimization run outcomes. Sinks like PromSink and InfluxSink record run
// results and schedule entries and can be combined with NewMultiSink. The
// factory helpers return a MultiSink automatically when multiple sinks are
// configured.
package metrics
