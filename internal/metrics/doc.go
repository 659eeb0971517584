// Package metrics instruments the posting pipeline with Prometheus.
//
// Collector wraps the counters, gauge and histogram the queue and delivery
// worker report into. All methods are safe to call on a nil *Collector, so
// the pipeline runs unchanged when metrics are disabled.
//
// Drop reasons distinguish policy drops (stale, backlog, rate_limited,
// skipped) from delivery failures (client_error, exhausted); policy drops
// are by design and never counted as failed posts.
package metrics
