package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reason label values.
const (
	DropStale       = "stale"        // record older than the stale threshold
	DropBacklog     = "backlog"      // oldest excess beyond max_backlog
	DropRateLimited = "rate_limited" // arrived inside the post interval window
	DropSkipped     = "skipped"      // skip_upload dry-run mode
	DropClientError = "client_error" // endpoint answered 4xx
	DropExhausted   = "exhausted"    // all retry attempts failed
)

// Collector holds the pipeline's Prometheus instruments. A nil Collector is
// valid and records nothing.
type Collector struct {
	enqueued     prometheus.Counter
	posts        *prometheus.CounterVec
	drops        *prometheus.CounterVec
	queueDepth   prometheus.Gauge
	postDuration prometheus.Histogram
}

// NewCollector creates the pipeline instruments and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wxrelay_records_enqueued_total",
			Help: "Total number of records handed to the posting queue.",
		}),
		posts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wxrelay_posts_total",
			Help: "Total number of records with a terminal post outcome.",
		}, []string{"result"}),
		drops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wxrelay_records_dropped_total",
			Help: "Total number of records dropped, by reason.",
		}, []string{"reason"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wxrelay_queue_depth",
			Help: "Current number of records waiting in the posting queue.",
		}),
		postDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wxrelay_post_duration_seconds",
			Help:    "Wall time per record delivery, including retries.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.enqueued, c.posts, c.drops, c.queueDepth, c.postDuration)
	return c
}

// RecordEnqueue counts one record handed to the queue.
func (c *Collector) RecordEnqueue() {
	if c == nil {
		return
	}
	c.enqueued.Inc()
}

// RecordPost counts one terminal delivery outcome and its duration.
func (c *Collector) RecordPost(ok bool, seconds float64) {
	if c == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	c.posts.WithLabelValues(result).Inc()
	c.postDuration.Observe(seconds)
}

// RecordDrops counts n records dropped for the given reason.
func (c *Collector) RecordDrops(reason string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.drops.WithLabelValues(reason).Add(float64(n))
}

// SetQueueDepth records the current queue length.
func (c *Collector) SetQueueDepth(n int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(n))
}

// Serve exposes the default registry on addr under /metrics. It blocks, so
// callers run it in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
