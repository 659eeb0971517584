package poster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wxrelay/wxrelay/internal/config"
	"github.com/wxrelay/wxrelay/internal/metrics"
)

// defaultPoll bounds how long the worker blocks on an empty queue before
// re-checking for shutdown.
const defaultPoll = 2 * time.Second

// permanentError marks a failure that retrying the same payload cannot fix:
// a 4xx response from the device, or a request that cannot be built at all.
type permanentError struct {
	status int
	err    error
}

func (e *permanentError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("build request: %v", e.err)
	}
	return fmt.Sprintf("device rejected request: status %d", e.status)
}

// Worker is the single background loop that drains the queue and posts
// records to the device. All unit conversion, formatting and network I/O
// happens here, single-threadedly; the queue is the only shared state.
type Worker struct {
	cfg       config.PostConfig
	queue     *Queue
	transform *Transformer
	fields    []FieldSpec
	client    *http.Client
	collector *metrics.Collector
	log       *slog.Logger

	// poll is the dequeue timeout; a field so tests can shrink it.
	poll time.Duration

	// lastAttempt is when a record last passed the rate gate. Worker-local:
	// only the worker goroutine touches it.
	lastAttempt time.Time
}

// NewWorker validates the posting configuration and builds the worker.
// A missing server_url or unknown target_unit is fatal: no worker is
// created and the pipeline must stay disabled.
func NewWorker(cfg config.PostConfig, q *Queue, col *metrics.Collector, log *slog.Logger) (*Worker, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("poster: server_url is required")
	}
	tr, err := NewTransformer(cfg.TargetUnit)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return &Worker{
		cfg:       cfg,
		queue:     q,
		transform: tr,
		fields:    StdFields,
		client:    &http.Client{Timeout: timeout},
		collector: col,
		log:       log,
		poll:      defaultPoll,
	}, nil
}

// Run drains the queue until ctx is cancelled. Each cycle dequeues with a
// timeout (the shutdown checkpoint), pulls in whatever else is already
// queued, trims the batch to the backlog cap and processes the survivors in
// arrival order. A record's failure never stops the loop.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("delivery worker started", "url", w.cfg.ServerURL,
		"post_interval", w.cfg.PostInterval, "max_tries", w.maxTries())

	for {
		if ctx.Err() != nil {
			w.log.Info("delivery worker stopped")
			return
		}

		entry, ok := w.queue.Dequeue(w.poll)
		if !ok {
			continue
		}

		batch := append([]Entry{entry}, w.queue.Drain(0)...)
		w.collector.SetQueueDepth(w.queue.Len())

		batch, dropped := trimBacklog(batch, w.cfg.MaxBacklog)
		if dropped > 0 {
			w.collector.RecordDrops(metrics.DropBacklog, dropped)
			w.log.Debug("backlog overflow, dropped oldest records",
				"dropped", dropped, "retained", len(batch))
		}

		for _, e := range batch {
			if ctx.Err() != nil {
				w.log.Info("delivery worker stopped")
				return
			}
			w.process(ctx, e)
		}
	}
}

// trimBacklog keeps the newest max entries, dropping the oldest excess.
// max <= 0 means no cap. Relative order of survivors is preserved.
func trimBacklog(batch []Entry, max int) (kept []Entry, dropped int) {
	if max <= 0 || len(batch) <= max {
		return batch, 0
	}
	dropped = len(batch) - max
	return batch[dropped:], dropped
}

// process applies the per-record policy and, if the record survives, posts
// it. Terminal outcomes are logged per the log_success/log_failure config;
// policy drops only at debug level.
func (w *Worker) process(ctx context.Context, e Entry) {
	now := time.Now()

	if w.cfg.Stale > 0 && now.Sub(e.Record.Time) > w.cfg.Stale {
		w.collector.RecordDrops(metrics.DropStale, 1)
		w.log.Debug("dropped stale record",
			"record_time", e.Record.Time, "age", now.Sub(e.Record.Time))
		return
	}

	// Rate limit: one send attempt per post interval, latest value wins.
	if !w.lastAttempt.IsZero() && now.Sub(w.lastAttempt) < w.cfg.PostInterval {
		w.collector.RecordDrops(metrics.DropRateLimited, 1)
		w.log.Debug("dropped record inside post interval",
			"record_time", e.Record.Time, "since_last", now.Sub(w.lastAttempt))
		return
	}
	w.lastAttempt = now

	if w.cfg.SkipUpload {
		w.collector.RecordDrops(metrics.DropSkipped, 1)
		w.log.Debug("skip_upload set, record not sent", "record_time", e.Record.Time)
		return
	}

	body := EncodeBody(MapFields(w.transform.Apply(e.Record), w.fields))

	start := time.Now()
	err := w.post(ctx, body)
	elapsed := time.Since(start)

	if err != nil {
		w.collector.RecordPost(false, elapsed.Seconds())
		reason := metrics.DropExhausted
		var pe *permanentError
		if errors.As(err, &pe) {
			reason = metrics.DropClientError
		}
		w.collector.RecordDrops(reason, 1)
		if w.cfg.LogFailure {
			w.log.Error("failed to publish record",
				"record_time", e.Record.Time, "url", w.cfg.ServerURL, "err", err)
		} else {
			w.log.Debug("failed to publish record",
				"record_time", e.Record.Time, "err", err)
		}
		return
	}

	w.collector.RecordPost(true, elapsed.Seconds())
	if w.cfg.LogSuccess {
		w.log.Info("published record", "record_time", e.Record.Time)
	} else {
		w.log.Debug("published record", "record_time", e.Record.Time)
	}
}

// post issues up to max_tries attempts separated by retry_wait. A permanent
// error returns immediately without consuming the remaining attempts.
func (w *Worker) post(ctx context.Context, body []byte) error {
	var lastErr error
	for attempt := 1; attempt <= w.maxTries(); attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.cfg.RetryWait):
			}
		}

		err := w.attempt(ctx, body)
		if err == nil {
			return nil
		}
		var pe *permanentError
		if errors.As(err, &pe) {
			return err
		}
		lastErr = err
		w.log.Debug("post attempt failed", "attempt", attempt, "err", err)
	}
	return lastErr
}

// attempt issues a single POST and classifies the response: 2xx success,
// 4xx permanent, anything else (including transport errors) transient.
func (w *Worker) attempt(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.ServerURL, bytes.NewReader(body))
	if err != nil {
		// Malformed URL: no attempt can ever succeed.
		return &permanentError{err: err}
	}
	req.Header.Set("Content-Type", ContentType)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &permanentError{status: resp.StatusCode}
	default:
		return fmt.Errorf("device error: status %d", resp.StatusCode)
	}
}

func (w *Worker) maxTries() int {
	if w.cfg.MaxTries < 1 {
		return 1
	}
	return w.cfg.MaxTries
}
