package poster

import (
	"context"
	"log/slog"

	"github.com/wxrelay/wxrelay/internal/config"
	"github.com/wxrelay/wxrelay/internal/metrics"
)

// Pipeline wires the queue, worker and dispatcher for one device.
type Pipeline struct {
	queue  *Queue
	worker *Worker
	disp   *Dispatcher
}

// New builds the posting pipeline for cfg. It fails on fatal configuration
// (missing server_url, unknown target_unit); the caller should log the
// error and continue without a pipeline — a nil *Pipeline's Dispatcher is
// nil, whose OnRecord no-ops.
func New(cfg config.PostConfig, col *metrics.Collector, log *slog.Logger) (*Pipeline, error) {
	q := NewQueue()
	w, err := NewWorker(cfg, q, col, log)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		queue:  q,
		worker: w,
		disp:   &Dispatcher{queue: q, collector: col, log: log},
	}, nil
}

// Dispatcher returns the producer-facing enqueue binding. Safe on a nil
// Pipeline, returning a nil (no-op) Dispatcher.
func (p *Pipeline) Dispatcher() *Dispatcher {
	if p == nil {
		return nil
	}
	return p.disp
}

// Run starts the delivery worker and blocks until ctx is cancelled.
// Safe on a nil Pipeline, returning immediately.
func (p *Pipeline) Run(ctx context.Context) {
	if p == nil {
		return
	}
	p.worker.Run(ctx)
}
