package poster

import (
	"log/slog"

	"github.com/wxrelay/wxrelay/internal/metrics"
	"github.com/wxrelay/wxrelay/internal/wx"
)

// Dispatcher binds producer record events to the posting queue. A nil
// Dispatcher is the disabled pipeline: OnRecord becomes a no-op, so a
// producer wired before a fatal configuration error costs nothing.
type Dispatcher struct {
	queue     *Queue
	collector *metrics.Collector
	log       *slog.Logger
}

// OnRecord enqueues one new record. It performs no I/O, cannot fail, and
// returns immediately; a slow or unreachable device never stalls the caller.
func (d *Dispatcher) OnRecord(rec wx.Record) {
	if d == nil || d.queue == nil {
		return
	}
	d.queue.Enqueue(rec)
	d.collector.RecordEnqueue()
	d.collector.SetQueueDepth(d.queue.Len())
	d.log.Debug("record queued", "time", rec.Time, "fields", len(rec.Values))
}
