package poster

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wxrelay/wxrelay/internal/config"
	"github.com/wxrelay/wxrelay/internal/metrics"
)

func TestDispatcher_Enqueues(t *testing.T) {
	reg := prometheus.NewRegistry()
	pipe, err := New(config.PostConfig{
		ServerURL:    "http://hub.local/update",
		PostInterval: time.Minute,
	}, metrics.NewCollector(reg), testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	disp := pipe.Dispatcher()
	for i := 0; i < 3; i++ {
		disp.OnRecord(sampleRecord())
	}

	if got := pipe.queue.Len(); got != 3 {
		t.Errorf("queue length = %d, want 3", got)
	}
	if got := counterValue(t, reg, "wxrelay_records_enqueued_total", "", ""); got != 3 {
		t.Errorf("enqueued = %v, want 3", got)
	}
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var disp *Dispatcher
	disp.OnRecord(sampleRecord()) // must not panic
}
