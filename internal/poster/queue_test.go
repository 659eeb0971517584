package poster

import (
	"testing"
	"time"

	"github.com/wxrelay/wxrelay/internal/wx"
)

func rec(temp float64) wx.Record {
	return wx.Record{
		Time:   time.Now(),
		Units:  wx.US,
		Values: map[string]float64{"outTemp": temp},
	}
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Enqueue(rec(float64(i)))
	}
	if q.Len() != 5 {
		t.Fatalf("Len = %d, want 5", q.Len())
	}
	for i := 0; i < 5; i++ {
		e, ok := q.Dequeue(time.Millisecond)
		if !ok {
			t.Fatalf("Dequeue[%d]: queue empty", i)
		}
		if got := e.Record.Values["outTemp"]; got != float64(i) {
			t.Errorf("Dequeue[%d] = %v, want %d", i, got, i)
		}
		if e.Queued.IsZero() {
			t.Errorf("Dequeue[%d]: zero Queued time", i)
		}
	}
}

func TestQueue_DequeueTimeout(t *testing.T) {
	q := NewQueue()
	start := time.Now()
	_, ok := q.Dequeue(30 * time.Millisecond)
	if ok {
		t.Fatal("Dequeue on empty queue returned ok")
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Dequeue returned after %v, want >= 30ms", elapsed)
	}
}

func TestQueue_EnqueueWakesWaiter(t *testing.T) {
	q := NewQueue()

	got := make(chan Entry, 1)
	go func() {
		if e, ok := q.Dequeue(2 * time.Second); ok {
			got <- e
		}
	}()

	// Let the consumer block first.
	time.Sleep(20 * time.Millisecond)
	q.Enqueue(rec(42))

	select {
	case e := <-got:
		if e.Record.Values["outTemp"] != 42 {
			t.Errorf("got %v, want 42", e.Record.Values["outTemp"])
		}
	case <-time.After(time.Second):
		t.Fatal("waiting consumer was not woken by enqueue")
	}
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 4; i++ {
		q.Enqueue(rec(float64(i)))
	}

	part := q.Drain(3)
	if len(part) != 3 {
		t.Fatalf("Drain(3) returned %d entries", len(part))
	}
	for i, e := range part {
		if got := e.Record.Values["outTemp"]; got != float64(i) {
			t.Errorf("part[%d] = %v, want %d", i, got, i)
		}
	}

	rest := q.Drain(0)
	if len(rest) != 1 || rest[0].Record.Values["outTemp"] != 3 {
		t.Errorf("Drain(0) after partial drain = %v entries", len(rest))
	}

	if q.Drain(0) != nil {
		t.Error("Drain on empty queue should return nil")
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d after full drain", q.Len())
	}
}
