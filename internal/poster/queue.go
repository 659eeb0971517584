package poster

import (
	"sync"
	"time"

	"github.com/wxrelay/wxrelay/internal/wx"
)

// Entry is one queued record plus its enqueue time.
type Entry struct {
	Record wx.Record
	Queued time.Time
}

// Queue is an unbounded FIFO handoff between the producer and the delivery
// worker. Enqueue never blocks beyond the internal lock; Dequeue blocks the
// worker with a timeout so it can poll for shutdown. Safe for one producer
// and one consumer running concurrently.
type Queue struct {
	mu      sync.Mutex
	entries []Entry

	// wake has capacity 1: a pending signal means "entries may be non-empty".
	wake chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Enqueue appends rec to the queue and returns immediately.
func (q *Queue) Enqueue(rec wx.Record) {
	q.mu.Lock()
	q.entries = append(q.entries, Entry{Record: rec, Queued: time.Now()})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the oldest entry, blocking up to timeout when
// the queue is empty. ok is false if the timeout elapsed with nothing queued.
func (q *Queue) Dequeue(timeout time.Duration) (e Entry, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.entries) > 0 {
			e = q.entries[0]
			q.entries = q.entries[1:]
			q.mu.Unlock()
			return e, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-timer.C:
			return Entry{}, false
		}
	}
}

// Drain removes and returns all currently queued entries in FIFO order,
// without blocking. With max > 0 at most max entries are removed.
func (q *Queue) Drain(max int) []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.entries)
	if n == 0 {
		return nil
	}
	if max > 0 && n > max {
		n = max
	}
	out := make([]Entry, n)
	copy(out, q.entries[:n])
	q.entries = q.entries[n:]
	return out
}

// Len reports the number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
