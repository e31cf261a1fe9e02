// Package frame provides next-frame scheduling.
//
// A Scheduler collects callbacks and fires them together at the next frame,
// in request order. Callbacks requested while a frame is firing wait for the
// following frame. Loop drives frames from a ticker; Manual fires them on
// demand and is meant for tests.
package frame

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// ID identifies a requested callback. The zero ID is never issued.
type ID uint64

// Callback receives the frame timestamp.
type Callback func(now time.Time)

// Scheduler schedules callbacks for the next frame.
type Scheduler interface {
	// RequestFrame schedules fn for the next frame.
	RequestFrame(fn Callback) ID

	// CancelFrame removes a callback that has not fired yet. It reports
	// whether the callback was still pending.
	CancelFrame(id ID) bool
}

type entry struct {
	id ID
	fn Callback
}

// queue is the pending callback list shared by the schedulers.
type queue struct {
	mu      sync.Mutex
	lastID  ID
	pending []entry
	logger  *slog.Logger
}

func (q *queue) RequestFrame(fn Callback) ID {
	if fn == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lastID++
	q.pending = append(q.pending, entry{id: q.lastID, fn: fn})
	return q.lastID
}

func (q *queue) CancelFrame(id ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.pending {
		if e.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of callbacks waiting for the next frame.
func (q *queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// fire runs the callbacks pending when it is called and returns how many ran.
func (q *queue) fire(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, e := range batch {
		q.safeCall(e, now)
	}
	return len(batch)
}

func (q *queue) safeCall(e entry, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			q.log().Error("frame callback panic",
				"panic", r,
				"frame_id", uint64(e.id),
				"stack", string(debug.Stack()))
		}
	}()
	e.fn(now)
}

func (q *queue) log() *slog.Logger {
	if q.logger == nil {
		return slog.Default()
	}
	return q.logger
}
