package frame

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultFPS is the frame rate of a Loop without WithFPS.
const DefaultFPS = 60

// Loop fires pending callbacks on every tick of a ticker.
type Loop struct {
	queue

	interval  time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFPS sets the frame rate. Values below 1 are ignored.
func WithFPS(fps int) LoopOption {
	return func(l *Loop) {
		if fps > 0 {
			l.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithLogger sets the logger for recovered callback panics.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a Loop. Call Run to start it.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		interval: time.Second / DefaultFPS,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration { return l.interval }

// Run fires frames until ctx is done or Close is called. It returns
// ctx.Err() when the context ends and nil after Close.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.fire(now)
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		}
	}
}

// Close stops Run. Pending callbacks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}
