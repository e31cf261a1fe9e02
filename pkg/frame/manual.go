package frame

import (
	"log/slog"
	"time"
)

var (
	_ Scheduler = (*Loop)(nil)
	_ Scheduler = (*Manual)(nil)
)

// Manual is a Scheduler whose frames fire only when Advance is called.
type Manual struct {
	queue
}

// NewManual creates a Manual scheduler. A nil logger uses slog.Default().
func NewManual(logger *slog.Logger) *Manual {
	m := &Manual{}
	m.logger = logger
	return m
}

// Advance fires one frame at now and returns the number of callbacks run.
func (m *Manual) Advance(now time.Time) int {
	return m.fire(now)
}
