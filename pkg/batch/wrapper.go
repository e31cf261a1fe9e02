// Package batch defers attaching nodes to the visible tree until the next
// frame, so many additions cost a single attachment.
//
// A Wrapper collects nodes into a detached fragment. Flush schedules the
// fragment (or one explicit node) to be appended to a target element when
// the scheduler fires the next frame. The fragment is read at that moment,
// not when Flush is called, so nodes added or cleared in between are
// reflected:
//
//	w := batch.New(doc, loop)
//	w.Add(row1)
//	w.Add(row2)
//	w.Flush(tbody, nil) // both rows are appended at the next frame
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/elkit/internal/errors"
	"github.com/vango-dev/elkit/pkg/dom"
	"github.com/vango-dev/elkit/pkg/frame"
	"github.com/vango-dev/elkit/pkg/metrics"
)

const defaultTracerName = "elkit"

// FlushFunc observes a fired flush. moved is the number of nodes appended.
type FlushFunc func(target *dom.Element, moved int)

// Wrapper owns one fragment and flushes it to targets at the next frame.
// It is safe for concurrent use.
type Wrapper struct {
	doc   *dom.Document
	sched frame.Scheduler

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu       sync.Mutex
	frag     *dom.Fragment
	reported int
	onFlush  []FlushFunc
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wrapper) {
		w.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Wrapper) {
		w.metrics = m
	}
}

// WithTracer sets the tracer for flush spans. The default uses the global
// OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(w *Wrapper) {
		w.tracer = tracer
	}
}

// New creates a Wrapper with an empty fragment from doc. Flushes are
// scheduled on sched.
func New(doc *dom.Document, sched frame.Scheduler, opts ...Option) *Wrapper {
	w := &Wrapper{
		doc:    doc,
		sched:  sched,
		logger: slog.Default(),
		frag:   doc.CreateFragment(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.tracer == nil {
		w.tracer = otel.Tracer(defaultTracerName)
	}
	return w
}

// Add appends node to the fragment. Only elements are accepted; other nodes
// are ignored.
func (w *Wrapper) Add(node dom.Node) {
	el, ok := node.(*dom.Element)
	if !ok || el == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.frag.AppendChild(el); err != nil {
		w.diagnose("E014", "add", "error", err)
		return
	}
	w.syncPendingLocked()
}

// Clear replaces the fragment with a new empty one. Nodes in the old
// fragment stay there, detached.
func (w *Wrapper) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frag = w.doc.CreateFragment()
	w.syncPendingLocked()
}

// Peek returns the current fragment. The reference is live: later Adds are
// visible through it until the next Clear.
func (w *Wrapper) Peek() *dom.Fragment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frag
}

// Pending returns the number of nodes in the current fragment.
func (w *Wrapper) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frag.Len()
}

// OnFlush registers fn to run after every fired flush.
func (w *Wrapper) OnFlush(fn FlushFunc) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFlush = append(w.onFlush, fn)
}

// Flush schedules an append onto target at the next frame: child when it is
// non-nil, otherwise whatever the fragment holds when the frame fires. A nil
// target logs a diagnostic and schedules nothing, returning 0.
func (w *Wrapper) Flush(target, child *dom.Element) frame.ID {
	if target == nil {
		w.diagnose("E013", "flush")
		return 0
	}
	id := w.sched.RequestFrame(func(now time.Time) {
		w.fire(now, target, child)
	})
	w.metrics.Flush(metrics.OutcomeScheduled)
	return id
}

// Cancel withdraws a flush that has not fired yet. It reports whether the
// flush was still pending.
func (w *Wrapper) Cancel(id frame.ID) bool {
	if id == 0 || !w.sched.CancelFrame(id) {
		return false
	}
	w.metrics.Flush(metrics.OutcomeCanceled)
	return true
}

func (w *Wrapper) fire(now time.Time, target, child *dom.Element) {
	_, span := w.tracer.Start(context.Background(), "elkit.batch.flush",
		trace.WithTimestamp(now),
		trace.WithAttributes(attribute.String("elkit.flush.target", target.ID())),
	)
	defer span.End()

	w.mu.Lock()
	var (
		moved int
		err   error
	)
	if child != nil {
		moved = 1
		err = target.AppendChild(child)
	} else {
		moved = w.frag.Len()
		err = target.AppendChild(w.frag)
	}
	w.syncPendingLocked()
	observers := append([]FlushFunc(nil), w.onFlush...)
	w.mu.Unlock()

	span.SetAttributes(
		attribute.Int("elkit.flush.nodes", moved),
		attribute.Bool("elkit.flush.explicit", child != nil),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.diagnose("E014", "flush", "target", target.ID(), "error", err)
		return
	}
	span.SetStatus(codes.Ok, "")

	w.metrics.Flush(metrics.OutcomeFired)
	w.metrics.FlushNodes(moved)
	for _, fn := range observers {
		fn(target, moved)
	}
}

// syncPendingLocked reports the fragment size change to the pending gauge.
func (w *Wrapper) syncPendingLocked() {
	n := w.frag.Len()
	w.metrics.PendingAdd(n - w.reported)
	w.reported = n
}

func (w *Wrapper) diagnose(code, op string, args ...any) {
	w.metrics.Diagnostic(code)
	errors.Report(w.logger, code, op, args...)
}
