package batch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/elkit/pkg/dom"
	"github.com/vango-dev/elkit/pkg/frame"
	"github.com/vango-dev/elkit/pkg/metrics"
)

type fixture struct {
	doc    *dom.Document
	sched  *frame.Manual
	w      *Wrapper
	log    *bytes.Buffer
	target *dom.Element
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	doc := dom.NewDocument()
	sched := frame.NewManual(logger)
	target, err := doc.CreateElement("body")
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	return &fixture{
		doc:    doc,
		sched:  sched,
		w:      New(doc, sched, opts...),
		log:    &buf,
		target: target,
	}
}

func (f *fixture) el(t *testing.T, id string) *dom.Element {
	t.Helper()
	el, err := f.doc.CreateElement("div")
	if err != nil {
		t.Fatal(err)
	}
	el.SetID(id)
	return el
}

func ids(els []*dom.Element) string {
	var out []string
	for _, el := range els {
		out = append(out, el.ID())
	}
	return strings.Join(out, ",")
}

func TestAddAndPeek(t *testing.T) {
	f := newFixture(t)

	f.w.Add(f.el(t, "a"))
	f.w.Add(f.doc.CreateTextNode("ignored"))
	f.w.Add(nil)
	var typedNil *dom.Element
	f.w.Add(typedNil)
	f.w.Add(f.el(t, "b"))

	frag := f.w.Peek()
	if got := ids(frag.Children()); got != "a,b" {
		t.Errorf("fragment = %q, want a,b", got)
	}
	if f.w.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", f.w.Pending())
	}

	f.w.Add(f.el(t, "c"))
	if got := ids(frag.Children()); got != "a,b,c" {
		t.Errorf("Peek reference is not live: %q", got)
	}
}

func TestFlushIsDeferred(t *testing.T) {
	f := newFixture(t)
	f.w.Add(f.el(t, "n1"))
	f.w.Add(f.el(t, "n2"))

	id := f.w.Flush(f.target, nil)
	if id == 0 {
		t.Fatal("Flush returned 0 for a valid target")
	}
	if len(f.target.Children()) != 0 {
		t.Fatal("target changed before the frame fired")
	}

	f.sched.Advance(time.Now())
	if got := ids(f.target.Children()); got != "n1,n2" {
		t.Errorf("target = %q, want n1,n2", got)
	}
	if f.w.Pending() != 0 {
		t.Errorf("Pending() after flush = %d, want 0", f.w.Pending())
	}
}

func TestFlushReadsFragmentAtFireTime(t *testing.T) {
	f := newFixture(t)
	f.w.Add(f.el(t, "n1"))
	f.w.Add(f.el(t, "n2"))

	f.w.Flush(f.target, nil)
	f.w.Clear()
	f.w.Add(f.el(t, "n3"))

	f.sched.Advance(time.Now())
	if got := ids(f.target.Children()); got != "n3" {
		t.Errorf("target = %q, want n3", got)
	}
}

func TestFlushExplicitChild(t *testing.T) {
	f := newFixture(t)
	f.w.Add(f.el(t, "pending"))
	x := f.el(t, "x")

	f.w.Flush(f.target, x)
	f.sched.Advance(time.Now())

	if got := ids(f.target.Children()); got != "x" {
		t.Errorf("target = %q, want x", got)
	}
	if f.w.Pending() != 1 {
		t.Errorf("fragment was flushed with an explicit child")
	}
}

func TestFlushNilTarget(t *testing.T) {
	f := newFixture(t)
	f.w.Add(f.el(t, "a"))

	if id := f.w.Flush(nil, nil); id != 0 {
		t.Errorf("Flush(nil) = %d, want 0", id)
	}
	if f.sched.Pending() != 0 {
		t.Errorf("scheduled %d frames, want 0", f.sched.Pending())
	}
	if !strings.Contains(f.log.String(), "diagnostic.code=E013") {
		t.Errorf("missing E013 diagnostic:\n%s", f.log.String())
	}
}

func TestSecondFlushMovesNothing(t *testing.T) {
	f := newFixture(t)
	other := f.el(t, "other")
	f.w.Add(f.el(t, "a"))

	var moved []int
	f.w.OnFlush(func(_ *dom.Element, n int) { moved = append(moved, n) })

	f.w.Flush(f.target, nil)
	f.w.Flush(other, nil)
	f.sched.Advance(time.Now())

	if got := ids(f.target.Children()); got != "a" {
		t.Errorf("target = %q, want a", got)
	}
	if len(other.Children()) != 0 {
		t.Errorf("second target got %d children, want 0", len(other.Children()))
	}
	if len(moved) != 2 || moved[0] != 1 || moved[1] != 0 {
		t.Errorf("moved = %v, want [1 0]", moved)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	f.w.Add(f.el(t, "a"))

	id := f.w.Flush(f.target, nil)
	if !f.w.Cancel(id) {
		t.Fatal("Cancel(pending) = false")
	}
	if f.w.Cancel(id) {
		t.Error("Cancel twice = true")
	}
	if f.w.Cancel(0) {
		t.Error("Cancel(0) = true")
	}

	f.sched.Advance(time.Now())
	if len(f.target.Children()) != 0 {
		t.Error("canceled flush fired")
	}
	if f.w.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.w.Pending())
	}
}

func TestClearDetachesOldFragment(t *testing.T) {
	f := newFixture(t)
	f.w.Add(f.el(t, "a"))
	old := f.w.Peek()

	f.w.Clear()
	if f.w.Peek() == old {
		t.Error("Clear did not replace the fragment")
	}
	if old.Len() != 1 {
		t.Errorf("old fragment Len() = %d, want 1", old.Len())
	}
	if f.w.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.w.Pending())
	}
}

func TestClearReleasesNodes(t *testing.T) {
	f := newFixture(t)
	var collected atomic.Int32

	func() {
		for i := 0; i < 50; i++ {
			el := f.el(t, fmt.Sprintf("n%d", i))
			runtime.SetFinalizer(el, func(*dom.Element) { collected.Add(1) })
			f.w.Add(el)
		}
	}()
	f.w.Clear()

	deadline := time.Now().Add(5 * time.Second)
	for collected.Load() < 50 {
		if time.Now().After(deadline) {
			t.Fatalf("collected %d of 50 cleared nodes", collected.Load())
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWrapperMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("t"))
	f := newFixture(t, WithMetrics(m))

	f.w.Add(f.el(t, "a"))
	f.w.Add(f.el(t, "b"))
	assertPending(t, reg, 2)

	f.w.Cancel(f.w.Flush(f.target, nil))
	f.w.Flush(f.target, nil)
	f.sched.Advance(time.Now())

	want := `
# HELP t_flushes_total Total number of flushes, by outcome
# TYPE t_flushes_total counter
t_flushes_total{outcome="canceled"} 1
t_flushes_total{outcome="fired"} 1
t_flushes_total{outcome="scheduled"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "t_flushes_total"); err != nil {
		t.Error(err)
	}
	assertPending(t, reg, 0)
}

func assertPending(t *testing.T, reg *prometheus.Registry, want int) {
	t.Helper()
	expected := fmt.Sprintf(`
# HELP t_batch_pending_nodes Nodes waiting in batch fragments
# TYPE t_batch_pending_nodes gauge
t_batch_pending_nodes %d
`, want)
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "t_batch_pending_nodes"); err != nil {
		t.Error(err)
	}
}

type recordedSpan struct {
	noop.Span
	name  string
	attrs map[attribute.Key]attribute.Value
	ended bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) End(...trace.SpanEndOption) { s.ended = true }

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	s := &recordedSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	r.spans = append(r.spans, s)
	return ctx, s
}

func TestFlushSpans(t *testing.T) {
	tracer := &recordingTracer{}
	f := newFixture(t, WithTracer(tracer))

	f.w.Add(f.el(t, "a"))
	f.w.Add(f.el(t, "b"))
	f.w.Flush(f.target, nil)
	f.w.Flush(f.target, f.el(t, "x"))
	f.sched.Advance(time.Now())

	if len(tracer.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(tracer.spans))
	}
	tests := []struct {
		nodes    int64
		explicit bool
	}{
		{2, false},
		{1, true},
	}
	for i, tt := range tests {
		s := tracer.spans[i]
		if s.name != "elkit.batch.flush" || !s.ended {
			t.Errorf("span %d = %q ended=%v", i, s.name, s.ended)
		}
		if got := s.attrs["elkit.flush.nodes"].AsInt64(); got != tt.nodes {
			t.Errorf("span %d nodes = %d, want %d", i, got, tt.nodes)
		}
		if got := s.attrs["elkit.flush.explicit"].AsBool(); got != tt.explicit {
			t.Errorf("span %d explicit = %v, want %v", i, got, tt.explicit)
		}
	}
}
