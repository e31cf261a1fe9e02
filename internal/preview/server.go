// Package preview serves a layout as a live page.
//
// The page root is flushed through a batch wrapper on a frame loop. New
// nodes posted to the server are appended at the next frame and pushed to
// connected browsers by the live hub. Every read or write of the page tree
// happens on the loop goroutine.
package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/elkit/internal/errors"
	"github.com/vango-dev/elkit/pkg/batch"
	"github.com/vango-dev/elkit/pkg/dom"
	"github.com/vango-dev/elkit/pkg/element"
	"github.com/vango-dev/elkit/pkg/frame"
	"github.com/vango-dev/elkit/pkg/layout"
	"github.com/vango-dev/elkit/pkg/live"
	"github.com/vango-dev/elkit/pkg/metrics"
	"github.com/vango-dev/elkit/pkg/middleware"
	"github.com/vango-dev/elkit/pkg/render"
)

// RootID is the id of the element that holds the page content.
const RootID = "root"

// maxBodySize bounds POST /nodes payloads.
const maxBodySize = 1 << 20

// Options configures a Server.
type Options struct {
	// Layout is built into the page root at startup. May be nil.
	Layout *layout.Document

	// Renderer renders pages and patches. Default: compact output.
	Renderer *render.Renderer

	// FPS is the frame loop rate. Default: frame.DefaultFPS.
	FPS int

	// Namespace is the metrics namespace. Default: "elkit".
	Namespace string

	// Registry receives the collectors and backs GET /metrics.
	// Default: a new registry.
	Registry *prometheus.Registry

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

// Server is the preview server.
type Server struct {
	doc      *dom.Document
	root     *dom.Element
	title    string
	handler  *element.Handler
	wrapper  *batch.Wrapper
	loop     *frame.Loop
	hub      *live.Hub
	renderer *render.Renderer
	registry *prometheus.Registry
	logger   *slog.Logger
	router   chi.Router

	httpServer *http.Server
}

// New creates a Server and builds opts.Layout into the page root.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer(render.Config{})
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Namespace == "" {
		opts.Namespace = "elkit"
	}
	logger := opts.Logger.With("component", "preview")

	m := metrics.New(metrics.WithRegistry(opts.Registry), metrics.WithNamespace(opts.Namespace))
	doc := dom.NewDocument()
	loop := frame.NewLoop(frame.WithFPS(opts.FPS), frame.WithLogger(logger))
	hub := live.NewHub(opts.Renderer, logger)

	s := &Server{
		doc:      doc,
		handler:  element.NewHandler(doc, element.WithLogger(logger), element.WithMetrics(m)),
		wrapper:  batch.New(doc, loop, batch.WithLogger(logger), batch.WithMetrics(m)),
		loop:     loop,
		hub:      hub,
		renderer: opts.Renderer,
		registry: opts.Registry,
		logger:   logger,
	}
	s.wrapper.OnFlush(hub.FlushHook())

	root, err := s.handler.Create(&element.Config{Type: "main", ID: RootID})
	if err != nil {
		return nil, err
	}
	s.root = root

	if opts.Layout != nil {
		s.title = opts.Layout.Title
		els, err := opts.Layout.Build(s.handler)
		if err != nil {
			return nil, err
		}
		for _, el := range els {
			if err := root.AppendChild(el); err != nil {
				return nil, errors.New("E014").WithOp("appendChild").Wrap(err)
			}
		}
	}

	s.router = s.routes(opts.Namespace)
	return s, nil
}

func (s *Server) routes(namespace string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Prometheus(middleware.WithRegistry(s.registry), middleware.WithNamespace(namespace)))
	r.Use(middleware.OpenTelemetry())

	r.Get("/", s.handlePage)
	r.Post("/nodes", s.handleNodes)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get(live.DefaultPath, s.hub.HandleWebSocket)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Wrapper returns the batch wrapper that feeds the page root.
func (s *Server) Wrapper() *batch.Wrapper { return s.wrapper }

// Hub returns the live hub.
func (s *Server) Hub() *live.Hub { return s.hub }

// Run starts the frame loop. It blocks until ctx is done or Close is
// called.
func (s *Server) Run(ctx context.Context) error {
	return s.loop.Run(ctx)
}

// inFrame runs fn on the loop goroutine and waits for it.
func (s *Server) inFrame(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	id := s.loop.RequestFrame(func(time.Time) {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.loop.CancelFrame(id)
		return ctx.Err()
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var (
		buf bytes.Buffer
		err error
	)
	if ferr := s.inFrame(r.Context(), func() {
		err = s.renderer.RenderPage(&buf, render.PageData{
			Title:    s.title,
			Body:     []dom.Node{s.root},
			LivePath: live.DefaultPath,
		})
	}); ferr != nil {
		http.Error(w, ferr.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// nodeResponse is the body returned by POST /nodes.
type nodeResponse struct {
	ID    string   `json:"id"`
	Frame frame.ID `json:"frame"`
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	block, err := layout.DecodeBlock(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	el, err := block.Build(s.handler)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.wrapper.Add(el)
	id := s.wrapper.Flush(s.root, nil)
	s.logger.Debug("node queued", "id", el.ID(), "frame", uint64(id))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(nodeResponse{ID: el.ID(), Frame: id})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(errors.FromError(err, "E022").FormatJSON()))
}

// ListenAndServe serves on addr and runs the frame loop until ctx is done,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		s.logger.Info("preview server starting", "address", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()
	go func() {
		if err := s.loop.Run(ctx); err != nil && err != context.Canceled {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			s.Close()
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops the HTTP server, the live hub and the frame loop.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.hub.Close()
	s.loop.Close()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("preview server shutdown complete")
	return nil
}

// Close stops the live hub and the frame loop.
func (s *Server) Close() {
	s.hub.Close()
	s.loop.Close()
}
