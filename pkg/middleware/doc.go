// Package middleware provides HTTP middleware for the preview server.
//
// # Prometheus Metrics
//
// Collect request counts and latency by route:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(
//	    middleware.WithNamespace("elkit"),
//	))
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry Tracing
//
// Start a server span per request, using the global tracer provider:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("elkit"),
//	))
//
// Both middlewares label requests with the chi route pattern when one is
// available, so path parameters do not create new series.
package middleware
