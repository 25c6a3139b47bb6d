// Package middleware provides HTTP middleware for servicelayer routers.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware
//
// Both are plain func(http.Handler) http.Handler values and can be installed
// with chi's Use, or on service routes only with dispatch.WithMiddleware.
// They label requests by chi route pattern, so they must run inside a chi
// router.
//
// # OpenTelemetry Middleware
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("gateway"),
//	))
//
// The tracer comes from the global OpenTelemetry provider unless
// WithTracerProvider is given. Incoming trace context is extracted with the
// global propagator.
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - servicelayer_requests_total: requests by route, service and status
//   - servicelayer_request_duration_seconds: request duration histogram
//   - servicelayer_requests_in_flight: requests currently being served
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(
//	    middleware.WithRegistry(reg),
//	    middleware.WithServiceLabel(func(pattern string) string {
//	        return patterns[pattern]
//	    }),
//	))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package middleware
