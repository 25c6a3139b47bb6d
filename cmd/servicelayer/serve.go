package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/auth"
	"github.com/vango-dev/servicelayer/pkg/dispatch"
	"github.com/vango-dev/servicelayer/pkg/manifest"
	"github.com/vango-dev/servicelayer/pkg/mapping"
	"github.com/vango-dev/servicelayer/pkg/middleware"
	"github.com/vango-dev/servicelayer/pkg/registry"
)

type serveOptions struct {
	routes          routesOptions
	addr            string
	manifestPath    string
	metricsPath     string
	adminHeader     string
	adminTokens     []string
	shutdownTimeout time.Duration
}

func serveCmd(g *globals) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing table over HTTP",
		Long: `Mount the routing table on an HTTP router and serve it.

Every service reference resolves to a built-in echo handler that reports the
route it was reached through, which makes serve useful for checking a
registry document end to end. The manifest is served at --manifest-path for
the calling principal: requests whose --admin-header carries one of the
--admin-token values are administrators.

Examples:
  servicelayer serve
  servicelayer serve --addr :9000 --admin-token ops=s3cr3t`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			table, err := mapping.Build(reg, opts.routes.mappingOptions(cmd, g)...)
			if err != nil {
				return err
			}
			h, err := newServer(g.logger, reg, table, opts, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			return run(cmd.Context(), g.logger, opts, h)
		},
	}

	opts.routes.bind(cmd)
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "Address to listen on")
	f.StringVar(&opts.manifestPath, "manifest-path", "/_api/manifest", "Path serving the client manifest")
	f.StringVar(&opts.metricsPath, "metrics-path", "/metrics", "Path serving Prometheus metrics (empty disables it)")
	f.StringVar(&opts.adminHeader, "admin-header", "X-Admin-Token", "Header carrying an administrator token")
	f.StringArrayVar(&opts.adminTokens, "admin-token", nil, "Administrator token, as id=token or token (repeatable)")
	f.DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 10*time.Second, "Time allowed for in-flight requests on shutdown")

	return cmd
}

// adminPrincipals turns the --admin-token values into principals with the
// admin role.
func adminPrincipals(tokens []string) map[string]auth.Principal {
	out := make(map[string]auth.Principal, len(tokens))
	for i, t := range tokens {
		id, token, ok := strings.Cut(t, "=")
		if !ok {
			id, token = fmt.Sprintf("admin-%d", i+1), t
		}
		if token == "" {
			continue
		}
		out[token] = auth.Principal{ID: id, Roles: []string{auth.DefaultAdminRole}}
	}
	return out
}

func newServer(logger *slog.Logger, reg *registry.Registry, table *mapping.Table, opts serveOptions, promReg *prometheus.Registry) (http.Handler, error) {
	reserved := []string{opts.manifestPath}
	if opts.metricsPath != "" {
		reserved = append(reserved, opts.metricsPath)
	}
	for _, route := range table.Routes() {
		for _, p := range reserved {
			if dispatch.Normalize(route.Path) == p {
				owner := route.Service
				if owner == "" {
					owner = route.Kind.String()
				}
				return nil, &mapping.DuplicatePathError{Path: p, Service: owner}
			}
		}
	}
	if !strings.HasPrefix(opts.manifestPath, "/") {
		return nil, errors.New("E150").
			WithKey("--manifest-path").
			WithDetailf("path %q must start with /", opts.manifestPath)
	}

	patterns := dispatch.Patterns(table)
	service := func(pattern string) string { return patterns[pattern] }

	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		logRequests(logger),
		chimw.Recoverer,
		middleware.OpenTelemetry(middleware.WithSpanService(service)),
		middleware.Prometheus(middleware.WithRegistry(promReg), middleware.WithServiceLabel(service)),
		auth.TokenMiddleware(opts.adminHeader, adminPrincipals(opts.adminTokens)),
	)

	r.Method(http.MethodGet, opts.manifestPath, manifest.Handler(reg, auth.RoleChecker{}, manifest.WithLogger(logger)))
	if opts.metricsPath != "" {
		r.Method(http.MethodGet, opts.metricsPath, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	}
	if err := dispatch.Mount(r, table, dispatch.Fallback(echoHandler()), dispatch.WithLogger(logger)); err != nil {
		return nil, err
	}
	return r, nil
}

func run(ctx context.Context, logger *slog.Logger, opts serveOptions, h http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving service routes.", "addr", opts.addr, "manifest", opts.manifestPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// logRequests logs one line per request once it completes.
func logRequests(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
