package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/mapping"
)

// Option configures Mount.
type Option func(*mountConfig)

type mountConfig struct {
	middlewares []func(http.Handler) http.Handler
	logger      *slog.Logger
}

// WithMiddleware wraps every service handler with mws, outermost first.
// The registry and forms routes are not wrapped.
func WithMiddleware(mws ...func(http.Handler) http.Handler) Option {
	return func(c *mountConfig) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *mountConfig) {
		c.logger = logger
	}
}

type routeKey struct{}

// RouteFromContext returns the route a request was dispatched through.
func RouteFromContext(ctx context.Context) (mapping.Route, bool) {
	route, ok := ctx.Value(routeKey{}).(mapping.Route)
	return route, ok
}

// Normalize returns path in router form, with a leading "/".
func Normalize(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// Patterns maps the router pattern of every service route in table to its
// registry key.
func Patterns(table *mapping.Table) map[string]string {
	out := make(map[string]string, table.Len())
	for _, route := range table.Routes() {
		if route.Kind == mapping.KindService {
			out[Normalize(route.Path)] = route.Service
		}
	}
	return out
}

type binding struct {
	pattern string
	methods []string
	handler http.Handler
}

// Mount registers every route of table on r.
//
// Handler references are resolved first; an unresolvable reference fails
// with E140 and nothing is registered. Service paths that collide once
// normalized fail with a *mapping.DuplicatePathError.
func Mount(r chi.Router, table *mapping.Table, resolver HandlerResolver, opts ...Option) error {
	cfg := mountConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var bindings []binding
	seen := make(map[string]struct{}, table.Len())
	add := func(b binding, owner string) error {
		if _, dup := seen[b.pattern]; dup {
			return &mapping.DuplicatePathError{Path: b.pattern, Service: owner}
		}
		seen[b.pattern] = struct{}{}
		bindings = append(bindings, b)
		return nil
	}

	pages := newForms(table)
	for _, route := range table.Routes() {
		switch route.Kind {
		case mapping.KindService:
			pattern := Normalize(route.Path)
			if strings.ContainsAny(pattern, "{}*") {
				return errors.New("E131").
					WithKey("services." + route.Service + ".path").
					WithDetailf("path %q contains router metacharacters", route.Path)
			}
			h, err := resolver.Resolve(route.Handler)
			if err != nil {
				return errors.New("E140").
					WithKey("services." + route.Service + ".service").
					WithDetail(err.Error()).
					WithSuggestion("Register a handler for " + route.Handler).
					Wrap(err)
			}
			for i := len(cfg.middlewares) - 1; i >= 0; i-- {
				h = cfg.middlewares[i](h)
			}
			if err := add(binding{pattern: pattern, handler: withRoute(route, h)}, route.Service); err != nil {
				return err
			}

		case mapping.KindRegistry:
			h := withRoute(route, directoryHandler(table.Directory()))
			if err := add(binding{pattern: route.Path, methods: []string{http.MethodGet}, handler: h}, route.Kind.String()); err != nil {
				return err
			}

		case mapping.KindFormsIndex:
			h := withRoute(route, http.HandlerFunc(pages.index))
			for _, p := range []string{route.Path, route.Path + "/"} {
				if err := add(binding{pattern: p, methods: []string{http.MethodGet}, handler: h}, route.Kind.String()); err != nil {
					return err
				}
			}

		case mapping.KindFormsService:
			h := withRoute(route, http.HandlerFunc(pages.service))
			if err := add(binding{pattern: route.Path, methods: []string{http.MethodGet}, handler: h}, route.Kind.String()); err != nil {
				return err
			}
		}
	}

	for _, b := range bindings {
		if len(b.methods) == 0 {
			r.Handle(b.pattern, b.handler)
			continue
		}
		for _, m := range b.methods {
			r.Method(m, b.pattern, b.handler)
		}
	}
	cfg.logger.Debug("Service routes mounted.", "routes", len(bindings))
	return nil
}

func withRoute(route mapping.Route, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeKey{}, route)))
	})
}

func directoryHandler(dir *mapping.Directory) http.Handler {
	body, err := json.Marshal(dir)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})
}
