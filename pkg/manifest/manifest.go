package manifest

import (
	"log/slog"

	"github.com/vango-dev/servicelayer/pkg/registry"
)

// Options are the client-side options computed for a service.
type Options struct {
	// Caching mirrors the resolved caching profile's local activation.
	Caching bool `json:"caching"`
}

// Entry describes one visible service.
type Entry struct {
	Name    string                `json:"name"`
	URL     string                `json:"url"`
	Service registry.ServiceEntry `json:"service"`
	Options Options               `json:"options"`
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger *slog.Logger
	debug  bool
}

// WithLogger sets the logger used for diagnostic tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// WithDebug forces diagnostic tracing on or off, overriding the registry's
// debug flag.
func WithDebug(debug bool) Option {
	return func(c *buildConfig) {
		c.debug = debug
	}
}

// Build returns the services visible to a caller, in registry order.
func Build(reg *registry.Registry, isAdmin bool, opts ...Option) []Entry {
	cfg := buildConfig{logger: slog.Default(), debug: reg.Debug()}
	for _, opt := range opts {
		opt(&cfg)
	}
	trace := func(msg string, args ...any) {
		if cfg.debug {
			cfg.logger.Debug(msg, args...)
		}
	}

	trace("Generating services manifest.", "services", reg.Len(), "admin", isAdmin)

	entries := make([]Entry, 0, reg.Len())
	for _, svc := range reg.Services() {
		if !svc.Entry.Enabled {
			trace("Service is disabled.", "service", svc.Name)
			continue
		}

		secKey, security := reg.ResolveSecurity(svc.Entry)
		cacheKey, caching := reg.ResolveCaching(svc.Entry)
		if secKey != svc.Entry.SecurityProfile || cacheKey != svc.Entry.CachingProfile {
			trace("Using default profile.", "service", svc.Name, "security", secKey, "caching", cacheKey)
		}

		entry := Entry{
			Name:    svc.Name,
			URL:     reg.EndpointURL(svc.Name),
			Service: svc.Entry,
			Options: Options{Caching: caching.ActivateLocal},
		}

		switch security.Exposure {
		case registry.ExposeAll:
			trace("Service is exposed publicly.", "service", svc.Name)
			entries = append(entries, entry)
		case registry.ExposeAdmin:
			if !isAdmin {
				trace("Service is exposed to admins only, caller is not an admin.", "service", svc.Name)
				continue
			}
			trace("Service is exposed to admins only, caller is an admin.", "service", svc.Name)
			entries = append(entries, entry)
		default:
			trace("Service is not exposed.", "service", svc.Name)
		}
	}

	trace("Services manifest generated.", "visible", len(entries))
	return entries
}
