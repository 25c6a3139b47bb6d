package mapping

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/registry"
)

// Kind classifies a route.
type Kind int

const (
	// KindService routes to a service handler.
	KindService Kind = iota
	// KindRegistry serves the service Directory.
	KindRegistry
	// KindFormsIndex renders the Directory as an HTML listing.
	KindFormsIndex
	// KindFormsService renders the form page of one service.
	KindFormsService
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindService:
		return "service"
	case KindRegistry:
		return "registry"
	case KindFormsIndex:
		return "forms"
	case KindFormsService:
		return "forms-service"
	default:
		return "unknown"
	}
}

// ServiceParam is the path parameter naming the service in the per-service
// forms route.
const ServiceParam = "service"

// Route binds a path to a handler reference.
type Route struct {
	// Path is the route in router syntax ("/registry/form/{service}").
	Path string

	// Pattern is the route as a regular expression for regex-based
	// dispatchers. It equals Path for service and registry routes.
	Pattern string

	Kind Kind

	// Service is the registry key of a KindService route.
	Service string

	// Handler is the opaque service reference of a KindService route.
	Handler string
}

// Table is an immutable routing table.
type Table struct {
	routes       []Route
	directory    *Directory
	registryPath string
}

// Routes returns the routes in processing order.
func (t *Table) Routes() []Route {
	return slices.Clone(t.routes)
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Directory returns the definition name to path table of mapped services.
func (t *Table) Directory() *Directory {
	return t.directory
}

// RegistryPath returns the path of the registry route, or "".
func (t *Table) RegistryPath() string {
	return t.registryPath
}

// Lookup returns the route bound to path.
func (t *Table) Lookup(path string) (Route, bool) {
	for _, r := range t.routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	registryPath *string
	forms        bool
	logger       *slog.Logger
}

// WithRegistryPath sets the registry route path, overriding the registry's
// configured one. An empty path disables the registry route.
func WithRegistryPath(path string) Option {
	return func(c *buildConfig) {
		c.registryPath = &path
	}
}

// WithoutForms omits the forms routes.
func WithoutForms() Option {
	return func(c *buildConfig) {
		c.forms = false
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// Build computes the routing table for reg. It fails with a
// *DuplicatePathError when two routes resolve to the same path.
func Build(reg *registry.Registry, opts ...Option) (*Table, error) {
	cfg := buildConfig{forms: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	registryPath := reg.RegistryPath()
	if cfg.registryPath != nil {
		registryPath = *cfg.registryPath
	}
	if registryPath != "" {
		if !strings.HasPrefix(registryPath, "/") {
			return nil, errors.New("E131").
				WithKey("config.registry_path").
				WithDetailf("registry path %q must start with /", registryPath)
		}
		if strings.ContainsAny(registryPath, "{}*") {
			return nil, errors.New("E131").
				WithKey("config.registry_path").
				WithDetailf("registry path %q contains router metacharacters", registryPath).
				WithSuggestion("Remove {, } and * from the registry path")
		}
		if len(registryPath) > 1 {
			registryPath = strings.TrimSuffix(registryPath, "/")
		}
	}

	services := reg.Services()
	t := &Table{
		routes:    make([]Route, 0, len(services)+3),
		directory: newDirectory(len(services)),
	}
	paths := make(map[string]struct{}, len(services)+3)
	claim := func(path, owner string) error {
		if _, dup := paths[path]; dup {
			return &DuplicatePathError{Path: path, Service: owner}
		}
		paths[path] = struct{}{}
		return nil
	}

	for _, svc := range services {
		if !svc.Entry.Enabled {
			continue
		}
		path := reg.RoutePath(svc.Name, svc.Entry)
		if err := claim(path, svc.Name); err != nil {
			return nil, err
		}
		t.routes = append(t.routes, Route{
			Path:    path,
			Pattern: path,
			Kind:    KindService,
			Service: svc.Name,
			Handler: svc.Entry.Ref,
		})
		t.directory.add(registry.DefinitionName(svc.Name, svc.Entry), path)
	}

	if registryPath != "" {
		base := strings.TrimSuffix(registryPath, "/")
		synthetic := []Route{{Path: registryPath, Pattern: registryPath, Kind: KindRegistry}}
		if cfg.forms {
			synthetic = append(synthetic,
				Route{Path: base + "/form", Pattern: base + "/form(?:/)?", Kind: KindFormsIndex},
				Route{Path: base + "/form/{" + ServiceParam + "}", Pattern: base + "/form/(.+)", Kind: KindFormsService},
			)
		}
		for _, r := range synthetic {
			if err := claim(r.Path, r.Kind.String()); err != nil {
				return nil, err
			}
			t.routes = append(t.routes, r)
		}
		t.registryPath = registryPath
	}

	cfg.logger.Debug("Service mapping generated.", "routes", len(t.routes), "services", t.directory.Len(), "registry_path", registryPath)
	return t, nil
}
