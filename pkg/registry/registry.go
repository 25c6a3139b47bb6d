package registry

import (
	"maps"
	"slices"

	"github.com/vango-dev/servicelayer/internal/errors"
)

// Registry is the immutable Service Registry.
type Registry struct {
	prefix       []string
	registryPath string
	debug        bool
	services     []Service
	index        map[string]int
	security     map[string]SecurityProfile
	caching      map[string]CachingProfile
	defaults     Defaults
}

// New validates spec and returns the Registry built from it. The returned
// Registry owns copies of every slice and map in spec.
func New(spec Spec) (*Registry, error) {
	r := &Registry{
		prefix:       slices.Clone(spec.Prefix),
		registryPath: spec.RegistryPath,
		debug:        spec.Debug,
		services:     make([]Service, 0, len(spec.Services)),
		index:        make(map[string]int, len(spec.Services)),
		security:     maps.Clone(spec.SecurityProfiles),
		caching:      maps.Clone(spec.CachingProfiles),
		defaults:     spec.Defaults,
	}
	if r.security == nil {
		r.security = map[string]SecurityProfile{}
	}
	if r.caching == nil {
		r.caching = map[string]CachingProfile{}
	}

	for _, key := range sortedKeys(r.security) {
		if exp := r.security[key].Exposure; !exp.Valid() {
			return nil, errors.New("E124").
				WithKey("global.middleware_config.security.profiles." + key + ".expose").
				WithDetailf("exposure %q is not one of all, admin, none", exp)
		}
	}

	if err := r.checkDefaults(); err != nil {
		return nil, err
	}

	for _, svc := range spec.Services {
		if svc.Name == "" {
			return nil, errors.New("E124").
				WithKey("services").
				WithDetail("service name must not be empty")
		}
		if _, dup := r.index[svc.Name]; dup {
			return nil, errors.New("E124").
				WithKey("services." + svc.Name).
				WithDetailf("service %q is declared more than once", svc.Name)
		}
		r.index[svc.Name] = len(r.services)
		r.services = append(r.services, svc)
	}

	return r, nil
}

func (r *Registry) checkDefaults() error {
	const base = "global.defaults.service.config."
	if r.defaults.Security == "" {
		return errors.New("E123").WithKey(base + "security").
			WithDetail("no default security profile configured")
	}
	if r.defaults.Caching == "" {
		return errors.New("E123").WithKey(base + "caching").
			WithDetail("no default caching profile configured")
	}
	if _, ok := r.security[r.defaults.Security]; !ok {
		return errors.New("E121").WithKey(base+"security").
			WithDetailf("profile %q is not defined", r.defaults.Security).
			WithSuggestion("Define it under global.middleware_config.security.profiles")
	}
	if _, ok := r.caching[r.defaults.Caching]; !ok {
		return errors.New("E122").WithKey(base+"caching").
			WithDetailf("profile %q is not defined", r.defaults.Caching).
			WithSuggestion("Define it under global.middleware_config.caching.profiles")
	}
	return nil
}

// Prefix returns a copy of the endpoint prefix segments.
func (r *Registry) Prefix() []string {
	return slices.Clone(r.prefix)
}

// RegistryPath returns the configured directory endpoint path, or "".
func (r *Registry) RegistryPath() string {
	return r.registryPath
}

// Debug reports whether manifest diagnostic tracing is enabled.
func (r *Registry) Debug() bool {
	return r.debug
}

// Defaults returns the default profile names.
func (r *Registry) Defaults() Defaults {
	return r.defaults
}

// Len returns the number of declared services, enabled or not.
func (r *Registry) Len() int {
	return len(r.services)
}

// Services returns every declared service in registry order.
func (r *Registry) Services() []Service {
	return slices.Clone(r.services)
}

// Lookup returns the entry declared under name.
func (r *Registry) Lookup(name string) (ServiceEntry, bool) {
	i, ok := r.index[name]
	if !ok {
		return ServiceEntry{}, false
	}
	return r.services[i].Entry, true
}

// SecurityProfile returns the security profile declared under key.
func (r *Registry) SecurityProfile(key string) (SecurityProfile, bool) {
	p, ok := r.security[key]
	return p, ok
}

// CachingProfile returns the caching profile declared under key.
func (r *Registry) CachingProfile(key string) (CachingProfile, bool) {
	p, ok := r.caching[key]
	return p, ok
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
