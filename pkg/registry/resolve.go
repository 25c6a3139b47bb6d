package registry

import "strings"

// ResolveSecurity returns the security profile that applies to entry and
// the key it was found under. The entry's own key wins when it names a
// defined profile; otherwise the default profile applies.
func (r *Registry) ResolveSecurity(entry ServiceEntry) (string, SecurityProfile) {
	if p, ok := r.security[entry.SecurityProfile]; ok && entry.SecurityProfile != "" {
		return entry.SecurityProfile, p
	}
	return r.defaults.Security, r.security[r.defaults.Security]
}

// ResolveCaching is ResolveSecurity for caching profiles.
func (r *Registry) ResolveCaching(entry ServiceEntry) (string, CachingProfile) {
	if p, ok := r.caching[entry.CachingProfile]; ok && entry.CachingProfile != "" {
		return entry.CachingProfile, p
	}
	return r.defaults.Caching, r.caching[r.defaults.Caching]
}

// EndpointURL joins the prefix with name, the way the manifest addresses a
// service.
func (r *Registry) EndpointURL(name string) string {
	return JoinPath(append(r.Prefix(), name)...)
}

// DefinitionName returns the canonical definition name of a service: the
// entry's Definition when set, the registry key otherwise.
func DefinitionName(name string, entry ServiceEntry) string {
	if entry.Definition != "" {
		return entry.Definition
	}
	return name
}

// RoutePath returns the path the mapping binds a service to: the explicit
// Path override, or the prefix joined with the definition name, dots
// becoming path separators.
func (r *Registry) RoutePath(name string, entry ServiceEntry) string {
	if entry.Path != "" {
		return entry.Path
	}
	def := strings.ReplaceAll(DefinitionName(name, entry), ".", "/")
	return JoinPath(append(r.Prefix(), def)...)
}

// Divergent returns, in registry order, the enabled services whose manifest
// URL differs from their routing path.
func (r *Registry) Divergent() []Service {
	var out []Service
	for _, svc := range r.services {
		if !svc.Entry.Enabled {
			continue
		}
		if r.EndpointURL(svc.Name) != r.RoutePath(svc.Name, svc.Entry) {
			out = append(out, svc)
		}
	}
	return out
}

// JoinPath joins segments with "/". Empty segments are kept, so a prefix
// parsed from "/_api/rpc" keeps its leading slash.
func JoinPath(segments ...string) string {
	return strings.Join(segments, "/")
}

// SplitPrefix splits a "/"-separated prefix into segments. An empty string
// yields no segments.
func SplitPrefix(prefix string) []string {
	if prefix == "" {
		return nil
	}
	return strings.Split(prefix, "/")
}
