package dispatch

import (
	"fmt"
	"net/http"
)

// HandlerResolver turns a service reference from the registry into the
// handler that implements it.
type HandlerResolver interface {
	Resolve(ref string) (http.Handler, error)
}

// ResolverFunc adapts a function to HandlerResolver.
type ResolverFunc func(ref string) (http.Handler, error)

// Resolve calls f(ref).
func (f ResolverFunc) Resolve(ref string) (http.Handler, error) {
	return f(ref)
}

// ResolverMap resolves references from a fixed table.
type ResolverMap map[string]http.Handler

// Resolve implements HandlerResolver.
func (m ResolverMap) Resolve(ref string) (http.Handler, error) {
	h, ok := m[ref]
	if !ok || h == nil {
		return nil, fmt.Errorf("no handler registered for %q", ref)
	}
	return h, nil
}

// Fallback resolves every reference to h.
func Fallback(h http.Handler) HandlerResolver {
	return ResolverFunc(func(string) (http.Handler, error) { return h, nil })
}
