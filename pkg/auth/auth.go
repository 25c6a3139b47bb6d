package auth

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
)

// DefaultAdminRole is the role RoleChecker looks for when Role is empty.
const DefaultAdminRole = "admin"

// AdminChecker decides whether the caller behind a request is an
// administrator.
type AdminChecker interface {
	IsAdmin(r *http.Request) bool
}

// AdminFunc adapts a function to AdminChecker.
type AdminFunc func(r *http.Request) bool

// IsAdmin calls f(r).
func (f AdminFunc) IsAdmin(r *http.Request) bool {
	return f(r)
}

// Static returns a checker that always answers admin.
func Static(admin bool) AdminChecker {
	return AdminFunc(func(*http.Request) bool { return admin })
}

// Principal represents the authenticated identity.
type Principal struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the principal carries role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RoleChecker treats callers whose principal has Role as administrators.
// Anonymous callers are never administrators.
type RoleChecker struct {
	Role string
}

// IsAdmin implements AdminChecker.
func (c RoleChecker) IsAdmin(r *http.Request) bool {
	p, ok := FromContext(r.Context())
	if !ok {
		return false
	}
	role := c.Role
	if role == "" {
		role = DefaultAdminRole
	}
	return p.HasRole(role)
}

// TokenMiddleware attaches the principal registered for the value of header
// to the request context. Requests with an unknown or missing value pass
// through anonymously.
func TokenMiddleware(header string, tokens map[string]Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := r.Header.Get(header)
			if value == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, ok := tokens[value]
			if !ok {
				slog.Debug("auth: unknown token, continuing anonymously", "header", header)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
