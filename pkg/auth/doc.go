// Package auth provides the authorization collaborator consulted when a
// manifest is built: a synchronous, side-effect free answer to "is the
// current caller an administrator".
//
// The package does not validate credentials itself. HTTP middleware (for
// example TokenMiddleware, or an identity provider of your own) attaches a
// Principal to the request context, and an AdminChecker reads it back:
//
//	r := chi.NewRouter()
//	r.Use(auth.TokenMiddleware("Authorization", map[string]auth.Principal{
//	    "Bearer s3cret": {ID: "ops", Roles: []string{"admin"}},
//	}))
//	r.Get("/_api/manifest", manifest.Handler(reg, auth.RoleChecker{Role: "admin"}).ServeHTTP)
//
// Checkers are asked once per manifest build and their answer is never
// cached across builds.
package auth
