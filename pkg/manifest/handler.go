package manifest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vango-dev/servicelayer/pkg/auth"
	"github.com/vango-dev/servicelayer/pkg/registry"
)

// Handler serves the manifest for the requesting caller as a JSON array.
// checker is consulted once per request.
func Handler(reg *registry.Registry, checker auth.AdminChecker, opts ...Option) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entries := Build(reg, checker.IsAdmin(r), opts...)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			slog.Error("manifest: failed to write response", "error", err)
		}
	})
}
