package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/vango-dev/servicelayer/pkg/auth"
	"github.com/vango-dev/servicelayer/pkg/dispatch"
)

const maxEchoBody = 1 << 20

type echoResponse struct {
	Service   string          `json:"service"`
	Handler   string          `json:"handler"`
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Principal string          `json:"principal,omitempty"`
	Request   json.RawMessage `json:"request,omitempty"`
}

// echoHandler answers every service call with the route it was dispatched
// through. A JSON request body is echoed back.
func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, _ := dispatch.RouteFromContext(r.Context())
		resp := echoResponse{
			Service: route.Service,
			Handler: route.Handler,
			Method:  r.Method,
			Path:    r.URL.Path,
		}
		if p, ok := auth.FromContext(r.Context()); ok {
			resp.Principal = p.ID
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxEchoBody))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(body) > 0 {
			if !json.Valid(body) {
				http.Error(w, "request body is not valid JSON", http.StatusBadRequest)
				return
			}
			resp.Request = body
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("echo: failed to write response", "error", err)
		}
	})
}
