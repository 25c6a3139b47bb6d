package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			have := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				have[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if have[k] != v {
					continue next
				}
			}
			return m
		}
	}
	return nil
}

func newMetricsRouter(reg *prometheus.Registry, opts ...MetricsOption) http.Handler {
	r := chi.NewRouter()
	r.Use(Prometheus(append([]MetricsOption{WithRegistry(reg)}, opts...)...))
	r.Post("/api/v1/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/api/v1/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func TestPrometheus_RecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	services := map[string]string{"/api/v1/echo": "echo", "/api/v1/fail": "fail"}
	h := newMetricsRouter(reg, WithServiceLabel(func(p string) string { return services[p] }))

	for _, path := range []string{"/api/v1/echo", "/api/v1/echo", "/api/v1/fail", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"success", map[string]string{"route": "/api/v1/echo", "service": "echo", "status": "200"}, 2},
		{"server error", map[string]string{"route": "/api/v1/fail", "service": "fail", "status": "500"}, 1},
		{"unmatched", map[string]string{"route": UnmatchedRoute, "service": "", "status": "404"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := findMetric(t, reg, "servicelayer_requests_total", tt.labels)
			if m == nil {
				t.Fatalf("no requests_total series with labels %v", tt.labels)
			}
			if got := m.GetCounter().GetValue(); got != tt.want {
				t.Errorf("requests_total = %v, want %v", got, tt.want)
			}
		})
	}

	m := findMetric(t, reg, "servicelayer_request_duration_seconds", map[string]string{"route": "/api/v1/echo"})
	if m == nil {
		t.Fatal("no request_duration_seconds series")
	}
	if got := m.GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("duration sample count = %d, want 2", got)
	}

	g := findMetric(t, reg, "servicelayer_requests_in_flight", nil)
	if g == nil || g.GetGauge().GetValue() != 0 {
		t.Errorf("requests_in_flight = %v, want 0", g)
	}
}

func TestPrometheus_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newMetricsRouter(reg,
		WithNamespace("gw"),
		WithSubsystem("rpc"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.5, 1}),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/echo", nil))

	m := findMetric(t, reg, "gw_rpc_requests_total", map[string]string{"env": "test", "service": ""})
	if m == nil {
		t.Fatal("expected namespaced counter with const label")
	}
	d := findMetric(t, reg, "gw_rpc_request_duration_seconds", nil)
	if d == nil {
		t.Fatal("expected namespaced histogram")
	}
	if n := len(d.GetHistogram().GetBucket()); n != 2 {
		t.Errorf("bucket count = %d, want 2", n)
	}
}

func TestPrometheus_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	Prometheus(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("expected panic registering metrics twice")
		}
	}()
	Prometheus(WithRegistry(reg))
}
