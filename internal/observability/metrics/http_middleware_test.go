package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := HTTPMetricsMiddleware(mux)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /things/{id}", "200")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/123", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/456", nil))

	// Both ids collapse onto the route pattern label.
	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Fatalf("expected 2 requests under the pattern label, got %v", got)
	}

	raw := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/things/123", "200"))
	if raw != 0 {
		t.Errorf("raw path must not appear as a label, got %v", raw)
	}
}

func TestHTTPMetricsMiddlewareFallsBackOnUnmatchedRoute(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {})
	h := HTTPMetricsMiddleware(mux)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/unknown", "404")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/unknown", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Fatalf("expected the raw path label on an unmatched route, got %v", got)
	}
}
