package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	reg := New("palor_test")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/services/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := reg.Middleware()(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/services/abc", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	rw := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rw.Body)
	out := string(body)

	if !strings.Contains(out, `palor_test_http_requests_total{code="404",method="GET",route="GET /api/v1/services/{id}"} 1`) {
		t.Fatalf("expected route-labelled counter, got:\n%s", out)
	}
	if !strings.Contains(out, `route="unmatched"`) {
		t.Fatal("expected unmatched route label")
	}
	if !strings.Contains(out, "go_goroutines") {
		t.Fatal("expected go collector metrics")
	}
}
