package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/md-rashed-zaman/palor/libs/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(okHandler(), mark("a"), mark("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestRespondEnvelope(t *testing.T) {
	rw := httptest.NewRecorder()
	Respond(rw, http.StatusCreated, map[string]string{"id": "x"}, "created")

	var env struct {
		StatusCode int               `json:"statusCode"`
		Data       map[string]string `json:"data"`
		Message    string            `json:"message"`
		Success    bool              `json:"success"`
	}
	if err := json.NewDecoder(rw.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.StatusCode != 201 || !env.Success || env.Data["id"] != "x" || env.Message != "created" {
		t.Fatalf("unexpected envelope %+v", env)
	}

	rw = httptest.NewRecorder()
	RespondError(rw, http.StatusNotFound, "")
	var raw map[string]any
	if err := json.NewDecoder(rw.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["success"] != false || raw["message"] != "Not Found" {
		t.Fatalf("unexpected error envelope %v", raw)
	}
	if _, ok := raw["data"]; ok {
		t.Fatal("error envelope should not carry data")
	}
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if seen != "abc" || rw.Header().Get(RequestIDHeader) != "abc" {
		t.Fatalf("expected propagated id, got %q", seen)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 32 {
		t.Fatalf("expected generated 32-char id, got %q", seen)
	}
}

func TestRateLimiter_InMemory(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	h := WithRateLimit(rl, "test", nil, false)(okHandler())
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, req)
		codes = append(codes, rw.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, other)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected separate bucket per client, got %d", rw.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestWithRateLimit_FailOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rw := httptest.NewRecorder()
	WithRateLimit(failingLimiter{}, "x", logger, true)(okHandler()).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	if rw.Code != http.StatusOK {
		t.Fatalf("expected fail-open 200, got %d", rw.Code)
	}

	rw = httptest.NewRecorder()
	WithRateLimit(failingLimiter{}, "x", logger, false)(okHandler()).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	if rw.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rw.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := Chain(okHandler(), RequireAuth(auth.Verifier{Secret: "test-secret"}), RequireRole("admin"))

	token := func(role string) string {
		tok, err := auth.SignHS256(auth.Claims{Sub: "user-1", Role: role, Exp: time.Now().Add(time.Hour).Unix()}, "test-secret")
		if err != nil {
			t.Fatalf("SignHS256 failed: %v", err)
		}
		return tok
	}

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token("customer"))
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rw.Code)
	}

	reqOK := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqOK.Header.Set("Authorization", "Bearer "+token("admin"))
	rwOK := httptest.NewRecorder()
	h.ServeHTTP(rwOK, reqOK)
	if rwOK.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rwOK.Code)
	}

	rwNone := httptest.NewRecorder()
	h.ServeHTTP(rwNone, httptest.NewRequest(http.MethodGet, "http://example.com", nil))
	if rwNone.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rwNone.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	var got auth.Principal
	var present bool
	h := OptionalAuth(auth.Verifier{Secret: "s"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, present = auth.PrincipalFrom(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	if present {
		t.Fatal("expected anonymous request")
	}

	tok, _ := auth.SignHS256(auth.Claims{Sub: "user-7", Role: "customer"}, "s")
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !present || got.UserID != "user-7" {
		t.Fatalf("expected principal user-7, got %+v", got)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", nil)
	bad.Header.Set("Authorization", "Bearer garbage")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, bad)
	if present {
		t.Fatal("invalid token must be treated as anonymous")
	}
}

func TestWithCORS_Preflight(t *testing.T) {
	h := WithCORS(DefaultCORSPolicy([]string{"http://localhost:5173"}))(okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reviews/public", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rw.Code)
	}
	if rw.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", rw.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestWithRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := WithRecover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	if rw.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rw.Code)
	}
}

func TestWithCORS_UnknownOriginPassesThrough(t *testing.T) {
	h := WithCORS(DefaultCORSPolicy([]string{"http://localhost:5173"}))(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	req.Header.Set("Origin", "https://evil.example")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	if got := rw.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
