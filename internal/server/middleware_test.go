package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apibridge/apibridge/internal/common"
)

func newTestServer(handler http.Handler) *Server {
	return New("localhost", 0, handler, common.NewSilentLogger())
}

func TestCorrelationIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	s := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Error("expected a generated correlation ID in the request context")
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != seen {
		t.Errorf("response header %q does not match context value %q", got, seen)
	}
}

func TestCorrelationIDMiddleware_PropagatesRequestID(t *testing.T) {
	s := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Correlation-ID"); got != "req-42" {
		t.Errorf("expected propagated request ID, got %q", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	s := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	if called {
		t.Error("OPTIONS preflight must short-circuit before the handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS headers on preflight response")
	}
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	s := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
	}))

	body := strings.NewReader(strings.Repeat("x", 2<<20))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", body))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected oversized body to be rejected, got %d", rec.Code)
	}
}
