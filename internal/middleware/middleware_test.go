package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"manuals/internal/auth"
	"manuals/internal/domain"
	"manuals/internal/httputil"
	"manuals/internal/metrics"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	c := &auth.Claims{}
	c.Subject = "user-42"
	return c, nil
}

func (fakeVerifier) Close() error { return nil }

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, httputil.GetUserID(r))
	})
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := AuthMiddleware(fakeVerifier{}, logger, "/health")(echoUser())

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", path: "/api/documents", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "user-42"},
		{name: "missing token", path: "/api/documents", wantStatus: http.StatusUnauthorized},
		{name: "bad token", path: "/api/documents", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/api/documents", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "public path", path: "/health", wantStatus: http.StatusOK, wantBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	h := AuthMiddleware(nil, slog.Default())(echoUser())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))
	before := testutil.ToFloat64(metrics.PanicsRecoveredTotal.WithLabelValues(http.MethodPatch))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/modules/3", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := testutil.ToFloat64(metrics.PanicsRecoveredTotal.WithLabelValues(http.MethodPatch)); got != before+1 {
		t.Errorf("panics counted = %v, want %v", got, before+1)
	}
}

func TestRecoveryRepanicsOnAbort(t *testing.T) {
	h := Recovery(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if r := recover(); r != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", r)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(rec, req)
	if seen != "abc" || rec.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "abc" {
		t.Errorf("expected generated request id, got %q", seen)
	}
}

func TestMetricsRecordsPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	Metrics(mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/7", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}
