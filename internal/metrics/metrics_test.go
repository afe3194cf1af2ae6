package metrics_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/groupsite-api/internal/health"
	"github.com/ErlanBelekov/groupsite-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, dbErr error, path string) *httptest.ResponseRecorder {
	t.Helper()
	checker := health.NewChecker(
		map[string]health.Pinger{"database": pinger{err: dbErr}},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		prometheus.NewRegistry(),
	)
	srv := metrics.NewServer(":0", checker)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServer_Healthz(t *testing.T) {
	w := serve(t, errors.New("down"), "/healthz")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestServer_ReadyzReflectsDatabase(t *testing.T) {
	if w := serve(t, nil, "/readyz"); w.Code != http.StatusOK {
		t.Errorf("db up: status = %d, want 200", w.Code)
	}

	w := serve(t, errors.New("connection refused"), "/readyz")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("db down: status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"database"`) {
		t.Errorf("body missing database check: %s", w.Body.String())
	}
}

func TestServer_ExposesMetrics(t *testing.T) {
	w := serve(t, nil, "/metrics")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
