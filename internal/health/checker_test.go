package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/groupsite-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(deps map[string]health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return health.NewChecker(deps, slog.Default(), reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(map[string]health.Pinger{"database": &mockPinger{err: errors.New("db down")}})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_DatabaseUp(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{"database": &mockPinger{}})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if got := result.Checks["database"].Status; got != "up" {
		t.Fatalf("expected database up, got %s", got)
	}
	if v := gaugeValue(t, reg, "database"); v != 1 {
		t.Fatalf("expected gauge 1, got %f", v)
	}
}

func TestReadiness_OneDependencyDown_MarksDown(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{
		"database": &mockPinger{err: errors.New("connection refused")},
		"cache":    &mockPinger{},
	})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	db := result.Checks["database"]
	if db.Status != "down" || db.Error == "" {
		t.Fatalf("unexpected database check: %+v", db)
	}
	if result.Checks["cache"].Status != "up" {
		t.Fatalf("expected cache up, got %+v", result.Checks["cache"])
	}
	if v := gaugeValue(t, reg, "database"); v != 0 {
		t.Fatalf("expected gauge 0, got %f", v)
	}
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, dep string) float64 {
	t.Helper()
	if n, err := testutil.GatherAndCount(reg, "groupsite_health_check_up"); err != nil || n == 0 {
		t.Fatalf("gather: n=%d err=%v", n, err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "groupsite_health_check_up" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == dep {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("gauge for %q not found", dep)
	return 0
}
