package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/userapi/userapi/internal/metrics"
)

func TestMetricsHandler(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncUserCreated()
	recorder.IncUserCacheHit()
	recorder.IncUserCacheEvictFailed()
	recorder.IncOperationFailed("update")

	h := NewMetricsHandler(recorder)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, line := range []string{
		"userapi_users_created_total 1",
		"userapi_users_deleted_total 0",
		"userapi_user_cache_hits_total 1",
		"userapi_user_cache_evict_failures_total 1",
		`userapi_operation_failures_total{operation="update"} 1`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("missing %q in:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
