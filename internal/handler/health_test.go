package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		db         HealthChecker
		cache      HealthChecker
		wantStatus int
		wantDB     string
		wantCache  string
	}{
		{
			name:       "all healthy",
			db:         &mockHealthChecker{},
			cache:      &mockHealthChecker{},
			wantStatus: http.StatusOK,
			wantDB:     "ok",
			wantCache:  "ok",
		},
		{
			name:       "cache disabled",
			db:         &mockHealthChecker{},
			wantStatus: http.StatusOK,
			wantDB:     "ok",
			wantCache:  "disabled",
		},
		{
			name:       "database down",
			db:         &mockHealthChecker{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantDB:     "error",
			wantCache:  "disabled",
		},
		{
			name:       "cache down",
			db:         &mockHealthChecker{},
			cache:      &mockHealthChecker{err: errors.New("timeout")},
			wantStatus: http.StatusServiceUnavailable,
			wantDB:     "ok",
			wantCache:  "error",
		},
		{
			name:       "no database",
			wantStatus: http.StatusServiceUnavailable,
			wantDB:     "not configured",
			wantCache:  "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.cache, slog.New(slog.NewTextHandler(io.Discard, nil)))

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			h.Readyz(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if response.Checks["postgres"] != tt.wantDB {
				t.Errorf("postgres check = %q, want %q", response.Checks["postgres"], tt.wantDB)
			}
			if response.Checks["redis"] != tt.wantCache {
				t.Errorf("redis check = %q, want %q", response.Checks["redis"], tt.wantCache)
			}
		})
	}
}

func TestHealthHandler_ReadyzHidesErrorDetails(t *testing.T) {
	logs := &bytes.Buffer{}
	dsnErr := errors.New(`failed to connect to "postgres://app:s3cret@db:5432/users": dial tcp: connection refused`)
	h := NewHealthHandler(&mockHealthChecker{err: dsnErr}, nil, slog.New(slog.NewJSONHandler(logs, nil)))

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "s3cret") || strings.Contains(body, "connection refused") {
		t.Errorf("response leaks dependency error: %s", body)
	}
	if !strings.Contains(logs.String(), "connection refused") || !strings.Contains(logs.String(), `"dependency":"postgres"`) {
		t.Errorf("failure not logged: %s", logs.String())
	}
}
