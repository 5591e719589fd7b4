package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

func testConfig() *config.Config {
	return &config.Config{
		Version:  "test-version",
		Env:      "test",
		Database: config.DatabaseConfig{Type: config.DatabaseSQLite},
	}
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name   string
		store  Pinger
		status int
	}{
		{"no store", nil, http.StatusOK},
		{"store reachable", stubPinger{}, http.StatusOK},
		{"store down", stubPinger{err: errors.New("database is locked")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(testConfig(), tt.store, zap.NewNop())
			rec := httptest.NewRecorder()

			handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ok", rec.Body.String())
			}
		})
	}
}

func TestHealthHandler_Ping(t *testing.T) {
	handler := NewHealthHandler(testConfig(), nil, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response PingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "test-version", response.Version)
	assert.Equal(t, "artifact-collector", response.Service)
	assert.Equal(t, "test", response.Environment)
	assert.Equal(t, "sqlite", response.Store)
	assert.NotEmpty(t, response.GoVersion)
}
