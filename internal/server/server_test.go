package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boutique-pos/internal/config"
	"boutique-pos/internal/metrics"
	"boutique-pos/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStore struct {
	store.Store
	health map[string]string
}

func (s stubStore) Health(ctx context.Context) map[string]string {
	return s.health
}

type stubDB struct{ closed bool }

func (d *stubDB) DB() *sql.DB { return nil }

func (d *stubDB) Health(ctx context.Context) map[string]string { return nil }

func (d *stubDB) Close() error {
	d.closed = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test", LoginRateLimit: 5},
		Store:  config.StoreConfig{Location: time.UTC},
	}
}

func TestHealthReflectsStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)

	tests := []struct {
		status string
		code   int
	}{
		{"up", http.StatusOK},
		{"down", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			srv := NewServer(testConfig(), zap.NewNop(), &stubDB{}, stubStore{health: map[string]string{"status": tt.status}}, reg)

			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			assert.Equal(t, tt.code, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body["status"])
		})
	}
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SalesCommitted.Inc()

	srv := NewServer(testConfig(), zap.NewNop(), &stubDB{}, stubStore{}, reg)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "boutique_sales_committed_total 1"))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), &stubDB{}, stubStore{}, prometheus.NewRegistry())

	for _, path := range []string{"/api/dashboard", "/api/products?q=a", "/api/trials", "/api/reports/sales"} {
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCloseReleasesDatabase(t *testing.T) {
	db := &stubDB{}
	srv := NewServer(testConfig(), zap.NewNop(), db, stubStore{}, prometheus.NewRegistry())

	require.NoError(t, srv.Close())
	assert.True(t, db.closed)
}
