package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOutstandingTrials(t *testing.T) {
	s := newMockStore()
	s.outstandingFn = func() ([]*domain.TrialItem, error) {
		return []*domain.TrialItem{{
			TrialLedgerEntry: domain.TrialLedgerEntry{
				ID:           4,
				CustomerName: "Ana",
				ProductID:    7,
				DateTaken:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
				Status:       domain.TrialOnTrial,
			},
			ProductName: "Silk Dress",
			Size:        "M",
			Color:       "Black",
			SellPrice:   decimal.RequireFromString("95"),
		}}, nil
	}

	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, newRequest("GET", "/api/trials", staffToken, ""))
	require.Equal(t, http.StatusOK, w.Code)

	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Silk Dress (Black/M)", views[0]["display_name"])
	assert.Equal(t, "On_Trial", views[0]["status"])
	assert.Equal(t, "Ana", views[0]["customer_name"])
}

func TestSetTrialStatus(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{"purchased", "/api/trials/4", `{"status":"Purchased"}`, nil, http.StatusNoContent},
		{"returned", "/api/trials/4", `{"status":"Returned"}`, nil, http.StatusNoContent},
		{"back to on trial", "/api/trials/4", `{"status":"On_Trial"}`, nil, http.StatusBadRequest},
		{"already closed", "/api/trials/4", `{"status":"Returned"}`, fmt.Errorf("trial 4: %w", domain.ErrInvalidTransition), http.StatusConflict},
		{"unknown entry", "/api/trials/99", `{"status":"Returned"}`, repository.ErrTrialNotFound, http.StatusNotFound},
		{"bad id", "/api/trials/x", `{"status":"Returned"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMockStore()
			s.setStatusFn = func(id int64, status domain.TrialStatus) error {
				return tt.err
			}

			w := httptest.NewRecorder()
			newTestRouter(s).ServeHTTP(w, newRequest("PATCH", tt.path, staffToken, tt.body))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
