package transport

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/middleware"
	"boutique-pos/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	xlsxType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler serves sales reports
type ReportHandler struct {
	store    store.Store
	location *time.Location
	logger   *zap.Logger
}

// NewReportHandler creates a new ReportHandler. Date-only query values are
// read in loc.
func NewReportHandler(s store.Store, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{store: s, location: loc, logger: logger}
}

func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))
		r.Get("/sales", h.SalesBetween)
		r.Get("/sales/export", h.ExportSales)
	})
}

// SalesBetween lists committed sales with their items in [from, to)
func (h *ReportHandler) SalesBetween(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	txns, err := h.store.SalesBetween(r.Context(), from, to)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	if txns == nil {
		txns = []*domain.Transaction{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, txns)
}

// ExportSales streams the range as an xlsx workbook
func (h *ReportHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	// Buffered so a failed export still gets a JSON error
	var buf bytes.Buffer
	if err := h.store.ExportSales(r.Context(), from, to, &buf); err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	last := to.Add(-time.Nanosecond).In(h.location)
	filename := fmt.Sprintf("sales_%s_%s.xlsx", from.In(h.location).Format(dateLayout), last.Format(dateLayout))
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Failed to write export", zap.Error(err))
	}
}

// parseRange reads from and to as RFC 3339 timestamps or dates. A date-only
// to is inclusive, so it moves to the following midnight.
func (h *ReportHandler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, _, err := h.parseTime(r.URL.Query().Get("from"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid from")
		return time.Time{}, time.Time{}, false
	}

	to, dateOnly, err := h.parseTime(r.URL.Query().Get("to"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid to")
		return time.Time{}, time.Time{}, false
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}

	return from, to, true
}

func (h *ReportHandler) parseTime(raw string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, raw, h.location); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, false, err
}
