package transport

import (
	"net/http"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/middleware"
	"boutique-pos/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SaleHandler records and reads committed sales
type SaleHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(s store.Store, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{store: s, logger: logger}
}

func (h *SaleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.RecordSale)
		r.Get("/{id}", h.GetSale)
	})
}

// RecordSale commits the posted cart as one sale attributed to the caller.
// Cart rules are checked by the sale protocol, so the body is only decoded.
func (h *SaleHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.SaleRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	txn, err := h.store.RecordSale(r.Context(), principal, req)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, txn)
}

func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	txn, err := h.store.Sale(r.Context(), id)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, txn)
}
