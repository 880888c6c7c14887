package transport

import (
	"net/http"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/middleware"
	"boutique-pos/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutTrialRequest records a product leaving with a customer on trial
type CheckoutTrialRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=255"`
	CustomerPhone string `json:"customer_phone" validate:"max=50"`
	ProductID     int64  `json:"product_id" validate:"required,gt=0"`
}

// SetTrialStatusRequest closes an outstanding trial
type SetTrialStatusRequest struct {
	Status domain.TrialStatus `json:"status" validate:"required,oneof=Returned Purchased"`
}

// TrialView is an outstanding trial with its display name
type TrialView struct {
	*domain.TrialItem
	DisplayName string `json:"display_name"`
}

// TrialHandler serves the trial ledger
type TrialHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewTrialHandler creates a new TrialHandler
func NewTrialHandler(s store.Store, logger *zap.Logger) *TrialHandler {
	return &TrialHandler{store: s, logger: logger}
}

func (h *TrialHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/trials", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListOutstanding)
		r.Post("/", h.Checkout)
		r.Patch("/{id}", h.SetStatus)
	})
}

func (h *TrialHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutTrialRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	entry, err := h.store.CheckoutTrial(r.Context(), req.CustomerName, req.CustomerPhone, req.ProductID)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, entry)
}

// ListOutstanding returns every entry still On_Trial, newest first
func (h *TrialHandler) ListOutstanding(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.OutstandingTrials(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	views := make([]TrialView, 0, len(items))
	for _, item := range items {
		views = append(views, TrialView{TrialItem: item, DisplayName: item.DisplayName()})
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

func (h *TrialHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req SetTrialStatusRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	if err := h.store.SetTrialStatus(r.Context(), id, req.Status); err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
