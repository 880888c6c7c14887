package transport

import (
	"net/http"
	"strconv"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/middleware"
	"boutique-pos/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents a new catalogue entry
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	VendorID      *int64          `json:"vendor_id" validate:"omitempty,gt=0"`
	SKU           string          `json:"sku" validate:"max=64"`
	BuyPrice      decimal.Decimal `json:"buy_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0,lte=2147483647"`
	Size          string          `json:"size" validate:"max=20"`
	Color         string          `json:"color" validate:"max=30"`
}

// CreateVendorRequest represents a new supplier
type CreateVendorRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	ContactPerson string `json:"contact_person" validate:"max=255"`
	Phone         string `json:"phone" validate:"max=50"`
}

// RestockRequest adds units to a product's stock
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

// StockResponse reports on-hand quantity after a change
type StockResponse struct {
	ProductID     int64 `json:"product_id"`
	StockQuantity int   `json:"stock_quantity"`
}

// InventoryHandler serves the product catalogue, vendors and dashboard
type InventoryHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(s store.Store, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{store: s, logger: logger}
}

// RegisterRoutes registers catalogue routes behind authMiddleware
func (h *InventoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/api/dashboard", h.Dashboard)

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", h.SearchProducts)
			r.Get("/sku/{sku}", h.GetProductBySKU)
			r.Get("/{id}", h.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(h.logger))
				r.Post("/", h.CreateProduct)
				r.Post("/{id}/restock", h.Restock)
			})
		})

		r.Route("/api/vendors", func(r chi.Router) {
			r.Get("/", h.ListVendors)
			r.With(middleware.RequireAdmin(h.logger)).Post("/", h.CreateVendor)
		})
	})
}

// Dashboard returns today's sales total and the number of open trials
func (h *InventoryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.store.Dashboard(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, dashboard)
}

// SearchProducts handles GET /api/products?q=&limit=
func (h *InventoryHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	products, err := h.store.SearchProducts(r.Context(), query, limit)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *InventoryHandler) GetProductBySKU(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.ProductBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	product, err := h.store.Product(r.Context(), id)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct adds a catalogue entry. Admin only.
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product := &domain.Product{
		Name:          req.Name,
		VendorID:      req.VendorID,
		SKU:           req.SKU,
		BuyPrice:      req.BuyPrice,
		SellPrice:     req.SellPrice,
		StockQuantity: req.StockQuantity,
		Size:          req.Size,
		Color:         req.Color,
	}
	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Restock adds units through the stock ledger. Admin only.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req RestockRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	stock, err := h.store.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, StockResponse{ProductID: id, StockQuantity: stock})
}

func (h *InventoryHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.store.ListVendors(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	if vendors == nil {
		vendors = []*domain.VendorSummary{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, vendors)
}

// CreateVendor adds a supplier. Admin only.
func (h *InventoryHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req CreateVendorRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	vendor := &domain.Vendor{Name: req.Name, ContactPerson: req.ContactPerson, Phone: req.Phone}
	if err := h.store.CreateVendor(r.Context(), vendor); err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, vendor)
}
