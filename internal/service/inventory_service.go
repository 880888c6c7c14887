package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/metrics"
	"boutique-pos/internal/repository"

	"go.uber.org/zap"
)

var ErrNameRequired = fmt.Errorf("name is required: %w", domain.ErrInvalidInput)

// InventoryService manages the product catalogue and vendor list
type InventoryService interface {
	CreateVendor(ctx context.Context, vendor *domain.Vendor) error
	ListVendors(ctx context.Context) ([]*domain.VendorSummary, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Product, error)
	Restock(ctx context.Context, productID int64, quantity int) (int, error)
}

type inventoryService struct {
	db          repository.DBTX
	productRepo repository.ProductRepository
	vendorRepo  repository.VendorRepository
	ledger      repository.StockLedger
	searchLimit int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewInventoryService creates a new instance of InventoryService.
// searchLimit is used when a caller passes no limit.
func NewInventoryService(
	db repository.DBTX,
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
	ledger repository.StockLedger,
	searchLimit int,
	m *metrics.Metrics,
	logger *zap.Logger,
) InventoryService {
	if searchLimit <= 0 || searchLimit > repository.MaxSearchLimit {
		searchLimit = repository.MaxSearchLimit
	}
	return &inventoryService{
		db:          db,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		ledger:      ledger,
		searchLimit: searchLimit,
		metrics:     m,
		logger:      logger,
	}
}

func (s *inventoryService) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	vendor.Name = strings.TrimSpace(vendor.Name)
	if vendor.Name == "" {
		return ErrNameRequired
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return err
	}
	s.logger.Info("Vendor created", zap.Int64("vendor_id", vendor.ID), zap.String("name", vendor.Name))
	return nil
}

func (s *inventoryService) ListVendors(ctx context.Context) ([]*domain.VendorSummary, error) {
	return s.vendorRepo.List(ctx)
}

// CreateProduct adds a catalogue entry with its opening stock
func (s *inventoryService) CreateProduct(ctx context.Context, product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.SKU = strings.TrimSpace(product.SKU)
	if product.Name == "" {
		return ErrNameRequired
	}
	if !domain.ValidPrice(product.BuyPrice) || !domain.ValidPrice(product.SellPrice) {
		return domain.ErrInvalidPrice
	}
	if product.StockQuantity < 0 || product.StockQuantity > domain.MaxQuantity {
		return domain.ErrInvalidQuantity
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("sku", product.SKU),
		zap.Int("stock_quantity", product.StockQuantity),
	)
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *inventoryService) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return s.productRepo.FindBySKU(ctx, sku)
}

// Search runs the fuzzy name/SKU match. A non-positive limit uses the
// configured default.
func (s *inventoryService) Search(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = s.searchLimit
	}
	return s.productRepo.Search(ctx, query, limit)
}

// Restock adds quantity units through the stock ledger and returns the
// new on-hand quantity.
func (s *inventoryService) Restock(ctx context.Context, productID int64, quantity int) (int, error) {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return 0, domain.ErrInvalidQuantity
	}

	// The ledger reports unknown products as insufficient stock
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return 0, err
	}

	stock, err := s.ledger.AdjustStock(ctx, s.db, productID, quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.metrics.StockRejections.Inc()
		}
		return 0, err
	}

	s.metrics.Restocked.Add(float64(quantity))
	s.logger.Info("Product restocked",
		zap.Int64("product_id", productID),
		zap.Int("added", quantity),
		zap.Int("stock_quantity", stock),
	)
	return stock, nil
}
