// Package store is the single surface the HTTP adapter and admin CLI use to
// reach the data layer.
package store

import (
	"context"
	"errors"
	"io"
	"time"

	"boutique-pos/internal/database"
	"boutique-pos/internal/domain"
	"boutique-pos/internal/metrics"
	"boutique-pos/internal/repository"
	"boutique-pos/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Dashboard is the landing screen summary
type Dashboard struct {
	SalesToday    decimal.Decimal `json:"sales_today"`
	PendingTrials int             `json:"pending_trials"`
}

// Store is the query facade over the persistent store
type Store interface {
	// Credentials
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	ValidateToken(token string) (*service.Claims, error)
	CreateUser(ctx context.Context, username, password, role string) (*domain.User, error)

	// Dashboard
	Dashboard(ctx context.Context) (*Dashboard, error)
	SalesToday(ctx context.Context) (decimal.Decimal, error)
	PendingTrials(ctx context.Context) (int, error)

	// Catalogue
	ProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	CreateVendor(ctx context.Context, vendor *domain.Vendor) error
	ListVendors(ctx context.Context) ([]*domain.VendorSummary, error)

	// Stock ledger
	AdjustStock(ctx context.Context, productID int64, delta int) (int, error)
	Restock(ctx context.Context, productID int64, quantity int) (int, error)

	// Sales
	RecordSale(ctx context.Context, principal domain.Principal, req domain.SaleRequest) (*domain.Transaction, error)
	Sale(ctx context.Context, id int64) (*domain.Transaction, error)
	SalesBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)
	ExportSales(ctx context.Context, from, to time.Time, w io.Writer) error

	// Trials
	CheckoutTrial(ctx context.Context, customerName, customerPhone string, productID int64) (*domain.TrialLedgerEntry, error)
	OutstandingTrials(ctx context.Context) ([]*domain.TrialItem, error)
	SetTrialStatus(ctx context.Context, entryID int64, status domain.TrialStatus) error

	Health(ctx context.Context) map[string]string
}

// Options parameterizes the facade
type Options struct {
	JWTSecret    string
	AccessExpiry time.Duration
	SearchLimit  int
	Location     *time.Location
	Now          func() time.Time
}

type store struct {
	db        database.Service
	ledger    repository.StockLedger
	auth      service.AuthService
	sales     service.SaleService
	trials    service.TrialService
	inventory service.InventoryService
	reports   service.ReportService
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// New wires repositories and services over db
func New(db database.Service, opts Options, m *metrics.Metrics, logger *zap.Logger) Store {
	sqlDB := db.DB()

	userRepo := repository.NewUserRepository(sqlDB)
	vendorRepo := repository.NewVendorRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	txRepo := repository.NewTransactionRepository(sqlDB)
	trialRepo := repository.NewTrialRepository(sqlDB)
	ledger := repository.NewStockLedger()

	return &store{
		db:        db,
		ledger:    ledger,
		auth:      service.NewAuthService(userRepo, opts.JWTSecret, opts.AccessExpiry),
		sales:     service.NewSaleService(sqlDB, txRepo, ledger, m, logger),
		trials:    service.NewTrialService(trialRepo, m, logger),
		inventory: service.NewInventoryService(sqlDB, productRepo, vendorRepo, ledger, opts.SearchLimit, m, logger),
		reports:   service.NewReportService(txRepo, opts.Location, opts.Now),
		metrics:   m,
		logger:    logger,
	}
}

func (s *store) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.auth.Authenticate(ctx, username, password)
}

func (s *store) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.auth.Login(ctx, username, password)
}

func (s *store) ValidateToken(token string) (*service.Claims, error) {
	return s.auth.ValidateToken(token)
}

func (s *store) CreateUser(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.auth.CreateUser(ctx, username, password, role)
}

func (s *store) Dashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.reports.SalesToday(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.trials.CountOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{SalesToday: total, PendingTrials: pending}, nil
}

func (s *store) SalesToday(ctx context.Context) (decimal.Decimal, error) {
	return s.reports.SalesToday(ctx)
}

func (s *store) PendingTrials(ctx context.Context) (int, error) {
	return s.trials.CountOutstanding(ctx)
}

func (s *store) ProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return s.inventory.FindBySKU(ctx, sku)
}

func (s *store) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return s.inventory.GetProduct(ctx, id)
}

func (s *store) SearchProducts(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	return s.inventory.Search(ctx, query, limit)
}

func (s *store) CreateProduct(ctx context.Context, product *domain.Product) error {
	return s.inventory.CreateProduct(ctx, product)
}

func (s *store) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return s.inventory.CreateVendor(ctx, vendor)
}

func (s *store) ListVendors(ctx context.Context) ([]*domain.VendorSummary, error) {
	return s.inventory.ListVendors(ctx)
}

// AdjustStock is the raw ledger primitive. Unknown products and
// changes that would go below zero both report domain.ErrInsufficientStock.
func (s *store) AdjustStock(ctx context.Context, productID int64, delta int) (int, error) {
	stock, err := s.ledger.AdjustStock(ctx, s.db.DB(), productID, delta)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.metrics.StockRejections.Inc()
			s.logger.Debug("Stock adjustment rejected",
				zap.Int64("product_id", productID),
				zap.Int("delta", delta),
			)
		}
		return 0, err
	}
	return stock, nil
}

func (s *store) Restock(ctx context.Context, productID int64, quantity int) (int, error) {
	return s.inventory.Restock(ctx, productID, quantity)
}

func (s *store) RecordSale(ctx context.Context, principal domain.Principal, req domain.SaleRequest) (*domain.Transaction, error) {
	return s.sales.RecordSale(ctx, principal, req)
}

func (s *store) Sale(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.sales.GetSale(ctx, id)
}

func (s *store) SalesBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	return s.reports.SalesBetween(ctx, from, to)
}

func (s *store) ExportSales(ctx context.Context, from, to time.Time, w io.Writer) error {
	return s.reports.ExportSales(ctx, from, to, w)
}

func (s *store) CheckoutTrial(ctx context.Context, customerName, customerPhone string, productID int64) (*domain.TrialLedgerEntry, error) {
	return s.trials.Checkout(ctx, customerName, customerPhone, productID)
}

func (s *store) OutstandingTrials(ctx context.Context) ([]*domain.TrialItem, error) {
	return s.trials.ListOutstanding(ctx)
}

func (s *store) SetTrialStatus(ctx context.Context, entryID int64, status domain.TrialStatus) error {
	return s.trials.SetStatus(ctx, entryID, status)
}

func (s *store) Health(ctx context.Context) map[string]string {
	return s.db.Health(ctx)
}
