package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/middleware"
	"boutique-pos/internal/service"
	"boutique-pos/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	adminToken = "admin-token"
	staffToken = "staff-token"
)

// mockStore embeds store.Store so each test overrides only what it calls
type mockStore struct {
	store.Store

	claims map[string]*service.Claims

	loginFn        func(username, password string) (string, *domain.User, error)
	createUserFn   func(username, password, role string) (*domain.User, error)
	searchFn       func(query string, limit int) ([]*domain.Product, error)
	productFn      func(id int64) (*domain.Product, error)
	createProdFn   func(p *domain.Product) error
	restockFn      func(id int64, qty int) (int, error)
	recordSaleFn   func(p domain.Principal, req domain.SaleRequest) (*domain.Transaction, error)
	outstandingFn  func() ([]*domain.TrialItem, error)
	setStatusFn    func(id int64, status domain.TrialStatus) error
	salesBetweenFn func(from, to time.Time) ([]*domain.Transaction, error)
	exportFn       func(from, to time.Time, w io.Writer) error
}

func newMockStore() *mockStore {
	return &mockStore{
		claims: map[string]*service.Claims{
			adminToken: {UserID: 1, Username: "admin", Role: domain.RoleAdmin},
			staffToken: {UserID: 2, Username: "clerk", Role: domain.RoleStaff},
		},
	}
}

func (m *mockStore) ValidateToken(token string) (*service.Claims, error) {
	claims, ok := m.claims[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return claims, nil
}

func (m *mockStore) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return m.loginFn(username, password)
}

func (m *mockStore) CreateUser(ctx context.Context, username, password, role string) (*domain.User, error) {
	return m.createUserFn(username, password, role)
}

func (m *mockStore) Dashboard(ctx context.Context) (*store.Dashboard, error) {
	return &store.Dashboard{SalesToday: decimal.RequireFromString("35.5"), PendingTrials: 2}, nil
}

func (m *mockStore) SearchProducts(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	return m.searchFn(query, limit)
}

func (m *mockStore) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return m.productFn(id)
}

func (m *mockStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	return m.createProdFn(product)
}

func (m *mockStore) Restock(ctx context.Context, productID int64, quantity int) (int, error) {
	return m.restockFn(productID, quantity)
}

func (m *mockStore) RecordSale(ctx context.Context, principal domain.Principal, req domain.SaleRequest) (*domain.Transaction, error) {
	return m.recordSaleFn(principal, req)
}

func (m *mockStore) OutstandingTrials(ctx context.Context) ([]*domain.TrialItem, error) {
	return m.outstandingFn()
}

func (m *mockStore) SetTrialStatus(ctx context.Context, entryID int64, status domain.TrialStatus) error {
	return m.setStatusFn(entryID, status)
}

func (m *mockStore) SalesBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	return m.salesBetweenFn(from, to)
}

func (m *mockStore) ExportSales(ctx context.Context, from, to time.Time, w io.Writer) error {
	return m.exportFn(from, to, w)
}

func newTestRouter(s *mockStore) http.Handler {
	logger := zap.NewNop()
	r := chi.NewRouter()
	auth := middleware.AuthMiddleware(s, logger)

	NewAuthHandler(s, logger).RegisterRoutes(r, auth, nil)
	NewInventoryHandler(s, logger).RegisterRoutes(r, auth)
	NewSaleHandler(s, logger).RegisterRoutes(r, auth)
	NewTrialHandler(s, logger).RegisterRoutes(r, auth)
	NewReportHandler(s, time.UTC, logger).RegisterRoutes(r, auth)
	return r
}

func newRequest(method, path, token, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
