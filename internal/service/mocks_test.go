package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// Mock repositories for testing
type mockUserRepository struct {
	users  map[string]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, exists := m.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for _, p := range m.products {
		if product.SKU != "" && p.SKU == product.SKU {
			return repository.ErrSKUAlreadyExists
		}
	}
	m.nextID++
	product.ID = m.nextID
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	for _, p := range m.products {
		if sku != "" && p.SKU == sku {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	out := []*domain.Product{}
	q := strings.ToLower(query)
	for _, p := range m.products {
		if q != "" && (strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockVendorRepository struct {
	vendors []*domain.Vendor
}

func (m *mockVendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	for _, v := range m.vendors {
		if v.Name == vendor.Name {
			return repository.ErrVendorAlreadyExists
		}
	}
	vendor.ID = int64(len(m.vendors) + 1)
	m.vendors = append(m.vendors, vendor)
	return nil
}

func (m *mockVendorRepository) FindByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	for _, v := range m.vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, repository.ErrVendorNotFound
}

func (m *mockVendorRepository) List(ctx context.Context) ([]*domain.VendorSummary, error) {
	out := []*domain.VendorSummary{}
	for _, v := range m.vendors {
		out = append(out, &domain.VendorSummary{Vendor: *v})
	}
	return out, nil
}

// mockStockLedger applies deltas to the product mock's quantities
type mockStockLedger struct {
	products *mockProductRepository
	calls    int
}

func (m *mockStockLedger) AdjustStock(ctx context.Context, q repository.DBTX, productID int64, delta int) (int, error) {
	m.calls++
	p, ok := m.products.products[productID]
	if !ok || p.StockQuantity+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

func (m *mockStockLedger) CurrentStock(ctx context.Context, q repository.DBTX, productID int64) (int, error) {
	p, ok := m.products.products[productID]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	return p.StockQuantity, nil
}

type mockTrialRepository struct {
	entries map[int64]*domain.TrialLedgerEntry
	nextID  int64
}

func newMockTrialRepository() *mockTrialRepository {
	return &mockTrialRepository{entries: make(map[int64]*domain.TrialLedgerEntry)}
}

func (m *mockTrialRepository) Checkout(ctx context.Context, entry *domain.TrialLedgerEntry) error {
	m.nextID++
	entry.ID = m.nextID
	entry.Status = domain.TrialOnTrial
	entry.DateTaken = time.Now()
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockTrialRepository) FindByID(ctx context.Context, id int64) (*domain.TrialLedgerEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, repository.ErrTrialNotFound
	}
	return e, nil
}

func (m *mockTrialRepository) ListOutstanding(ctx context.Context) ([]*domain.TrialItem, error) {
	out := []*domain.TrialItem{}
	for _, e := range m.entries {
		if e.Status == domain.TrialOnTrial {
			out = append(out, &domain.TrialItem{TrialLedgerEntry: *e})
		}
	}
	return out, nil
}

func (m *mockTrialRepository) CountOutstanding(ctx context.Context) (int, error) {
	items, _ := m.ListOutstanding(ctx)
	return len(items), nil
}

func (m *mockTrialRepository) SetStatus(ctx context.Context, id int64, status domain.TrialStatus) error {
	e, ok := m.entries[id]
	if !ok {
		return repository.ErrTrialNotFound
	}
	if e.Status != domain.TrialOnTrial {
		return domain.ErrInvalidTransition
	}
	e.Status = status
	return nil
}

// mockTransactionRepository serves the read side of reports
type mockTransactionRepository struct {
	txns  []*domain.Transaction
	since time.Time
}

func (m *mockTransactionRepository) LockProducts(ctx context.Context, q repository.DBTX, ids []int64) (map[int64]repository.LockedProduct, error) {
	return nil, errors.New("not supported")
}

func (m *mockTransactionRepository) InsertHeader(ctx context.Context, q repository.DBTX, txn *domain.Transaction) error {
	return errors.New("not supported")
}

func (m *mockTransactionRepository) InsertItem(ctx context.Context, q repository.DBTX, item *domain.TransactionItem) error {
	return errors.New("not supported")
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	for _, txn := range m.txns {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, repository.ErrTransactionNotFound
}

func (m *mockTransactionRepository) TotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	m.since = since
	total := decimal.Zero
	for _, txn := range m.txns {
		if !txn.Timestamp.Before(since) {
			total = total.Add(txn.TotalAmount)
		}
	}
	return total, nil
}

func (m *mockTransactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	out := []*domain.Transaction{}
	for _, txn := range m.txns {
		if !txn.Timestamp.Before(from) && txn.Timestamp.Before(to) {
			out = append(out, txn)
		}
	}
	return out, nil
}

// refusingBeginner fails the test path if a sale reaches the store
type refusingBeginner struct {
	calls int
}

func (b *refusingBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	b.calls++
	return nil, errors.New("store must not be touched")
}
