package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"boutique-pos/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrTransactionNotFound = fmt.Errorf("transaction %w", domain.ErrNotFound)

// LockedProduct is the slice of a product row a sale needs while holding its lock
type LockedProduct struct {
	ID            int64
	SellPrice     decimal.Decimal
	StockQuantity int
}

// TransactionRepository defines the interface for sale data access.
// Write methods take the handle explicitly so they run inside the sale unit.
type TransactionRepository interface {
	LockProducts(ctx context.Context, q DBTX, ids []int64) (map[int64]LockedProduct, error)
	InsertHeader(ctx context.Context, q DBTX, txn *domain.Transaction) error
	InsertItem(ctx context.Context, q DBTX, item *domain.TransactionItem) error
	FindByID(ctx context.Context, id int64) (*domain.Transaction, error)
	TotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)
}

type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new instance of TransactionRepository
func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

// LockProducts takes row locks on ids in ascending order so concurrent
// sales over overlapping carts cannot deadlock. Every id must exist.
func (r *transactionRepository) LockProducts(ctx context.Context, q DBTX, ids []int64) (map[int64]LockedProduct, error) {
	query := `
		SELECT id, sell_price, stock_quantity
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := q.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	defer rows.Close()

	locked := make(map[int64]LockedProduct, len(ids))
	for rows.Next() {
		var p LockedProduct
		if err := rows.Scan(&p.ID, &p.SellPrice, &p.StockQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan locked product: %w", err)
		}
		locked[p.ID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked products: %w", err)
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}
	}

	return locked, nil
}

func (r *transactionRepository) InsertHeader(ctx context.Context, q DBTX, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (total_amount, payment_method, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, "timestamp"
	`

	var userID sql.NullInt64
	if txn.UserID != nil {
		userID = sql.NullInt64{Int64: *txn.UserID, Valid: true}
	}

	err := q.QueryRowContext(ctx, query, txn.TotalAmount, nullString(txn.PaymentMethod), userID).
		Scan(&txn.ID, &txn.Timestamp)
	if err != nil {
		return wrapErr("insert transaction", err)
	}
	return nil
}

func (r *transactionRepository) InsertItem(ctx context.Context, q DBTX, item *domain.TransactionItem) error {
	query := `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, price_at_sale)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query, item.TransactionID, item.ProductID, item.Quantity, item.PriceAtSale).
		Scan(&item.ID)
	if err != nil {
		return wrapErr("insert transaction item", err)
	}
	return nil
}

// FindByID retrieves a transaction with its items
func (r *transactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `
		SELECT id, "timestamp", total_amount, COALESCE(payment_method, ''), user_id
		FROM transactions
		WHERE id = $1
	`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}

	items, err := r.itemsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	txn.Items = items[id]

	return txn, nil
}

// TotalSince sums total_amount over transactions at or after since
func (r *transactionRepository) TotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM transactions
		WHERE "timestamp" >= $1
	`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, since).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum sales: %w", err)
	}
	return total, nil
}

// ListBetween returns transactions in [from, to) oldest first, items included
func (r *transactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT id, "timestamp", total_amount, COALESCE(payment_method, ''), user_id
		FROM transactions
		WHERE "timestamp" >= $1 AND "timestamp" < $2
		ORDER BY "timestamp" ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []*domain.Transaction{}
	ids := []int64{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
		ids = append(ids, txn.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	if len(ids) == 0 {
		return txns, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, txn := range txns {
		txn.Items = items[txn.ID]
	}

	return txns, nil
}

func (r *transactionRepository) itemsFor(ctx context.Context, ids []int64) (map[int64][]domain.TransactionItem, error) {
	query := `
		SELECT id, transaction_id, product_id, quantity, price_at_sale
		FROM transaction_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, id
	`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.TransactionItem, len(ids))
	for rows.Next() {
		var item domain.TransactionItem
		err := rows.Scan(&item.ID, &item.TransactionID, &item.ProductID, &item.Quantity, &item.PriceAtSale)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}
		items[item.TransactionID] = append(items[item.TransactionID], item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction items: %w", err)
	}

	return items, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	var userID sql.NullInt64
	err := row.Scan(&txn.ID, &txn.Timestamp, &txn.TotalAmount, &txn.PaymentMethod, &userID)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		txn.UserID = &userID.Int64
	}
	return txn, nil
}
