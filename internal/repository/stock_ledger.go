package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique-pos/internal/domain"
)

// StockLedger is the only writer of products.stock_quantity
type StockLedger interface {
	// AdjustStock applies delta atomically and returns the resulting
	// quantity. A change that would drive stock below zero, or that names
	// an unknown product, fails with domain.ErrInsufficientStock and
	// leaves the row untouched. A delta beyond int4 is
	// domain.ErrInvalidQuantity and an overflowing sum is
	// domain.ErrValueOutOfRange.
	AdjustStock(ctx context.Context, q DBTX, productID int64, delta int) (int, error)
	CurrentStock(ctx context.Context, q DBTX, productID int64) (int, error)
}

type stockLedger struct{}

// NewStockLedger creates a new StockLedger. The handle is supplied per call
// so adjustments can join a caller's transaction.
func NewStockLedger() StockLedger {
	return &stockLedger{}
}

func (l *stockLedger) AdjustStock(ctx context.Context, q DBTX, productID int64, delta int) (int, error) {
	if !domain.ValidQuantity(delta) {
		return 0, fmt.Errorf("product %d: %w", productID, domain.ErrInvalidQuantity)
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $1
		WHERE id = $2 AND stock_quantity + $1 >= 0
		RETURNING stock_quantity
	`

	var quantity int
	err := q.QueryRowContext(ctx, query, delta, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("product %d: %w", productID, domain.ErrInsufficientStock)
		}
		if isViolation(err, pgCheckViolation) {
			return 0, fmt.Errorf("product %d: %w", productID, domain.ErrInsufficientStock)
		}
		// stock_quantity is int4
		if isViolation(err, pgNumericOutOfRange) {
			return 0, fmt.Errorf("product %d: %w", productID, domain.ErrValueOutOfRange)
		}
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}

	return quantity, nil
}

func (l *stockLedger) CurrentStock(ctx context.Context, q DBTX, productID int64) (int, error) {
	var quantity int
	err := q.QueryRowContext(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}
	return quantity, nil
}
