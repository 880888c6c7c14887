package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique-pos/internal/domain"
)

var ErrTrialNotFound = fmt.Errorf("trial entry %w", domain.ErrNotFound)

// TrialRepository defines the interface for trial ledger data access
type TrialRepository interface {
	Checkout(ctx context.Context, entry *domain.TrialLedgerEntry) error
	FindByID(ctx context.Context, id int64) (*domain.TrialLedgerEntry, error)
	ListOutstanding(ctx context.Context) ([]*domain.TrialItem, error)
	CountOutstanding(ctx context.Context) (int, error)
	SetStatus(ctx context.Context, id int64, status domain.TrialStatus) error
}

type trialRepository struct {
	db DBTX
}

// NewTrialRepository creates a new instance of TrialRepository
func NewTrialRepository(db DBTX) TrialRepository {
	return &trialRepository{db: db}
}

// Checkout records a new On_Trial entry. Stock is left as is.
func (r *trialRepository) Checkout(ctx context.Context, entry *domain.TrialLedgerEntry) error {
	query := `
		INSERT INTO trial_ledger (customer_name, customer_phone, product_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_taken
	`

	entry.Status = domain.TrialOnTrial
	err := r.db.QueryRowContext(ctx, query,
		nullString(entry.CustomerName),
		nullString(entry.CustomerPhone),
		entry.ProductID,
		entry.Status,
	).Scan(&entry.ID, &entry.DateTaken)

	if err != nil {
		if isViolation(err, pgForeignKeyViolation) {
			return ErrProductNotFound
		}
		return wrapErr("check out trial", err)
	}

	return nil
}

func (r *trialRepository) FindByID(ctx context.Context, id int64) (*domain.TrialLedgerEntry, error) {
	query := `
		SELECT id, COALESCE(customer_name, ''), COALESCE(customer_phone, ''), product_id, date_taken, status
		FROM trial_ledger
		WHERE id = $1
	`

	entry := &domain.TrialLedgerEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.CustomerName,
		&entry.CustomerPhone,
		&entry.ProductID,
		&entry.DateTaken,
		&entry.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrialNotFound
		}
		return nil, fmt.Errorf("failed to find trial entry: %w", err)
	}

	return entry, nil
}

// ListOutstanding returns On_Trial entries, most recent first
func (r *trialRepository) ListOutstanding(ctx context.Context) ([]*domain.TrialItem, error) {
	query := `
		SELECT t.id, COALESCE(t.customer_name, ''), COALESCE(t.customer_phone, ''), t.product_id,
			t.date_taken, t.status, p.name, COALESCE(p.size, ''), COALESCE(p.color, ''), p.sell_price
		FROM trial_ledger t
		JOIN products p ON p.id = t.product_id
		WHERE t.status = $1
		ORDER BY t.date_taken DESC, t.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, domain.TrialOnTrial)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}
	defer rows.Close()

	items := []*domain.TrialItem{}
	for rows.Next() {
		item := &domain.TrialItem{}
		err := rows.Scan(
			&item.ID,
			&item.CustomerName,
			&item.CustomerPhone,
			&item.ProductID,
			&item.DateTaken,
			&item.Status,
			&item.ProductName,
			&item.Size,
			&item.Color,
			&item.SellPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trials: %w", err)
	}

	return items, nil
}

func (r *trialRepository) CountOutstanding(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trial_ledger WHERE status = $1`, domain.TrialOnTrial).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count trials: %w", err)
	}
	return n, nil
}

// SetStatus moves an On_Trial entry to a terminal status. Entries that
// already left On_Trial are rejected with domain.ErrInvalidTransition.
func (r *trialRepository) SetStatus(ctx context.Context, id int64, status domain.TrialStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	query := `
		UPDATE trial_ledger
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, id, domain.TrialOnTrial)
	if err != nil {
		return wrapErr("update trial status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	entry, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: entry %d is %s", domain.ErrInvalidTransition, entry.ID, entry.Status)
}
