package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique-pos/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedOptions controls first-run data
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	DemoData      bool
}

type demoVendor struct {
	name, contact, phone string
}

type demoProduct struct {
	name, vendor, sku, size, color string
	buy, sell                      string
	stock                          int
}

var demoVendors = []demoVendor{
	{"Northwind Textiles", "Maya Ortiz", "555-0141"},
	{"Urban Thread Co.", "Sam Lee", "555-0178"},
}

var demoProducts = []demoProduct{
	{"Slim Fit Jeans", "Urban Thread Co.", "JEAN-SF-32-IND", "32", "Indigo", "18.50", "49.99", 12},
	{"Linen Shirt", "Northwind Textiles", "SHRT-LIN-M-WHT", "M", "White", "11.00", "34.00", 20},
	{"Wool Scarf", "Northwind Textiles", "SCRF-WOL-OS-GRY", "OS", "Grey", "6.25", "19.50", 8},
	{"Denim Jacket", "Urban Thread Co.", "JCKT-DEN-L-BLU", "L", "Blue", "27.00", "79.00", 5},
}

// EnsureSeedData guarantees the administrator account exists and, when
// requested, fills empty vendor and product tables with demonstration rows.
// It is safe to call on every startup.
func EnsureSeedData(ctx context.Context, db *sql.DB, opts SeedOptions, logger *zap.Logger) error {
	if err := ensureAdminUser(ctx, db, opts, logger); err != nil {
		return err
	}

	if !opts.DemoData {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if err := seedVendors(ctx, tx, logger); err != nil {
		return err
	}
	if err := seedProducts(ctx, tx, logger); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}
	return nil
}

func ensureAdminUser(ctx context.Context, db *sql.DB, opts SeedOptions, logger *zap.Logger) error {
	if opts.AdminUsername == "" || opts.AdminPassword == "" {
		return errors.New("seed admin username and password are required")
	}

	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = $1`, opts.AdminUsername).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
	`, opts.AdminUsername, string(hash), domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	logger.Info("Inserted default admin user", zap.String("username", opts.AdminUsername))
	return nil
}

func tableIsEmpty(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s)`, table)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	return !exists, nil
}

func seedVendors(ctx context.Context, tx *sql.Tx, logger *zap.Logger) error {
	empty, err := tableIsEmpty(ctx, tx, "vendors")
	if err != nil || !empty {
		return err
	}

	for _, v := range demoVendors {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vendors (name, contact_person, phone)
			VALUES ($1, $2, $3)
		`, v.name, v.contact, v.phone)
		if err != nil {
			return fmt.Errorf("failed to seed vendor %s: %w", v.name, err)
		}
	}

	logger.Info("Seeded demonstration vendors", zap.Int("count", len(demoVendors)))
	return nil
}

func seedProducts(ctx context.Context, tx *sql.Tx, logger *zap.Logger) error {
	empty, err := tableIsEmpty(ctx, tx, "products")
	if err != nil || !empty {
		return err
	}

	for _, p := range demoProducts {
		// vendor_id stays NULL when the vendor is unknown
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, vendor_id, sku, buy_price, sell_price, stock_quantity, size, color)
			VALUES ($1, (SELECT id FROM vendors WHERE name = $2), $3, $4, $5, $6, $7, $8)
		`, p.name, p.vendor, p.sku, p.buy, p.sell, p.stock, p.size, p.color)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}
	}

	logger.Info("Seeded demonstration products", zap.Int("count", len(demoProducts)))
	return nil
}
