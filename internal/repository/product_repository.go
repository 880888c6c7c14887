package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boutique-pos/internal/domain"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrSKUAlreadyExists = fmt.Errorf("product with this SKU already exists: %w", domain.ErrConstraintViolation)
	ErrUnknownVendor    = fmt.Errorf("vendor does not exist: %w", domain.ErrConstraintViolation)
)

// MaxSearchLimit caps fuzzy search results
const MaxSearchLimit = 100

var searchPatternEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ProductRepository defines the interface for product data access.
// Stock is never written here; see StockLedger.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Product, error)
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.name, p.vendor_id, COALESCE(v.name, ''), COALESCE(p.sku, ''),
	p.buy_price, p.sell_price, p.stock_quantity, COALESCE(p.size, ''), COALESCE(p.color, '')
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var vendorID sql.NullInt64
	err := row.Scan(
		&product.ID,
		&product.Name,
		&vendorID,
		&product.VendorName,
		&product.SKU,
		&product.BuyPrice,
		&product.SellPrice,
		&product.StockQuantity,
		&product.Size,
		&product.Color,
	)
	if err != nil {
		return nil, err
	}
	if vendorID.Valid {
		product.VendorID = &vendorID.Int64
	}
	return product, nil
}

// Create inserts a new product. A blank SKU is stored as NULL so several
// unassigned products can coexist under the unique constraint.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, vendor_id, sku, buy_price, sell_price, stock_quantity, size, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var vendorID sql.NullInt64
	if product.VendorID != nil {
		vendorID = sql.NullInt64{Int64: *product.VendorID, Valid: true}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		vendorID,
		nullString(strings.TrimSpace(product.SKU)),
		product.BuyPrice,
		product.SellPrice,
		product.StockQuantity,
		nullString(product.Size),
		nullString(product.Color),
	).Scan(&product.ID)

	if err != nil {
		switch {
		case isViolation(err, pgUniqueViolation):
			return ErrSKUAlreadyExists
		case isViolation(err, pgForeignKeyViolation):
			return ErrUnknownVendor
		}
		return wrapErr("create product", err)
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN vendors v ON v.id = p.vendor_id
		WHERE p.id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindBySKU retrieves a product by its exact SKU
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, ErrProductNotFound
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN vendors v ON v.id = p.vendor_id
		WHERE p.sku = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by SKU: %w", err)
	}

	return product, nil
}

// Search matches query as a case-insensitive substring of the name or SKU,
// alphabetically, at most limit rows. No match yields an empty slice.
func (r *productRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Product{}, nil
	}

	if limit <= 0 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	// Wildcards typed by the user are matched literally
	searchPattern := "%" + searchPatternEscaper.Replace(query) + "%"

	searchQuery := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN vendors v ON v.id = p.vendor_id
		WHERE p.name ILIKE $1 ESCAPE '\' OR p.sku ILIKE $1 ESCAPE '\'
		ORDER BY p.name ASC, p.id ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, searchQuery, searchPattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return products, nil
}
