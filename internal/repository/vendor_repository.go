package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique-pos/internal/domain"
)

var (
	ErrVendorNotFound      = fmt.Errorf("vendor %w", domain.ErrNotFound)
	ErrVendorAlreadyExists = fmt.Errorf("vendor with this name already exists: %w", domain.ErrConstraintViolation)
)

// VendorRepository defines the interface for vendor data access
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	FindByID(ctx context.Context, id int64) (*domain.Vendor, error)
	List(ctx context.Context) ([]*domain.VendorSummary, error)
}

type vendorRepository struct {
	db DBTX
}

// NewVendorRepository creates a new instance of VendorRepository
func NewVendorRepository(db DBTX) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	query := `
		INSERT INTO vendors (name, contact_person, phone)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		vendor.Name,
		nullString(vendor.ContactPerson),
		nullString(vendor.Phone),
	).Scan(&vendor.ID)

	if err != nil {
		if IsConstraintViolation(err) {
			return ErrVendorAlreadyExists
		}
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	return nil
}

func (r *vendorRepository) FindByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	query := `
		SELECT id, name, COALESCE(contact_person, ''), COALESCE(phone, '')
		FROM vendors
		WHERE id = $1
	`

	vendor := &domain.Vendor{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&vendor.ID,
		&vendor.Name,
		&vendor.ContactPerson,
		&vendor.Phone,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to find vendor by ID: %w", err)
	}

	return vendor, nil
}

// List returns all vendors alphabetically with the number of products each supplies
func (r *vendorRepository) List(ctx context.Context) ([]*domain.VendorSummary, error) {
	query := `
		SELECT v.id, v.name, COALESCE(v.contact_person, ''), COALESCE(v.phone, ''), COUNT(p.id)
		FROM vendors v
		LEFT JOIN products p ON p.vendor_id = v.id
		GROUP BY v.id, v.name, v.contact_person, v.phone
		ORDER BY v.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []*domain.VendorSummary{}
	for rows.Next() {
		v := &domain.VendorSummary{}
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.ContactPerson,
			&v.Phone,
			&v.ProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendors: %w", err)
	}

	return vendors, nil
}
