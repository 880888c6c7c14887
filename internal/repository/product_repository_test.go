package repository

import (
	"context"
	"fmt"
	"testing"

	"boutique-pos/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createVendor(t *testing.T, name string) *domain.Vendor {
	t.Helper()
	vendor := &domain.Vendor{Name: name}
	require.NoError(t, NewVendorRepository(testDB).Create(context.Background(), vendor))
	return vendor
}

func createProduct(t *testing.T, name, sku string, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:          name,
		SKU:           sku,
		BuyPrice:      decimal.RequireFromString("4.00"),
		SellPrice:     decimal.RequireFromString("10.00"),
		StockQuantity: stock,
		Size:          "M",
		Color:         "Black",
	}
	require.NoError(t, NewProductRepository(testDB).Create(context.Background(), product))
	return product
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	resetDB(t)
	vendor := createVendor(t, "Property Vendor")
	repo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	seq := 0
	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, cents int64, stock int, size string, color string) bool {
			ctx := context.Background()
			seq++

			product := &domain.Product{
				Name:          name,
				VendorID:      &vendor.ID,
				SKU:           fmt.Sprintf("PROP-%d", seq),
				BuyPrice:      decimal.New(cents, -2),
				SellPrice:     decimal.New(cents*2, -2),
				StockQuantity: stock,
				Size:          size,
				Color:         color,
			}
			if err := repo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			return retrieved.Name == product.Name &&
				retrieved.SKU == product.SKU &&
				retrieved.BuyPrice.Equal(product.BuyPrice) &&
				retrieved.SellPrice.Equal(product.SellPrice) &&
				retrieved.StockQuantity == product.StockQuantity &&
				retrieved.Size == product.Size &&
				retrieved.Color == product.Color &&
				retrieved.VendorID != nil && *retrieved.VendorID == vendor.ID &&
				retrieved.VendorName == vendor.Name
		},
		gen.RegexMatch(`[A-Z][a-z]{2,20}`),
		gen.Int64Range(0, 99999),
		gen.IntRange(0, 500),
		gen.OneConstOf("XS", "S", "M", "L", "XL"),
		gen.OneConstOf("Red", "Blue", "Black", "Olive"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_BlankSKUsCoexist(t *testing.T) {
	resetDB(t)
	a := createProduct(t, "Plain Tee", "", 1)
	b := createProduct(t, "Plain Tank", "  ", 1)

	assert.NotEqual(t, a.ID, b.ID)

	_, err := NewProductRepository(testDB).FindBySKU(context.Background(), "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductRepository_DuplicateSKU(t *testing.T) {
	resetDB(t)
	createProduct(t, "Oxford Shirt", "OXF-01", 1)

	err := NewProductRepository(testDB).Create(context.Background(), &domain.Product{
		Name: "Other", SKU: "OXF-01", BuyPrice: decimal.Zero, SellPrice: decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrSKUAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

func TestProductRepository_UnknownVendor(t *testing.T) {
	resetDB(t)
	missing := int64(4242)

	err := NewProductRepository(testDB).Create(context.Background(), &domain.Product{
		Name: "Orphan", VendorID: &missing, BuyPrice: decimal.Zero, SellPrice: decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrUnknownVendor)
}

func TestProductRepository_NegativeStockRejected(t *testing.T) {
	resetDB(t)

	err := NewProductRepository(testDB).Create(context.Background(), &domain.Product{
		Name: "Broken", BuyPrice: decimal.Zero, SellPrice: decimal.Zero, StockQuantity: -1,
	})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

func TestProductRepository_Search(t *testing.T) {
	resetDB(t)
	createProduct(t, "Slim Fit Jeans", "JEAN-SF-32", 3)
	createProduct(t, "Bootcut Jeans", "JEAN-BC-30", 3)
	createProduct(t, "Linen Shirt", "SHRT-LIN-M", 3)
	createProduct(t, "100% Wool Scarf", "SCRF-01", 3)

	repo := NewProductRepository(testDB)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "name substring any case", query: "jeans", limit: 20, want: []string{"Bootcut Jeans", "Slim Fit Jeans"}},
		{name: "sku substring", query: "sf-32", limit: 20, want: []string{"Slim Fit Jeans"}},
		{name: "literal percent", query: "100%", limit: 20, want: []string{"100% Wool Scarf"}},
		{name: "underscore is literal", query: "_", limit: 20, want: []string{}},
		{name: "no match", query: "zzz", limit: 20, want: []string{}},
		{name: "blank query", query: "   ", limit: 20, want: []string{}},
		{name: "limit applies after ordering", query: "s", limit: 2, want: []string{"100% Wool Scarf", "Bootcut Jeans"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.Search(ctx, tt.query, tt.limit)
			require.NoError(t, err)
			require.NotNil(t, products)

			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestVendorRepository_ListCountsProducts(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	northwind := createVendor(t, "Northwind")
	createVendor(t, "Acme")

	repo := NewProductRepository(testDB)
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Product{
			Name: fmt.Sprintf("Item %d", i), VendorID: &northwind.ID,
			BuyPrice: decimal.Zero, SellPrice: decimal.Zero,
		}))
	}

	vendors, err := NewVendorRepository(testDB).List(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Acme", vendors[0].Name)
	assert.Equal(t, 0, vendors[0].ProductCount)
	assert.Equal(t, "Northwind", vendors[1].Name)
	assert.Equal(t, 2, vendors[1].ProductCount)

	err = NewVendorRepository(testDB).Create(ctx, &domain.Vendor{Name: "Acme"})
	assert.ErrorIs(t, err, ErrVendorAlreadyExists)
}
