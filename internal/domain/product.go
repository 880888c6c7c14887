package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Vendor represents a supplier
type Vendor struct {
	ID            int64  `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	ContactPerson string `json:"contact_person" db:"contact_person"`
	Phone         string `json:"phone" db:"phone"`
}

// VendorSummary is a vendor with the number of products it supplies
type VendorSummary struct {
	Vendor
	ProductCount int `json:"product_count" db:"product_count"`
}

// Product represents an inventory unit. StockQuantity is only ever changed
// through the stock ledger.
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	VendorID      *int64          `json:"vendor_id,omitempty" db:"vendor_id"`
	VendorName    string          `json:"vendor_name,omitempty" db:"vendor_name"`
	SKU           string          `json:"sku" db:"sku"`
	BuyPrice      decimal.Decimal `json:"buy_price" db:"buy_price"`
	SellPrice     decimal.Decimal `json:"sell_price" db:"sell_price"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	Size          string          `json:"size" db:"size"`
	Color         string          `json:"color" db:"color"`
}

// DisplayName renders "name (color/size)".
func DisplayName(name, color, size string) string {
	return fmt.Sprintf("%s (%s/%s)", name, color, size)
}
