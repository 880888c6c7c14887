package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPaymentMethod = "Cash"

// Transaction is a committed sale header. It is immutable once stored.
type Transaction struct {
	ID            int64             `json:"id" db:"id"`
	Timestamp     time.Time         `json:"timestamp" db:"timestamp"`
	TotalAmount   decimal.Decimal   `json:"total_amount" db:"total_amount"`
	PaymentMethod string            `json:"payment_method" db:"payment_method"`
	UserID        *int64            `json:"user_id,omitempty" db:"user_id"`
	Items         []TransactionItem `json:"items,omitempty"`
}

// TransactionItem is one sold line; PriceAtSale is captured at commit time.
type TransactionItem struct {
	ID            int64           `json:"id" db:"id"`
	TransactionID int64           `json:"transaction_id" db:"transaction_id"`
	ProductID     int64           `json:"product_id" db:"product_id"`
	Quantity      int             `json:"quantity" db:"quantity"`
	PriceAtSale   decimal.Decimal `json:"price_at_sale" db:"price_at_sale"`
}

// LineTotal returns quantity * price at sale
func (i TransactionItem) LineTotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SaleLine is a requested cart line for the sale protocol. A nil UnitPrice
// sells at the product's current sell price.
type SaleLine struct {
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// SaleRequest is the cart handed to the sale protocol
type SaleRequest struct {
	PaymentMethod string     `json:"payment_method" validate:"max=30"`
	Items         []SaleLine `json:"items" validate:"dive"`
}
