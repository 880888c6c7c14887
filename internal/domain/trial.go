package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialStatus is the lifecycle state of a trial ledger entry
type TrialStatus string

const (
	TrialOnTrial   TrialStatus = "On_Trial"
	TrialReturned  TrialStatus = "Returned"
	TrialPurchased TrialStatus = "Purchased"
)

func (s TrialStatus) Valid() bool {
	switch s {
	case TrialOnTrial, TrialReturned, TrialPurchased:
		return true
	}
	return false
}

// Terminal reports whether no transition is defined out of s.
func (s TrialStatus) Terminal() bool {
	return s == TrialReturned || s == TrialPurchased
}

// TrialLedgerEntry tracks a product checked out by a customer on trial
type TrialLedgerEntry struct {
	ID            int64       `json:"id" db:"id"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	CustomerPhone string      `json:"customer_phone" db:"customer_phone"`
	ProductID     int64       `json:"product_id" db:"product_id"`
	DateTaken     time.Time   `json:"date_taken" db:"date_taken"`
	Status        TrialStatus `json:"status" db:"status"`
}

// TrialItem is an outstanding entry joined with product display fields
type TrialItem struct {
	TrialLedgerEntry
	ProductName string          `json:"product_name" db:"name"`
	Size        string          `json:"size" db:"size"`
	Color       string          `json:"color" db:"color"`
	SellPrice   decimal.Decimal `json:"sell_price" db:"sell_price"`
}

func (t TrialItem) DisplayName() string {
	return DisplayName(t.ProductName, t.Color, t.Size)
}
