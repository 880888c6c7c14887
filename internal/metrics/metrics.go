// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Sale failure reasons
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonNotFound          = "not_found"
	ReasonInvalid           = "invalid"
	ReasonStorage           = "storage"
)

type Metrics struct {
	SalesCommitted  prometheus.Counter
	SalesFailed     *prometheus.CounterVec
	Revenue         prometheus.Counter
	ItemsSold       prometheus.Counter
	StockRejections prometheus.Counter
	Restocked       prometheus.Counter
	TrialCheckouts  prometheus.Counter
	TrialClosed     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SalesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "sales_committed_total",
			Help:      "Sales committed to the store.",
		}),
		SalesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "sales_failed_total",
			Help:      "Sales rolled back or rejected, by reason.",
		}, []string{"reason"}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "sales_revenue_total",
			Help:      "Sum of committed sale totals.",
		}),
		ItemsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "items_sold_total",
			Help:      "Units sold across committed sales.",
		}),
		StockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "stock_adjustments_rejected_total",
			Help:      "Stock adjustments refused to keep quantity non-negative.",
		}),
		Restocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "units_restocked_total",
			Help:      "Units added through restock.",
		}),
		TrialCheckouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "trial_checkouts_total",
			Help:      "Products checked out on trial.",
		}),
		TrialClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boutique",
			Name:      "trials_closed_total",
			Help:      "Trial entries moved to a terminal status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.SalesCommitted,
		m.SalesFailed,
		m.Revenue,
		m.ItemsSold,
		m.StockRejections,
		m.Restocked,
		m.TrialCheckouts,
		m.TrialClosed,
	)

	return m
}

// NewNop returns collectors bound to a throwaway registry
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
