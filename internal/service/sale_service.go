package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/metrics"
	"boutique-pos/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TxBeginner opens the durable unit a sale runs in. *sql.DB satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// SaleService records sales as one indivisible unit
type SaleService interface {
	RecordSale(ctx context.Context, principal domain.Principal, req domain.SaleRequest) (*domain.Transaction, error)
	GetSale(ctx context.Context, id int64) (*domain.Transaction, error)
}

type saleService struct {
	db      TxBeginner
	txRepo  repository.TransactionRepository
	ledger  repository.StockLedger
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(
	db TxBeginner,
	txRepo repository.TransactionRepository,
	ledger repository.StockLedger,
	m *metrics.Metrics,
	logger *zap.Logger,
) SaleService {
	return &saleService{
		db:      db,
		txRepo:  txRepo,
		ledger:  ledger,
		metrics: m,
		logger:  logger,
	}
}

// ValidateSale rejects a cart before anything is written
func ValidateSale(req domain.SaleRequest) error {
	if len(req.Items) == 0 {
		return domain.ErrEmptyCart
	}
	for i, line := range req.Items {
		if line.Quantity <= 0 || line.Quantity > domain.MaxQuantity {
			return fmt.Errorf("line %d: %w", i+1, domain.ErrInvalidQuantity)
		}
		if line.UnitPrice != nil && !domain.ValidPrice(*line.UnitPrice) {
			return fmt.Errorf("line %d: %w", i+1, domain.ErrInvalidPrice)
		}
	}
	return nil
}

// RecordSale commits the header, every item and every stock decrement
// together, or nothing at all. The recording user comes from principal.
func (s *saleService) RecordSale(ctx context.Context, principal domain.Principal, req domain.SaleRequest) (*domain.Transaction, error) {
	if err := ValidateSale(req); err != nil {
		s.metrics.SalesFailed.WithLabelValues(metrics.ReasonInvalid).Inc()
		return nil, err
	}

	txn, err := s.commitSale(ctx, principal, req)
	if err != nil {
		s.metrics.SalesFailed.WithLabelValues(failureReason(err)).Inc()
		s.logger.Warn("Sale rolled back",
			zap.String("username", principal.Username),
			zap.Int("lines", len(req.Items)),
			zap.Error(err),
		)
		return nil, err
	}

	units := 0
	for _, item := range txn.Items {
		units += item.Quantity
	}
	revenue, _ := txn.TotalAmount.Float64()
	s.metrics.SalesCommitted.Inc()
	s.metrics.Revenue.Add(revenue)
	s.metrics.ItemsSold.Add(float64(units))

	s.logger.Info("Sale committed",
		zap.Int64("transaction_id", txn.ID),
		zap.String("total", txn.TotalAmount.StringFixed(2)),
		zap.Int("items", len(txn.Items)),
		zap.String("username", principal.Username),
	)

	return txn, nil
}

func (s *saleService) commitSale(ctx context.Context, principal domain.Principal, req domain.SaleRequest) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin sale: %w", err)
	}
	// No-op once committed
	defer tx.Rollback()

	ids := make([]int64, 0, len(req.Items))
	seen := make(map[int64]bool, len(req.Items))
	for _, line := range req.Items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	locked, err := s.txRepo.LockProducts(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		TotalAmount:   decimal.Zero,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Items:         make([]domain.TransactionItem, 0, len(req.Items)),
	}
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = domain.DefaultPaymentMethod
	}
	if principal.UserID > 0 {
		userID := principal.UserID
		txn.UserID = &userID
	}

	for _, line := range req.Items {
		price := locked[line.ProductID].SellPrice
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		txn.Items = append(txn.Items, domain.TransactionItem{
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			PriceAtSale: price,
		})
		txn.TotalAmount = txn.TotalAmount.Add(txn.Items[len(txn.Items)-1].LineTotal())
	}

	if err := s.txRepo.InsertHeader(ctx, tx, txn); err != nil {
		return nil, err
	}

	remaining := make(map[int64]int, len(locked))
	for id, p := range locked {
		remaining[id] = p.StockQuantity
	}

	for i := range txn.Items {
		item := &txn.Items[i]
		if remaining[item.ProductID] < item.Quantity {
			s.metrics.StockRejections.Inc()
			return nil, fmt.Errorf("product %d: requested %d, %d in stock: %w",
				item.ProductID, item.Quantity, remaining[item.ProductID], domain.ErrInsufficientStock)
		}

		item.TransactionID = txn.ID
		if err := s.txRepo.InsertItem(ctx, tx, item); err != nil {
			return nil, err
		}

		left, err := s.ledger.AdjustStock(ctx, tx, item.ProductID, -item.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				s.metrics.StockRejections.Inc()
			}
			return nil, err
		}
		remaining[item.ProductID] = left
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	return txn, nil
}

func (s *saleService) GetSale(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.txRepo.FindByID(ctx, id)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ReasonInsufficientStock
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ReasonNotFound
	case errors.Is(err, domain.ErrConstraintViolation):
		return metrics.ReasonInvalid
	default:
		return metrics.ReasonStorage
	}
}
