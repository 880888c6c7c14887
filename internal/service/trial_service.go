package service

import (
	"context"
	"fmt"
	"strings"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/metrics"
	"boutique-pos/internal/repository"

	"go.uber.org/zap"
)

// TrialService tracks products a customer takes home before deciding
type TrialService interface {
	Checkout(ctx context.Context, customerName, customerPhone string, productID int64) (*domain.TrialLedgerEntry, error)
	ListOutstanding(ctx context.Context) ([]*domain.TrialItem, error)
	CountOutstanding(ctx context.Context) (int, error)
	SetStatus(ctx context.Context, entryID int64, status domain.TrialStatus) error
}

type trialService struct {
	trialRepo repository.TrialRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewTrialService creates a new instance of TrialService
func NewTrialService(trialRepo repository.TrialRepository, m *metrics.Metrics, logger *zap.Logger) TrialService {
	return &trialService{trialRepo: trialRepo, metrics: m, logger: logger}
}

// Checkout opens an On_Trial entry. Stock is not held.
func (s *trialService) Checkout(ctx context.Context, customerName, customerPhone string, productID int64) (*domain.TrialLedgerEntry, error) {
	entry := &domain.TrialLedgerEntry{
		CustomerName:  strings.TrimSpace(customerName),
		CustomerPhone: strings.TrimSpace(customerPhone),
		ProductID:     productID,
	}

	if err := s.trialRepo.Checkout(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.TrialCheckouts.Inc()
	s.logger.Info("Product checked out on trial",
		zap.Int64("trial_id", entry.ID),
		zap.Int64("product_id", entry.ProductID),
	)

	return entry, nil
}

func (s *trialService) ListOutstanding(ctx context.Context) ([]*domain.TrialItem, error) {
	return s.trialRepo.ListOutstanding(ctx)
}

func (s *trialService) CountOutstanding(ctx context.Context) (int, error) {
	return s.trialRepo.CountOutstanding(ctx)
}

// SetStatus closes an entry as Returned or Purchased
func (s *trialService) SetStatus(ctx context.Context, entryID int64, status domain.TrialStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	if err := s.trialRepo.SetStatus(ctx, entryID, status); err != nil {
		return err
	}

	s.metrics.TrialClosed.WithLabelValues(string(status)).Inc()
	s.logger.Info("Trial closed",
		zap.Int64("trial_id", entryID),
		zap.String("status", string(status)),
	)

	return nil
}
