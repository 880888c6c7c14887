package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	salesSheet = "Sales"
	itemsSheet = "Items"
)

var ErrInvalidRange = errors.New("report range end must be after start")

// ReportService aggregates committed sales
type ReportService interface {
	SalesToday(ctx context.Context) (decimal.Decimal, error)
	SalesBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)
	ExportSales(ctx context.Context, from, to time.Time, w io.Writer) error
	StartOfDay() time.Time
}

type reportService struct {
	txRepo   repository.TransactionRepository
	location *time.Location
	now      func() time.Time
}

// NewReportService creates a new instance of ReportService. Days are
// bounded in loc; now defaults to time.Now.
func NewReportService(txRepo repository.TransactionRepository, loc *time.Location, now func() time.Time) ReportService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &reportService{txRepo: txRepo, location: loc, now: now}
}

// StartOfDay is midnight of the current day in the store's location
func (s *reportService) StartOfDay() time.Time {
	t := s.now().In(s.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.location)
}

// SalesToday sums transaction totals since the start of the current day
func (s *reportService) SalesToday(ctx context.Context) (decimal.Decimal, error) {
	return s.txRepo.TotalSince(ctx, s.StartOfDay())
}

func (s *reportService) SalesBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	if !to.After(from) {
		return nil, ErrInvalidRange
	}
	return s.txRepo.ListBetween(ctx, from, to)
}

// ExportSales writes an xlsx workbook with one sheet of headers and one of items
func (s *reportService) ExportSales(ctx context.Context, from, to time.Time, w io.Writer) error {
	txns, err := s.SalesBetween(ctx, from, to)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(salesSheet)
	if err != nil {
		return fmt.Errorf("failed to create sales sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("failed to create items sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	salesHeader := []any{"Transaction ID", "Timestamp", "Payment Method", "User ID", "Total"}
	itemsHeader := []any{"Transaction ID", "Product ID", "Quantity", "Price At Sale", "Line Total"}
	if err := setRow(f, salesSheet, 1, salesHeader); err != nil {
		return err
	}
	if err := setRow(f, itemsSheet, 1, itemsHeader); err != nil {
		return err
	}

	itemRow := 2
	for r, txn := range txns {
		var userID any = ""
		if txn.UserID != nil {
			userID = *txn.UserID
		}
		total, _ := txn.TotalAmount.Float64()
		err := setRow(f, salesSheet, r+2, []any{
			txn.ID,
			txn.Timestamp.In(s.location).Format("2006-01-02 15:04:05"),
			txn.PaymentMethod,
			userID,
			total,
		})
		if err != nil {
			return err
		}

		for _, item := range txn.Items {
			price, _ := item.PriceAtSale.Float64()
			lineTotal, _ := item.LineTotal().Float64()
			err := setRow(f, itemsSheet, itemRow, []any{
				item.TransactionID,
				item.ProductID,
				item.Quantity,
				price,
				lineTotal,
			})
			if err != nil {
				return err
			}
			itemRow++
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(salesSheet, "A1", "E1", style)
		_ = f.SetCellStyle(itemsSheet, "A1", "E1", style)
	}
	_ = f.SetColWidth(salesSheet, "B", "C", 20)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
