package services

import (
	"context"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/contaula/contaula/internal/dto"
)

// PeriodService defines operations for accounting period lifecycle
type PeriodService interface {
	// ClosePeriod generates the closing entry that zeroes the result accounts of the
	// month into the configured equity account, posts it, and marks the period
	// closed, all atomically. It returns the period and the closing entry.
	ClosePeriod(ctx context.Context, req dto.ClosePeriodRequest, userID string) (*domain.AccountingPeriod, *domain.JournalEntry, error)

	// GetPeriod retrieves the status of a single period. A period with no recorded
	// row is returned as open.
	GetPeriod(ctx context.Context, year, month int) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all recorded periods, newest first.
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}
