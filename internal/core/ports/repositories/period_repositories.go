package repositories

import (
	"context"
	"time"

	"github.com/contaula/contaula/internal/core/domain"
)

// PeriodRepository defines operations for accounting period data. Periods are
// created lazily; a month without a row counts as open.
type PeriodRepository interface {
	// FindPeriod retrieves the period row for a year and month, or nil if none exists.
	FindPeriod(ctx context.Context, year, month int) (*domain.AccountingPeriod, error)

	// IsDateClosed reports whether the month containing the date is closed.
	IsDateClosed(ctx context.Context, date time.Time) (bool, error)

	// ListPeriods retrieves all recorded periods, newest first.
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}
