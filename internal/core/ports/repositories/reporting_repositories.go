package repositories

import (
	"context"
	"time"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines aggregate queries over confirmed journal lines.
// All queries count confirmed entries only and skip void/reversal pairs, which
// net to zero by construction.
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-account debit and credit turnover between
	// two dates for accounts with any activity.
	GetTrialBalanceData(ctx context.Context, from, to time.Time) ([]domain.AccountMovement, error)

	// GetMovementsByKinds retrieves per-account turnover for leaf accounts of the
	// given kinds between two dates.
	GetMovementsByKinds(ctx context.Context, kinds []domain.AccountKind, from, to time.Time) ([]domain.AccountMovement, error)

	// GetMovementByCodePrefix sums turnover across every account whose code starts
	// with the prefix. Used for aggregator account balances.
	GetMovementByCodePrefix(ctx context.Context, codePrefix string, from, to time.Time) (debit, credit decimal.Decimal, err error)
}
