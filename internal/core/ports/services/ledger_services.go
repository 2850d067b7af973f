package services

import (
	"context"
	"time"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/contaula/contaula/internal/dto"
)

// LedgerService defines balance and ledger queries derived from confirmed entries
type LedgerService interface {
	// AccountBalance computes an account's opening balance, turnover and closing
	// balance over a date range. A zero from covers everything up to to. For
	// aggregator accounts the balance rolls up every descendant by code prefix.
	AccountBalance(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountBalance, error)

	// AccountLedger lists the postings of a leaf account over a date range with
	// opening balance and a running balance per row.
	AccountLedger(ctx context.Context, accountID string, from, to time.Time) (*dto.LedgerResponse, error)

	// TrialBalance lists every account with activity up to asOf, its balance placed
	// on the debit or credit column. Column totals must match.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}
