package services

import (
	"context"
	"time"

	"github.com/contaula/contaula/internal/core/domain"
)

// StatementService defines operations for generating financial statements
type StatementService interface {
	// IncomeStatement reports result-account balances for a date range, with gross
	// profit and net income.
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)

	// BalanceSheet reports permanent-account balances as of a date. The accumulated
	// result of still-open periods appears as CurrentResult so the statement balances.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
}
