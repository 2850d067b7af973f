package services

import (
	"context"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/contaula/contaula/internal/dto"
)

// ChartReaderSvc defines read operations for the chart of accounts
type ChartReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its hierarchical code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts ordered by code.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// GetSubtree retrieves an account and all of its descendants, ordered by code.
	GetSubtree(ctx context.Context, accountID string) ([]domain.Account, error)
}

// ChartWriterSvc defines write operations for the chart of accounts
type ChartWriterSvc interface {
	// CreateAccount persists a new account after validating its place in the hierarchy.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account. Structural fields (code, kind,
	// parent) are rejected once the account has postings.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive so it no longer accepts postings.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// ChartSvcFacade combines all chart-of-accounts service interfaces
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
}
