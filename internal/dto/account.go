package dto

import (
	"time"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// NormalBalance is optional; the kind already determines it, but a caller that
// supplies it must agree with the kind.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	Kind            domain.AccountKind `json:"kind" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE COST_OF_SALES EXPENSE"`
	NormalBalance   domain.BalanceSide `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	IsLeaf          bool               `json:"isLeaf"`
	Description     string             `json:"description"` // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Code, Kind and ParentAccountID are structural and can only change while the
// account has no postings.
type UpdateAccountRequest struct {
	Code            *string             `json:"code"`
	Name            *string             `json:"name"`
	Kind            *domain.AccountKind `json:"kind" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE COST_OF_SALES EXPENSE"`
	ParentAccountID *string             `json:"parentAccountID"`
	IsLeaf          *bool               `json:"isLeaf"`
	Description     *string             `json:"description"`
	Active          *bool               `json:"active"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Kind            domain.AccountKind `json:"kind"`
	NormalBalance   domain.BalanceSide `json:"normalBalance"`
	IsBalanceSheet  bool               `json:"isBalanceSheet"`
	IsLeaf          bool               `json:"isLeaf"`
	ParentAccountID string             `json:"parentAccountID"` // Note: Empty string if null in DB
	Description     string             `json:"description"`
	Active          bool               `json:"active"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int    `form:"limit,default=100"`
	Offset int    `form:"offset,default=0"`
	Prefix string `form:"prefix"` // Optional code prefix filter
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceParams defines the optional date range for a balance query. An empty
// From means the balance accumulates from the first posting; AsOf defaults to
// today.
type BalanceParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	NormalBalance string          `json:"normalBalance"`
	From          string          `json:"from,omitempty"`
	AsOf          string          `json:"asOf"`
	Opening       decimal.Decimal `json:"opening"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		Kind:            acc.Kind,
		NormalBalance:   acc.NormalBalance,
		IsBalanceSheet:  acc.IsBalanceSheet,
		IsLeaf:          acc.IsLeaf,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		Active:          acc.Active,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to ListAccountsResponse
func ToListAccountResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return ListAccountsResponse{Accounts: res}
}
