package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contaula/contaula/internal/apperrors"
	"github.com/contaula/contaula/internal/core/domain"
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/contaula/contaula/internal/middleware"
	"github.com/google/uuid"
)

type chartService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewChartService creates a new chart-of-accounts service.
func NewChartService(repo portsrepo.AccountRepositoryFacade) portssvc.ChartSvcFacade {
	return &chartService{accountRepo: repo}
}

// Ensure chartService implements the ChartSvcFacade interface
var _ portssvc.ChartSvcFacade = (*chartService)(nil)

// CreateAccount persists a new account after validating its place in the hierarchy.
func (s *chartService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	normalBalance, err := domain.NormalBalanceFor(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.NormalBalance != "" && req.NormalBalance != normalBalance {
		return nil, fmt.Errorf("%w: %s accounts are %s-natured", apperrors.ErrInconsistentNature, req.Kind, normalBalance)
	}

	// Reject duplicate codes up front for a clearer error than the unique index gives
	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, parentID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}

		// The hierarchy is encoded in the codes: a child's code extends its parent's
		if !parent.IsDescendantCode(req.Code) {
			return nil, fmt.Errorf("%w: %s under parent %s", apperrors.ErrInvalidHierarchy, req.Code, parent.Code)
		}

		// A parent gaining its first child must not stay flagged as postable
		if parent.IsLeaf {
			return nil, fmt.Errorf("%w: parent %s", apperrors.ErrAggregatorCannotBeLeaf, parent.Code)
		}

		if parent.Kind != req.Kind {
			return nil, fmt.Errorf("%w: parent %s is %s", apperrors.ErrInconsistentNature, parent.Code, parent.Kind)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		Kind:            req.Kind,
		NormalBalance:   normalBalance,
		IsBalanceSheet:  domain.IsBalanceSheetKind(req.Kind),
		IsLeaf:          req.IsLeaf,
		ParentAccountID: parentID,
		Description:     req.Description,
		Active:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_code", account.Code))
		return nil, err
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("account_code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a specific account by its unique identifier.
func (s *chartService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its hierarchical code.
func (s *chartService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by code in repository", slog.String("error", err.Error()), slog.String("account_code", code))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by code.
func (s *chartService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var accounts []domain.Account
	var err error
	if params.Prefix != "" {
		accounts, err = s.accountRepo.ListAccountsByCodePrefix(ctx, params.Prefix)
	} else {
		accounts, err = s.accountRepo.ListAccounts(ctx, params.Limit, params.Offset)
	}
	if err != nil {
		logger.Error("Failed to list accounts from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// GetSubtree retrieves an account and all of its descendants, ordered by code.
func (s *chartService) GetSubtree(ctx context.Context, accountID string) ([]domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccountsByCodePrefix(ctx, account.Code)
}

// UpdateAccount updates an existing account. Structural fields (code, kind,
// parent, leaf flag) are rejected once the account has postings.
func (s *chartService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	structural := req.Code != nil || req.Kind != nil || req.ParentAccountID != nil || req.IsLeaf != nil
	if structural {
		hasPostings, err := s.accountRepo.HasPostings(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check account postings: %w", err)
		}
		if hasPostings {
			return nil, apperrors.ErrAccountHasPostings
		}
	}

	if req.Kind != nil && *req.Kind != account.Kind {
		normalBalance, err := domain.NormalBalanceFor(*req.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		account.Kind = *req.Kind
		account.NormalBalance = normalBalance
		account.IsBalanceSheet = domain.IsBalanceSheetKind(*req.Kind)
	}

	if req.Code != nil && *req.Code != account.Code {
		// Renaming the code of an account with children would break the prefix
		// encoding of the whole subtree
		children, err := s.accountRepo.CountChildren(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to count children: %w", err)
		}
		if children > 0 {
			return nil, fmt.Errorf("%w: account %s has child accounts", apperrors.ErrValidation, account.Code)
		}
		if existing, err := s.accountRepo.FindAccountByCode(ctx, *req.Code); err == nil && existing != nil && existing.AccountID != accountID {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, *req.Code)
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check account code: %w", err)
		}
		account.Code = *req.Code
	}

	if req.ParentAccountID != nil {
		if err := s.validateParentChange(ctx, account, *req.ParentAccountID); err != nil {
			return nil, err
		}
		account.ParentAccountID = *req.ParentAccountID
	} else if req.Code != nil && account.ParentAccountID != "" {
		// Re-validate the prefix against the current parent after a code change
		parent, err := s.accountRepo.FindAccountByID(ctx, account.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if !parent.IsDescendantCode(account.Code) {
			return nil, fmt.Errorf("%w: %s under parent %s", apperrors.ErrInvalidHierarchy, account.Code, parent.Code)
		}
	}

	if req.IsLeaf != nil && *req.IsLeaf != account.IsLeaf {
		if *req.IsLeaf {
			children, err := s.accountRepo.CountChildren(ctx, accountID)
			if err != nil {
				return nil, fmt.Errorf("failed to count children: %w", err)
			}
			if children > 0 {
				return nil, fmt.Errorf("%w: %s", apperrors.ErrAggregatorCannotBeLeaf, account.Code)
			}
		}
		account.IsLeaf = *req.IsLeaf
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.Active != nil {
		account.Active = *req.Active
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// validateParentChange checks a reparenting request for hierarchy violations.
func (s *chartService) validateParentChange(ctx context.Context, account *domain.Account, newParentID string) error {
	if newParentID == "" {
		return nil // Detaching to root is always structurally valid
	}
	if newParentID == account.AccountID {
		return apperrors.ErrCycleDetected
	}

	parent, err := s.accountRepo.FindAccountByID(ctx, newParentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, newParentID)
		}
		return fmt.Errorf("failed to fetch parent account: %w", err)
	}

	// Walk up from the new parent; hitting the account itself means a cycle
	current := parent
	for current.ParentAccountID != "" {
		if current.ParentAccountID == account.AccountID {
			return apperrors.ErrCycleDetected
		}
		current, err = s.accountRepo.FindAccountByID(ctx, current.ParentAccountID)
		if err != nil {
			return fmt.Errorf("failed to walk parent chain: %w", err)
		}
	}

	if !parent.IsDescendantCode(account.Code) {
		return fmt.Errorf("%w: %s under parent %s", apperrors.ErrInvalidHierarchy, account.Code, parent.Code)
	}
	if parent.IsLeaf {
		return fmt.Errorf("%w: parent %s", apperrors.ErrAggregatorCannotBeLeaf, parent.Code)
	}
	if parent.Kind != account.Kind {
		return fmt.Errorf("%w: parent %s is %s", apperrors.ErrInconsistentNature, parent.Code, parent.Kind)
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (s *chartService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to deactivate account in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated successfully", slog.String("account_id", accountID))
	return nil
}
