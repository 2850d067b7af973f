package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contaula/contaula/internal/apperrors"
	"github.com/contaula/contaula/internal/core/domain"
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/contaula/contaula/internal/middleware"
	"github.com/contaula/contaula/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type entryService struct {
	BaseService
	entryRepo   portsrepo.EntryRepositoryFacade
	accountRepo portsrepo.AccountReader
	periodRepo  portsrepo.PeriodRepository
	cfg         *config.Config
}

// NewEntryService creates a new journal entry service.
func NewEntryService(entryRepo portsrepo.EntryRepositoryFacade, accountRepo portsrepo.AccountReader, periodRepo portsrepo.PeriodRepository, cfg *config.Config) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
		cfg:         cfg,
	}
}

// Ensure entryService implements the EntrySvcFacade interface
var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// CreateEntry persists a new journal entry. With req.Confirm the entry is fully
// validated, numbered and posted in one step; otherwise it is stored as a draft
// that only has to pass line shape checks.
func (s *entryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid entry date %q", apperrors.ErrValidation, req.EntryDate)
	}

	// The period check runs before any line inspection so a posting into a
	// closed month is always reported as such, whatever else is wrong with it
	if req.Confirm {
		if err := s.checkPeriodOpen(ctx, entryDate); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := s.buildLines(req.Lines, entryID, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	accounts, err := s.fetchLineAccounts(ctx, lines)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   entryDate,
		Description: req.Description,
		Status:      domain.Draft,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if req.Confirm {
		if err := validatePostingRules(&entry, accounts, s.cfg); err != nil {
			return nil, err
		}
		entry.Status = domain.Confirmed
	}

	if err := s.entryRepo.SaveEntry(ctx, &entry); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	logger.Info("Entry created successfully",
		slog.String("entry_id", entry.EntryID),
		slog.String("status", string(entry.Status)),
		slog.Int64("sequence_number", entry.SequenceNumber))
	return &entry, nil
}

// UpdateDraft replaces the editable fields of a draft entry.
func (s *entryService) UpdateDraft(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, apperrors.ErrAlreadyConfirmed
	}

	now := time.Now().UTC()

	if req.EntryDate != nil {
		entryDate, err := time.Parse(dateLayout, *req.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid entry date %q", apperrors.ErrValidation, *req.EntryDate)
		}
		entry.EntryDate = entryDate
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}

	if req.Lines != nil {
		lines, err := s.buildLines(req.Lines, entryID, userID, now)
		if err != nil {
			return nil, err
		}
		if _, err := s.fetchLineAccounts(ctx, lines); err != nil {
			return nil, err
		}
		entry.Lines = lines
	} else {
		lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, err
		}
		entry.Lines = lines
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.UpdateDraftEntry(ctx, entry); err != nil {
		logger.Error("Failed to update draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update draft entry: %w", err)
	}

	logger.Info("Draft entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

// ConfirmEntry validates a draft and posts it, assigning its sequence number.
func (s *entryService) ConfirmEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, apperrors.ErrAlreadyConfirmed
	}

	if err := s.checkPeriodOpen(ctx, entry.EntryDate); err != nil {
		return nil, err
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines

	accounts, err := s.fetchLineAccounts(ctx, lines)
	if err != nil {
		return nil, err
	}
	if err := validatePostingRules(entry, accounts, s.cfg); err != nil {
		return nil, err
	}

	entry.Status = domain.Confirmed
	entry.LastUpdatedAt = time.Now().UTC()
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.ConfirmEntry(ctx, entry); err != nil {
		logger.Error("Failed to confirm entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to confirm entry: %w", err)
	}

	logger.Info("Entry confirmed",
		slog.String("entry_id", entryID),
		slog.Int64("sequence_number", entry.SequenceNumber))
	return entry, nil
}

// VoidEntry voids a confirmed entry by generating a linked reversal entry with
// debits and credits swapped. The original keeps its lines and sequence number.
func (s *entryService) VoidEntry(ctx context.Context, entryID string, req dto.VoidEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Confirmed {
		return nil, apperrors.ErrNotConfirmed
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// The reversal posts today, so today's period must be open
	closed, err := s.periodRepo.IsDateClosed(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to check accounting period: %w", err)
	}
	if closed {
		return nil, apperrors.ErrPeriodClosed
	}

	reversalID := uuid.NewString()
	reversalLines := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		reversalLines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      reversalID,
			AccountID:    line.AccountID,
			Detail:       line.Detail,
			Debit:        line.Credit, // Swapped
			Credit:       line.Debit,  // Swapped
			ThirdPartyID: line.ThirdPartyID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	reversal := domain.JournalEntry{
		EntryID:      reversalID,
		EntryDate:    today,
		Description:  fmt.Sprintf("Reversal of entry %d: %s", entry.SequenceNumber, req.Reason),
		Status:       domain.Confirmed,
		Lines:        reversalLines,
		ReversalOfID: &entry.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	entry.Status = domain.Voided
	entry.ReversedByID = &reversalID
	entry.VoidedBy = &userID
	entry.VoidedAt = &now
	entry.VoidReason = req.Reason
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.VoidEntry(ctx, entry, &reversal); err != nil {
		logger.Error("Failed to void entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to void entry: %w", err)
	}

	logger.Info("Entry voided",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversalID),
		slog.Int64("reversal_sequence_number", reversal.SequenceNumber))
	return &reversal, nil
}

// GetEntryByID retrieves a specific entry with its lines.
func (s *entryService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	return entry, nil
}

// ListEntries retrieves a paginated list of entries, newest first.
func (s *entryService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.EntryStatus
	if params.Status != "" {
		st := domain.EntryStatus(strings.ToUpper(params.Status))
		switch st {
		case domain.Draft, domain.Confirmed, domain.Voided:
			status = &st
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, params.Limit, params.NextToken, params.IncludeReversals, status)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	resp := dto.ToListEntriesResponse(entries, nextToken)
	return &resp, nil
}

// buildLines converts request lines to domain lines, enforcing the shape rules:
// non-negative amounts, exactly one positive side, at most two decimal places.
func (s *entryService) buildLines(reqLines []dto.CreateEntryLineRequest, entryID, userID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, lineReq := range reqLines {
		if lineReq.Debit.IsNegative() || lineReq.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNegativeAmount, lineReq.AccountID)
		}
		if lineReq.Debit.IsPositive() && lineReq.Credit.IsPositive() {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrBothSidesPositive, lineReq.AccountID)
		}
		if !lineReq.Debit.IsPositive() && !lineReq.Credit.IsPositive() {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNeitherSidePositive, lineReq.AccountID)
		}
		if !lineReq.Debit.Equal(lineReq.Debit.Round(2)) || !lineReq.Credit.Equal(lineReq.Credit.Round(2)) {
			return nil, fmt.Errorf("%w: amounts are limited to 2 decimal places (account %s)", apperrors.ErrInvalidLine, lineReq.AccountID)
		}

		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lineReq.AccountID,
			Detail:       lineReq.Detail,
			Debit:        lineReq.Debit,
			Credit:       lineReq.Credit,
			ThirdPartyID: lineReq.ThirdPartyID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines, nil
}

// fetchLineAccounts loads every account referenced by the lines and fails with
// ErrNotFound when any is missing.
func (s *entryService) fetchLineAccounts(ctx context.Context, lines []domain.JournalLine) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, found := accounts[id]; !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// checkPeriodOpen rejects posting dates that fall inside a closed period.
func (s *entryService) checkPeriodOpen(ctx context.Context, date time.Time) error {
	closed, err := s.periodRepo.IsDateClosed(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to check accounting period: %w", err)
	}
	if closed {
		return apperrors.ErrPeriodClosed
	}
	return nil
}

// validatePostingRules runs the account, balance and banking-threshold checks
// every confirmed entry must pass. The open-period check is separate because it
// has to run before the lines are even looked at. A single-sided or empty set
// of lines can never balance, so both fall out of the balance check as
// unbalanced rather than needing a line-count rule of their own.
func validatePostingRules(entry *domain.JournalEntry, accounts map[string]domain.Account, cfg *config.Config) error {
	for _, line := range entry.Lines {
		acc := accounts[line.AccountID]
		if !acc.IsLeaf {
			return fmt.Errorf("%w: %s", apperrors.ErrNonLeafAccount, acc.Code)
		}
		if !acc.Active {
			return fmt.Errorf("%w: %s", apperrors.ErrInactiveAccount, acc.Code)
		}
	}

	if !entry.IsBalanced() {
		return fmt.Errorf("%w: debit %s vs credit %s", apperrors.ErrUnbalanced,
			entry.TotalDebit().StringFixed(2), entry.TotalCredit().StringFixed(2))
	}
	if entry.TotalDebit().IsZero() {
		return fmt.Errorf("%w: entry total is zero", apperrors.ErrUnbalanced)
	}

	return checkBankingThreshold(entry, accounts, cfg)
}

// checkBankingThreshold rejects any single cash line above the configured
// threshold. Bank accounts are exempt even when their codes share the cash prefix.
func checkBankingThreshold(entry *domain.JournalEntry, accounts map[string]domain.Account, cfg *config.Config) error {
	if cfg == nil || cfg.BankingThreshold.Equal(decimal.Zero) {
		return nil
	}
	for _, line := range entry.Lines {
		acc := accounts[line.AccountID]
		if !strings.HasPrefix(acc.Code, cfg.CashAccountPrefix) {
			continue
		}
		if cfg.BankAccountPrefix != "" && strings.HasPrefix(acc.Code, cfg.BankAccountPrefix) {
			continue
		}
		if line.Amount().GreaterThan(cfg.BankingThreshold) {
			return fmt.Errorf("%w: %s on account %s exceeds %s", apperrors.ErrBankingThreshold,
				line.Amount().StringFixed(2), acc.Code, cfg.BankingThreshold.StringFixed(2))
		}
	}
	return nil
}
