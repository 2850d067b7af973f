package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contaula/contaula/internal/apperrors"
	"github.com/contaula/contaula/internal/core/domain"
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/contaula/contaula/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// periodService implements the PeriodService interface
type periodService struct {
	BaseService
	entryRepo     portsrepo.EntryRepositoryFacade
	accountRepo   portsrepo.AccountReader
	periodRepo    portsrepo.PeriodRepository
	reportingRepo portsrepo.ReportingRepository
	cfg           *config.Config
}

// NewPeriodService creates a new accounting period service.
func NewPeriodService(entryRepo portsrepo.EntryRepositoryFacade, accountRepo portsrepo.AccountReader, periodRepo portsrepo.PeriodRepository, reportingRepo portsrepo.ReportingRepository, cfg *config.Config) portssvc.PeriodService {
	return &periodService{
		entryRepo:     entryRepo,
		accountRepo:   accountRepo,
		periodRepo:    periodRepo,
		reportingRepo: reportingRepo,
		cfg:           cfg,
	}
}

// Ensure periodService implements the PeriodService interface
var _ portssvc.PeriodService = (*periodService)(nil)

// ClosePeriod generates the closing entry for a month, posts it dated on the
// month's last day, and marks the period closed, all in one transaction. The
// entry zeroes every result account balance accumulated up to the end of the
// month and posts the difference into the configured equity account.
func (s *periodService) ClosePeriod(ctx context.Context, req dto.ClosePeriodRequest, userID string) (*domain.AccountingPeriod, *domain.JournalEntry, error) {
	existing, err := s.periodRepo.FindPeriod(ctx, req.Year, req.Month)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check accounting period: %w", err)
	}
	if existing != nil && existing.Status == domain.PeriodClosed {
		return nil, nil, apperrors.ErrPeriodAlreadyClosed
	}

	now := time.Now().UTC()
	period := &domain.AccountingPeriod{
		PeriodID: uuid.NewString(),
		Year:     req.Year,
		Month:    req.Month,
		Status:   domain.PeriodClosed,
		ClosedBy: &userID,
		ClosedAt: &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if existing != nil {
		period.PeriodID = existing.PeriodID
		period.AuditFields = existing.AuditFields
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
	}

	closeDate := period.LastDay()

	// Earlier closes already zeroed their months, so the cumulative residual up
	// to closeDate is exactly what this close has to sweep.
	movements, err := s.reportingRepo.GetMovementsByKinds(ctx, domain.ResultKinds, time.Time{}, closeDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve result balances for close",
			slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, nil, fmt.Errorf("failed to retrieve result balances: %w", err)
	}

	entry, err := s.buildClosingEntry(ctx, movements, closeDate, userID, now)
	if err != nil {
		return nil, nil, err
	}

	// The closing entry goes through the same posting rules as any other entry
	if entry != nil {
		accounts, err := s.fetchClosingAccounts(ctx, entry)
		if err != nil {
			return nil, nil, err
		}
		if err := validatePostingRules(entry, accounts, s.cfg); err != nil {
			return nil, nil, err
		}
	}

	if err := s.entryRepo.SaveClosingEntry(ctx, entry, period); err != nil {
		s.LogError(ctx, err, "Failed to close period",
			slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, nil, err
	}

	fields := []any{slog.Int("year", req.Year), slog.Int("month", req.Month)}
	if entry != nil {
		fields = append(fields, slog.String("closing_entry_id", entry.EntryID), slog.Int64("sequence_number", entry.SequenceNumber))
	}
	s.LogInfo(ctx, "Period closed", fields...)
	return period, entry, nil
}

// fetchClosingAccounts loads every account the closing entry posts to.
func (s *periodService) fetchClosingAccounts(ctx context.Context, entry *domain.JournalEntry) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(entry.Lines))
	seen := make(map[string]bool, len(entry.Lines))
	for _, line := range entry.Lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch closing entry accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, found := accounts[id]; !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// buildClosingEntry assembles the balanced entry that zeroes the given result
// balances into the closing equity account. It returns nil when there is
// nothing to sweep.
func (s *periodService) buildClosingEntry(ctx context.Context, movements []domain.AccountMovement, closeDate time.Time, userID string, now time.Time) (*domain.JournalEntry, error) {
	entryID := uuid.NewString()
	lines := make([]domain.JournalLine, 0, len(movements)+1)
	netIncome := decimal.Zero

	newLine := func(accountID string, debit, credit decimal.Decimal, detail string) domain.JournalLine {
		return domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: accountID,
			Detail:    detail,
			Debit:     debit,
			Credit:    credit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	for _, m := range movements {
		balance := m.Balance()
		if balance.IsZero() {
			continue
		}

		// Posting on the opposite side of the residual zeroes the account
		var debit, credit decimal.Decimal
		if m.NormalBalance == domain.CreditBalance {
			if balance.IsPositive() {
				debit = balance
			} else {
				credit = balance.Abs()
			}
		} else {
			if balance.IsPositive() {
				credit = balance
			} else {
				debit = balance.Abs()
			}
		}
		lines = append(lines, newLine(m.AccountID, debit, credit, "Period close"))

		if m.Kind == domain.Revenue {
			netIncome = netIncome.Add(balance)
		} else {
			netIncome = netIncome.Sub(balance)
		}
	}

	if len(lines) == 0 {
		return nil, nil // Nothing to close this month
	}

	closingAccount, err := s.accountRepo.FindAccountByCode(ctx, s.cfg.ClosingAccountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve closing account %s: %w", s.cfg.ClosingAccountCode, err)
	}
	if !closingAccount.IsLeaf || !closingAccount.Active {
		return nil, fmt.Errorf("%w: closing account %s does not accept postings", apperrors.ErrValidation, closingAccount.Code)
	}

	if !netIncome.IsZero() {
		var debit, credit decimal.Decimal
		if netIncome.IsPositive() {
			credit = netIncome // Profit increases equity
		} else {
			debit = netIncome.Abs() // Loss decreases equity
		}
		lines = append(lines, newLine(closingAccount.AccountID, debit, credit, "Period result"))
	}

	entry := &domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   closeDate,
		Description: fmt.Sprintf("Closing entry %04d-%02d", closeDate.Year(), int(closeDate.Month())),
		Status:      domain.Confirmed,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if !entry.IsBalanced() {
		return nil, apperrors.ErrUnbalancedClosingEntry
	}
	return entry, nil
}

// GetPeriod retrieves the status of a single period. A period with no recorded
// row is reported as open.
func (s *periodService) GetPeriod(ctx context.Context, year, month int) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return &domain.AccountingPeriod{
			Year:   year,
			Month:  month,
			Status: domain.PeriodOpen,
		}, nil
	}
	return period, nil
}

// ListPeriods retrieves all recorded periods, newest first.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	if periods == nil {
		return []domain.AccountingPeriod{}, nil
	}
	return periods, nil
}
