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
	"github.com/shopspring/decimal"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	entryRepo     portsrepo.EntryReader
	reportingRepo portsrepo.ReportingRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(accountRepo portsrepo.AccountReader, entryRepo portsrepo.EntryReader, reportingRepo portsrepo.ReportingRepository) portssvc.LedgerService {
	return &ledgerService{
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		reportingRepo: reportingRepo,
	}
}

// Ensure ledgerService implements the LedgerService interface
var _ portssvc.LedgerService = (*ledgerService)(nil)

// AccountBalance computes an account's opening balance, turnover and closing
// balance over a date range. A zero from covers everything up to to. For
// aggregator accounts the balance rolls up every descendant through the code
// prefix, so no parent pointers are chased.
func (s *ledgerService) AccountBalance(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if !from.IsZero() {
		openingDebit, openingCredit, err := s.reportingRepo.GetMovementByCodePrefix(ctx, account.Code, time.Time{}, from.AddDate(0, 0, -1))
		if err != nil {
			s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to compute opening balance: %w", err)
		}
		opening = account.SignedAmount(openingDebit, openingCredit)
	}

	debit, credit, err := s.reportingRepo.GetMovementByCodePrefix(ctx, account.Code, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account balance", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to compute account balance: %w", err)
	}

	balance := &domain.AccountBalance{
		AccountID:     account.AccountID,
		Code:          account.Code,
		Name:          account.Name,
		Kind:          account.Kind,
		NormalBalance: account.NormalBalance,
		Opening:       opening,
		Debit:         debit,
		Credit:        credit,
		Closing:       opening.Add(account.SignedAmount(debit, credit)),
	}

	s.LogDebug(ctx, "Account balance computed",
		slog.String("account_id", accountID),
		slog.String("closing", balance.Closing.StringFixed(2)))
	return balance, nil
}

// AccountLedger lists the postings of a leaf account over a date range with an
// opening balance and a running balance per row.
func (s *ledgerService) AccountLedger(ctx context.Context, accountID string, from, to time.Time) (*dto.LedgerResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsLeaf {
		return nil, fmt.Errorf("%w: ledger is only available for posting accounts", apperrors.ErrValidation)
	}

	// Opening balance covers everything strictly before the range
	openingDebit, openingCredit, err := s.reportingRepo.GetMovementByCodePrefix(ctx, account.Code, time.Time{}, from.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	opening := account.SignedAmount(openingDebit, openingCredit)

	lines, entries, err := s.entryRepo.ListLinesByAccountID(ctx, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account lines", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list account lines: %w", err)
	}

	resp := &dto.LedgerResponse{
		AccountID: account.AccountID,
		Code:      account.Code,
		Name:      account.Name,
		FromDate:  from.Format(dateLayout),
		ToDate:    to.Format(dateLayout),
		Opening:   opening,
		Rows:      make([]dto.LedgerEntryResponse, len(lines)),
	}

	running := opening
	for i, line := range lines {
		entry := entries[line.EntryID]
		running = running.Add(account.SignedAmount(line.Debit, line.Credit))
		resp.Rows[i] = dto.LedgerEntryResponse{
			EntryID:        line.EntryID,
			SequenceNumber: entry.SequenceNumber,
			EntryDate:      entry.EntryDate.Format(dateLayout),
			Description:    entry.Description,
			Detail:         line.Detail,
			Debit:          line.Debit,
			Credit:         line.Credit,
			Running:        running,
		}
	}
	resp.Closing = running

	s.LogDebug(ctx, "Account ledger generated",
		slog.String("account_id", accountID),
		slog.Int("row_count", len(resp.Rows)))
	return resp, nil
}

// TrialBalance lists every account with activity up to asOf, carrying its
// debit and credit turnover and its closing balance. The balance lands on the
// account's normal column; a contrary balance lands on the opposite column, so
// the balance columns stay non-negative and both pairs of totals match.
func (s *ledgerService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	movements, err := s.reportingRepo.GetTrialBalanceData(ctx, time.Time{}, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("asOf", asOf.Format(dateLayout)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := &domain.TrialBalance{
		Rows:               make([]domain.TrialBalanceRow, 0, len(movements)),
		TotalDebit:         decimal.Zero,
		TotalCredit:        decimal.Zero,
		TotalDebitBalance:  decimal.Zero,
		TotalCreditBalance: decimal.Zero,
	}

	for _, m := range movements {
		balance := m.Balance()
		row := domain.TrialBalanceRow{
			AccountID:     m.AccountID,
			Code:          m.Code,
			Name:          m.Name,
			Kind:          m.Kind,
			Debit:         m.Debit,
			Credit:        m.Credit,
			DebitBalance:  decimal.Zero,
			CreditBalance: decimal.Zero,
		}

		onNormalSide := !balance.IsNegative()
		amount := balance.Abs()
		debitNatured := m.NormalBalance == domain.DebitBalance
		if debitNatured == onNormalSide {
			row.DebitBalance = amount
		} else {
			row.CreditBalance = amount
		}

		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.TotalDebitBalance = tb.TotalDebitBalance.Add(row.DebitBalance)
		tb.TotalCreditBalance = tb.TotalCreditBalance.Add(row.CreditBalance)
	}

	s.LogInfo(ctx, "Trial balance generated",
		slog.String("asOf", asOf.Format(dateLayout)),
		slog.Int("row_count", len(tb.Rows)))
	return tb, nil
}
