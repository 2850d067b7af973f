package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contaula/contaula/internal/core/domain"
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// statementService implements the StatementService interface
type statementService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewStatementService creates a new financial statement service.
func NewStatementService(repo portsrepo.ReportingRepository) portssvc.StatementService {
	return &statementService{reportingRepo: repo}
}

// Ensure statementService implements the StatementService interface
var _ portssvc.StatementService = (*statementService)(nil)

// IncomeStatement reports result-account balances for a date range.
// Gross profit is revenue minus cost of sales; net income subtracts expenses.
func (s *statementService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	movements, err := s.reportingRepo.GetMovementsByKinds(ctx, domain.ResultKinds, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve income statement data",
			slog.String("from", from.Format(dateLayout)),
			slog.String("to", to.Format(dateLayout)))
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}

	report := &domain.IncomeStatement{
		Revenue:          []domain.StatementLine{},
		CostOfSales:      []domain.StatementLine{},
		Expenses:         []domain.StatementLine{},
		TotalRevenue:     decimal.Zero,
		TotalCostOfSales: decimal.Zero,
		TotalExpenses:    decimal.Zero,
	}

	for _, m := range movements {
		line := domain.StatementLine{
			AccountID: m.AccountID,
			Code:      m.Code,
			Name:      m.Name,
			Amount:    m.Balance(),
		}
		switch m.Kind {
		case domain.Revenue:
			report.Revenue = append(report.Revenue, line)
			report.TotalRevenue = report.TotalRevenue.Add(line.Amount)
		case domain.CostOfSales:
			report.CostOfSales = append(report.CostOfSales, line)
			report.TotalCostOfSales = report.TotalCostOfSales.Add(line.Amount)
		case domain.Expense:
			report.Expenses = append(report.Expenses, line)
			report.TotalExpenses = report.TotalExpenses.Add(line.Amount)
		}
	}

	report.GrossProfit = report.TotalRevenue.Sub(report.TotalCostOfSales)
	report.NetIncome = report.GrossProfit.Sub(report.TotalExpenses)

	s.LogInfo(ctx, "Income statement generated",
		slog.String("from", from.Format(dateLayout)),
		slog.String("to", to.Format(dateLayout)),
		slog.String("net_income", report.NetIncome.StringFixed(2)))
	return report, nil
}

// BalanceSheet reports permanent-account balances as of a date. The accumulated
// result of not-yet-closed activity appears as CurrentResult, which keeps the
// statement balanced before the period close posts it into equity.
func (s *statementService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	permanent, err := s.reportingRepo.GetMovementsByKinds(ctx, []domain.AccountKind{domain.Asset, domain.Liability, domain.Equity}, time.Time{}, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("asOf", asOf.Format(dateLayout)))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	results, err := s.reportingRepo.GetMovementsByKinds(ctx, domain.ResultKinds, time.Time{}, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve result data for balance sheet", slog.String("asOf", asOf.Format(dateLayout)))
		return nil, fmt.Errorf("failed to retrieve result data: %w", err)
	}

	report := &domain.BalanceSheet{
		Assets:           []domain.StatementLine{},
		Liabilities:      []domain.StatementLine{},
		Equity:           []domain.StatementLine{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}

	for _, m := range permanent {
		line := domain.StatementLine{
			AccountID: m.AccountID,
			Code:      m.Code,
			Name:      m.Name,
			Amount:    m.Balance(),
		}
		switch m.Kind {
		case domain.Asset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(line.Amount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(line.Amount)
		case domain.Equity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity = report.TotalEquity.Add(line.Amount)
		}
	}

	// Result accounts not yet swept into equity by a period close
	currentResult := decimal.Zero
	for _, m := range results {
		switch m.Kind {
		case domain.Revenue:
			currentResult = currentResult.Add(m.Balance())
		case domain.CostOfSales, domain.Expense:
			currentResult = currentResult.Sub(m.Balance())
		}
	}
	report.CurrentResult = currentResult
	report.Balanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity).Add(currentResult))

	s.LogInfo(ctx, "Balance sheet generated",
		slog.String("asOf", asOf.Format(dateLayout)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}
