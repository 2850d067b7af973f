package dto

import (
	"time"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit         decimal.Decimal `json:"debit"`
		Credit        decimal.Decimal `json:"credit"`
		DebitBalance  decimal.Decimal `json:"debitBalance"`
		CreditBalance decimal.Decimal `json:"creditBalance"`
	} `json:"totals"`
}

// StatementLineResponse represents an account with its amount in a financial report
type StatementLineResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	FromDate    string                  `json:"fromDate"`
	ToDate      string                  `json:"toDate"`
	Revenue     []StatementLineResponse `json:"revenue"`
	CostOfSales []StatementLineResponse `json:"costOfSales"`
	Expenses    []StatementLineResponse `json:"expenses"`
	Summary     struct {
		TotalRevenue     decimal.Decimal `json:"totalRevenue"`
		TotalCostOfSales decimal.Decimal `json:"totalCostOfSales"`
		TotalExpenses    decimal.Decimal `json:"totalExpenses"`
		GrossProfit      decimal.Decimal `json:"grossProfit"`
		NetIncome        decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []StatementLineResponse `json:"assets"`
	Liabilities []StatementLineResponse `json:"liabilities"`
	Equity      []StatementLineResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		CurrentResult    decimal.Decimal `json:"currentResult"`
		Balanced         bool            `json:"balanced"`
	} `json:"summary"`
}

// LedgerEntryResponse is one row of an account ledger with a running balance.
type LedgerEntryResponse struct {
	EntryID        string          `json:"entryID"`
	SequenceNumber int64           `json:"sequenceNumber"`
	EntryDate      string          `json:"entryDate"`
	Description    string          `json:"description"`
	Detail         string          `json:"detail"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Running        decimal.Decimal `json:"running"`
}

// LedgerResponse is the ledger of one account over a date range.
type LedgerResponse struct {
	AccountID string                `json:"accountID"`
	Code      string                `json:"code"`
	Name      string                `json:"name"`
	FromDate  string                `json:"fromDate"`
	ToDate    string                `json:"toDate"`
	Opening   decimal.Decimal       `json:"opening"`
	Closing   decimal.Decimal       `json:"closing"`
	Rows      []LedgerEntryResponse `json:"rows"`
}

// ReportRangeParams defines the from/to query parameters shared by range reports.
type ReportRangeParams struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// AsOfParams defines the asOf query parameter for point-in-time reports.
// Defaults to today when omitted.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance, asOf time.Time) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: asOf.Format("2006-01-02"),
		Rows: make([]TrialBalanceRowResponse, len(tb.Rows)),
	}

	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:     row.AccountID,
			Code:          row.Code,
			Name:          row.Name,
			Kind:          string(row.Kind),
			Debit:         row.Debit,
			Credit:        row.Credit,
			DebitBalance:  row.DebitBalance,
			CreditBalance: row.CreditBalance,
		}
	}

	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	response.Totals.DebitBalance = tb.TotalDebitBalance
	response.Totals.CreditBalance = tb.TotalCreditBalance

	return response
}

func toStatementLines(lines []domain.StatementLine) []StatementLineResponse {
	res := make([]StatementLineResponse, len(lines))
	for i, line := range lines {
		res[i] = StatementLineResponse{
			AccountID: line.AccountID,
			Code:      line.Code,
			Name:      line.Name,
			Amount:    line.Amount,
		}
	}
	return res
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response
func ToIncomeStatementResponse(report *domain.IncomeStatement, from, to time.Time) IncomeStatementResponse {
	response := IncomeStatementResponse{
		FromDate:    from.Format("2006-01-02"),
		ToDate:      to.Format("2006-01-02"),
		Revenue:     toStatementLines(report.Revenue),
		CostOfSales: toStatementLines(report.CostOfSales),
		Expenses:    toStatementLines(report.Expenses),
	}

	response.Summary.TotalRevenue = report.TotalRevenue
	response.Summary.TotalCostOfSales = report.TotalCostOfSales
	response.Summary.TotalExpenses = report.TotalExpenses
	response.Summary.GrossProfit = report.GrossProfit
	response.Summary.NetIncome = report.NetIncome

	return response
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheet, asOf time.Time) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        asOf.Format("2006-01-02"),
		Assets:      toStatementLines(report.Assets),
		Liabilities: toStatementLines(report.Liabilities),
		Equity:      toStatementLines(report.Equity),
	}

	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.CurrentResult = report.CurrentResult
	response.Summary.Balanced = report.Balanced

	return response
}
