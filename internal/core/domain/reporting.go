package domain

import "github.com/shopspring/decimal"

// AccountBalance is the ledger position of a single account over a date range.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Kind          AccountKind     `json:"kind"`
	NormalBalance BalanceSide     `json:"normalBalance"`
	Opening       decimal.Decimal `json:"opening"` // Signed, per normal balance
	Debit         decimal.Decimal `json:"debit"`   // Period debit turnover
	Credit        decimal.Decimal `json:"credit"`  // Period credit turnover
	Closing       decimal.Decimal `json:"closing"` // Opening + signed movement
}

// TrialBalanceRow carries an account's debit and credit turnover plus its
// closing balance placed on the debit or credit column. A balance on the
// account's normal side lands on that column; a contrary balance lands on the
// opposite column. The balance columns stay non-negative.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Kind          AccountKind     `json:"kind"`
	Debit         decimal.Decimal `json:"debit"`  // Period debit turnover
	Credit        decimal.Decimal `json:"credit"` // Period credit turnover
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
}

// TrialBalance lists every account with activity plus the grand totals. For a
// consistent ledger the turnover totals match each other and so do the balance
// column totals.
type TrialBalance struct {
	Rows               []TrialBalanceRow `json:"rows"`
	TotalDebit         decimal.Decimal   `json:"totalDebit"`  // Turnover totals
	TotalCredit        decimal.Decimal   `json:"totalCredit"`
	TotalDebitBalance  decimal.Decimal   `json:"totalDebitBalance"` // Balance column totals
	TotalCreditBalance decimal.Decimal   `json:"totalCreditBalance"`
}

// AccountMovement is the raw debit/credit turnover of one account, the building
// block for statements and closing entries.
type AccountMovement struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Kind          AccountKind     `json:"kind"`
	NormalBalance BalanceSide     `json:"normalBalance"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// Balance returns the movement's signed balance per the account's normal side.
func (m *AccountMovement) Balance() decimal.Decimal {
	if m.NormalBalance == DebitBalance {
		return m.Debit.Sub(m.Credit)
	}
	return m.Credit.Sub(m.Debit)
}

// StatementLine is one account's contribution to a financial statement section.
type StatementLine struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatement reports result-account balances over a date range.
type IncomeStatement struct {
	Revenue          []StatementLine `json:"revenue"`
	CostOfSales      []StatementLine `json:"costOfSales"`
	Expenses         []StatementLine `json:"expenses"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCostOfSales decimal.Decimal `json:"totalCostOfSales"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	GrossProfit      decimal.Decimal `json:"grossProfit"` // Revenue - cost of sales
	NetIncome        decimal.Decimal `json:"netIncome"`   // Gross profit - expenses
}

// BalanceSheet reports permanent-account balances as of a date. Before the
// period closes, CurrentResult carries the accumulated net income so the
// equation Assets = Liabilities + Equity + CurrentResult holds.
type BalanceSheet struct {
	Assets           []StatementLine `json:"assets"`
	Liabilities      []StatementLine `json:"liabilities"`
	Equity           []StatementLine `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	CurrentResult    decimal.Decimal `json:"currentResult"`
	Balanced         bool            `json:"balanced"`
}

// LedgerEntry is one line of an account's ledger (libro mayor) with a running
// balance.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`
	SequenceNumber int64           `json:"sequenceNumber"`
	EntryDate      string          `json:"entryDate"`
	Description    string          `json:"description"`
	Detail         string          `json:"detail"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Running        decimal.Decimal `json:"running"`
}
