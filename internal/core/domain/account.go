package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountKind defines the fundamental accounting type of an account.
type AccountKind string

const (
	Asset       AccountKind = "ASSET"
	Liability   AccountKind = "LIABILITY"
	Equity      AccountKind = "EQUITY"
	Revenue     AccountKind = "REVENUE"
	CostOfSales AccountKind = "COST_OF_SALES"
	Expense     AccountKind = "EXPENSE"
)

// BalanceSide is the side on which an account of a given kind naturally increases.
type BalanceSide string

const (
	DebitBalance  BalanceSide = "DEBIT"
	CreditBalance BalanceSide = "CREDIT"
)

// ResultKinds are the temporary (income statement) account kinds zeroed at period close.
var ResultKinds = []AccountKind{Revenue, CostOfSales, Expense}

// Account represents one node in the chart of accounts. The hierarchy is encoded
// twice: by ParentAccountID and by the code prefix convention (a child's code
// always starts with its parent's code), which reports use for rollups.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary key (UUID)
	Code            string      `json:"code"`            // Unique, hierarchical prefix encoding
	Name            string      `json:"name"`            // User-defined name
	Kind            AccountKind `json:"kind"`            // ASSET, LIABILITY, ...
	NormalBalance   BalanceSide `json:"normalBalance"`   // Derived from Kind, stored for consistency checks
	IsBalanceSheet  bool        `json:"isBalanceSheet"`  // True for ASSET/LIABILITY/EQUITY
	IsLeaf          bool        `json:"isLeaf"`          // Postable (auxiliary) flag
	ParentAccountID string      `json:"parentAccountID"` // Self-referencing FK, empty for roots
	Description     string      `json:"description"`
	Active          bool        `json:"active"`
	AuditFields
}

// NormalBalanceFor derives the normal balance side for an account kind.
func NormalBalanceFor(kind AccountKind) (BalanceSide, error) {
	switch kind {
	case Asset, CostOfSales, Expense:
		return DebitBalance, nil
	case Liability, Equity, Revenue:
		return CreditBalance, nil
	default:
		return "", fmt.Errorf("unknown account kind %q", kind)
	}
}

// IsBalanceSheetKind reports whether accounts of the kind belong on the balance
// sheet (permanent accounts) as opposed to the income statement.
func IsBalanceSheetKind(kind AccountKind) bool {
	switch kind {
	case Asset, Liability, Equity:
		return true
	default:
		return false
	}
}

// IsResultKind reports whether the kind is a temporary result account.
func IsResultKind(kind AccountKind) bool {
	switch kind {
	case Revenue, CostOfSales, Expense:
		return true
	default:
		return false
	}
}

// CanPost reports whether the account may receive journal lines: it must be a
// leaf, have no children, and be active.
func (a *Account) CanPost(hasChildren bool) bool {
	return a.IsLeaf && !hasChildren && a.Active
}

// IsDescendantCode reports whether code denotes a strict descendant of a.
func (a *Account) IsDescendantCode(code string) bool {
	return code != a.Code && strings.HasPrefix(code, a.Code)
}

// SignedAmount converts a debit/credit pair into a signed movement following the
// account's normal balance: debit-natured accounts accumulate debit - credit,
// credit-natured accounts credit - debit.
func (a *Account) SignedAmount(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance == DebitBalance {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
