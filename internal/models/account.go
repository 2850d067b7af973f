package models

// Account is the persisted form of a chart-of-accounts node.
// ParentAccountID is empty for roots and stored as NULL.
type Account struct {
	AccountID       string `db:"account_id"`
	Code            string `db:"code"`
	Name            string `db:"name"`
	Kind            string `db:"kind"`
	NormalBalance   string `db:"normal_balance"`
	IsBalanceSheet  bool   `db:"is_balance_sheet"`
	IsLeaf          bool   `db:"is_leaf"`
	ParentAccountID string `db:"parent_account_id"` // Nullable
	Description     string `db:"description"`
	Active          bool   `db:"active"`
	AuditFields
}
