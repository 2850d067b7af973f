package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/contaula/contaula/internal/core/domain"
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// postedEntryFilter selects the entries that count towards balances: confirmed
// and not a reversal. Voiding flips the original to VOIDED, so both sides of a
// void pair drop out and balances return to their pre-entry values.
const postedEntryFilter = `e.status = 'CONFIRMED' AND e.reversal_of_entry_id IS NULL`

const trialBalanceQuery = `
	SELECT
		a.account_id,
		a.code,
		a.name,
		a.kind,
		a.normal_balance,
		COALESCE(SUM(l.debit), 0) AS total_debit,
		COALESCE(SUM(l.credit), 0) AS total_credit
	FROM journal_lines l
	JOIN accounts a ON l.account_id = a.account_id
	JOIN journal_entries e ON l.entry_id = e.entry_id
	WHERE ` + postedEntryFilter + `
		AND e.entry_date BETWEEN $1 AND $2
	GROUP BY a.account_id, a.code, a.name, a.kind, a.normal_balance
	ORDER BY a.code;
`

const movementsByKindsQuery = `
	SELECT
		a.account_id,
		a.code,
		a.name,
		a.kind,
		a.normal_balance,
		COALESCE(SUM(l.debit), 0) AS total_debit,
		COALESCE(SUM(l.credit), 0) AS total_credit
	FROM journal_lines l
	JOIN accounts a ON l.account_id = a.account_id
	JOIN journal_entries e ON l.entry_id = e.entry_id
	WHERE ` + postedEntryFilter + `
		AND e.entry_date BETWEEN $1 AND $2
		AND a.kind = ANY($3)
	GROUP BY a.account_id, a.code, a.name, a.kind, a.normal_balance
	ORDER BY a.code;
`

const movementByCodePrefixQuery = `
	SELECT
		COALESCE(SUM(l.debit), 0) AS total_debit,
		COALESCE(SUM(l.credit), 0) AS total_credit
	FROM journal_lines l
	JOIN accounts a ON l.account_id = a.account_id
	JOIN journal_entries e ON l.entry_id = e.entry_id
	WHERE ` + postedEntryFilter + `
		AND e.entry_date BETWEEN $1 AND $2
		AND a.code LIKE $3 || '%';
`

// reportingRepository implements the ReportingRepository interface.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure reportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func collectMovements(rows pgx.Rows) ([]domain.AccountMovement, error) {
	result := []domain.AccountMovement{}
	for rows.Next() {
		var m domain.AccountMovement
		var kind, normalBalance string

		if err := rows.Scan(
			&m.AccountID,
			&m.Code,
			&m.Name,
			&kind,
			&normalBalance,
			&m.Debit,
			&m.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning account movement row: %w", err)
		}

		m.Kind = domain.AccountKind(kind)
		m.NormalBalance = domain.BalanceSide(normalBalance)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account movement rows: %w", err)
	}
	return result, nil
}

// GetTrialBalanceData retrieves per-account debit and credit turnover between
// two dates for accounts with any posted activity.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, from, to time.Time) ([]domain.AccountMovement, error) {
	rows, err := r.Pool.Query(ctx, trialBalanceQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

// GetMovementsByKinds retrieves per-account turnover for leaf accounts of the
// given kinds between two dates.
func (r *reportingRepository) GetMovementsByKinds(ctx context.Context, kinds []domain.AccountKind, from, to time.Time) ([]domain.AccountMovement, error) {
	kindStrings := make([]string, len(kinds))
	for i, k := range kinds {
		kindStrings[i] = string(k)
	}

	rows, err := r.Pool.Query(ctx, movementsByKindsQuery, from, to, kindStrings)
	if err != nil {
		return nil, fmt.Errorf("error querying movements by kind: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

// GetMovementByCodePrefix sums turnover across every account whose code starts
// with the prefix. Used for aggregator account balances and ledger openings.
func (r *reportingRepository) GetMovementByCodePrefix(ctx context.Context, codePrefix string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	err := r.Pool.QueryRow(ctx, movementByCodePrefixQuery, from, to, codePrefix).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("error querying movement for code prefix %s: %w", codePrefix, err)
	}
	return debit, credit, nil
}
