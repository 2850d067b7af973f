package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/contaula/contaula/internal/apperrors"
	"github.com/contaula/contaula/internal/core/domain"
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	"github.com/contaula/contaula/internal/models"
	"github.com/contaula/contaula/internal/utils/mapping"
	"github.com/contaula/contaula/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, sequence_number, entry_date, description, status, reversal_of_entry_id, reversed_by_entry_id, voided_by, voided_at, void_reason, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, detail, debit, credit, third_party_id, created_at, created_by, last_updated_at, last_updated_by`

const accountLinesQuery = `
	SELECT l.line_id, l.entry_id, l.account_id, l.detail, l.debit, l.credit, l.third_party_id,
	       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
	       e.entry_id, e.sequence_number, e.entry_date, e.description, e.status,
	       e.reversal_of_entry_id, e.reversed_by_entry_id, e.voided_by, e.voided_at, e.void_reason,
	       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
	FROM journal_lines l
	JOIN journal_entries e ON l.entry_id = e.entry_id
	WHERE l.account_id = $1
	  AND ` + postedEntryFilter + `
	  AND e.entry_date BETWEEN $2 AND $3
	ORDER BY e.entry_date, e.sequence_number, l.created_at;
`

// openResultAccountsQuery reports whether any result account still carries a
// balance up to a date. Run inside the close transaction after the closing
// entry is written, it catches postings confirmed after the close was computed.
const openResultAccountsQuery = `
	SELECT EXISTS (
		SELECT 1
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE ` + postedEntryFilter + `
		  AND e.entry_date <= $1
		  AND a.kind = ANY($2)
		GROUP BY l.account_id
		HAVING SUM(l.debit) <> SUM(l.credit)
	);
`

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryWithTx
var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

// nextSequenceNumber allocates the next gapless entry number. The UPDATE takes
// a row lock on the single counter row, so concurrent confirmations serialize
// here and numbers are only handed out to transactions that go on to commit.
func nextSequenceNumber(ctx context.Context, tx pgx.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRow(ctx, `
		UPDATE entry_sequences
		SET last_value = last_value + 1
		WHERE sequence_name = 'journal_entries'
		RETURNING last_value;
	`).Scan(&seq)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to allocate entry sequence number", err)
	}
	return seq, nil
}

func insertEntryTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.SequenceNumber,
		m.EntryDate,
		m.Description,
		m.Status,
		m.ReversalOfID,
		m.ReversedByID,
		m.VoidedBy,
		m.VoidedAt,
		m.VoidReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entry "+m.EntryID, err)
	}
	return nil
}

func insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range lines {
		m := mapping.ToModelLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.Detail,
			m.Debit,
			m.Credit,
			m.ThirdPartyID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert entry lines", err)
	}
	return nil
}

// SaveEntry persists an entry with its lines in one transaction. A confirmed
// entry gets its sequence number allocated here; the number is written back to
// the passed entry on success.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if entry.Status == domain.Confirmed {
		seq, err := nextSequenceNumber(ctx, tx)
		if err != nil {
			return err
		}
		entry.SequenceNumber = seq
	}

	if err := insertEntryTx(ctx, tx, mapping.ToModelEntry(*entry)); err != nil {
		return err
	}
	if err := insertLinesTx(ctx, tx, entry.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateDraftEntry replaces the header fields and lines of a draft entry.
// Lines are rewritten wholesale; drafts have no history worth preserving.
func (r *PgxEntryRepository) UpdateDraftEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEntry(*entry)
	cmdTag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';
	`, m.EntryID, m.EntryDate, m.Description, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update draft entry "+m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("draft entry " + m.EntryID + " not found for update")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines of draft entry "+m.EntryID, err)
	}
	if err := insertLinesTx(ctx, tx, entry.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ConfirmEntry transitions a draft to confirmed, allocating its sequence number
// within the same transaction.
func (r *PgxEntryRepository) ConfirmEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	seq, err := nextSequenceNumber(ctx, tx)
	if err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'CONFIRMED',
		    sequence_number = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1 AND status = 'DRAFT';
	`, entry.EntryID, seq, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to confirm entry "+entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("draft entry " + entry.EntryID + " not found for confirmation")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	entry.SequenceNumber = seq
	entry.Status = domain.Confirmed
	return nil
}

// VoidEntry marks the original entry voided and persists its confirmed reversal
// entry, linking the two, all in one transaction.
func (r *PgxEntryRepository) VoidEntry(ctx context.Context, original *domain.JournalEntry, reversal *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	seq, err := nextSequenceNumber(ctx, tx)
	if err != nil {
		return err
	}
	reversal.SequenceNumber = seq

	if err := insertEntryTx(ctx, tx, mapping.ToModelEntry(*reversal)); err != nil {
		return err
	}
	if err := insertLinesTx(ctx, tx, reversal.Lines); err != nil {
		return err
	}

	m := mapping.ToModelEntry(*original)
	cmdTag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'VOIDED',
		    reversed_by_entry_id = $2,
		    voided_by = $3,
		    voided_at = $4,
		    void_reason = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE entry_id = $1 AND status = 'CONFIRMED';
	`, m.EntryID, reversal.EntryID, m.VoidedBy, m.VoidedAt, m.VoidReason, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void entry "+m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// A concurrent void got there first
		return fmt.Errorf("%w: entry %s is no longer confirmed", apperrors.ErrNotConfirmed, m.EntryID)
	}

	return r.Commit(ctx, tx)
}

// SaveClosingEntry persists the closing entry and marks the accounting period
// closed in one transaction. A nil entry closes a month with no result
// activity.
func (r *PgxEntryRepository) SaveClosingEntry(ctx context.Context, entry *domain.JournalEntry, period *domain.AccountingPeriod) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The conditional upsert closes the period only if it is not already closed,
	// which settles races between concurrent close requests.
	p := mapping.ToModelPeriod(*period)
	cmdTag, err := tx.Exec(ctx, `
		INSERT INTO accounting_periods (period_id, year, month, status, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 'CLOSED', $4, $5, $6, $7, $8, $9)
		ON CONFLICT (year, month) DO UPDATE
		SET status = 'CLOSED',
		    closed_by = EXCLUDED.closed_by,
		    closed_at = EXCLUDED.closed_at,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by
		WHERE accounting_periods.status <> 'CLOSED';
	`, p.PeriodID, p.Year, p.Month, p.ClosedBy, p.ClosedAt, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to close period %04d-%02d", p.Year, p.Month), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPeriodAlreadyClosed
	}

	if entry != nil {
		seq, err := nextSequenceNumber(ctx, tx)
		if err != nil {
			return err
		}
		entry.SequenceNumber = seq

		if err := insertEntryTx(ctx, tx, mapping.ToModelEntry(*entry)); err != nil {
			return err
		}
		if err := insertLinesTx(ctx, tx, entry.Lines); err != nil {
			return err
		}
	}

	// The closing entry was computed from a read outside this transaction. If
	// another posting confirmed in between, a result account is left non-zero
	// after the sweep and the close must not commit.
	closeDate := period.LastDay()
	resultKinds := make([]string, len(domain.ResultKinds))
	for i, k := range domain.ResultKinds {
		resultKinds[i] = string(k)
	}
	var residual bool
	if err := tx.QueryRow(ctx, openResultAccountsQuery, closeDate, resultKinds).Scan(&residual); err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to verify result accounts for period %04d-%02d", p.Year, p.Month), err)
	}
	if residual {
		return fmt.Errorf("%w: result accounts moved after the close was computed for %04d-%02d",
			apperrors.ErrUnbalancedClosingEntry, p.Year, p.Month)
	}

	return r.Commit(ctx, tx)
}

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.SequenceNumber,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.VoidedBy,
		&m.VoidedAt,
		&m.VoidReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntryByID retrieves an entry header by its ID, without lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}

	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

func scanLine(row pgx.Row) (*models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Detail,
		&m.Debit,
		&m.Credit,
		&m.ThirdPartyID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindLinesByEntryID retrieves all lines of a single entry.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainLineSlice(lines), nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry batch", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLine)
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row during batch fetch", err)
		}
		line := mapping.ToDomainLine(*m)
		linesMap[line.EntryID] = append(linesMap[line.EntryID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows during batch fetch", err)
	}

	// Entries with no lines still get an entry in the map
	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.JournalLine{}
		}
	}

	return linesMap, nil
}

// ListEntries retrieves a paginated list of entries using token-based
// pagination, newest first. Reversal entries are filtered out unless
// includeReversals is set.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeReversals bool, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`

	filterClause := `WHERE TRUE`
	args := []interface{}{}
	if !includeReversals {
		filterClause += ` AND reversal_of_entry_id IS NULL`
	}
	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	// The ordering must be stable for keyset pagination to work
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries", err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainEntry(m)
	}
	return entries, nextTokenVal, nil
}

// ListLinesByAccountID retrieves the confirmed lines posted to an account within
// a date range, together with their entry headers, ordered by entry date then
// sequence number.
func (r *PgxEntryRepository) ListLinesByAccountID(ctx context.Context, accountID string, from, to time.Time) ([]domain.JournalLine, map[string]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, accountLinesQuery, accountID, from, to)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	entries := make(map[string]domain.JournalEntry)
	for rows.Next() {
		var ml models.JournalLine
		var me models.JournalEntry
		err := rows.Scan(
			&ml.LineID, &ml.EntryID, &ml.AccountID, &ml.Detail, &ml.Debit, &ml.Credit, &ml.ThirdPartyID,
			&ml.CreatedAt, &ml.CreatedBy, &ml.LastUpdatedAt, &ml.LastUpdatedBy,
			&me.EntryID, &me.SequenceNumber, &me.EntryDate, &me.Description, &me.Status,
			&me.ReversalOfID, &me.ReversedByID, &me.VoidedBy, &me.VoidedAt, &me.VoidReason,
			&me.CreatedAt, &me.CreatedBy, &me.LastUpdatedAt, &me.LastUpdatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger row for account "+accountID, err)
		}
		lines = append(lines, mapping.ToDomainLine(ml))
		if _, seen := entries[me.EntryID]; !seen {
			entries[me.EntryID] = mapping.ToDomainEntry(me)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger rows for account "+accountID, err)
	}

	return lines, entries, nil
}
