package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/contaula/contaula/internal/apperrors"
	"github.com/contaula/contaula/internal/core/domain"
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	"github.com/contaula/contaula/internal/models"
	"github.com/contaula/contaula/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, year, month, status, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxPeriodRepository creates a new repository for accounting period data.
// Period rows are only ever written through SaveClosingEntry on the entry
// repository, so this one is read-only.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepository {
	return &PgxPeriodRepository{pool: pool}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepository
var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Year,
		&m.Month,
		&m.Status,
		&m.ClosedBy,
		&m.ClosedAt,
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

// FindPeriod retrieves the period row for a year and month, or nil if none
// exists. Absence means the month is open.
func (r *PgxPeriodRepository) FindPeriod(ctx context.Context, year, month int) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE year = $1 AND month = $2;`

	m, err := scanPeriod(r.pool.QueryRow(ctx, query, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to find accounting period", err)
	}

	period := mapping.ToDomainPeriod(*m)
	return &period, nil
}

// IsDateClosed reports whether the month containing the date is closed.
func (r *PgxPeriodRepository) IsDateClosed(ctx context.Context, date time.Time) (bool, error) {
	year, month := domain.PeriodOf(date)

	var closed bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM accounting_periods
			WHERE year = $1 AND month = $2 AND status = 'CLOSED'
		);
	`, year, month).Scan(&closed)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check period status", err)
	}
	return closed, nil
}

// ListPeriods retrieves all recorded periods, newest first.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods ORDER BY year DESC, month DESC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounting periods", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan accounting period row", err)
		}
		periods = append(periods, mapping.ToDomainPeriod(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating accounting period rows", err)
	}

	return periods, nil
}
