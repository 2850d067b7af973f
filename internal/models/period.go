package models

import "time"

// AccountingPeriod is the persisted state of one calendar month.
// Months with no row are open; rows exist only once a close is attempted.
type AccountingPeriod struct {
	PeriodID string     `db:"period_id"`
	Year     int        `db:"year"`
	Month    int        `db:"month"`
	Status   string     `db:"status"`
	ClosedBy *string    `db:"closed_by"`
	ClosedAt *time.Time `db:"closed_at"`
	AuditFields
}
