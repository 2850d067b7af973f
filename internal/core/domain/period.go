package domain

import "time"

// PeriodStatus is the state of one accounting period (a calendar month).
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod tracks whether a calendar month accepts new postings.
// Periods are created lazily: a month with no row is open.
type AccountingPeriod struct {
	PeriodID string       `json:"periodID"` // Primary key (UUID)
	Year     int          `json:"year"`
	Month    int          `json:"month"` // 1..12
	Status   PeriodStatus `json:"status"`
	ClosedBy *string      `json:"closedBy,omitempty"`
	ClosedAt *time.Time   `json:"closedAt,omitempty"`
	AuditFields
}

// Contains reports whether the given date falls inside the period.
func (p *AccountingPeriod) Contains(date time.Time) bool {
	return date.Year() == p.Year && int(date.Month()) == p.Month
}

// LastDay returns the last calendar day of the period in UTC.
func (p *AccountingPeriod) LastDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// PeriodOf returns the year and month a date belongs to.
func PeriodOf(date time.Time) (year, month int) {
	return date.Year(), int(date.Month())
}
