package dto

import (
	"time"

	"github.com/contaula/contaula/internal/core/domain"
)

// ClosePeriodRequest identifies the month to close.
type ClosePeriodRequest struct {
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID string     `json:"periodID"`
	Year     int        `json:"year"`
	Month    int        `json:"month"`
	Status   string     `json:"status"`
	ClosedBy *string    `json:"closedBy,omitempty"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
}

// ClosePeriodResponse returns the closed period together with the closing entry
// generated to zero the result accounts. ClosingEntry is absent when the month
// had no result activity.
type ClosePeriodResponse struct {
	Period       PeriodResponse `json:"period"`
	ClosingEntry *EntryResponse `json:"closingEntry,omitempty"`
}

// ListPeriodsResponse wraps the list of accounting periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID: p.PeriodID,
		Year:     p.Year,
		Month:    p.Month,
		Status:   string(p.Status),
		ClosedBy: p.ClosedBy,
		ClosedAt: p.ClosedAt,
	}
}

// ToListPeriodsResponse converts a slice of domain.AccountingPeriod.
func ToListPeriodsResponse(periods []domain.AccountingPeriod) ListPeriodsResponse {
	res := make([]PeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToPeriodResponse(&periods[i])
	}
	return ListPeriodsResponse{Periods: res}
}
