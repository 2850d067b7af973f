package dto

import (
	"time"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest is one debit or credit line of a new entry.
// Exactly one of Debit/Credit must be positive; the service enforces this.
type CreateEntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Detail       string          `json:"detail"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	ThirdPartyID string          `json:"thirdPartyID"`
}

// CreateEntryRequest defines the data needed to create a new journal entry.
// When Confirm is true the entry is validated, numbered and posted in one step;
// otherwise it is stored as a draft without a sequence number.
type CreateEntryRequest struct {
	EntryDate   string                   `json:"entryDate" binding:"required,datetime=2006-01-02"`
	Description string                   `json:"description" binding:"required"`
	Confirm     bool                     `json:"confirm"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest defines the fields of a draft that may be edited.
type UpdateEntryRequest struct {
	EntryDate   *string                  `json:"entryDate" binding:"omitempty,datetime=2006-01-02"`
	Description *string                  `json:"description"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// VoidEntryRequest carries the reason for voiding a confirmed entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit,default=20"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals,default=false"`
	Status           string  `form:"status"` // Optional DRAFT/CONFIRMED/VOIDED filter
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Detail       string          `json:"detail"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	ThirdPartyID string          `json:"thirdPartyID,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID        string         `json:"entryID"`
	SequenceNumber int64          `json:"sequenceNumber,omitempty"`
	EntryDate      string         `json:"entryDate"`
	Description    string         `json:"description"`
	Status         string         `json:"status"`
	ReversalOfID   *string        `json:"reversalOfID,omitempty"`
	ReversedByID   *string        `json:"reversedByID,omitempty"`
	VoidReason     string         `json:"voidReason,omitempty"`
	Lines          []LineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	CreatedBy      string         `json:"createdBy"`
}

// ListEntriesResponse wraps a page of entries with the token for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(line *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:       line.LineID,
		AccountID:    line.AccountID,
		Detail:       line.Detail,
		Debit:        line.Debit,
		Credit:       line.Credit,
		ThirdPartyID: line.ThirdPartyID,
	}
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:        e.EntryID,
		SequenceNumber: e.SequenceNumber,
		EntryDate:      e.EntryDate.Format("2006-01-02"),
		Description:    e.Description,
		Status:         string(e.Status),
		ReversalOfID:   e.ReversalOfID,
		ReversedByID:   e.ReversedByID,
		VoidReason:     e.VoidReason,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToLineResponse(&e.Lines[i])
		}
	}
	return resp
}

// ToListEntriesResponse converts domain entries plus a pagination token.
func ToListEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListEntriesResponse {
	res := make([]EntryResponse, len(entries))
	for i := range entries {
		res[i] = ToEntryResponse(&entries[i])
	}
	return ListEntriesResponse{Entries: res, NextToken: nextToken}
}
