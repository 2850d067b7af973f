package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persisted header of one balanced transaction.
// SequenceNumber is NULL while the entry is a draft; the unique index on the
// column ignores NULLs so drafts never collide.
type JournalEntry struct {
	EntryID        string     `db:"entry_id"`
	SequenceNumber *int64     `db:"sequence_number"` // Nullable until confirmation
	EntryDate      time.Time  `db:"entry_date"`
	Description    string     `db:"description"`
	Status         string     `db:"status"`
	ReversalOfID   *string    `db:"reversal_of_entry_id"`
	ReversedByID   *string    `db:"reversed_by_entry_id"`
	VoidedBy       *string    `db:"voided_by"`
	VoidedAt       *time.Time `db:"voided_at"`
	VoidReason     string     `db:"void_reason"`
	AuditFields
}

// JournalLine is one persisted posting within an entry.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	Detail       string          `db:"detail"`
	Debit        decimal.Decimal `db:"debit"`
	Credit       decimal.Decimal `db:"credit"`
	ThirdPartyID string          `db:"third_party_id"` // Empty when the line has no external party
	AuditFields
}
