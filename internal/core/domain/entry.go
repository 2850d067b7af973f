package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft     EntryStatus = "DRAFT"
	Confirmed EntryStatus = "CONFIRMED"
	Voided    EntryStatus = "VOIDED"
)

// JournalEntry is the header of one balanced transaction. Only Confirmed entries
// contribute to ledger balances; a Voided entry keeps its lines and is offset by
// its linked reversal entry.
type JournalEntry struct {
	EntryID        string        `json:"entryID"`        // Primary key (UUID)
	SequenceNumber int64         `json:"sequenceNumber"` // Gapless, assigned at confirmation; 0 while draft
	EntryDate      time.Time     `json:"entryDate"`      // Calendar date, no time component
	Description    string        `json:"description"`
	Status         EntryStatus   `json:"status"`
	Lines          []JournalLine `json:"lines,omitempty"`
	ReversalOfID   *string       `json:"reversalOfID,omitempty"` // Set on the reversal entry
	ReversedByID   *string       `json:"reversedByID,omitempty"` // Set on the voided original
	VoidedBy       *string       `json:"voidedBy,omitempty"`
	VoidedAt       *time.Time    `json:"voidedAt,omitempty"`
	VoidReason     string        `json:"voidReason,omitempty"`
	AuditFields
}

// JournalLine is one posting within an entry. Exactly one of Debit/Credit is
// positive; the other is zero.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	Detail       string          `json:"detail"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	ThirdPartyID string          `json:"thirdPartyID,omitempty"` // External entity reference, free-form
	AuditFields
}

// Amount returns the positive side of the line.
func (l *JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// IsDebit reports whether the line posts on the debit side.
func (l *JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// TotalDebit sums the debit side of all lines.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Lines {
		total = total.Add(e.Lines[i].Debit)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Lines {
		total = total.Add(e.Lines[i].Credit)
	}
	return total
}

// IsBalanced reports whether total debits equal total credits exactly.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// IsReversal reports whether the entry was created to void another entry.
func (e *JournalEntry) IsReversal() bool {
	return e.ReversalOfID != nil
}
