package repositories

import (
	"context"
	"time"

	"github.com/contaula/contaula/internal/core/domain"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier, without lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListEntries retrieves a paginated list of entries using token-based pagination,
	// newest first. Reversal entries are filtered out unless includeReversals is set.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, limit int, nextToken *string, includeReversals bool, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error)

	// ListLinesByAccountID retrieves the confirmed lines posted to an account within
	// a date range, ordered by entry date then sequence number.
	ListLinesByAccountID(ctx context.Context, accountID string, from, to time.Time) ([]domain.JournalLine, map[string]domain.JournalEntry, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveEntry persists an entry with its lines in one transaction. When the entry
	// is confirmed, a gapless sequence number is allocated inside the same
	// transaction and set on the returned entry.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error

	// UpdateDraftEntry replaces the header fields and lines of a draft entry.
	UpdateDraftEntry(ctx context.Context, entry *domain.JournalEntry) error

	// ConfirmEntry transitions a draft to confirmed, allocating its sequence number
	// within the transaction. The assigned number is set on the returned entry.
	ConfirmEntry(ctx context.Context, entry *domain.JournalEntry) error

	// VoidEntry marks the original entry voided and persists its confirmed reversal
	// entry, linking the two, all in one transaction. The reversal's sequence number
	// is assigned inside the transaction.
	VoidEntry(ctx context.Context, original *domain.JournalEntry, reversal *domain.JournalEntry) error

	// SaveClosingEntry persists the closing entry and marks the accounting period
	// closed in one transaction. A nil entry closes a month with no result
	// activity. It fails with ErrPeriodAlreadyClosed if a concurrent close won
	// the race.
	SaveClosingEntry(ctx context.Context, entry *domain.JournalEntry, period *domain.AccountingPeriod) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces
// This is a facade for clients that need access to all operations
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}
