package services

import (
	"context"

	"github.com/contaula/contaula/internal/core/domain"
	"github.com/contaula/contaula/internal/dto"
)

// EntryReaderSvc defines read operations for journal entries
type EntryReaderSvc interface {
	// GetEntryByID retrieves a specific entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries, newest first.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines write operations for journal entries
type EntryWriterSvc interface {
	// CreateEntry persists a new entry. With req.Confirm it is validated, numbered
	// and posted in one step; otherwise it is stored as a sequence-less draft.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateDraft replaces the editable fields of a draft entry.
	UpdateDraft(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// ConfirmEntry validates a draft and posts it, assigning its sequence number.
	ConfirmEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// VoidEntry voids a confirmed entry by generating a linked reversal entry with
	// debits and credits swapped. It returns the reversal.
	VoidEntry(ctx context.Context, entryID string, req dto.VoidEntryRequest, userID string) (*domain.JournalEntry, error)
}

// EntrySvcFacade combines all entry-related service interfaces
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
