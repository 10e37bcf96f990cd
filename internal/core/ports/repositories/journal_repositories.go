package repositories

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// JournalFilter narrows ListJournals.
type JournalFilter struct {
	Status      *domain.JournalStatus
	JournalType string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal and its lines.
	FindJournalByID(ctx context.Context, organizationID, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a page of journals, newest transaction date first,
	// and returns a token for the next page. Lines are not populated.
	ListJournals(ctx context.Context, organizationID string, filter JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error)

	// FindReversalsOf returns every journal that reverses originalID, in any status.
	FindReversalsOf(ctx context.Context, organizationID, originalID string) ([]domain.Journal, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// InsertJournal persists a new journal header and its lines.
	InsertJournal(ctx context.Context, journal domain.Journal) error

	// UpdateJournal writes the journal header with version expectedVersion+1 if
	// the stored version still equals expectedVersion. Otherwise it returns
	// apperrors.ErrConcurrentModification.
	UpdateJournal(ctx context.Context, journal domain.Journal, expectedVersion int64) error

	// ReplaceJournalLines swaps the stored lines of a journal for journal.Lines.
	ReplaceJournalLines(ctx context.Context, journal domain.Journal) error
}
