package repositories

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// LedgerEntryReader defines read operations for general-ledger entries
type LedgerEntryReader interface {
	FindLedgerEntriesByJournalID(ctx context.Context, organizationID, journalID string) ([]domain.GeneralLedgerEntry, error)

	// ListLedgerEntriesByAccount returns an account's entries in posting order.
	ListLedgerEntriesByAccount(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error)
}

// LedgerEntryWriter defines write operations for general-ledger entries
type LedgerEntryWriter interface {
	InsertGeneralLedgerEntries(ctx context.Context, entries []domain.GeneralLedgerEntry) error
}
