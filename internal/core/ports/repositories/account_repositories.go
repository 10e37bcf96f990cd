package repositories

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account of an organization.
	FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts of an organization keyed by id. Missing ids are absent from the map.
	FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by code.
	ListAccounts(ctx context.Context, organizationID string, limit, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// ApplyBalanceChanges locks the accounts, adds the signed deltas to their
	// balances and returns the accounts as they were before the change.
	ApplyBalanceChanges(ctx context.Context, organizationID string, changes map[string]domain.Amount, actor string, now time.Time) (map[string]domain.Account, error)
}
