package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
)

const accountColumns = `account_id, organization_id, code, name, account_type, normal_side, currency_code,
	is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

// FindAccountByID retrieves an account of an organization.
func (r *reader) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	rows, err := r.q.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE organization_id = $1 AND account_id = $2`, organizationID, accountID)
	m, err := collectOne[models.Account](rows, err, notFound("account", accountID))
	if err != nil {
		return nil, wrapRead("failed to find account "+accountID, err)
	}
	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// FindAccountsByIDs retrieves accounts keyed by id. Unknown ids are absent from the map.
func (r *reader) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE organization_id = $1 AND account_id = ANY($2)`, organizationID, accountIDs)
	accounts, err := collect[models.Account](rows, err)
	if err != nil {
		return nil, dbError("failed to find accounts", err)
	}
	for _, m := range accounts {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

// ListAccounts retrieves a page of accounts ordered by code.
func (r *reader) ListAccounts(ctx context.Context, organizationID string, limit, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 ORDER BY code, account_id OFFSET $2`
	args := []any{organizationID, max(offset, 0)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	accounts, err := collect[models.Account](rows, err)
	if err != nil {
		return nil, dbError("failed to list accounts", err)
	}
	out := make([]domain.Account, 0, len(accounts))
	for _, m := range accounts {
		out = append(out, mapping.ToDomainAccount(m))
	}
	return out, nil
}

// SaveAccount inserts a new account.
func (t *pgTx) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := t.q.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.AccountID, m.OrganizationID, m.Code, m.Name, m.AccountType, m.NormalSide, m.CurrencyCode,
		m.IsActive, m.Balance, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if code, _ := pgErrorCode(err); code == pgUniqueViolation {
		return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
	}
	if err != nil {
		return dbError("failed to insert account "+account.AccountID, err)
	}
	return nil
}

// ApplyBalanceChanges locks the affected accounts in id order, so concurrent
// postings touching the same accounts cannot deadlock, then adds the deltas.
func (t *pgTx) ApplyBalanceChanges(ctx context.Context, organizationID string, changes map[string]domain.Amount, actor string, now time.Time) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows, err := t.q.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE organization_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE`, organizationID, ids)
	locked, err := collect[models.Account](rows, err)
	if err != nil {
		return nil, dbError("failed to lock accounts for update", err)
	}

	before := make(map[string]domain.Account, len(locked))
	for _, m := range locked {
		before[m.AccountID] = mapping.ToDomainAccount(m)
	}
	for _, id := range ids {
		if _, ok := before[id]; !ok {
			return nil, notFound("account", id)
		}
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`
			UPDATE accounts
			SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1`, id, changes[id], now, actor)
	}
	if err := sendBatch(ctx, t.q, batch); err != nil {
		return nil, dbError("failed to update account balances", err)
	}
	return before, nil
}
