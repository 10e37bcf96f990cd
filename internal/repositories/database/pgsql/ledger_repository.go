package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/pagination"
)

const ledgerEntryColumns = `entry_id, organization_id, journal_id, line_id, account_id, transaction_date,
	currency_code, exchange_rate, debit, credit, base_debit, base_credit, running_balance, posted_at, posted_by`

func toDomainLedgerEntries(ms []models.LedgerEntry) []domain.GeneralLedgerEntry {
	out := make([]domain.GeneralLedgerEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainLedgerEntry(m))
	}
	return out
}

// FindLedgerEntriesByJournalID returns the entries a journal produced.
func (r *reader) FindLedgerEntriesByJournalID(ctx context.Context, organizationID, journalID string) ([]domain.GeneralLedgerEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+ledgerEntryColumns+`
		FROM general_ledger_entries
		WHERE organization_id = $1 AND journal_id = $2
		ORDER BY entry_id`, organizationID, journalID)
	entries, err := collect[models.LedgerEntry](rows, err)
	if err != nil {
		return nil, dbError("failed to find ledger entries of journal "+journalID, err)
	}
	return toDomainLedgerEntries(entries), nil
}

// ListLedgerEntriesByAccount pages through an account's entries. Entry ids are
// monotonic, so ordering by id is posting order.
func (r *reader) ListLedgerEntriesByAccount(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	after := ""
	if nextToken != nil && *nextToken != "" {
		parts, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(parts) != 1 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		after = parts[0]
	}

	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM general_ledger_entries
		WHERE organization_id = $1 AND account_id = $2 AND entry_id > $3
		ORDER BY entry_id`
	args := []any{organizationID, accountID, after}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit+1)
	}
	rows, err := r.q.Query(ctx, query, args...)
	entries, err := collect[models.LedgerEntry](rows, err)
	if err != nil {
		return nil, nil, dbError("failed to list ledger entries of account "+accountID, err)
	}

	var token *string
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
		t := pagination.EncodeMultiFieldToken(entries[limit-1].EntryID)
		token = &t
	}
	return toDomainLedgerEntries(entries), token, nil
}

// InsertGeneralLedgerEntries appends posted entries.
func (t *pgTx) InsertGeneralLedgerEntries(ctx context.Context, entries []domain.GeneralLedgerEntry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(`
			INSERT INTO general_ledger_entries (`+ledgerEntryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			m.EntryID, m.OrganizationID, m.JournalID, m.LineID, m.AccountID, m.TransactionDate,
			m.CurrencyCode, m.ExchangeRate, m.Debit, m.Credit, m.BaseDebit, m.BaseCredit, m.RunningBalance, m.PostedAt, m.PostedBy,
		)
	}
	if err := sendBatch(ctx, t.q, batch); err != nil {
		return dbError("failed to insert general ledger entries", err)
	}
	return nil
}
