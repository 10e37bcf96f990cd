package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/pagination"
)

const journalColumns = `journal_id, organization_id, reference, journal_type, transaction_date, currency_code,
	exchange_rate, memo, status, version, approval_log_id, rejection_reason, reversal_of_journal_id,
	reversed_by_journal_id, posted_at, posted_by, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_id, organization_id, line_no, account_id, debit, credit,
	department, project, cost_center, tax_code, tax_amount, memo`

// FindJournalByID retrieves a journal and its lines.
func (r *reader) FindJournalByID(ctx context.Context, organizationID, journalID string) (*domain.Journal, error) {
	rows, err := r.q.Query(ctx, `SELECT `+journalColumns+` FROM journals WHERE organization_id = $1 AND journal_id = $2`, organizationID, journalID)
	m, err := collectOne[models.Journal](rows, err, notFound("journal", journalID))
	if err != nil {
		return nil, wrapRead("failed to find journal "+journalID, err)
	}
	journals, err := r.withLines(ctx, []models.Journal{*m})
	if err != nil {
		return nil, err
	}
	return &journals[0], nil
}

// withLines loads the lines of every journal in one query.
func (r *reader) withLines(ctx context.Context, headers []models.Journal) ([]domain.Journal, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.JournalID)
	}
	rows, err := r.q.Query(ctx, `SELECT `+journalLineColumns+` FROM journal_lines WHERE journal_id = ANY($1) ORDER BY journal_id, line_no`, ids)
	lines, err := collect[models.JournalLine](rows, err)
	if err != nil {
		return nil, dbError("failed to load journal lines", err)
	}
	byJournal := make(map[string][]models.JournalLine, len(headers))
	for _, l := range lines {
		byJournal[l.JournalID] = append(byJournal[l.JournalID], l)
	}
	out := make([]domain.Journal, 0, len(headers))
	for _, h := range headers {
		out = append(out, mapping.ToDomainJournal(h, byJournal[h.JournalID]))
	}
	return out, nil
}

// ListJournals retrieves a page of journal headers using keyset pagination on
// (transaction_date, created_at, journal_id), all descending.
func (r *reader) ListJournals(ctx context.Context, organizationID string, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	var where strings.Builder
	where.WriteString(`organization_id = $1`)
	args := []any{organizationID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		where.WriteString(` AND status = ` + next(string(*filter.Status)))
	}
	if filter.JournalType != "" {
		where.WriteString(` AND journal_type = ` + next(filter.JournalType))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		fmt.Fprintf(&where, ` AND (transaction_date, created_at, journal_id) < (%s::date, %s, %s)`,
			next(domain.DateOnly(cursor.TransactionDate)), next(cursor.CreatedAt), next(cursor.JournalID))
	}

	query := `SELECT ` + journalColumns + ` FROM journals WHERE ` + where.String() +
		` ORDER BY transaction_date DESC, created_at DESC, journal_id DESC`
	if limit > 0 {
		query += ` LIMIT ` + next(limit+1)
	}

	rows, err := r.q.Query(ctx, query, args...)
	headers, err := collect[models.Journal](rows, err)
	if err != nil {
		return nil, nil, dbError("failed to list journals", err)
	}

	var token *string
	if limit > 0 && len(headers) > limit {
		headers = headers[:limit]
		last := headers[limit-1]
		t := pagination.EncodeToken(pagination.JournalCursor{TransactionDate: last.TransactionDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID})
		token = &t
	}
	out := make([]domain.Journal, 0, len(headers))
	for _, h := range headers {
		out = append(out, mapping.ToDomainJournal(h, nil))
	}
	return out, token, nil
}

// FindReversalsOf returns every journal that reverses originalID.
func (r *reader) FindReversalsOf(ctx context.Context, organizationID, originalID string) ([]domain.Journal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+journalColumns+`
		FROM journals
		WHERE organization_id = $1 AND reversal_of_journal_id = $2
		ORDER BY created_at`, organizationID, originalID)
	headers, err := collect[models.Journal](rows, err)
	if err != nil {
		return nil, dbError("failed to find reversals of journal "+originalID, err)
	}
	return r.withLines(ctx, headers)
}

// InsertJournal persists a journal header and its lines.
func (t *pgTx) InsertJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	_, err := t.q.Exec(ctx, `
		INSERT INTO journals (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		m.JournalID, m.OrganizationID, m.Reference, m.JournalType, m.TransactionDate, m.CurrencyCode,
		m.ExchangeRate, m.Memo, m.Status, m.Version, m.ApprovalLogID, m.RejectionReason, m.ReversalOfJournalID,
		m.ReversedByJournalID, m.PostedAt, m.PostedBy, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		switch code, constraint := pgErrorCode(err); {
		case code == pgUniqueViolation && constraint == reversalOfConstraint:
			return &apperrors.StateError{Entity: "journal", ID: *journal.ReversalOfJournalID, Status: "reversal pending", Attempt: "reverse"}
		case code == pgUniqueViolation:
			return fmt.Errorf("journal %s: %w", journal.JournalID, apperrors.ErrDuplicate)
		}
		return dbError("failed to insert journal "+journal.JournalID, err)
	}
	return t.insertLines(ctx, journal.Lines)
}

func (t *pgTx) insertLines(ctx context.Context, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	for _, l := range lines {
		m := mapping.ToModelJournalLine(l)
		batch.Queue(`
			INSERT INTO journal_lines (`+journalLineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			m.LineID, m.JournalID, m.OrganizationID, m.LineNo, m.AccountID, m.Debit, m.Credit,
			m.Department, m.Project, m.CostCenter, m.TaxCode, m.TaxAmount, m.Memo,
		)
	}
	if err := sendBatch(ctx, t.q, batch); err != nil {
		return dbError("failed to insert journal lines", err)
	}
	return nil
}

// UpdateJournal writes the header if the stored version is still expectedVersion.
func (t *pgTx) UpdateJournal(ctx context.Context, journal domain.Journal, expectedVersion int64) error {
	m := mapping.ToModelJournal(journal)
	tag, err := t.q.Exec(ctx, `
		UPDATE journals
		SET reference = $3, journal_type = $4, transaction_date = $5, currency_code = $6, exchange_rate = $7,
			memo = $8, status = $9, approval_log_id = $10, rejection_reason = $11, reversed_by_journal_id = $12,
			posted_at = $13, posted_by = $14, last_updated_at = $15, last_updated_by = $16, version = version + 1
		WHERE organization_id = $1 AND journal_id = $2 AND version = $17`,
		m.OrganizationID, m.JournalID, m.Reference, m.JournalType, m.TransactionDate, m.CurrencyCode, m.ExchangeRate,
		m.Memo, m.Status, m.ApprovalLogID, m.RejectionReason, m.ReversedByJournalID,
		m.PostedAt, m.PostedBy, m.LastUpdatedAt, m.LastUpdatedBy, expectedVersion,
	)
	if err != nil {
		return dbError("failed to update journal "+journal.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return t.versionConflict(ctx, `SELECT 1 FROM journals WHERE organization_id = $1 AND journal_id = $2`, "journal", journal.OrganizationID, journal.JournalID)
	}
	return nil
}

// versionConflict explains an update that matched no row.
func (t *pgTx) versionConflict(ctx context.Context, existsQuery, entity, organizationID, id string) error {
	found, err := t.exists(ctx, existsQuery, organizationID, id)
	if err != nil {
		return dbError("failed to check "+entity+" "+id, err)
	}
	if !found {
		return notFound(entity, id)
	}
	return apperrors.ErrConcurrentModification
}

// ReplaceJournalLines swaps the stored lines of a journal.
func (t *pgTx) ReplaceJournalLines(ctx context.Context, journal domain.Journal) error {
	found, err := t.exists(ctx, `SELECT 1 FROM journals WHERE organization_id = $1 AND journal_id = $2`, journal.OrganizationID, journal.JournalID)
	if err != nil {
		return dbError("failed to check journal "+journal.JournalID, err)
	}
	if !found {
		return notFound("journal", journal.JournalID)
	}
	if _, err := t.q.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1`, journal.JournalID); err != nil {
		return dbError("failed to delete lines of journal "+journal.JournalID, err)
	}
	return t.insertLines(ctx, journal.Lines)
}
