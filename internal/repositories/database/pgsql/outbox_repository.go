package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
)

const notificationColumns = `notification_id, organization_id, recipient, kind, journal_id, journal_reference,
	log_id, message, sent, attempts, last_error, created_at, sent_at`

const auditColumns = `audit_id, organization_id, entity_type, entity_id, actor, action, before_status,
	after_status, detail, succeeded, created_at`

func (r *reader) ListNotificationsByJournal(ctx context.Context, organizationID, journalID string) ([]domain.Notification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE organization_id = $1 AND journal_id = $2
		ORDER BY created_at, notification_id`, organizationID, journalID)
	ns, err := collect[models.Notification](rows, err)
	if err != nil {
		return nil, dbError("failed to list notifications of journal "+journalID, err)
	}
	out := make([]domain.Notification, 0, len(ns))
	for _, m := range ns {
		out = append(out, mapping.ToDomainNotification(m))
	}
	return out, nil
}

func (r *reader) ListAuditEntries(ctx context.Context, organizationID, entityType, entityID string) ([]domain.AuditEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+auditColumns+`
		FROM audit_entries
		WHERE organization_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at, audit_id`, organizationID, entityType, entityID)
	entries, err := collect[models.AuditEntry](rows, err)
	if err != nil {
		return nil, dbError("failed to list audit entries", err)
	}
	out := make([]domain.AuditEntry, 0, len(entries))
	for _, m := range entries {
		out = append(out, mapping.ToDomainAuditEntry(m))
	}
	return out, nil
}

// EnqueueNotifications writes outbox rows in the caller's transaction.
func (t *pgTx) EnqueueNotifications(ctx context.Context, notifications []domain.Notification) error {
	batch := &pgx.Batch{}
	for _, n := range notifications {
		m := mapping.ToModelNotification(n)
		batch.Queue(`
			INSERT INTO notifications (`+notificationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			m.NotificationID, m.OrganizationID, m.Recipient, m.Kind, m.JournalID, m.JournalReference,
			m.LogID, m.Message, m.Sent, m.Attempts, m.LastError, m.CreatedAt, m.SentAt,
		)
	}
	if err := sendBatch(ctx, t.q, batch); err != nil {
		return dbError("failed to enqueue notifications", err)
	}
	return nil
}

func (t *pgTx) InsertAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditEntry(entry)
	_, err := t.q.Exec(ctx, `
		INSERT INTO audit_entries (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.AuditID, m.OrganizationID, m.EntityType, m.EntityID, m.Actor, m.Action, m.BeforeStatus,
		m.AfterStatus, m.Detail, m.Succeeded, m.CreatedAt,
	)
	if err != nil {
		return dbError("failed to insert audit entry for "+entry.EntityType+" "+entry.EntityID, err)
	}
	return nil
}
