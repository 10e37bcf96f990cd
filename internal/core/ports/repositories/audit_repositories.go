package repositories

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// AuditReader defines read operations for the audit trail
type AuditReader interface {
	ListAuditEntries(ctx context.Context, organizationID, entityType, entityID string) ([]domain.AuditEntry, error)
}

// AuditWriter appends to the audit trail.
type AuditWriter interface {
	InsertAuditEntry(ctx context.Context, entry domain.AuditEntry) error
}
