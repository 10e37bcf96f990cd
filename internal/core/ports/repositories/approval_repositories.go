package repositories

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// ApprovalReader defines read operations for approval logs
type ApprovalReader interface {
	// FindApprovalLogByID returns a log with its decisions.
	FindApprovalLogByID(ctx context.Context, organizationID, logID string) (*domain.ApprovalLog, error)

	// ListOpenApprovalLogs returns PENDING and ESCALATED logs. An empty
	// organizationID lists the open logs of every organization.
	ListOpenApprovalLogs(ctx context.Context, organizationID string) ([]domain.ApprovalLog, error)

	// ListApprovalLogsByJournal returns every log of a journal, oldest first.
	ListApprovalLogsByJournal(ctx context.Context, organizationID, journalID string) ([]domain.ApprovalLog, error)
}

// ApprovalWriter defines write operations for approval logs
type ApprovalWriter interface {
	InsertApprovalLog(ctx context.Context, log domain.ApprovalLog) error

	// UpdateApprovalLog writes the log with version expectedVersion+1 if the
	// stored version still equals expectedVersion, else apperrors.ErrConcurrentModification.
	UpdateApprovalLog(ctx context.Context, log domain.ApprovalLog, expectedVersion int64) error

	// InsertDecision appends a decision. A second decision by the same approver
	// on the same step yields apperrors.ErrDuplicateDecision.
	InsertDecision(ctx context.Context, decision domain.ApprovalDecision) error
}
