package repositories

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// WorkflowReader defines read operations for approval workflow definitions
type WorkflowReader interface {
	FindWorkflowByID(ctx context.Context, organizationID, workflowID string) (*domain.ApprovalWorkflow, error)

	// ListWorkflows returns every workflow of the organization.
	ListWorkflows(ctx context.Context, organizationID string) ([]domain.ApprovalWorkflow, error)

	// ListActiveWorkflows returns active workflows for journalType ordered by priority, lowest first.
	ListActiveWorkflows(ctx context.Context, organizationID, journalType string) ([]domain.ApprovalWorkflow, error)
}

// WorkflowWriter defines write operations for approval workflow definitions
type WorkflowWriter interface {
	SaveWorkflow(ctx context.Context, wf domain.ApprovalWorkflow) error
	UpdateWorkflowStatus(ctx context.Context, organizationID, workflowID string, status domain.WorkflowStatus, actor string, now time.Time) error
}
