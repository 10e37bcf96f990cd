package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
)

const workflowColumns = `workflow_id, organization_id, name, journal_type, approval_type, threshold, auto_post,
	priority, version, status, steps, created_at, created_by, last_updated_at, last_updated_by`

func toDomainWorkflows(ms []models.Workflow) ([]domain.ApprovalWorkflow, error) {
	out := make([]domain.ApprovalWorkflow, 0, len(ms))
	for _, m := range ms {
		wf, err := mapping.ToDomainWorkflow(m)
		if err != nil {
			return nil, dbError("failed to decode workflow", err)
		}
		out = append(out, wf)
	}
	return out, nil
}

func (r *reader) FindWorkflowByID(ctx context.Context, organizationID, workflowID string) (*domain.ApprovalWorkflow, error) {
	rows, err := r.q.Query(ctx, `SELECT `+workflowColumns+` FROM approval_workflows WHERE organization_id = $1 AND workflow_id = $2`, organizationID, workflowID)
	m, err := collectOne[models.Workflow](rows, err, notFound("workflow", workflowID))
	if err != nil {
		return nil, wrapRead("failed to find workflow "+workflowID, err)
	}
	wf, err := mapping.ToDomainWorkflow(*m)
	if err != nil {
		return nil, dbError("failed to decode workflow "+workflowID, err)
	}
	return &wf, nil
}

func (r *reader) ListWorkflows(ctx context.Context, organizationID string) ([]domain.ApprovalWorkflow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+workflowColumns+`
		FROM approval_workflows
		WHERE organization_id = $1
		ORDER BY priority, created_at`, organizationID)
	wfs, err := collect[models.Workflow](rows, err)
	if err != nil {
		return nil, dbError("failed to list workflows", err)
	}
	return toDomainWorkflows(wfs)
}

func (r *reader) ListActiveWorkflows(ctx context.Context, organizationID, journalType string) ([]domain.ApprovalWorkflow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+workflowColumns+`
		FROM approval_workflows
		WHERE organization_id = $1 AND journal_type = $2 AND status = $3
		ORDER BY priority, created_at`, organizationID, journalType, string(domain.WorkflowActive))
	wfs, err := collect[models.Workflow](rows, err)
	if err != nil {
		return nil, dbError("failed to list active workflows", err)
	}
	return toDomainWorkflows(wfs)
}

func (t *pgTx) SaveWorkflow(ctx context.Context, wf domain.ApprovalWorkflow) error {
	m, err := mapping.ToModelWorkflow(wf)
	if err != nil {
		return dbError("failed to encode workflow "+wf.WorkflowID, err)
	}
	_, err = t.q.Exec(ctx, `
		INSERT INTO approval_workflows (`+workflowColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.WorkflowID, m.OrganizationID, m.Name, m.JournalType, m.ApprovalType, m.Threshold, m.AutoPost,
		m.Priority, m.Version, m.Status, m.Steps, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if code, _ := pgErrorCode(err); code == pgUniqueViolation {
		return fmt.Errorf("workflow %s: %w", wf.WorkflowID, apperrors.ErrDuplicate)
	}
	if err != nil {
		return dbError("failed to insert workflow "+wf.WorkflowID, err)
	}
	return nil
}

func (t *pgTx) UpdateWorkflowStatus(ctx context.Context, organizationID, workflowID string, status domain.WorkflowStatus, actor string, now time.Time) error {
	tag, err := t.q.Exec(ctx, `
		UPDATE approval_workflows
		SET status = $3, version = version + 1, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $1 AND workflow_id = $2`, organizationID, workflowID, string(status), now, actor)
	if err != nil {
		return dbError("failed to update workflow "+workflowID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("workflow", workflowID)
	}
	return nil
}
