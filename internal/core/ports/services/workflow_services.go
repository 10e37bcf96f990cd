package services

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
)

// WorkflowSvcFacade manages approval workflow definitions.
type WorkflowSvcFacade interface {
	CreateWorkflow(ctx context.Context, organizationID string, req dto.CreateWorkflowRequest, actor string) (*domain.ApprovalWorkflow, error)
	GetWorkflow(ctx context.Context, organizationID, workflowID string) (*domain.ApprovalWorkflow, error)
	ListWorkflows(ctx context.Context, organizationID string) ([]domain.ApprovalWorkflow, error)

	// ActivateWorkflow validates the definition and makes it eligible for submissions.
	ActivateWorkflow(ctx context.Context, organizationID, workflowID, actor string) (*domain.ApprovalWorkflow, error)
	DeactivateWorkflow(ctx context.Context, organizationID, workflowID, actor string) (*domain.ApprovalWorkflow, error)
}
