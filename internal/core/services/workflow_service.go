package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/workflow"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
)

type workflowService struct {
	BaseService
	engine *workflow.Engine
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// NewWorkflowService creates the approval workflow administration service.
func NewWorkflowService(store portsrepo.LedgerStore, opts ...Option) portssvc.WorkflowSvcFacade {
	o := applyOptions(opts)
	return &workflowService{BaseService: newBaseService(store, o.clock), engine: o.engine}
}

func (s *workflowService) CreateWorkflow(ctx context.Context, organizationID string, req dto.CreateWorkflowRequest, actor string) (*domain.ApprovalWorkflow, error) {
	wf := domain.ApprovalWorkflow{
		WorkflowID:            uuid.NewString(),
		OrganizationID:        organizationID,
		Name:                  req.Name,
		JournalType:           req.JournalType,
		ApprovalType:          req.ApprovalType,
		Threshold:             req.Threshold,
		AutoPostAfterApproval: req.AutoPostAfterApproval,
		Priority:              req.Priority,
		Version:               1,
		Status:                domain.WorkflowDraft,
		AuditFields:           domain.NewAuditFields(actor, s.Now()),
	}
	for i, step := range req.Steps {
		var timeout time.Duration
		if step.Timeout != "" {
			d, err := time.ParseDuration(step.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d timeout: %v", apperrors.ErrValidation, i, err)
			}
			timeout = d
		}
		wf.Steps = append(wf.Steps, domain.ApprovalStep{
			Index:         i,
			Name:          step.Name,
			Approvers:     step.Approvers,
			RequiredCount: step.RequiredCount,
			Timeout:       timeout,
			Condition:     step.Condition,
			EscalateTo:    step.EscalateTo,
		})
	}

	if err := s.engine.ValidateDefinition(wf); err != nil {
		s.LogFailure(ctx, err, "Rejected workflow definition", slog.String("name", req.Name))
		return nil, err
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.SaveWorkflow(ctx, wf); err != nil {
			return err
		}
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityWorkflow, wf.WorkflowID, actor, "CREATE", "", string(wf.Status)))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create workflow", slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Workflow created", slog.String("workflow_id", wf.WorkflowID), slog.String("journal_type", wf.JournalType))
	return &wf, nil
}

func (s *workflowService) GetWorkflow(ctx context.Context, organizationID, workflowID string) (*domain.ApprovalWorkflow, error) {
	return s.store.FindWorkflowByID(ctx, organizationID, workflowID)
}

func (s *workflowService) ListWorkflows(ctx context.Context, organizationID string) ([]domain.ApprovalWorkflow, error) {
	return s.store.ListWorkflows(ctx, organizationID)
}

func (s *workflowService) ActivateWorkflow(ctx context.Context, organizationID, workflowID, actor string) (*domain.ApprovalWorkflow, error) {
	return s.setStatus(ctx, organizationID, workflowID, actor, domain.WorkflowActive, "ACTIVATE")
}

func (s *workflowService) DeactivateWorkflow(ctx context.Context, organizationID, workflowID, actor string) (*domain.ApprovalWorkflow, error) {
	return s.setStatus(ctx, organizationID, workflowID, actor, domain.WorkflowInactive, "DEACTIVATE")
}

func (s *workflowService) setStatus(ctx context.Context, organizationID, workflowID, actor string, status domain.WorkflowStatus, action string) (*domain.ApprovalWorkflow, error) {
	var result *domain.ApprovalWorkflow
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		wf, err := tx.FindWorkflowByID(ctx, organizationID, workflowID)
		if err != nil {
			return err
		}
		if wf.Status == status {
			result = wf
			return nil
		}
		if status == domain.WorkflowActive {
			if err := s.engine.ValidateDefinition(*wf); err != nil {
				return err
			}
		}
		before := wf.Status
		now := s.Now()
		if err := tx.UpdateWorkflowStatus(ctx, organizationID, workflowID, status, actor, now); err != nil {
			return err
		}
		if result, err = tx.FindWorkflowByID(ctx, organizationID, workflowID); err != nil {
			return err
		}
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityWorkflow, workflowID, actor, action, string(before), string(status)))
	})
	if err != nil {
		return nil, s.recordFailure(ctx, organizationID, domain.EntityWorkflow, workflowID, actor, action, err)
	}

	s.LogInfo(ctx, "Workflow status changed", slog.String("workflow_id", workflowID), slog.String("status", string(status)))
	return result, nil
}
