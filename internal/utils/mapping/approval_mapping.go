package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
)

// ToModelWorkflow converts a domain ApprovalWorkflow to a model Workflow
func ToModelWorkflow(d domain.ApprovalWorkflow) (models.Workflow, error) {
	steps, err := json.Marshal(d.Steps)
	if err != nil {
		return models.Workflow{}, fmt.Errorf("encode workflow steps: %w", err)
	}
	return models.Workflow{
		WorkflowID:     d.WorkflowID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		JournalType:    d.JournalType,
		ApprovalType:   string(d.ApprovalType),
		Threshold:      d.Threshold,
		AutoPost:       d.AutoPostAfterApproval,
		Priority:       d.Priority,
		Version:        d.Version,
		Status:         string(d.Status),
		Steps:          steps,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainWorkflow converts a model Workflow to a domain ApprovalWorkflow
func ToDomainWorkflow(m models.Workflow) (domain.ApprovalWorkflow, error) {
	wf := domain.ApprovalWorkflow{
		WorkflowID:            m.WorkflowID,
		OrganizationID:        m.OrganizationID,
		Name:                  m.Name,
		JournalType:           m.JournalType,
		ApprovalType:          domain.ApprovalType(m.ApprovalType),
		Threshold:             m.Threshold,
		AutoPostAfterApproval: m.AutoPost,
		Priority:              m.Priority,
		Version:               m.Version,
		Status:                domain.WorkflowStatus(m.Status),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
	if err := json.Unmarshal(m.Steps, &wf.Steps); err != nil {
		return domain.ApprovalWorkflow{}, fmt.Errorf("decode steps of workflow %s: %w", m.WorkflowID, err)
	}
	return wf, nil
}

// ToModelApprovalLog converts a domain ApprovalLog to a model ApprovalLog. Decisions are stored separately.
func ToModelApprovalLog(d domain.ApprovalLog) (models.ApprovalLog, error) {
	steps, err := json.Marshal(d.Steps)
	if err != nil {
		return models.ApprovalLog{}, fmt.Errorf("encode approval steps: %w", err)
	}
	states, err := json.Marshal(d.StepStates)
	if err != nil {
		return models.ApprovalLog{}, fmt.Errorf("encode step states: %w", err)
	}
	return models.ApprovalLog{
		LogID:           d.LogID,
		OrganizationID:  d.OrganizationID,
		JournalID:       d.JournalID,
		JournalRef:      d.JournalRef,
		WorkflowID:      d.WorkflowID,
		WorkflowVersion: d.WorkflowVersion,
		ApprovalType:    string(d.ApprovalType),
		AutoPost:        d.AutoPost,
		Steps:           steps,
		StepStates:      states,
		CurrentStep:     d.CurrentStep,
		Status:          string(d.Status),
		EscalationCount: d.EscalationCount,
		RejectionReason: d.RejectionReason,
		SubmittedBy:     d.SubmittedBy,
		SubmittedAt:     d.SubmittedAt,
		CompletedAt:     d.CompletedAt,
		Version:         d.Version,
	}, nil
}

// ToDomainApprovalLog converts a model ApprovalLog and its decisions to a domain ApprovalLog
func ToDomainApprovalLog(m models.ApprovalLog, decisions []domain.ApprovalDecision) (domain.ApprovalLog, error) {
	l := domain.ApprovalLog{
		LogID:           m.LogID,
		OrganizationID:  m.OrganizationID,
		JournalID:       m.JournalID,
		JournalRef:      m.JournalRef,
		WorkflowID:      m.WorkflowID,
		WorkflowVersion: m.WorkflowVersion,
		ApprovalType:    domain.ApprovalType(m.ApprovalType),
		AutoPost:        m.AutoPost,
		CurrentStep:     m.CurrentStep,
		Status:          domain.ApprovalStatus(m.Status),
		EscalationCount: m.EscalationCount,
		RejectionReason: m.RejectionReason,
		SubmittedBy:     m.SubmittedBy,
		SubmittedAt:     m.SubmittedAt,
		CompletedAt:     m.CompletedAt,
		Version:         m.Version,
		Decisions:       decisions,
	}
	if err := json.Unmarshal(m.Steps, &l.Steps); err != nil {
		return domain.ApprovalLog{}, fmt.Errorf("decode steps of approval log %s: %w", m.LogID, err)
	}
	if err := json.Unmarshal(m.StepStates, &l.StepStates); err != nil {
		return domain.ApprovalLog{}, fmt.Errorf("decode step states of approval log %s: %w", m.LogID, err)
	}
	return l, nil
}

// ToModelApprovalDecision converts a domain ApprovalDecision to a model ApprovalDecision
func ToModelApprovalDecision(d domain.ApprovalDecision) models.ApprovalDecision {
	return models.ApprovalDecision{
		DecisionID:     d.DecisionID,
		LogID:          d.LogID,
		OrganizationID: d.OrganizationID,
		StepIndex:      d.StepIndex,
		Approver:       d.Approver,
		Decision:       string(d.Decision),
		Comment:        d.Comment,
		DecidedAt:      d.DecidedAt,
	}
}

// ToDomainApprovalDecision converts a model ApprovalDecision to a domain ApprovalDecision
func ToDomainApprovalDecision(m models.ApprovalDecision) domain.ApprovalDecision {
	return domain.ApprovalDecision{
		DecisionID:     m.DecisionID,
		LogID:          m.LogID,
		OrganizationID: m.OrganizationID,
		StepIndex:      m.StepIndex,
		Approver:       m.Approver,
		Decision:       domain.Decision(m.Decision),
		Comment:        m.Comment,
		DecidedAt:      m.DecidedAt,
	}
}
