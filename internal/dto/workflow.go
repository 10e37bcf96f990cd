package dto

import (
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// ApprovalStepRequest defines one step of a workflow.
type ApprovalStepRequest struct {
	Name          string            `json:"name" binding:"required"`
	Approvers     []string          `json:"approvers" binding:"required,min=1,dive,required"`
	RequiredCount int               `json:"requiredCount" binding:"required,min=1"`
	Timeout       string            `json:"timeout"` // Go duration such as "48h"; empty disables escalation
	Condition     *domain.Condition `json:"condition"`
	EscalateTo    []string          `json:"escalateTo" binding:"omitempty,dive,required"`
}

// CreateWorkflowRequest defines an approval workflow. New workflows start in DRAFT.
type CreateWorkflowRequest struct {
	Name                  string                `json:"name" binding:"required"`
	JournalType           string                `json:"journalType" binding:"required"`
	ApprovalType          domain.ApprovalType   `json:"approvalType" binding:"required,oneof=SEQUENTIAL PARALLEL"`
	Threshold             int64                 `json:"threshold" binding:"min=0"`
	AutoPostAfterApproval bool                  `json:"autoPostAfterApproval"`
	Priority              int                   `json:"priority"`
	Steps                 []ApprovalStepRequest `json:"steps" binding:"required,min=1,dive"`
}

// WorkflowResponse defines the data returned for a workflow.
type WorkflowResponse struct {
	domain.ApprovalWorkflow
}
