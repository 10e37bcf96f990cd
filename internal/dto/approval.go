package dto

import (
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// ApprovalLogResponse defines the data returned for an approval log.
type ApprovalLogResponse struct {
	LogID           string                    `json:"logID"`
	JournalID       string                    `json:"journalID"`
	JournalRef      string                    `json:"journalReference"`
	WorkflowID      string                    `json:"workflowID"`
	WorkflowVersion int64                     `json:"workflowVersion"`
	ApprovalType    domain.ApprovalType       `json:"approvalType"`
	Status          domain.ApprovalStatus     `json:"status"`
	CurrentStep     int                       `json:"currentStep"`
	EscalationCount int                       `json:"escalationCount"`
	RejectionReason *string                   `json:"rejectionReason,omitempty"`
	SubmittedBy     string                    `json:"submittedBy"`
	SubmittedAt     time.Time                 `json:"submittedAt"`
	CompletedAt     *time.Time                `json:"completedAt,omitempty"`
	Steps           []ApprovalStepResponse    `json:"steps"`
	Decisions       []domain.ApprovalDecision `json:"decisions"`
}

// ApprovalStepResponse joins a snapshotted step with its progress.
type ApprovalStepResponse struct {
	Index         int        `json:"index"`
	Name          string     `json:"name"`
	Approvers     []string   `json:"approvers"`
	RequiredCount int        `json:"requiredCount"`
	Applicable    bool       `json:"applicable"`
	ApproveCount  int        `json:"approveCount"`
	Satisfied     bool       `json:"satisfied"`
	OpenedAt      *time.Time `json:"openedAt,omitempty"`
}

// ToApprovalLogResponse converts a domain.ApprovalLog to its DTO.
func ToApprovalLogResponse(l *domain.ApprovalLog) *ApprovalLogResponse {
	if l == nil {
		return nil
	}
	res := &ApprovalLogResponse{
		LogID:           l.LogID,
		JournalID:       l.JournalID,
		JournalRef:      l.JournalRef,
		WorkflowID:      l.WorkflowID,
		WorkflowVersion: l.WorkflowVersion,
		ApprovalType:    l.ApprovalType,
		Status:          l.Status,
		CurrentStep:     l.CurrentStep,
		EscalationCount: l.EscalationCount,
		RejectionReason: l.RejectionReason,
		SubmittedBy:     l.SubmittedBy,
		SubmittedAt:     l.SubmittedAt,
		CompletedAt:     l.CompletedAt,
		Decisions:       l.Decisions,
	}
	if res.Decisions == nil {
		res.Decisions = []domain.ApprovalDecision{}
	}
	for i, s := range l.Steps {
		step := ApprovalStepResponse{
			Index:         s.Index,
			Name:          s.Name,
			Approvers:     s.Approvers,
			RequiredCount: s.RequiredCount,
		}
		if i < len(l.StepStates) {
			st := l.StepStates[i]
			step.Applicable = st.Applicable
			step.ApproveCount = st.ApproveCount
			step.Satisfied = st.Satisfied
			step.OpenedAt = st.OpenedAt
		}
		res.Steps = append(res.Steps, step)
	}
	return res
}

// ApprovalQueueItem is a journal awaiting the caller's decision.
type ApprovalQueueItem struct {
	LogID            string                `json:"logID"`
	JournalID        string                `json:"journalID"`
	JournalReference string                `json:"journalReference"`
	Status           domain.ApprovalStatus `json:"status"`
	StepIndex        int                   `json:"stepIndex"`
	StepName         string                `json:"stepName"`
	SubmittedBy      string                `json:"submittedBy"`
	SubmittedAt      time.Time             `json:"submittedAt"`
}

// EscalationSweepResponse reports the result of a timeout sweep.
type EscalationSweepResponse struct {
	Checked   int `json:"checked"`
	Escalated int `json:"escalated"`
	Conflicts int `json:"conflicts"`
}
