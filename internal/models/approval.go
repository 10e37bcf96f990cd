package models

import "time"

// Workflow is a row of the approval_workflows table. Steps are stored as JSONB.
type Workflow struct {
	WorkflowID     string `db:"workflow_id"`
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	JournalType    string `db:"journal_type"`
	ApprovalType   string `db:"approval_type"`
	Threshold      int64  `db:"threshold"`
	AutoPost       bool   `db:"auto_post"`
	Priority       int    `db:"priority"`
	Version        int64  `db:"version"`
	Status         string `db:"status"`
	Steps          []byte `db:"steps"`
	AuditFields
}

// ApprovalLog is a row of the approval_logs table. The step snapshot and the
// step progress are stored as JSONB.
type ApprovalLog struct {
	LogID           string     `db:"log_id"`
	OrganizationID  string     `db:"organization_id"`
	JournalID       string     `db:"journal_id"`
	JournalRef      string     `db:"journal_reference"`
	WorkflowID      string     `db:"workflow_id"`
	WorkflowVersion int64      `db:"workflow_version"`
	ApprovalType    string     `db:"approval_type"`
	AutoPost        bool       `db:"auto_post"`
	Steps           []byte     `db:"steps"`
	StepStates      []byte     `db:"step_states"`
	CurrentStep     int        `db:"current_step"`
	Status          string     `db:"status"`
	EscalationCount int        `db:"escalation_count"`
	RejectionReason *string    `db:"rejection_reason"`
	SubmittedBy     string     `db:"submitted_by"`
	SubmittedAt     time.Time  `db:"submitted_at"`
	CompletedAt     *time.Time `db:"completed_at"`
	Version         int64      `db:"version"`
}

// ApprovalDecision is a row of the approval_decisions table.
type ApprovalDecision struct {
	DecisionID     string    `db:"decision_id"`
	LogID          string    `db:"log_id"`
	OrganizationID string    `db:"organization_id"`
	StepIndex      int       `db:"step_index"`
	Approver       string    `db:"approver"`
	Decision       string    `db:"decision"`
	Comment        string    `db:"comment"`
	DecidedAt      time.Time `db:"decided_at"`
}
