package domain

import "time"

// ApprovalStatus is the state of an ApprovalLog.
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "PENDING"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
	ApprovalEscalated ApprovalStatus = "ESCALATED"
)

// Decision is an approver's vote.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// StepState tracks progress of one snapshotted step within an ApprovalLog.
type StepState struct {
	Index           int        `json:"index"`
	Applicable      bool       `json:"applicable"`
	ApproveCount    int        `json:"approveCount"`
	Satisfied       bool       `json:"satisfied"`
	OpenedAt        *time.Time `json:"openedAt,omitempty"`
	SatisfiedAt     *time.Time `json:"satisfiedAt,omitempty"`
	LastEscalatedAt *time.Time `json:"lastEscalatedAt,omitempty"`
}

// Open reports whether the step currently accepts decisions.
func (s StepState) Open() bool {
	return s.Applicable && !s.Satisfied && s.OpenedAt != nil
}

// ApprovalLog is the approval instance for one submission of a journal.
type ApprovalLog struct {
	LogID           string             `json:"logID"`
	OrganizationID  string             `json:"organizationID"`
	JournalID       string             `json:"journalID"`
	JournalRef      string             `json:"journalReference"`
	WorkflowID      string             `json:"workflowID"`
	WorkflowVersion int64              `json:"workflowVersion"`
	ApprovalType    ApprovalType       `json:"approvalType"`
	AutoPost        bool               `json:"autoPost"`
	Steps           []ApprovalStep     `json:"steps"` // snapshot taken at submission
	StepStates      []StepState        `json:"stepStates"`
	CurrentStep     int                `json:"currentStep"`
	Status          ApprovalStatus     `json:"status"`
	EscalationCount int                `json:"escalationCount"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
	SubmittedBy     string             `json:"submittedBy"`
	SubmittedAt     time.Time          `json:"submittedAt"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty"`
	Version         int64              `json:"version"`
	Decisions       []ApprovalDecision `json:"decisions"`
}

// ApprovalDecision is one approver's append-only vote on a step.
type ApprovalDecision struct {
	DecisionID     string    `json:"decisionID"`
	LogID          string    `json:"logID"`
	OrganizationID string    `json:"organizationID"`
	StepIndex      int       `json:"stepIndex"`
	Approver       string    `json:"approver"`
	Decision       Decision  `json:"decision"`
	Comment        string    `json:"comment"`
	DecidedAt      time.Time `json:"decidedAt"`
}

// IsOpen reports whether the log still accepts decisions.
func (l ApprovalLog) IsOpen() bool {
	return l.Status == ApprovalPending || l.Status == ApprovalEscalated
}

// HasDecided reports whether approver already voted on stepIndex.
func (l ApprovalLog) HasDecided(stepIndex int, approver string) bool {
	for _, d := range l.Decisions {
		if d.StepIndex == stepIndex && d.Approver == approver {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the log.
func (l ApprovalLog) Clone() ApprovalLog {
	c := l
	c.Steps = make([]ApprovalStep, len(l.Steps))
	for i, s := range l.Steps {
		s.Approvers = append([]string(nil), s.Approvers...)
		s.EscalateTo = append([]string(nil), s.EscalateTo...)
		c.Steps[i] = s
	}
	c.StepStates = append([]StepState(nil), l.StepStates...)
	c.Decisions = append([]ApprovalDecision(nil), l.Decisions...)
	c.RejectionReason = cloneString(l.RejectionReason)
	if l.CompletedAt != nil {
		t := *l.CompletedAt
		c.CompletedAt = &t
	}
	return c
}
