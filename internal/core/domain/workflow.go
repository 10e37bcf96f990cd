package domain

import (
	"fmt"
	"time"
)

// ApprovalType selects how the steps of a workflow are opened.
type ApprovalType string

const (
	Sequential ApprovalType = "SEQUENTIAL"
	Parallel   ApprovalType = "PARALLEL"
)

// WorkflowStatus is the lifecycle of a workflow definition.
type WorkflowStatus string

const (
	WorkflowDraft    WorkflowStatus = "DRAFT"
	WorkflowActive   WorkflowStatus = "ACTIVE"
	WorkflowInactive WorkflowStatus = "INACTIVE"
)

// ApprovalWorkflow is a tenant-scoped approval policy for one journal type.
type ApprovalWorkflow struct {
	WorkflowID            string         `json:"workflowID"`
	OrganizationID        string         `json:"organizationID"`
	Name                  string         `json:"name"`
	JournalType           string         `json:"journalType"`
	ApprovalType          ApprovalType   `json:"approvalType"`
	Threshold             Amount         `json:"threshold"` // journals below this amount bypass approval
	AutoPostAfterApproval bool           `json:"autoPostAfterApproval"`
	Priority              int            `json:"priority"` // lower wins when several workflows match
	Version               int64          `json:"version"`
	Status                WorkflowStatus `json:"status"`
	Steps                 []ApprovalStep `json:"steps"`
	AuditFields
}

// ApprovalStep is one stage of an approval workflow.
type ApprovalStep struct {
	Index         int           `json:"index"`
	Name          string        `json:"name"`
	Approvers     []string      `json:"approvers"`
	RequiredCount int           `json:"requiredCount"`
	Timeout       time.Duration `json:"timeout,omitempty"` // zero disables escalation
	Condition     *Condition    `json:"condition,omitempty"`
	EscalateTo    []string      `json:"escalateTo,omitempty"`
}

// IsEligible reports whether approver may decide this step.
func (s ApprovalStep) IsEligible(approver string) bool {
	for _, a := range s.Approvers {
		if a == approver {
			return true
		}
	}
	return false
}

// DistinctApprovers returns the number of distinct eligible approvers.
func (s ApprovalStep) DistinctApprovers() int {
	seen := make(map[string]struct{}, len(s.Approvers))
	for _, a := range s.Approvers {
		seen[a] = struct{}{}
	}
	return len(seen)
}

// ConditionKind tags the variant held by a Condition.
type ConditionKind string

const (
	CondAlways        ConditionKind = "ALWAYS"
	CondAmountGT      ConditionKind = "AMOUNT_GT"
	CondAmountGTE     ConditionKind = "AMOUNT_GTE"
	CondAmountLT      ConditionKind = "AMOUNT_LT"
	CondAmountLTE     ConditionKind = "AMOUNT_LTE"
	CondCurrencyIs    ConditionKind = "CURRENCY_IS"
	CondJournalTypeIs ConditionKind = "JOURNAL_TYPE_IS"
	CondAnd           ConditionKind = "AND"
	CondOr            ConditionKind = "OR"
	CondNot           ConditionKind = "NOT"
)

// Condition is a small expression deciding whether a step applies to a journal.
type Condition struct {
	Kind     ConditionKind `json:"kind"`
	Amount   Amount        `json:"amount,omitempty"`
	Value    string        `json:"value,omitempty"`
	Operands []Condition   `json:"operands,omitempty"`
}

// ConditionInput is the journal data a Condition is evaluated against.
type ConditionInput struct {
	Amount       Amount
	CurrencyCode string
	JournalType  string
}

// Evaluate returns the truth value of c for in. Unknown kinds evaluate to false.
func (c Condition) Evaluate(in ConditionInput) bool {
	switch c.Kind {
	case CondAlways:
		return true
	case CondAmountGT:
		return in.Amount > c.Amount
	case CondAmountGTE:
		return in.Amount >= c.Amount
	case CondAmountLT:
		return in.Amount < c.Amount
	case CondAmountLTE:
		return in.Amount <= c.Amount
	case CondCurrencyIs:
		return in.CurrencyCode == c.Value
	case CondJournalTypeIs:
		return in.JournalType == c.Value
	case CondAnd:
		for _, op := range c.Operands {
			if !op.Evaluate(in) {
				return false
			}
		}
		return true
	case CondOr:
		for _, op := range c.Operands {
			if op.Evaluate(in) {
				return true
			}
		}
		return false
	case CondNot:
		return len(c.Operands) == 1 && !c.Operands[0].Evaluate(in)
	}
	return false
}

// Validate checks the structure of the expression tree.
func (c Condition) Validate() error {
	switch c.Kind {
	case CondAlways:
		return nil
	case CondAmountGT, CondAmountGTE, CondAmountLT, CondAmountLTE:
		if c.Amount < 0 {
			return fmt.Errorf("condition %s: amount must not be negative", c.Kind)
		}
		return nil
	case CondCurrencyIs, CondJournalTypeIs:
		if c.Value == "" {
			return fmt.Errorf("condition %s: value is required", c.Kind)
		}
		return nil
	case CondAnd, CondOr:
		if len(c.Operands) == 0 {
			return fmt.Errorf("condition %s: at least one operand is required", c.Kind)
		}
	case CondNot:
		if len(c.Operands) != 1 {
			return fmt.Errorf("condition NOT: exactly one operand is required")
		}
	default:
		return fmt.Errorf("unknown condition kind %q", c.Kind)
	}
	for _, op := range c.Operands {
		if err := op.Validate(); err != nil {
			return err
		}
	}
	return nil
}
