package apperrors

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the engine unwraps to exactly one of these.
var (
	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")
	// ErrPeriod indicates a missing or closed accounting period.
	ErrPeriod = errors.New("period error")
	// ErrAuthorization indicates the actor may not perform the decision.
	ErrAuthorization = errors.New("authorization error")
	// ErrConcurrency indicates a lost optimistic-concurrency race.
	ErrConcurrency = errors.New("concurrency error")
	// ErrState indicates an operation that is invalid for the entity's current status.
	ErrState = errors.New("state error")
	// ErrConfiguration indicates an unusable workflow definition.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound indicates that a requested resource could not be found.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")
	// ErrInternal is returned for unexpected infrastructure failures.
	ErrInternal = errors.New("internal error")
)

// kindError is a specific error that belongs to a category.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrEmptyJournal           = newKind(ErrValidation, "journal has no lines")
	ErrNoPeriodDefined        = newKind(ErrPeriod, "no accounting period covers the transaction date")
	ErrUnauthorizedApprover   = newKind(ErrAuthorization, "approver is not eligible for this step")
	ErrDuplicateDecision      = newKind(ErrAuthorization, "approver already decided this step")
	ErrConcurrentModification = newKind(ErrConcurrency, "record was modified concurrently")
	ErrStepMismatch           = newKind(ErrState, "decision does not target an open approval step")
	ErrAlreadySubmitted       = newKind(ErrState, "journal is not in draft")
)

// UnbalancedError reports a journal whose debit and credit totals differ.
type UnbalancedError struct {
	DebitTotal  int64
	CreditTotal int64
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("journal is unbalanced: debit total %d, credit total %d", e.DebitTotal, e.CreditTotal)
}

func (e *UnbalancedError) Unwrap() error { return ErrValidation }

// InvalidLineError reports a malformed journal line.
type InvalidLineError struct {
	Index  int
	Reason string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid journal line %d: %s", e.Index, e.Reason)
}

func (e *InvalidLineError) Unwrap() error { return ErrValidation }

// PeriodClosedError reports that the covering accounting period is closed.
type PeriodClosedError struct {
	PeriodID   string
	PeriodName string
}

func (e *PeriodClosedError) Error() string {
	return fmt.Sprintf("accounting period %s (%s) is closed", e.PeriodName, e.PeriodID)
}

func (e *PeriodClosedError) Unwrap() error { return ErrPeriod }

// ConfigurationError reports a workflow definition that can never complete.
type ConfigurationError struct {
	WorkflowID string
	StepIndex  int
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.StepIndex < 0 {
		return fmt.Sprintf("workflow %s misconfigured: %s", e.WorkflowID, e.Reason)
	}
	return fmt.Sprintf("workflow %s step %d misconfigured: %s", e.WorkflowID, e.StepIndex, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// StateError reports an operation attempted from the wrong status.
type StateError struct {
	Entity  string
	ID      string
	Status  string
	Attempt string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s %s in status %s", e.Attempt, e.Entity, e.ID, e.Status)
}

func (e *StateError) Unwrap() error { return ErrState }

// AppError wraps infrastructure failures with a status-like code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Kind returns a short machine-readable name for the category of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrPeriod):
		return "period"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrConcurrency):
		return "concurrency"
	case errors.Is(err, ErrState):
		return "state"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	default:
		return "internal"
	}
}
