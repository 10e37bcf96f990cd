// Package workflow implements the approval state machine for journals. The
// engine is pure: it receives entities, returns the next state plus the
// notifications to emit, and leaves persistence to the caller.
package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/accounting"
)

// Engine evaluates approval workflows.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how log, decision and notification ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an Engine using the wall clock and random UUIDs unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome is the result of a state transition.
type Outcome struct {
	Log           domain.ApprovalLog
	Decision      *domain.ApprovalDecision
	Notifications []domain.Notification
	Approved      bool  // log reached APPROVED with this transition
	Rejected      bool  // log reached REJECTED with this transition
	Escalated     []int // steps escalated by a timeout check
}

// ValidateDefinition checks that every step of wf can be completed.
func (e *Engine) ValidateDefinition(wf domain.ApprovalWorkflow) error {
	cfgErr := func(step int, format string, args ...any) error {
		return &apperrors.ConfigurationError{WorkflowID: wf.WorkflowID, StepIndex: step, Reason: fmt.Sprintf(format, args...)}
	}

	if wf.ApprovalType != domain.Sequential && wf.ApprovalType != domain.Parallel {
		return cfgErr(-1, "unknown approval type %q", wf.ApprovalType)
	}
	if wf.Threshold < 0 {
		return cfgErr(-1, "threshold must not be negative")
	}
	if len(wf.Steps) == 0 {
		return cfgErr(-1, "workflow has no steps")
	}

	for i, s := range wf.Steps {
		if s.Index != i {
			return cfgErr(i, "step index %d out of order, expected %d", s.Index, i)
		}
		if s.RequiredCount < 1 {
			return cfgErr(i, "required count must be at least 1")
		}
		for _, a := range s.Approvers {
			if a == "" {
				return cfgErr(i, "approver ids must not be empty")
			}
		}
		if n := s.DistinctApprovers(); s.RequiredCount > n {
			return cfgErr(i, "requires %d approvals but only %d distinct approvers are eligible", s.RequiredCount, n)
		}
		if s.Timeout < 0 {
			return cfgErr(i, "timeout must not be negative")
		}
		if s.Condition != nil {
			if err := s.Condition.Validate(); err != nil {
				return cfgErr(i, "%s", err.Error())
			}
		}
	}
	return nil
}

// Submit starts approval of journal under wf. The boolean result is false when
// approval is not required: the journal amount is below the threshold or no
// step applies. In that case the returned Outcome is empty.
func (e *Engine) Submit(journal domain.Journal, wf domain.ApprovalWorkflow, submitter string) (Outcome, bool, error) {
	if err := e.ValidateDefinition(wf); err != nil {
		return Outcome{}, false, err
	}

	amount := accounting.JournalAmount(journal.Lines)
	if amount < wf.Threshold {
		return Outcome{}, false, nil
	}

	in := domain.ConditionInput{Amount: amount, CurrencyCode: journal.CurrencyCode, JournalType: journal.JournalType}
	states := make([]domain.StepState, len(wf.Steps))
	first := -1
	for i, s := range wf.Steps {
		states[i] = domain.StepState{Index: i, Applicable: s.Condition == nil || s.Condition.Evaluate(in)}
		if states[i].Applicable && first < 0 {
			first = i
		}
	}
	if first < 0 {
		return Outcome{}, false, nil
	}

	now := e.now()
	log := domain.ApprovalLog{
		LogID:           e.newID(),
		OrganizationID:  journal.OrganizationID,
		JournalID:       journal.JournalID,
		JournalRef:      journal.Reference,
		WorkflowID:      wf.WorkflowID,
		WorkflowVersion: wf.Version,
		ApprovalType:    wf.ApprovalType,
		AutoPost:        wf.AutoPostAfterApproval,
		StepStates:      states,
		CurrentStep:     first,
		Status:          domain.ApprovalPending,
		SubmittedBy:     submitter,
		SubmittedAt:     now,
		Version:         1,
	}
	log.Steps = domain.ApprovalLog{Steps: wf.Steps}.Clone().Steps

	out := Outcome{}
	out.notifyAt(e, &log, submitter, domain.NotifySubmitted,
		fmt.Sprintf("Journal %s was submitted for approval", log.JournalRef), now)

	if log.ApprovalType == domain.Sequential {
		e.openStep(&out, &log, first, now)
	} else {
		for i := range log.StepStates {
			if log.StepStates[i].Applicable {
				e.openStep(&out, &log, i, now)
			}
		}
	}

	out.Log = log
	return out, true, nil
}

// RecordDecision applies approver's decision on stepIndex.
func (e *Engine) RecordDecision(current domain.ApprovalLog, stepIndex int, approver string, decision domain.Decision, comment string) (Outcome, error) {
	if !current.IsOpen() {
		return Outcome{}, &apperrors.StateError{Entity: "approval log", ID: current.LogID, Status: string(current.Status), Attempt: "decide"}
	}
	if decision != domain.DecisionApprove && decision != domain.DecisionReject {
		return Outcome{}, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}
	if err := checkStep(current, stepIndex); err != nil {
		return Outcome{}, err
	}
	if !current.Steps[stepIndex].IsEligible(approver) {
		return Outcome{}, apperrors.ErrUnauthorizedApprover
	}
	if current.HasDecided(stepIndex, approver) {
		return Outcome{}, apperrors.ErrDuplicateDecision
	}

	now := e.now()
	log := current.Clone()
	d := domain.ApprovalDecision{
		DecisionID:     e.newID(),
		LogID:          log.LogID,
		OrganizationID: log.OrganizationID,
		StepIndex:      stepIndex,
		Approver:       approver,
		Decision:       decision,
		Comment:        comment,
		DecidedAt:      now,
	}
	log.Decisions = append(log.Decisions, d)
	out := Outcome{Decision: &d}

	if decision == domain.DecisionReject {
		reason := comment
		if reason == "" {
			reason = fmt.Sprintf("rejected by %s", approver)
		}
		log.Status = domain.ApprovalRejected
		log.RejectionReason = &reason
		log.CompletedAt = &now
		out.Rejected = true
		out.notifyAt(e, &log, log.SubmittedBy, domain.NotifyRejected,
			fmt.Sprintf("Journal %s was rejected by %s: %s", log.JournalRef, approver, reason), now)
		out.Log = log
		return out, nil
	}

	st := &log.StepStates[stepIndex]
	st.ApproveCount++
	if st.ApproveCount >= log.Steps[stepIndex].RequiredCount {
		st.Satisfied = true
		st.SatisfiedAt = &now
	}

	if st.Satisfied {
		if log.ApprovalType == domain.Sequential {
			if next := nextApplicable(log, stepIndex); next >= 0 {
				log.CurrentStep = next
				e.openStep(&out, &log, next, now)
			} else {
				e.complete(&out, &log, now)
			}
		} else if allSatisfied(log) {
			e.complete(&out, &log, now)
		}
	}

	if log.Status == domain.ApprovalEscalated && !anyOpenEscalated(log) {
		log.Status = domain.ApprovalPending
	}

	out.Log = log
	return out, nil
}

// CheckTimeout escalates every open step whose timeout has elapsed since it
// opened or was last escalated. It never approves on anyone's behalf.
func (e *Engine) CheckTimeout(current domain.ApprovalLog, now time.Time) (Outcome, bool) {
	if !current.IsOpen() {
		return Outcome{}, false
	}

	log := current.Clone()
	out := Outcome{}
	for i := range log.StepStates {
		st := &log.StepStates[i]
		step := log.Steps[i]
		if !st.Open() || step.Timeout <= 0 {
			continue
		}
		since := *st.OpenedAt
		if st.LastEscalatedAt != nil {
			since = *st.LastEscalatedAt
		}
		if now.Sub(since) < step.Timeout {
			continue
		}

		at := now
		st.LastEscalatedAt = &at
		log.EscalationCount++
		log.Status = domain.ApprovalEscalated
		out.Escalated = append(out.Escalated, i)

		msg := fmt.Sprintf("Approval of journal %s at step %q is overdue", log.JournalRef, step.Name)
		seen := make(map[string]bool)
		for _, a := range step.Approvers {
			if seen[a] || log.HasDecided(i, a) {
				continue
			}
			seen[a] = true
			out.notifyAt(e, &log, a, domain.NotifyEscalated, msg, now)
		}
		for _, a := range step.EscalateTo {
			if seen[a] {
				continue
			}
			seen[a] = true
			out.notifyAt(e, &log, a, domain.NotifyEscalated, msg, now)
		}
	}

	if len(out.Escalated) == 0 {
		return Outcome{}, false
	}
	out.Log = log
	return out, true
}

// ResolveStep picks the step a decision by approver targets when the caller
// does not name one.
func (e *Engine) ResolveStep(log domain.ApprovalLog, approver string) (int, error) {
	if !log.IsOpen() {
		return 0, &apperrors.StateError{Entity: "approval log", ID: log.LogID, Status: string(log.Status), Attempt: "decide"}
	}
	if log.ApprovalType == domain.Sequential {
		return log.CurrentStep, nil
	}

	eligible := false
	for i, st := range log.StepStates {
		if !st.Open() || !log.Steps[i].IsEligible(approver) {
			continue
		}
		eligible = true
		if !log.HasDecided(i, approver) {
			return i, nil
		}
	}
	if eligible {
		return 0, apperrors.ErrDuplicateDecision
	}
	return 0, apperrors.ErrUnauthorizedApprover
}

// EligibleAt reports whether approver can currently decide some step of log.
func (e *Engine) EligibleAt(log domain.ApprovalLog, approver string) bool {
	if !log.IsOpen() {
		return false
	}
	for i, st := range log.StepStates {
		if !st.Open() {
			continue
		}
		if log.ApprovalType == domain.Sequential && i != log.CurrentStep {
			continue
		}
		if log.Steps[i].IsEligible(approver) && !log.HasDecided(i, approver) {
			return true
		}
	}
	return false
}

func checkStep(log domain.ApprovalLog, stepIndex int) error {
	if stepIndex < 0 || stepIndex >= len(log.StepStates) {
		return apperrors.ErrStepMismatch
	}
	if log.ApprovalType == domain.Sequential && stepIndex != log.CurrentStep {
		return apperrors.ErrStepMismatch
	}
	if !log.StepStates[stepIndex].Open() {
		return apperrors.ErrStepMismatch
	}
	return nil
}

func (e *Engine) openStep(out *Outcome, log *domain.ApprovalLog, i int, now time.Time) {
	at := now
	log.StepStates[i].OpenedAt = &at
	step := log.Steps[i]
	seen := make(map[string]bool, len(step.Approvers))
	for _, a := range step.Approvers {
		if seen[a] {
			continue
		}
		seen[a] = true
		out.notifyAt(e, log, a, domain.NotifyNeedsApproval,
			fmt.Sprintf("Journal %s awaits your approval at step %q", log.JournalRef, step.Name), now)
	}
}

func (e *Engine) complete(out *Outcome, log *domain.ApprovalLog, now time.Time) {
	log.Status = domain.ApprovalApproved
	log.CompletedAt = &now
	out.Approved = true
	out.notifyAt(e, log, log.SubmittedBy, domain.NotifyApproved,
		fmt.Sprintf("Journal %s was approved", log.JournalRef), now)
}

func nextApplicable(log domain.ApprovalLog, after int) int {
	for i := after + 1; i < len(log.StepStates); i++ {
		if log.StepStates[i].Applicable && !log.StepStates[i].Satisfied {
			return i
		}
	}
	return -1
}

func allSatisfied(log domain.ApprovalLog) bool {
	for _, st := range log.StepStates {
		if st.Applicable && !st.Satisfied {
			return false
		}
	}
	return true
}

func anyOpenEscalated(log domain.ApprovalLog) bool {
	for _, st := range log.StepStates {
		if st.Open() && st.LastEscalatedAt != nil {
			return true
		}
	}
	return false
}

func (o *Outcome) notifyAt(e *Engine, log *domain.ApprovalLog, recipient string, kind domain.NotificationKind, msg string, at time.Time) {
	logID := log.LogID
	o.Notifications = append(o.Notifications, domain.Notification{
		NotificationID:   e.newID(),
		OrganizationID:   log.OrganizationID,
		Recipient:        recipient,
		Kind:             kind,
		JournalID:        log.JournalID,
		JournalReference: log.JournalRef,
		LogID:            &logID,
		Message:          msg,
		CreatedAt:        at,
	})
}
