package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
)

// memTx reads and writes a private copy of the state.
type memTx struct {
	view
}

var _ repositories.LedgerTx = (*memTx)(nil)

func (t *memTx) SaveAccount(_ context.Context, account domain.Account) error {
	if _, exists := t.st.accounts[account.AccountID]; exists {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	for _, a := range t.st.accounts {
		if a.OrganizationID == account.OrganizationID && a.Code == account.Code {
			return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
		}
	}
	t.st.accounts[account.AccountID] = account
	return nil
}

func (t *memTx) ApplyBalanceChanges(_ context.Context, organizationID string, changes map[string]domain.Amount, actor string, now time.Time) (map[string]domain.Account, error) {
	before := make(map[string]domain.Account, len(changes))
	for id := range changes {
		acc, ok := t.st.accounts[id]
		if !ok || acc.OrganizationID != organizationID {
			return nil, notFound("account", id)
		}
		before[id] = acc
	}
	for id, delta := range changes {
		acc := before[id]
		acc.Balance += delta
		acc.Touch(actor, now)
		t.st.accounts[id] = acc
	}
	return before, nil
}

func (t *memTx) InsertJournal(_ context.Context, journal domain.Journal) error {
	if _, exists := t.st.journals[journal.JournalID]; exists {
		return fmt.Errorf("journal %s: %w", journal.JournalID, apperrors.ErrDuplicate)
	}
	t.st.journals[journal.JournalID] = journal.Clone()
	return nil
}

func (t *memTx) UpdateJournal(_ context.Context, journal domain.Journal, expectedVersion int64) error {
	stored, ok := t.st.journals[journal.JournalID]
	if !ok || stored.OrganizationID != journal.OrganizationID {
		return notFound("journal", journal.JournalID)
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrConcurrentModification
	}
	next := journal.Clone()
	next.Lines = stored.Lines
	next.Version = expectedVersion + 1
	t.st.journals[journal.JournalID] = next
	return nil
}

func (t *memTx) ReplaceJournalLines(_ context.Context, journal domain.Journal) error {
	stored, ok := t.st.journals[journal.JournalID]
	if !ok || stored.OrganizationID != journal.OrganizationID {
		return notFound("journal", journal.JournalID)
	}
	stored.Lines = append([]domain.JournalLine(nil), journal.Lines...)
	t.st.journals[journal.JournalID] = stored
	return nil
}

func (t *memTx) InsertGeneralLedgerEntries(_ context.Context, entries []domain.GeneralLedgerEntry) error {
	t.st.entries = append(t.st.entries, entries...)
	return nil
}

func (t *memTx) SavePeriod(_ context.Context, period domain.AccountingPeriod) error {
	if _, exists := t.st.periods[period.PeriodID]; exists {
		return fmt.Errorf("period %s: %w", period.PeriodID, apperrors.ErrDuplicate)
	}
	t.st.periods[period.PeriodID] = period
	return nil
}

func (t *memTx) UpdatePeriodStatus(_ context.Context, organizationID, periodID string, status domain.PeriodStatus, actor string, now time.Time) error {
	p, ok := t.st.periods[periodID]
	if !ok || p.OrganizationID != organizationID {
		return notFound("period", periodID)
	}
	p.Status = status
	p.Touch(actor, now)
	t.st.periods[periodID] = p
	return nil
}

// FindPeriodsCoveringForPosting needs no extra locking here since transactions are serialised.
func (t *memTx) FindPeriodsCoveringForPosting(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	return t.FindPeriodsCovering(ctx, organizationID, date)
}

func (t *memTx) SaveWorkflow(_ context.Context, wf domain.ApprovalWorkflow) error {
	if _, exists := t.st.workflows[wf.WorkflowID]; exists {
		return fmt.Errorf("workflow %s: %w", wf.WorkflowID, apperrors.ErrDuplicate)
	}
	t.st.workflows[wf.WorkflowID] = wf
	return nil
}

func (t *memTx) UpdateWorkflowStatus(_ context.Context, organizationID, workflowID string, status domain.WorkflowStatus, actor string, now time.Time) error {
	wf, ok := t.st.workflows[workflowID]
	if !ok || wf.OrganizationID != organizationID {
		return notFound("workflow", workflowID)
	}
	wf.Status = status
	wf.Version++
	wf.Touch(actor, now)
	t.st.workflows[workflowID] = wf
	return nil
}

func (t *memTx) InsertApprovalLog(_ context.Context, log domain.ApprovalLog) error {
	if _, exists := t.st.logs[log.LogID]; exists {
		return fmt.Errorf("approval log %s: %w", log.LogID, apperrors.ErrDuplicate)
	}
	c := log.Clone()
	c.Decisions = nil
	t.st.logs[log.LogID] = c
	return nil
}

func (t *memTx) UpdateApprovalLog(_ context.Context, log domain.ApprovalLog, expectedVersion int64) error {
	stored, ok := t.st.logs[log.LogID]
	if !ok || stored.OrganizationID != log.OrganizationID {
		return notFound("approval log", log.LogID)
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrConcurrentModification
	}
	c := log.Clone()
	c.Decisions = nil
	c.Version = expectedVersion + 1
	t.st.logs[log.LogID] = c
	return nil
}

func (t *memTx) InsertDecision(_ context.Context, decision domain.ApprovalDecision) error {
	if _, ok := t.st.logs[decision.LogID]; !ok {
		return notFound("approval log", decision.LogID)
	}
	existing := t.st.decisions[decision.LogID]
	for _, d := range existing {
		if d.StepIndex == decision.StepIndex && d.Approver == decision.Approver {
			return apperrors.ErrDuplicateDecision
		}
	}
	next := make([]domain.ApprovalDecision, len(existing), len(existing)+1)
	copy(next, existing)
	t.st.decisions[decision.LogID] = append(next, decision)
	return nil
}

func (t *memTx) EnqueueNotifications(_ context.Context, notifications []domain.Notification) error {
	t.st.notifications = append(t.st.notifications, notifications...)
	return nil
}

func (t *memTx) InsertAuditEntry(_ context.Context, entry domain.AuditEntry) error {
	t.st.audit = append(t.st.audit, entry)
	return nil
}
