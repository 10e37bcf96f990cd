package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/pagination"
)

// view implements every read over one version of the state.
type view struct {
	st *state
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, apperrors.ErrNotFound)
}

func (v *view) FindAccountByID(_ context.Context, organizationID, accountID string) (*domain.Account, error) {
	acc, ok := v.st.accounts[accountID]
	if !ok || acc.OrganizationID != organizationID {
		return nil, notFound("account", accountID)
	}
	return &acc, nil
}

func (v *view) FindAccountsByIDs(_ context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := v.st.accounts[id]; ok && acc.OrganizationID == organizationID {
			out[id] = acc
		}
	}
	return out, nil
}

func (v *view) ListAccounts(_ context.Context, organizationID string, limit, offset int) ([]domain.Account, error) {
	var all []domain.Account
	for _, acc := range v.st.accounts {
		if acc.OrganizationID == organizationID {
			all = append(all, acc)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func (v *view) FindJournalByID(_ context.Context, organizationID, journalID string) (*domain.Journal, error) {
	j, ok := v.st.journals[journalID]
	if !ok || j.OrganizationID != organizationID {
		return nil, notFound("journal", journalID)
	}
	c := j.Clone()
	return &c, nil
}

func (v *view) ListJournals(_ context.Context, organizationID string, filter repositories.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	var cursor *pagination.JournalCursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var all []domain.Journal
	for _, j := range v.st.journals {
		if j.OrganizationID != organizationID {
			continue
		}
		if filter.Status != nil && j.Status != *filter.Status {
			continue
		}
		if filter.JournalType != "" && j.JournalType != filter.JournalType {
			continue
		}
		if cursor != nil && !cursor.Before(j.TransactionDate, j.CreatedAt, j.JournalID) {
			continue
		}
		j.Lines = nil
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool {
		ja, jb := all[a], all[b]
		if !ja.TransactionDate.Equal(jb.TransactionDate) {
			return ja.TransactionDate.After(jb.TransactionDate)
		}
		if !ja.CreatedAt.Equal(jb.CreatedAt) {
			return ja.CreatedAt.After(jb.CreatedAt)
		}
		return ja.JournalID > jb.JournalID
	})

	if limit <= 0 || len(all) <= limit {
		return all, nil, nil
	}
	all = all[:limit]
	last := all[limit-1]
	token := pagination.EncodeToken(pagination.JournalCursor{TransactionDate: last.TransactionDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID})
	return all, &token, nil
}

func (v *view) FindReversalsOf(_ context.Context, organizationID, originalID string) ([]domain.Journal, error) {
	var out []domain.Journal
	for _, j := range v.st.journals {
		if j.OrganizationID == organizationID && j.ReversalOfJournalID != nil && *j.ReversalOfJournalID == originalID {
			out = append(out, j.Clone())
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (v *view) FindLedgerEntriesByJournalID(_ context.Context, organizationID, journalID string) ([]domain.GeneralLedgerEntry, error) {
	var out []domain.GeneralLedgerEntry
	for _, e := range v.st.entries {
		if e.OrganizationID == organizationID && e.JournalID == journalID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (v *view) ListLedgerEntriesByAccount(_ context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	after := ""
	if nextToken != nil && *nextToken != "" {
		parts, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(parts) != 1 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		after = parts[0]
	}

	var out []domain.GeneralLedgerEntry
	for _, e := range v.st.entries {
		if e.OrganizationID != organizationID || e.AccountID != accountID || e.EntryID <= after {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].EntryID < out[b].EntryID })

	if limit <= 0 || len(out) <= limit {
		return out, nil, nil
	}
	out = out[:limit]
	token := pagination.EncodeMultiFieldToken(out[limit-1].EntryID)
	return out, &token, nil
}

func (v *view) FindPeriodByID(_ context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error) {
	p, ok := v.st.periods[periodID]
	if !ok || p.OrganizationID != organizationID {
		return nil, notFound("period", periodID)
	}
	return &p, nil
}

func (v *view) ListPeriods(_ context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	for _, p := range v.st.periods {
		if p.OrganizationID == organizationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartDate.Before(out[b].StartDate) })
	return out, nil
}

func (v *view) FindPeriodsCovering(_ context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	for _, p := range v.st.periods {
		if p.OrganizationID == organizationID && p.Covers(date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (v *view) FindWorkflowByID(_ context.Context, organizationID, workflowID string) (*domain.ApprovalWorkflow, error) {
	wf, ok := v.st.workflows[workflowID]
	if !ok || wf.OrganizationID != organizationID {
		return nil, notFound("workflow", workflowID)
	}
	return &wf, nil
}

func (v *view) ListWorkflows(_ context.Context, organizationID string) ([]domain.ApprovalWorkflow, error) {
	var out []domain.ApprovalWorkflow
	for _, wf := range v.st.workflows {
		if wf.OrganizationID == organizationID {
			out = append(out, wf)
		}
	}
	sortWorkflows(out)
	return out, nil
}

func (v *view) ListActiveWorkflows(_ context.Context, organizationID, journalType string) ([]domain.ApprovalWorkflow, error) {
	var out []domain.ApprovalWorkflow
	for _, wf := range v.st.workflows {
		if wf.OrganizationID == organizationID && wf.JournalType == journalType && wf.Status == domain.WorkflowActive {
			out = append(out, wf)
		}
	}
	sortWorkflows(out)
	return out, nil
}

func sortWorkflows(wfs []domain.ApprovalWorkflow) {
	sort.Slice(wfs, func(a, b int) bool {
		if wfs[a].Priority != wfs[b].Priority {
			return wfs[a].Priority < wfs[b].Priority
		}
		return wfs[a].CreatedAt.Before(wfs[b].CreatedAt)
	})
}

func (v *view) withDecisions(l domain.ApprovalLog) domain.ApprovalLog {
	c := l.Clone()
	c.Decisions = append([]domain.ApprovalDecision(nil), v.st.decisions[l.LogID]...)
	return c
}

func (v *view) FindApprovalLogByID(_ context.Context, organizationID, logID string) (*domain.ApprovalLog, error) {
	l, ok := v.st.logs[logID]
	if !ok || l.OrganizationID != organizationID {
		return nil, notFound("approval log", logID)
	}
	c := v.withDecisions(l)
	return &c, nil
}

func (v *view) ListOpenApprovalLogs(_ context.Context, organizationID string) ([]domain.ApprovalLog, error) {
	var out []domain.ApprovalLog
	for _, l := range v.st.logs {
		if organizationID != "" && l.OrganizationID != organizationID {
			continue
		}
		if l.IsOpen() {
			out = append(out, v.withDecisions(l))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SubmittedAt.Before(out[b].SubmittedAt) })
	return out, nil
}

func (v *view) ListApprovalLogsByJournal(_ context.Context, organizationID, journalID string) ([]domain.ApprovalLog, error) {
	var out []domain.ApprovalLog
	for _, l := range v.st.logs {
		if l.OrganizationID == organizationID && l.JournalID == journalID {
			out = append(out, v.withDecisions(l))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SubmittedAt.Before(out[b].SubmittedAt) })
	return out, nil
}

func (v *view) ListNotificationsByJournal(_ context.Context, organizationID, journalID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range v.st.notifications {
		if n.OrganizationID == organizationID && n.JournalID == journalID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (v *view) ListAuditEntries(_ context.Context, organizationID, entityType, entityID string) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for _, a := range v.st.audit {
		if a.OrganizationID == organizationID && a.EntityType == entityType && a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}
