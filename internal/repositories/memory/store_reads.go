package memory

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
)

// Reads outside a transaction see the last committed state.

func (s *Store) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	return s.view().FindAccountByID(ctx, organizationID, accountID)
}

func (s *Store) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	return s.view().FindAccountsByIDs(ctx, organizationID, accountIDs)
}

func (s *Store) ListAccounts(ctx context.Context, organizationID string, limit, offset int) ([]domain.Account, error) {
	return s.view().ListAccounts(ctx, organizationID, limit, offset)
}

func (s *Store) FindJournalByID(ctx context.Context, organizationID, journalID string) (*domain.Journal, error) {
	return s.view().FindJournalByID(ctx, organizationID, journalID)
}

func (s *Store) ListJournals(ctx context.Context, organizationID string, filter repositories.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	return s.view().ListJournals(ctx, organizationID, filter, limit, nextToken)
}

func (s *Store) FindReversalsOf(ctx context.Context, organizationID, originalID string) ([]domain.Journal, error) {
	return s.view().FindReversalsOf(ctx, organizationID, originalID)
}

func (s *Store) FindLedgerEntriesByJournalID(ctx context.Context, organizationID, journalID string) ([]domain.GeneralLedgerEntry, error) {
	return s.view().FindLedgerEntriesByJournalID(ctx, organizationID, journalID)
}

func (s *Store) ListLedgerEntriesByAccount(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	return s.view().ListLedgerEntriesByAccount(ctx, organizationID, accountID, limit, nextToken)
}

func (s *Store) FindPeriodByID(ctx context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error) {
	return s.view().FindPeriodByID(ctx, organizationID, periodID)
}

func (s *Store) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	return s.view().ListPeriods(ctx, organizationID)
}

func (s *Store) FindPeriodsCovering(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	return s.view().FindPeriodsCovering(ctx, organizationID, date)
}

func (s *Store) FindWorkflowByID(ctx context.Context, organizationID, workflowID string) (*domain.ApprovalWorkflow, error) {
	return s.view().FindWorkflowByID(ctx, organizationID, workflowID)
}

func (s *Store) ListWorkflows(ctx context.Context, organizationID string) ([]domain.ApprovalWorkflow, error) {
	return s.view().ListWorkflows(ctx, organizationID)
}

func (s *Store) ListActiveWorkflows(ctx context.Context, organizationID, journalType string) ([]domain.ApprovalWorkflow, error) {
	return s.view().ListActiveWorkflows(ctx, organizationID, journalType)
}

func (s *Store) FindApprovalLogByID(ctx context.Context, organizationID, logID string) (*domain.ApprovalLog, error) {
	return s.view().FindApprovalLogByID(ctx, organizationID, logID)
}

func (s *Store) ListOpenApprovalLogs(ctx context.Context, organizationID string) ([]domain.ApprovalLog, error) {
	return s.view().ListOpenApprovalLogs(ctx, organizationID)
}

func (s *Store) ListApprovalLogsByJournal(ctx context.Context, organizationID, journalID string) ([]domain.ApprovalLog, error) {
	return s.view().ListApprovalLogsByJournal(ctx, organizationID, journalID)
}

func (s *Store) ListNotificationsByJournal(ctx context.Context, organizationID, journalID string) ([]domain.Notification, error) {
	return s.view().ListNotificationsByJournal(ctx, organizationID, journalID)
}

func (s *Store) ListAuditEntries(ctx context.Context, organizationID, entityType, entityID string) ([]domain.AuditEntry, error) {
	return s.view().ListAuditEntries(ctx, organizationID, entityType, entityID)
}
