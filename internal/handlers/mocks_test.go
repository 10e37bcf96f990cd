package handlers_test

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListLedgerEntries(ctx context.Context, organizationID, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	args := m.Called(ctx, organizationID, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLedgerEntriesResponse), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) CreatePeriod(ctx context.Context, organizationID string, req dto.CreatePeriodRequest, actor string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, organizationID, periodID, actor string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, periodID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, organizationID, periodID, actor string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, periodID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) CreateWorkflow(ctx context.Context, organizationID string, req dto.CreateWorkflowRequest, actor string) (*domain.ApprovalWorkflow, error) {
	args := m.Called(ctx, organizationID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalWorkflow), args.Error(1)
}

func (m *MockWorkflowService) GetWorkflow(ctx context.Context, organizationID, workflowID string) (*domain.ApprovalWorkflow, error) {
	args := m.Called(ctx, organizationID, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalWorkflow), args.Error(1)
}

func (m *MockWorkflowService) ListWorkflows(ctx context.Context, organizationID string) ([]domain.ApprovalWorkflow, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalWorkflow), args.Error(1)
}

func (m *MockWorkflowService) ActivateWorkflow(ctx context.Context, organizationID, workflowID, actor string) (*domain.ApprovalWorkflow, error) {
	args := m.Called(ctx, organizationID, workflowID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalWorkflow), args.Error(1)
}

func (m *MockWorkflowService) DeactivateWorkflow(ctx context.Context, organizationID, workflowID, actor string) (*domain.ApprovalWorkflow, error) {
	args := m.Called(ctx, organizationID, workflowID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalWorkflow), args.Error(1)
}

var _ portssvc.WorkflowSvcFacade = (*MockWorkflowService)(nil)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) result(args mock.Arguments) (*portssvc.PostingResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.PostingResult), args.Error(1)
}

func (m *MockPostingService) GetJournal(ctx context.Context, organizationID, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, organizationID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) ListJournals(ctx context.Context, organizationID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, organizationID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

func (m *MockPostingService) CreateDraft(ctx context.Context, organizationID string, req dto.CreateJournalRequest, actor string) (*domain.Journal, error) {
	args := m.Called(ctx, organizationID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) UpdateDraft(ctx context.Context, organizationID, journalID string, req dto.UpdateJournalRequest, actor string) (*domain.Journal, error) {
	args := m.Called(ctx, organizationID, journalID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) SubmitForApproval(ctx context.Context, organizationID, journalID, submitter string) (*portssvc.PostingResult, error) {
	return m.result(m.Called(ctx, organizationID, journalID, submitter))
}

func (m *MockPostingService) Approve(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, comment string) (*portssvc.PostingResult, error) {
	return m.result(m.Called(ctx, organizationID, journalID, approver, stepIndex, comment))
}

func (m *MockPostingService) Reject(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, reason string) (*portssvc.PostingResult, error) {
	return m.result(m.Called(ctx, organizationID, journalID, approver, stepIndex, reason))
}

func (m *MockPostingService) Post(ctx context.Context, organizationID, journalID, actor string) (*domain.Journal, error) {
	args := m.Called(ctx, organizationID, journalID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) Reverse(ctx context.Context, organizationID, journalID, actor string, req dto.ReverseJournalRequest) (*portssvc.PostingResult, error) {
	return m.result(m.Called(ctx, organizationID, journalID, actor, req))
}

func (m *MockPostingService) ApprovalQueue(ctx context.Context, organizationID, approver string) ([]dto.ApprovalQueueItem, error) {
	args := m.Called(ctx, organizationID, approver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ApprovalQueueItem), args.Error(1)
}

func (m *MockPostingService) GetApprovalLog(ctx context.Context, organizationID, logID string) (*domain.ApprovalLog, error) {
	args := m.Called(ctx, organizationID, logID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalLog), args.Error(1)
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

// --- Mock EscalationService ---
type MockEscalationService struct {
	mock.Mock
}

func (m *MockEscalationService) SweepTimeouts(ctx context.Context, organizationID string, now time.Time) (portssvc.SweepResult, error) {
	args := m.Called(ctx, organizationID, now)
	return args.Get(0).(portssvc.SweepResult), args.Error(1)
}

func (m *MockEscalationService) Run(ctx context.Context, interval time.Duration) error {
	return m.Called(ctx, interval).Error(0)
}

var _ portssvc.EscalationSvc = (*MockEscalationService)(nil)
