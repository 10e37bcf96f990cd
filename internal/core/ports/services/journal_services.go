package services

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
)

// PostingResult is the state of a journal after a workflow transition.
type PostingResult struct {
	Journal          *domain.Journal
	ApprovalRequired bool
	ApprovalLog      *domain.ApprovalLog // nil when approval was bypassed
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	GetJournal(ctx context.Context, organizationID, journalID string) (*domain.Journal, error)
	ListJournals(ctx context.Context, organizationID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines draft maintenance
type JournalWriterSvc interface {
	CreateDraft(ctx context.Context, organizationID string, req dto.CreateJournalRequest, actor string) (*domain.Journal, error)

	// UpdateDraft replaces the content of a draft journal whose version still equals req.Version.
	UpdateDraft(ctx context.Context, organizationID, journalID string, req dto.UpdateJournalRequest, actor string) (*domain.Journal, error)
}

// PostingWorkflowSvc drives a journal from draft to the ledger.
type PostingWorkflowSvc interface {
	SubmitForApproval(ctx context.Context, organizationID, journalID, submitter string) (*PostingResult, error)
	Approve(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, comment string) (*PostingResult, error)
	Reject(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, reason string) (*PostingResult, error)

	// Post writes an approved journal to the ledger. Posting an already posted journal is a no-op.
	Post(ctx context.Context, organizationID, journalID, actor string) (*domain.Journal, error)

	// Reverse creates a mirror journal of a posted one and submits it.
	Reverse(ctx context.Context, organizationID, journalID, actor string, req dto.ReverseJournalRequest) (*PostingResult, error)
}

// ApprovalReaderSvc defines read operations for approvals
type ApprovalReaderSvc interface {
	ApprovalQueue(ctx context.Context, organizationID, approver string) ([]dto.ApprovalQueueItem, error)
	GetApprovalLog(ctx context.Context, organizationID, logID string) (*domain.ApprovalLog, error)
}

// PostingSvcFacade combines all journal-related service interfaces
type PostingSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	PostingWorkflowSvc
	ApprovalReaderSvc
}
