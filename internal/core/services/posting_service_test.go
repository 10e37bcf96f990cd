package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/ritsnep/HimalytixNew-sub002/internal/events"
	"github.com/ritsnep/HimalytixNew-sub002/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.JournalPostedEvent
}

func (p *recordingPublisher) PublishJournalPosted(_ context.Context, ev events.JournalPostedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// gatedStore holds every approval log read until `parties` callers have read
// the same state, so concurrent deciders race on one version.
type gatedStore struct {
	*memory.Store
	gate sync.WaitGroup
}

func newGatedStore(store *memory.Store, parties int) *gatedStore {
	g := &gatedStore{Store: store}
	g.gate.Add(parties)
	return g
}

func (g *gatedStore) FindApprovalLogByID(ctx context.Context, organizationID, logID string) (*domain.ApprovalLog, error) {
	log, err := g.Store.FindApprovalLogByID(ctx, organizationID, logID)
	g.gate.Done()
	g.gate.Wait()
	return log, err
}

type PostingServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	now        time.Time
	publisher  *recordingPublisher
	accounts   portssvc.AccountSvcFacade
	periods    portssvc.PeriodSvcFacade
	workflows  portssvc.WorkflowSvcFacade
	posting    portssvc.PostingSvcFacade
	escalation portssvc.EscalationSvc

	orgID   string
	creator string
	cash    *domain.Account
	revenue *domain.Account
	period  *domain.AccountingPeriod
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	suite.publisher = &recordingPublisher{}
	suite.orgID = "org-1"
	suite.creator = "carol"

	opts := suite.options()
	suite.accounts = services.NewAccountService(suite.store, opts...)
	suite.periods = services.NewPeriodService(suite.store, opts...)
	suite.workflows = services.NewWorkflowService(suite.store, opts...)
	suite.posting = services.NewPostingService(suite.store, opts...)
	suite.escalation = services.NewEscalationService(suite.store, opts...)

	var err error
	suite.cash, err = suite.accounts.CreateAccount(suite.ctx, suite.orgID, dto.CreateAccountRequest{
		Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "usd",
	}, suite.creator)
	suite.Require().NoError(err)
	suite.revenue, err = suite.accounts.CreateAccount(suite.ctx, suite.orgID, dto.CreateAccountRequest{
		Code: "4000", Name: "Revenue", AccountType: domain.Income, CurrencyCode: "USD",
	}, suite.creator)
	suite.Require().NoError(err)
	suite.period, err = suite.periods.CreatePeriod(suite.ctx, suite.orgID, dto.CreatePeriodRequest{
		Name: "FY2024", StartDate: "2024-01-01", EndDate: "2024-12-31",
	}, suite.creator)
	suite.Require().NoError(err)
}

func (suite *PostingServiceTestSuite) options() []services.Option {
	return []services.Option{
		services.WithClock(func() time.Time { return suite.now }),
		services.WithPublisher(suite.publisher),
		services.WithBaseCurrency("USD"),
	}
}

func (suite *PostingServiceTestSuite) activeWorkflow(req dto.CreateWorkflowRequest) *domain.ApprovalWorkflow {
	wf, err := suite.workflows.CreateWorkflow(suite.ctx, suite.orgID, req, "admin")
	suite.Require().NoError(err)
	wf, err = suite.workflows.ActivateWorkflow(suite.ctx, suite.orgID, wf.WorkflowID, "admin")
	suite.Require().NoError(err)
	suite.Require().Equal(domain.WorkflowActive, wf.Status)
	return wf
}

func (suite *PostingServiceTestSuite) defaultWorkflow(autoPost bool) *domain.ApprovalWorkflow {
	return suite.activeWorkflow(dto.CreateWorkflowRequest{
		Name:                  "General approvals",
		JournalType:           "GENERAL",
		ApprovalType:          domain.Sequential,
		Threshold:             500,
		AutoPostAfterApproval: autoPost,
		Steps: []dto.ApprovalStepRequest{
			{Name: "Controller", Approvers: []string{"alice", "bob"}, RequiredCount: 1, Timeout: "1h", EscalateTo: []string{"cfo"}},
		},
	})
}

func (suite *PostingServiceTestSuite) draft(debit, credit int64) *domain.Journal {
	j, err := suite.posting.CreateDraft(suite.ctx, suite.orgID, dto.CreateJournalRequest{
		JournalType:     "GENERAL",
		TransactionDate: "2024-03-15",
		CurrencyCode:    "USD",
		Memo:            "cash sale",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cash.AccountID, Debit: debit},
			{AccountID: suite.revenue.AccountID, Credit: credit},
		},
	}, suite.creator)
	suite.Require().NoError(err)
	return j
}

func (suite *PostingServiceTestSuite) balance(accountID string) int64 {
	acc, err := suite.accounts.GetAccountByID(suite.ctx, suite.orgID, accountID)
	suite.Require().NoError(err)
	return acc.Balance
}

func (suite *PostingServiceTestSuite) failedAudits(journalID string) []domain.AuditEntry {
	entries, err := suite.store.ListAuditEntries(suite.ctx, suite.orgID, domain.EntityJournal, journalID)
	suite.Require().NoError(err)
	var failed []domain.AuditEntry
	for _, e := range entries {
		if !e.Succeeded {
			failed = append(failed, e)
		}
	}
	return failed
}

func (suite *PostingServiceTestSuite) notificationKinds(journalID string) map[domain.NotificationKind]int {
	ns, err := suite.store.ListNotificationsByJournal(suite.ctx, suite.orgID, journalID)
	suite.Require().NoError(err)
	kinds := make(map[domain.NotificationKind]int)
	for _, n := range ns {
		kinds[n.Kind]++
	}
	return kinds
}

func (suite *PostingServiceTestSuite) TestCreateDraft_GeneratesReference() {
	j := suite.draft(100, 100)

	suite.Equal(domain.Draft, j.Status)
	suite.Equal(int64(1), j.Version)
	suite.Regexp(`^JV-[0-9A-Z]{26}$`, j.Reference)
	suite.Len(j.Lines, 2)
	suite.Equal(2, j.Lines[1].LineNo)
	suite.True(j.ExchangeRate.Equal(decimal.NewFromInt(1)))
}

func (suite *PostingServiceTestSuite) TestCreateDraft_BaseCurrencyRateMustBeOne() {
	rate := decimal.RequireFromString("1.1")
	_, err := suite.posting.CreateDraft(suite.ctx, suite.orgID, dto.CreateJournalRequest{
		JournalType:     "GENERAL",
		TransactionDate: "2024-03-15",
		CurrencyCode:    "USD",
		ExchangeRate:    &rate,
		Lines:           []dto.JournalLineRequest{{AccountID: suite.cash.AccountID, Debit: 1}},
	}, suite.creator)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestUpdateDraft_VersionChecked() {
	j := suite.draft(100, 100)
	req := dto.UpdateJournalRequest{
		Version: 1,
		CreateJournalRequest: dto.CreateJournalRequest{
			JournalType:     "GENERAL",
			TransactionDate: "2024-03-16",
			CurrencyCode:    "USD",
			Lines: []dto.JournalLineRequest{
				{AccountID: suite.cash.AccountID, Debit: 250},
				{AccountID: suite.revenue.AccountID, Credit: 250},
			},
		},
	}

	updated, err := suite.posting.UpdateDraft(suite.ctx, suite.orgID, j.JournalID, req, suite.creator)
	suite.Require().NoError(err)
	suite.Equal(int64(2), updated.Version)
	suite.Equal(j.Reference, updated.Reference)

	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(int64(250), stored.Lines[0].Debit)

	_, err = suite.posting.UpdateDraft(suite.ctx, suite.orgID, j.JournalID, req, suite.creator)
	suite.ErrorIs(err, apperrors.ErrConcurrency)
}

func (suite *PostingServiceTestSuite) TestSubmit_BelowThresholdPostsDirectly() {
	suite.defaultWorkflow(true)
	j := suite.draft(400, 400)

	res, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)

	suite.Require().NoError(err)
	suite.False(res.ApprovalRequired)
	suite.Nil(res.ApprovalLog)
	suite.Equal(domain.Posted, res.Journal.Status)
	suite.Equal(int64(400), suite.balance(suite.cash.AccountID))
	suite.Equal(int64(400), suite.balance(suite.revenue.AccountID))

	entries, err := suite.store.FindLedgerEntriesByJournalID(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Len(entries, 2)
	suite.Equal(1, suite.notificationKinds(j.JournalID)[domain.NotifyPosted])
	suite.Eventually(func() bool { return suite.publisher.count() == 1 }, time.Second, 10*time.Millisecond)
}

func (suite *PostingServiceTestSuite) TestSubmit_NoWorkflowPostsDirectly() {
	j := suite.draft(5000, 5000)

	res, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)

	suite.Require().NoError(err)
	suite.False(res.ApprovalRequired)
	suite.Equal(domain.Posted, res.Journal.Status)
}

func (suite *PostingServiceTestSuite) TestSubmit_ApproveAutoPosts() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 1000)

	res, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	suite.True(res.ApprovalRequired)
	suite.Equal(domain.PendingApproval, res.Journal.Status)
	suite.Require().NotNil(res.ApprovalLog)
	suite.Equal(domain.ApprovalPending, res.ApprovalLog.Status)
	suite.Zero(suite.balance(suite.cash.AccountID))

	queue, err := suite.posting.ApprovalQueue(suite.ctx, suite.orgID, "alice")
	suite.Require().NoError(err)
	suite.Require().Len(queue, 1)
	suite.Equal(j.JournalID, queue[0].JournalID)
	suite.Equal("Controller", queue[0].StepName)

	res, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "alice", nil, "looks right")
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, res.Journal.Status)
	suite.Equal(domain.ApprovalApproved, res.ApprovalLog.Status)
	suite.Equal(int64(1000), suite.balance(suite.cash.AccountID))
	suite.Equal(int64(1000), suite.balance(suite.revenue.AccountID))

	kinds := suite.notificationKinds(j.JournalID)
	suite.Equal(1, kinds[domain.NotifySubmitted])
	suite.Equal(2, kinds[domain.NotifyNeedsApproval])
	suite.Equal(1, kinds[domain.NotifyApproved])
	suite.Equal(1, kinds[domain.NotifyPosted])

	queue, err = suite.posting.ApprovalQueue(suite.ctx, suite.orgID, "bob")
	suite.Require().NoError(err)
	suite.Empty(queue)
}

func (suite *PostingServiceTestSuite) TestSubmit_Unbalanced() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 900)

	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)

	var unbalanced *apperrors.UnbalancedError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.Equal(int64(1000), unbalanced.DebitTotal)
	suite.Equal(int64(900), unbalanced.CreditTotal)
	suite.ErrorIs(err, apperrors.ErrValidation)

	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Draft, stored.Status)

	failed := suite.failedAudits(j.JournalID)
	suite.Require().Len(failed, 1)
	suite.Equal("SUBMIT", failed[0].Action)
	suite.Contains(failed[0].Detail, "unbalanced")
}

func (suite *PostingServiceTestSuite) TestSubmit_UnknownAccount() {
	j, err := suite.posting.CreateDraft(suite.ctx, suite.orgID, dto.CreateJournalRequest{
		JournalType:     "GENERAL",
		TransactionDate: "2024-03-15",
		CurrencyCode:    "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cash.AccountID, Debit: 10},
			{AccountID: "missing", Credit: 10},
		},
	}, suite.creator)
	suite.Require().NoError(err)

	_, err = suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)

	var lineErr *apperrors.InvalidLineError
	suite.Require().ErrorAs(err, &lineErr)
	suite.Equal(1, lineErr.Index)
}

func (suite *PostingServiceTestSuite) TestSubmit_NoPeriod() {
	j, err := suite.posting.CreateDraft(suite.ctx, suite.orgID, dto.CreateJournalRequest{
		JournalType:     "GENERAL",
		TransactionDate: "2025-01-01",
		CurrencyCode:    "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cash.AccountID, Debit: 10},
			{AccountID: suite.revenue.AccountID, Credit: 10},
		},
	}, suite.creator)
	suite.Require().NoError(err)

	_, err = suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)

	suite.ErrorIs(err, apperrors.ErrNoPeriodDefined)
	suite.ErrorIs(err, apperrors.ErrPeriod)
}

func (suite *PostingServiceTestSuite) TestSubmit_Twice() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	_, err = suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)

	suite.ErrorIs(err, apperrors.ErrAlreadySubmitted)
	suite.ErrorIs(err, apperrors.ErrState)
}

func (suite *PostingServiceTestSuite) TestApprove_UnauthorizedApprover() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	_, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "mallory", nil, "")

	suite.ErrorIs(err, apperrors.ErrAuthorization)
	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.PendingApproval, stored.Status)
}

func (suite *PostingServiceTestSuite) TestApprove_WrongStep() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	step := 3
	_, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "alice", &step, "")

	suite.ErrorIs(err, apperrors.ErrStepMismatch)
}

func (suite *PostingServiceTestSuite) TestReject_ReturnsToDraftAndResubmits() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 1000)
	first, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	res, err := suite.posting.Reject(suite.ctx, suite.orgID, j.JournalID, "bob", nil, "missing invoice")
	suite.Require().NoError(err)
	suite.Equal(domain.Draft, res.Journal.Status)
	suite.Nil(res.Journal.ApprovalLogID)
	suite.Require().NotNil(res.Journal.RejectionReason)
	suite.Equal("missing invoice", *res.Journal.RejectionReason)
	suite.Equal(domain.ApprovalRejected, res.ApprovalLog.Status)
	suite.Equal(1, suite.notificationKinds(j.JournalID)[domain.NotifyRejected])

	second, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	suite.NotEqual(first.ApprovalLog.LogID, second.ApprovalLog.LogID)
	suite.Nil(second.Journal.RejectionReason)

	logs, err := suite.store.ListApprovalLogsByJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Len(logs, 2)
}

func (suite *PostingServiceTestSuite) TestReject_RequiresReason() {
	_, err := suite.posting.Reject(suite.ctx, suite.orgID, "any", "bob", nil, "  ")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPost_IsIdempotent() {
	suite.defaultWorkflow(false)
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	res, err := suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "alice", nil, "")
	suite.Require().NoError(err)
	suite.Equal(domain.Approved, res.Journal.Status)
	suite.Zero(suite.balance(suite.cash.AccountID))

	posted, err := suite.posting.Post(suite.ctx, suite.orgID, j.JournalID, "alice")
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedBy)
	suite.Equal("alice", *posted.PostedBy)

	again, err := suite.posting.Post(suite.ctx, suite.orgID, j.JournalID, "alice")
	suite.Require().NoError(err)
	suite.Equal(posted.Version, again.Version)

	entries, err := suite.store.FindLedgerEntriesByJournalID(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Len(entries, 2)
	suite.Equal(int64(1000), suite.balance(suite.cash.AccountID))
}

func (suite *PostingServiceTestSuite) TestPost_RequiresApproval() {
	j := suite.draft(100, 100)

	_, err := suite.posting.Post(suite.ctx, suite.orgID, j.JournalID, suite.creator)

	suite.ErrorIs(err, apperrors.ErrState)
}

func (suite *PostingServiceTestSuite) TestPost_ClosedPeriod() {
	suite.defaultWorkflow(false)
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	_, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "alice", nil, "")
	suite.Require().NoError(err)
	_, err = suite.periods.ClosePeriod(suite.ctx, suite.orgID, suite.period.PeriodID, "closer")
	suite.Require().NoError(err)

	_, err = suite.posting.Post(suite.ctx, suite.orgID, j.JournalID, "alice")

	var closed *apperrors.PeriodClosedError
	suite.Require().ErrorAs(err, &closed)
	suite.Equal(suite.period.PeriodID, closed.PeriodID)
	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Approved, stored.Status)
	suite.Zero(suite.balance(suite.cash.AccountID))

	_, err = suite.periods.ReopenPeriod(suite.ctx, suite.orgID, suite.period.PeriodID, "closer")
	suite.Require().NoError(err)
	_, err = suite.posting.Post(suite.ctx, suite.orgID, j.JournalID, "alice")
	suite.NoError(err)
}

func (suite *PostingServiceTestSuite) TestPost_ForeignCurrency() {
	rate := decimal.RequireFromString("1.1")
	j, err := suite.posting.CreateDraft(suite.ctx, suite.orgID, dto.CreateJournalRequest{
		JournalType:     "GENERAL",
		TransactionDate: "2024-03-15",
		CurrencyCode:    "EUR",
		ExchangeRate:    &rate,
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cash.AccountID, Debit: 1001},
			{AccountID: suite.revenue.AccountID, Credit: 1001},
		},
	}, suite.creator)
	suite.Require().NoError(err)

	_, err = suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	entries, err := suite.store.FindLedgerEntriesByJournalID(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	var baseDebit, baseCredit int64
	for _, e := range entries {
		baseDebit += e.BaseDebit
		baseCredit += e.BaseCredit
	}
	suite.Equal(int64(1101), baseDebit)
	suite.Equal(baseDebit, baseCredit)
	suite.Equal(int64(1101), suite.balance(suite.cash.AccountID))
}

func (suite *PostingServiceTestSuite) TestPost_RunningBalances() {
	for _, amount := range []int64{100, 250} {
		j := suite.draft(amount, amount)
		_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
		suite.Require().NoError(err)
	}

	page, err := suite.accounts.ListLedgerEntries(suite.ctx, suite.orgID, suite.cash.AccountID, dto.ListLedgerEntriesParams{Limit: 10})
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 2)
	suite.Equal(int64(100), page.Entries[0].RunningBalance)
	suite.Equal(int64(350), page.Entries[1].RunningBalance)
}

func (suite *PostingServiceTestSuite) TestReverse() {
	j := suite.draft(400, 400)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	res, err := suite.posting.Reverse(suite.ctx, suite.orgID, j.JournalID, suite.creator, dto.ReverseJournalRequest{Reason: "duplicate"})
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, res.Journal.Status)
	suite.Require().NotNil(res.Journal.ReversalOfJournalID)
	suite.Equal(j.JournalID, *res.Journal.ReversalOfJournalID)
	suite.Zero(suite.balance(suite.cash.AccountID))
	suite.Zero(suite.balance(suite.revenue.AccountID))

	original, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, original.Status)
	suite.Require().NotNil(original.ReversedByJournalID)
	suite.Equal(res.Journal.JournalID, *original.ReversedByJournalID)

	_, err = suite.posting.Reverse(suite.ctx, suite.orgID, j.JournalID, suite.creator, dto.ReverseJournalRequest{Reason: "again"})
	suite.ErrorIs(err, apperrors.ErrState)
	_, err = suite.posting.Reverse(suite.ctx, suite.orgID, res.Journal.JournalID, suite.creator, dto.ReverseJournalRequest{Reason: "undo"})
	suite.ErrorIs(err, apperrors.ErrState)
}

func (suite *PostingServiceTestSuite) TestReverse_PendingReversalBlocksAnother() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	_, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "alice", nil, "")
	suite.Require().NoError(err)

	res, err := suite.posting.Reverse(suite.ctx, suite.orgID, j.JournalID, suite.creator, dto.ReverseJournalRequest{Reason: "wrong customer"})
	suite.Require().NoError(err)
	suite.True(res.ApprovalRequired)
	suite.Equal(domain.PendingApproval, res.Journal.Status)

	original, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, original.Status)

	_, err = suite.posting.Reverse(suite.ctx, suite.orgID, j.JournalID, suite.creator, dto.ReverseJournalRequest{Reason: "again"})
	suite.ErrorIs(err, apperrors.ErrState)

	_, err = suite.posting.Approve(suite.ctx, suite.orgID, res.Journal.JournalID, "bob", nil, "")
	suite.Require().NoError(err)
	original, err = suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, original.Status)
}

// reversalLeftInDraft posts a journal and reverses it while its period is
// closed, leaving the reversal in DRAFT, then reopens the period.
func (suite *PostingServiceTestSuite) reversalLeftInDraft() (original, reversal *domain.Journal) {
	original = suite.draft(100, 100)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, original.JournalID, suite.creator)
	suite.Require().NoError(err)
	_, err = suite.periods.ClosePeriod(suite.ctx, suite.orgID, suite.period.PeriodID, "closer")
	suite.Require().NoError(err)

	_, err = suite.posting.Reverse(suite.ctx, suite.orgID, original.JournalID, suite.creator, dto.ReverseJournalRequest{Reason: "wrong amount"})
	var closed *apperrors.PeriodClosedError
	suite.Require().ErrorAs(err, &closed)

	reversals, err := suite.store.FindReversalsOf(suite.ctx, suite.orgID, original.JournalID)
	suite.Require().NoError(err)
	suite.Require().Len(reversals, 1)
	suite.Require().Equal(domain.Draft, reversals[0].Status)

	_, err = suite.periods.ReopenPeriod(suite.ctx, suite.orgID, suite.period.PeriodID, "closer")
	suite.Require().NoError(err)
	return original, &reversals[0]
}

func (suite *PostingServiceTestSuite) TestUpdateDraft_ReversalIsNotEditable() {
	_, reversal := suite.reversalLeftInDraft()

	_, err := suite.posting.UpdateDraft(suite.ctx, suite.orgID, reversal.JournalID, dto.UpdateJournalRequest{
		Version: reversal.Version,
		CreateJournalRequest: dto.CreateJournalRequest{
			JournalType:     "GENERAL",
			TransactionDate: "2024-03-15",
			CurrencyCode:    "USD",
			Lines: []dto.JournalLineRequest{
				{AccountID: suite.cash.AccountID, Credit: 9999},
				{AccountID: suite.revenue.AccountID, Debit: 9999},
			},
		},
	}, suite.creator)

	var state *apperrors.StateError
	suite.Require().ErrorAs(err, &state)
	suite.Equal("reversal", state.Status)
	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, reversal.JournalID)
	suite.Require().NoError(err)
	suite.Equal(reversal.Lines[0].Credit, stored.Lines[0].Credit)
}

func (suite *PostingServiceTestSuite) TestReverse_ResumesDraftReversal() {
	original, reversal := suite.reversalLeftInDraft()

	res, err := suite.posting.Reverse(suite.ctx, suite.orgID, original.JournalID, suite.creator, dto.ReverseJournalRequest{Reason: "retry"})
	suite.Require().NoError(err)
	suite.Equal(reversal.JournalID, res.Journal.JournalID)
	suite.Equal(domain.Posted, res.Journal.Status)

	reversals, err := suite.store.FindReversalsOf(suite.ctx, suite.orgID, original.JournalID)
	suite.Require().NoError(err)
	suite.Len(reversals, 1)
	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, original.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, stored.Status)
	suite.Zero(suite.balance(suite.cash.AccountID))
	suite.Zero(suite.balance(suite.revenue.AccountID))
}

func (suite *PostingServiceTestSuite) TestPost_ReversalMustMirrorOriginal() {
	original, reversal := suite.reversalLeftInDraft()
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		altered := reversal.Clone()
		altered.Lines[0].Debit, altered.Lines[0].Credit = 0, 9999
		altered.Lines[1].Debit, altered.Lines[1].Credit = 9999, 0
		return tx.ReplaceJournalLines(ctx, altered)
	})
	suite.Require().NoError(err)

	_, err = suite.posting.SubmitForApproval(suite.ctx, suite.orgID, reversal.JournalID, suite.creator)

	suite.ErrorIs(err, apperrors.ErrValidation)
	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, original.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, stored.Status)
	suite.Equal(int64(100), suite.balance(suite.cash.AccountID))
}

func (suite *PostingServiceTestSuite) TestSubmit_FirstApplicableWorkflowByPriority() {
	suite.activeWorkflow(dto.CreateWorkflowRequest{
		Name:         "Large journals",
		JournalType:  "GENERAL",
		ApprovalType: domain.Sequential,
		Threshold:    10000,
		Priority:     1,
		Steps:        []dto.ApprovalStepRequest{{Name: "CFO", Approvers: []string{"cfo"}, RequiredCount: 1}},
	})
	medium := suite.activeWorkflow(dto.CreateWorkflowRequest{
		Name:         "Medium journals",
		JournalType:  "GENERAL",
		ApprovalType: domain.Sequential,
		Threshold:    500,
		Priority:     2,
		Steps:        []dto.ApprovalStepRequest{{Name: "Controller", Approvers: []string{"alice"}, RequiredCount: 1}},
	})

	j := suite.draft(1000, 1000)
	res, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	suite.True(res.ApprovalRequired)
	suite.Equal(domain.PendingApproval, res.Journal.Status)
	suite.Equal(medium.WorkflowID, res.ApprovalLog.WorkflowID)

	small := suite.draft(100, 100)
	res, err = suite.posting.SubmitForApproval(suite.ctx, suite.orgID, small.JournalID, suite.creator)
	suite.Require().NoError(err)
	suite.False(res.ApprovalRequired)
	suite.Equal(domain.Posted, res.Journal.Status)
}

func (suite *PostingServiceTestSuite) TestApprove_LastSlotGoesToExactlyOneApprover() {
	suite.activeWorkflow(dto.CreateWorkflowRequest{
		Name:         "Dual control",
		JournalType:  "GENERAL",
		ApprovalType: domain.Sequential,
		Steps: []dto.ApprovalStepRequest{
			{Name: "Two of three", Approvers: []string{"alice", "bob", "dave"}, RequiredCount: 2},
		},
	})
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	_, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "alice", nil, "")
	suite.Require().NoError(err)

	racing := services.NewPostingService(newGatedStore(suite.store, 2), suite.options()...)
	approvers := []string{"bob", "dave"}
	errs := make([]error, len(approvers))
	var wg sync.WaitGroup
	for i, a := range approvers {
		wg.Add(1)
		go func(i int, approver string) {
			defer wg.Done()
			_, errs[i] = racing.Approve(suite.ctx, suite.orgID, j.JournalID, approver, nil, "")
		}(i, a)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.True(errors.Is(err, apperrors.ErrConcurrentModification) || errors.Is(err, apperrors.ErrDuplicateDecision), "unexpected error: %v", err)
	}
	suite.Equal(1, succeeded)

	logs, err := suite.store.ListApprovalLogsByJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Require().Len(logs, 1)
	suite.Len(logs[0].Decisions, 2)
	suite.Equal(2, logs[0].StepStates[0].ApproveCount)
	suite.Equal(domain.ApprovalApproved, logs[0].Status)
	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.Approved, stored.Status)
}

func (suite *PostingServiceTestSuite) TestApprove_ConcurrentApproversNeverLoseUpdates() {
	suite.activeWorkflow(dto.CreateWorkflowRequest{
		Name:         "Dual control",
		JournalType:  "GENERAL",
		ApprovalType: domain.Sequential,
		Threshold:    0,
		Steps: []dto.ApprovalStepRequest{
			{Name: "Two of three", Approvers: []string{"alice", "bob", "dave"}, RequiredCount: 2},
		},
	})
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	approvers := []string{"alice", "bob", "dave"}
	errs := make([]error, len(approvers))
	var wg sync.WaitGroup
	for i, a := range approvers {
		wg.Add(1)
		go func(i int, approver string) {
			defer wg.Done()
			_, errs[i] = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, approver, nil, "")
		}(i, a)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrConcurrency), errors.Is(err, apperrors.ErrState):
		default:
			suite.Failf("unexpected error", "%v", err)
		}
	}
	suite.GreaterOrEqual(succeeded, 1)
	suite.LessOrEqual(succeeded, 2)

	stored, err := suite.posting.GetJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	logs, err := suite.store.ListApprovalLogsByJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Require().Len(logs, 1)
	log := logs[0]
	suite.Len(log.Decisions, succeeded)
	suite.Equal(succeeded, log.StepStates[0].ApproveCount)
	if succeeded == 2 {
		suite.Equal(domain.ApprovalApproved, log.Status)
		suite.Equal(domain.Approved, stored.Status)
	} else {
		suite.Equal(domain.ApprovalPending, log.Status)
		suite.Equal(domain.PendingApproval, stored.Status)
	}
}

func (suite *PostingServiceTestSuite) TestApprove_ParallelSteps() {
	suite.activeWorkflow(dto.CreateWorkflowRequest{
		Name:                  "Parallel",
		JournalType:           "GENERAL",
		ApprovalType:          domain.Parallel,
		AutoPostAfterApproval: true,
		Steps: []dto.ApprovalStepRequest{
			{Name: "Finance", Approvers: []string{"alice"}, RequiredCount: 1},
			{Name: "Legal", Approvers: []string{"erin"}, RequiredCount: 1},
			{Name: "Board", Approvers: []string{"frank"}, RequiredCount: 1,
				Condition: &domain.Condition{Kind: domain.CondAmountGT, Amount: 1_000_000}},
		},
	})
	j := suite.draft(1000, 1000)
	res, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)
	suite.False(res.ApprovalLog.StepStates[2].Applicable)

	res, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "erin", nil, "")
	suite.Require().NoError(err)
	suite.Equal(domain.PendingApproval, res.Journal.Status)

	res, err = suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "alice", nil, "")
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, res.Journal.Status)
}

func (suite *PostingServiceTestSuite) TestEscalationSweep() {
	suite.defaultWorkflow(true)
	j := suite.draft(1000, 1000)
	_, err := suite.posting.SubmitForApproval(suite.ctx, suite.orgID, j.JournalID, suite.creator)
	suite.Require().NoError(err)

	res, err := suite.escalation.SweepTimeouts(suite.ctx, suite.orgID, suite.now.Add(30*time.Minute))
	suite.Require().NoError(err)
	suite.Equal(portssvc.SweepResult{Checked: 1}, res)

	res, err = suite.escalation.SweepTimeouts(suite.ctx, "", suite.now.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Equal(1, res.Escalated)

	logs, err := suite.store.ListApprovalLogsByJournal(suite.ctx, suite.orgID, j.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalEscalated, logs[0].Status)
	suite.Equal(1, logs[0].EscalationCount)
	// alice, bob and the escalation contact
	suite.Equal(3, suite.notificationKinds(j.JournalID)[domain.NotifyEscalated])

	out, err := suite.posting.Approve(suite.ctx, suite.orgID, j.JournalID, "bob", nil, "sorry, was away")
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, out.Journal.Status)
	suite.Equal(domain.ApprovalApproved, out.ApprovalLog.Status)
}
