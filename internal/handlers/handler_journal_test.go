package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func testJournal(orgID string, status domain.JournalStatus) *domain.Journal {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return &domain.Journal{
		JournalID:       "jrn-1",
		OrganizationID:  orgID,
		Reference:       "JV-0001",
		JournalType:     "GENERAL",
		TransactionDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CurrencyCode:    "USD",
		ExchangeRate:    decimal.NewFromInt(1),
		Status:          status,
		Version:         2,
		Lines: []domain.JournalLine{
			{LineID: "l1", LineNo: 1, AccountID: "acc-cash", Debit: 100},
			{LineID: "l2", LineNo: 2, AccountID: "acc-sales", Credit: 100},
		},
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: "u1", LastUpdatedAt: now, LastUpdatedBy: "u1"},
	}
}

func testJournalRequest() dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		JournalType:     "GENERAL",
		TransactionDate: "2026-03-02",
		CurrencyCode:    "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: 100},
			{AccountID: "acc-sales", Credit: 90},
		},
	}
}

func (suite *HandlerTestSuite) TestCreateJournal_UnbalancedReportsTotals() {
	req := testJournalRequest()
	suite.posting.On("CreateDraft", mock.Anything, suite.orgID, req, suite.userID).
		Return(nil, &apperrors.UnbalancedError{DebitTotal: 100, CreditTotal: 90}).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals"), req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	body := suite.decode(w)
	suite.Equal("validation", body["code"])
	suite.EqualValues(100, body["debitTotal"])
	suite.EqualValues(90, body["creditTotal"])
}

func (suite *HandlerTestSuite) TestCreateJournal_InvalidLineReportsIndex() {
	req := testJournalRequest()
	suite.posting.On("CreateDraft", mock.Anything, suite.orgID, req, suite.userID).
		Return(nil, &apperrors.InvalidLineError{Index: 1, Reason: "debit and credit both set"}).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals"), req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.EqualValues(1, suite.decode(w)["lineIndex"])
}

func (suite *HandlerTestSuite) TestCreateJournal_LineAmountTooLarge() {
	req := testJournalRequest()
	req.Lines[0].Debit = 1_000_000_000_000_001

	w := suite.do(http.MethodPost, suite.orgPath("/journals"), req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.posting.AssertNotCalled(suite.T(), "CreateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateJournal_RequiresLines() {
	req := testJournalRequest()
	req.Lines = nil

	w := suite.do(http.MethodPost, suite.orgPath("/journals"), req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetJournal_Success() {
	suite.posting.On("GetJournal", mock.Anything, suite.orgID, "jrn-1").Return(testJournal(suite.orgID, domain.Draft), nil).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/journals/jrn-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("2026-03-02", body["transactionDate"])
	suite.Equal("1", body["exchangeRate"])
	suite.Len(body["lines"], 2)
}

func (suite *HandlerTestSuite) TestListJournals_RejectsUnknownStatus() {
	w := suite.do(http.MethodGet, suite.orgPath("/journals?status=DELETED"), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateJournal_StaleVersionIsNotRetried() {
	req := dto.UpdateJournalRequest{Version: 1, CreateJournalRequest: testJournalRequest()}
	suite.posting.On("UpdateDraft", mock.Anything, suite.orgID, "jrn-1", req, suite.userID).
		Return(nil, apperrors.ErrConcurrentModification).Once()

	w := suite.do(http.MethodPut, suite.orgPath("/journals/jrn-1"), req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("concurrency", suite.decode(w)["code"])
	suite.posting.AssertNumberOfCalls(suite.T(), "UpdateDraft", 1)
}

func (suite *HandlerTestSuite) TestSubmitJournal_WithoutWorkflow() {
	res := &portssvc.PostingResult{Journal: testJournal(suite.orgID, domain.Approved)}
	suite.posting.On("SubmitForApproval", mock.Anything, suite.orgID, "jrn-1", suite.userID).Return(res, nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/submit"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal(false, body["approvalRequired"])
	suite.NotContains(body, "approvalLog")
}

func (suite *HandlerTestSuite) TestSubmitJournal_ClosedPeriod() {
	suite.posting.On("SubmitForApproval", mock.Anything, suite.orgID, "jrn-1", suite.userID).
		Return(nil, &apperrors.PeriodClosedError{PeriodID: "p1", PeriodName: "2026-03"}).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/submit"), nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("period", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestApproveJournal_RetriesOnceAfterConflict() {
	res := &portssvc.PostingResult{
		Journal:          testJournal(suite.orgID, domain.PendingApproval),
		ApprovalRequired: true,
		ApprovalLog: &domain.ApprovalLog{
			LogID:     "log-1",
			JournalID: "jrn-1",
			Status:    domain.ApprovalPending,
			Steps:     []domain.ApprovalStep{{Index: 0, Name: "manager", Approvers: []string{suite.userID}, RequiredCount: 1}},
		},
	}
	suite.posting.On("Approve", mock.Anything, suite.orgID, "jrn-1", suite.userID, (*int)(nil), "").
		Return(nil, apperrors.ErrConcurrentModification).Once()
	suite.posting.On("Approve", mock.Anything, suite.orgID, "jrn-1", suite.userID, (*int)(nil), "").
		Return(res, nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/approve"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal(true, body["approvalRequired"])
	suite.Equal("log-1", body["approvalLog"].(map[string]any)["logID"])
	suite.posting.AssertNumberOfCalls(suite.T(), "Approve", 2)
}

func (suite *HandlerTestSuite) TestApproveJournal_PersistentConflict() {
	suite.posting.On("Approve", mock.Anything, suite.orgID, "jrn-1", suite.userID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrConcurrentModification).Twice()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/approve"), nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("concurrency", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestApproveJournal_PassesStepAndComment() {
	step := 1
	res := &portssvc.PostingResult{Journal: testJournal(suite.orgID, domain.PendingApproval), ApprovalRequired: true}
	suite.posting.On("Approve", mock.Anything, suite.orgID, "jrn-1", suite.userID,
		mock.MatchedBy(func(p *int) bool { return p != nil && *p == step }), "looks right").Return(res, nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/approve"), dto.ApproveJournalRequest{StepIndex: &step, Comment: "looks right"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestApproveJournal_IneligibleApprover() {
	suite.posting.On("Approve", mock.Anything, suite.orgID, "jrn-1", suite.userID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrUnauthorizedApprover).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/approve"), nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("authorization", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestRejectJournal_RequiresReason() {
	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/reject"), map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRejectJournal_ReturnsDraft() {
	reason := "wrong account"
	j := testJournal(suite.orgID, domain.Draft)
	j.RejectionReason = &reason
	suite.posting.On("Reject", mock.Anything, suite.orgID, "jrn-1", suite.userID, (*int)(nil), reason).
		Return(&portssvc.PostingResult{Journal: j, ApprovalRequired: true}, nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/reject"), dto.RejectJournalRequest{Reason: reason})

	suite.Equal(http.StatusOK, w.Code)
	journal := suite.decode(w)["journal"].(map[string]any)
	suite.Equal(string(domain.Draft), journal["status"])
	suite.Equal(reason, journal["rejectionReason"])
}

func (suite *HandlerTestSuite) TestPostJournal_NotApproved() {
	suite.posting.On("Post", mock.Anything, suite.orgID, "jrn-1", suite.userID).
		Return(nil, &apperrors.StateError{Entity: "journal", ID: "jrn-1", Status: string(domain.Draft), Attempt: "post"}).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/post"), nil)

	suite.Equal(http.StatusConflict, w.Code)
	body := suite.decode(w)
	suite.Equal("state", body["code"])
	suite.Contains(body["error"], "cannot post journal jrn-1")
}

func (suite *HandlerTestSuite) TestPostJournal_Success() {
	suite.posting.On("Post", mock.Anything, suite.orgID, "jrn-1", suite.userID).Return(testJournal(suite.orgID, domain.Posted), nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/post"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(string(domain.Posted), suite.decode(w)["status"])
}

func (suite *HandlerTestSuite) TestReverseJournal_AlreadyReversed() {
	req := dto.ReverseJournalRequest{Reason: "duplicate invoice"}
	suite.posting.On("Reverse", mock.Anything, suite.orgID, "jrn-1", suite.userID, req).
		Return(nil, fmt.Errorf("reverse: %w", &apperrors.StateError{Entity: "journal", ID: "jrn-1", Status: "reversal pending", Attempt: "reverse"})).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/reverse"), req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("state", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestReverseJournal_RetriesLostSubmitRace() {
	req := dto.ReverseJournalRequest{Reason: "duplicate invoice"}
	originalID := "jrn-1"
	reversal := testJournal(suite.orgID, domain.Posted)
	reversal.JournalID = "jrn-2"
	reversal.ReversalOfJournalID = &originalID
	suite.posting.On("Reverse", mock.Anything, suite.orgID, "jrn-1", suite.userID, req).
		Return(nil, apperrors.ErrConcurrentModification).Once()
	suite.posting.On("Reverse", mock.Anything, suite.orgID, "jrn-1", suite.userID, req).
		Return(&portssvc.PostingResult{Journal: reversal}, nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/journals/jrn-1/reverse"), req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("jrn-2", suite.decode(w)["journal"].(map[string]any)["journalID"])
	suite.posting.AssertNumberOfCalls(suite.T(), "Reverse", 2)
}
