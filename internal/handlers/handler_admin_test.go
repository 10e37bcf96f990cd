package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/stretchr/testify/mock"
)

func testPeriod(orgID string, status domain.PeriodStatus) *domain.AccountingPeriod {
	return &domain.AccountingPeriod{
		PeriodID:       "p-2026-03",
		OrganizationID: orgID,
		Name:           "March 2026",
		StartDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:         status,
	}
}

func (suite *HandlerTestSuite) TestCreatePeriod_Success() {
	req := dto.CreatePeriodRequest{Name: "March 2026", StartDate: "2026-03-01", EndDate: "2026-03-31"}
	suite.periods.On("CreatePeriod", mock.Anything, suite.orgID, req, suite.userID).Return(testPeriod(suite.orgID, domain.PeriodOpen), nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/periods"), req)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.PeriodResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("2026-03-01", res.StartDate)
	suite.Equal("2026-03-31", res.EndDate)
	suite.Equal(domain.PeriodOpen, res.Status)
}

func (suite *HandlerTestSuite) TestCreatePeriod_BadDate() {
	req := dto.CreatePeriodRequest{Name: "March 2026", StartDate: "01/03/2026", EndDate: "2026-03-31"}

	w := suite.do(http.MethodPost, suite.orgPath("/periods"), req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestClosePeriod_AlreadyClosed() {
	suite.periods.On("ClosePeriod", mock.Anything, suite.orgID, "p-2026-03", suite.userID).
		Return(nil, &apperrors.StateError{Entity: "period", ID: "p-2026-03", Status: string(domain.PeriodClosed), Attempt: "close"}).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/periods/p-2026-03/close"), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestReopenPeriod() {
	suite.periods.On("ReopenPeriod", mock.Anything, suite.orgID, "p-2026-03", suite.userID).Return(testPeriod(suite.orgID, domain.PeriodOpen), nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/periods/p-2026-03/reopen"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(string(domain.PeriodOpen), suite.decode(w)["status"])
}

func (suite *HandlerTestSuite) TestCreateWorkflow_Misconfigured() {
	req := dto.CreateWorkflowRequest{
		Name:         "big payments",
		JournalType:  "PAYMENT",
		ApprovalType: domain.Sequential,
		Steps:        []dto.ApprovalStepRequest{{Name: "cfo", Approvers: []string{"c1"}, RequiredCount: 2}},
	}
	suite.workflows.On("CreateWorkflow", mock.Anything, suite.orgID, mock.Anything, suite.userID).
		Return(nil, &apperrors.ConfigurationError{WorkflowID: "wf-1", StepIndex: 0, Reason: "required count exceeds approvers"}).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/workflows"), req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("configuration", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestCreateWorkflow_RejectsUnknownApprovalType() {
	req := map[string]any{
		"name":         "x",
		"journalType":  "GENERAL",
		"approvalType": "RANDOM",
		"steps":        []map[string]any{{"name": "s", "approvers": []string{"a"}, "requiredCount": 1}},
	}

	w := suite.do(http.MethodPost, suite.orgPath("/workflows"), req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestActivateWorkflow() {
	wf := &domain.ApprovalWorkflow{WorkflowID: "wf-1", OrganizationID: suite.orgID, Status: domain.WorkflowActive, Version: 2}
	suite.workflows.On("ActivateWorkflow", mock.Anything, suite.orgID, "wf-1", suite.userID).Return(wf, nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/workflows/wf-1/activate"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(string(domain.WorkflowActive), suite.decode(w)["status"])
}
