package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestApprovalQueue_DefaultsToCaller() {
	items := []dto.ApprovalQueueItem{{LogID: "log-1", JournalID: "jrn-1", Status: domain.ApprovalPending, StepName: "manager"}}
	suite.posting.On("ApprovalQueue", mock.Anything, suite.orgID, suite.userID).Return(items, nil).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/approvals/queue"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.ApprovalQueueItem
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res, 1)
	suite.Equal("log-1", res[0].LogID)
	suite.Equal("manager", res[0].StepName)
}

func (suite *HandlerTestSuite) TestApprovalQueue_ExplicitApproverEmptyQueue() {
	suite.posting.On("ApprovalQueue", mock.Anything, suite.orgID, "cfo").Return(nil, nil).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/approvals/queue?approver=cfo"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())
}

func (suite *HandlerTestSuite) TestGetApprovalLog_JoinsStepProgress() {
	opened := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	log := &domain.ApprovalLog{
		LogID:        "log-1",
		JournalID:    "jrn-1",
		ApprovalType: domain.Sequential,
		Status:       domain.ApprovalPending,
		Steps: []domain.ApprovalStep{
			{Index: 0, Name: "manager", Approvers: []string{"m1"}, RequiredCount: 1},
			{Index: 1, Name: "cfo", Approvers: []string{"c1"}, RequiredCount: 1},
		},
		StepStates: []domain.StepState{
			{Applicable: true, ApproveCount: 1, Satisfied: true, OpenedAt: &opened},
			{Applicable: true},
		},
		CurrentStep: 1,
	}
	suite.posting.On("GetApprovalLog", mock.Anything, suite.orgID, "log-1").Return(log, nil).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/approvals/log-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ApprovalLogResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res.Steps, 2)
	suite.True(res.Steps[0].Satisfied)
	suite.False(res.Steps[1].Satisfied)
	suite.Equal(1, res.CurrentStep)
	suite.Empty(res.Decisions)
}

func (suite *HandlerTestSuite) TestGetApprovalLog_NotFound() {
	suite.posting.On("GetApprovalLog", mock.Anything, suite.orgID, "nope").
		Return(nil, fmt.Errorf("approval log nope: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/approvals/nope"), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestSweepEscalations() {
	suite.escalation.On("SweepTimeouts", mock.Anything, suite.orgID, mock.AnythingOfType("time.Time")).
		Return(portssvc.SweepResult{Checked: 4, Escalated: 1, Conflicts: 1}, nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/approvals/escalations/sweep"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"checked":4,"escalated":1,"conflicts":1}`, w.Body.String())
}
