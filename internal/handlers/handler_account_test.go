package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/stretchr/testify/mock"
)

func testAccount(orgID string) *domain.Account {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Account{
		AccountID:      "acc-cash",
		OrganizationID: orgID,
		Code:           "1000",
		Name:           "Cash",
		AccountType:    domain.Asset,
		NormalSide:     domain.DebitSide,
		CurrencyCode:   "USD",
		IsActive:       true,
		Balance:        1500,
		AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: "u1", LastUpdatedAt: now, LastUpdatedBy: "u1"},
	}
}

func (suite *HandlerTestSuite) TestGetAccount_Success() {
	suite.accounts.On("GetAccountByID", mock.Anything, suite.orgID, "acc-cash").Return(testAccount(suite.orgID), nil).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/accounts/acc-cash"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("acc-cash", res.AccountID)
	suite.Equal(int64(1500), res.Balance)
	suite.Equal(domain.DebitSide, res.NormalSide)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.accounts.On("GetAccountByID", mock.Anything, suite.orgID, "missing").
		Return(nil, fmt.Errorf("account missing: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/accounts/missing"), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("not_found", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	suite.accounts.On("CreateAccount", mock.Anything, suite.orgID, req, suite.userID).Return(testAccount(suite.orgID), nil).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/accounts"), req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("acc-cash", suite.decode(w)["accountID"])
}

func (suite *HandlerTestSuite) TestCreateAccount_RejectsLowerCaseCurrency() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "usd"}

	w := suite.do(http.MethodPost, suite.orgPath("/accounts"), req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	suite.accounts.On("CreateAccount", mock.Anything, suite.orgID, req, suite.userID).
		Return(nil, fmt.Errorf("account code 1000: %w", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, suite.orgPath("/accounts"), req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("duplicate", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestListAccounts_InternalErrorHidesDetail() {
	suite.accounts.On("ListAccounts", mock.Anything, suite.orgID, mock.Anything).
		Return(nil, errors.New("connection reset by peer")).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/accounts"), nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	body := suite.decode(w)
	suite.Equal("Failed to list accounts", body["error"])
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *HandlerTestSuite) TestListLedgerEntries_PassesPaging() {
	token := "abc"
	page := &dto.ListLedgerEntriesResponse{Entries: []dto.LedgerEntryResponse{{EntryID: "e1", AccountID: "acc-cash", Debit: 100}}}
	suite.accounts.On("ListLedgerEntries", mock.Anything, suite.orgID, "acc-cash",
		mock.MatchedBy(func(p dto.ListLedgerEntriesParams) bool {
			return p.Limit == 5 && p.NextToken != nil && *p.NextToken == token
		})).Return(page, nil).Once()

	w := suite.do(http.MethodGet, suite.orgPath("/accounts/acc-cash/ledger?limit=5&nextToken="+token), nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListLedgerEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Entries, 1)
	suite.Nil(res.NextToken)
}

func (suite *HandlerTestSuite) TestListLedgerEntries_LimitOutOfRange() {
	w := suite.do(http.MethodGet, suite.orgPath("/accounts/acc-cash/ledger?limit=0"), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
