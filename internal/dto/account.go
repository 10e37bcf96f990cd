package dto

import (
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code         string             `json:"code" binding:"required,max=32"`
	Name         string             `json:"name" binding:"required,max=255"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	NormalSide   domain.EntrySide   `json:"normalSide" binding:"omitempty,oneof=DEBIT CREDIT"` // derived from accountType when empty
	CurrencyCode string             `json:"currencyCode" binding:"required,currency"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	NormalSide    domain.EntrySide   `json:"normalSide"`
	CurrencyCode  string             `json:"currencyCode"`
	Balance       int64              `json:"balance"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalSide:    acc.NormalSide,
		CurrencyCode:  acc.CurrencyCode,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// LedgerEntryResponse is one general-ledger row.
type LedgerEntryResponse struct {
	EntryID         string    `json:"entryID"`
	JournalID       string    `json:"journalID"`
	LineID          string    `json:"lineID"`
	AccountID       string    `json:"accountID"`
	TransactionDate string    `json:"transactionDate"`
	CurrencyCode    string    `json:"currencyCode"`
	ExchangeRate    string    `json:"exchangeRate"`
	Debit           int64     `json:"debit"`
	Credit          int64     `json:"credit"`
	BaseDebit       int64     `json:"baseDebit"`
	BaseCredit      int64     `json:"baseCredit"`
	RunningBalance  int64     `json:"runningBalance"`
	PostedAt        time.Time `json:"postedAt"`
	PostedBy        string    `json:"postedBy"`
}

// ListLedgerEntriesParams defines query parameters for an account ledger.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerEntriesResponse is a page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponses converts ledger entries to their DTO form.
func ToLedgerEntryResponses(entries []domain.GeneralLedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = LedgerEntryResponse{
			EntryID:         e.EntryID,
			JournalID:       e.JournalID,
			LineID:          e.LineID,
			AccountID:       e.AccountID,
			TransactionDate: e.TransactionDate.Format(DateLayout),
			CurrencyCode:    e.CurrencyCode,
			ExchangeRate:    e.ExchangeRate.String(),
			Debit:           e.Debit,
			Credit:          e.Credit,
			BaseDebit:       e.BaseDebit,
			BaseCredit:      e.BaseCredit,
			RunningBalance:  e.RunningBalance,
			PostedAt:        e.PostedAt,
			PostedBy:        e.PostedBy,
		}
	}
	return res
}
