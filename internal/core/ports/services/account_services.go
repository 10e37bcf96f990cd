package services

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error)

	// ListLedgerEntries returns an account's general-ledger entries in posting order.
	ListLedgerEntries(ctx context.Context, organizationID, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
