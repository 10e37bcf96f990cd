package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
)

type accountService struct {
	BaseService
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// NewAccountService creates the chart-of-accounts service.
func NewAccountService(store portsrepo.LedgerStore, opts ...Option) portssvc.AccountSvcFacade {
	o := applyOptions(opts)
	return &accountService{BaseService: newBaseService(store, o.clock)}
}

func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	side := req.NormalSide
	if side == "" {
		side = domain.DefaultNormalSide(req.AccountType)
	}
	if side != domain.DebitSide && side != domain.CreditSide {
		return nil, fmt.Errorf("%w: unknown normal side %q", apperrors.ErrValidation, side)
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    req.AccountType,
		NormalSide:     side,
		CurrencyCode:   strings.ToUpper(req.CurrencyCode),
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(actor, s.Now()),
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityAccount, account.AccountID, actor, "CREATE", "", "ACTIVE"))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	return s.store.FindAccountByID(ctx, organizationID, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	return s.store.ListAccounts(ctx, organizationID, params.Limit, params.Offset)
}

func (s *accountService) ListLedgerEntries(ctx context.Context, organizationID, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	if _, err := s.store.FindAccountByID(ctx, organizationID, accountID); err != nil {
		return nil, err
	}
	entries, next, err := s.store.ListLedgerEntriesByAccount(ctx, organizationID, accountID, params.Limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list ledger entries", slog.String("account_id", accountID))
		return nil, err
	}
	return &dto.ListLedgerEntriesResponse{Entries: dto.ToLedgerEntryResponses(entries), NextToken: next}, nil
}
