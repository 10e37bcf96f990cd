package services

import (
	"context"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
)

// PeriodSvcFacade manages accounting periods. Close and reopen are the calls
// the period-closing process makes.
type PeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, organizationID string, req dto.CreatePeriodRequest, actor string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error)
	ClosePeriod(ctx context.Context, organizationID, periodID, actor string) (*domain.AccountingPeriod, error)
	ReopenPeriod(ctx context.Context, organizationID, periodID, actor string) (*domain.AccountingPeriod, error)
}
