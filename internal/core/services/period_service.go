package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
)

type periodService struct {
	BaseService
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// NewPeriodService creates the accounting period service.
func NewPeriodService(store portsrepo.LedgerStore, opts ...Option) portssvc.PeriodSvcFacade {
	o := applyOptions(opts)
	return &periodService{BaseService: newBaseService(store, o.clock)}
}

func (s *periodService) CreatePeriod(ctx context.Context, organizationID string, req dto.CreatePeriodRequest, actor string) (*domain.AccountingPeriod, error) {
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date: %v", apperrors.ErrValidation, err)
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date: %v", apperrors.ErrValidation, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", apperrors.ErrValidation, req.EndDate, req.StartDate)
	}

	period := domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		StartDate:      start,
		EndDate:        end,
		Status:         domain.PeriodOpen,
		AuditFields:    domain.NewAuditFields(actor, s.Now()),
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.ListPeriods(ctx, organizationID)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if p.Overlaps(period) {
				return fmt.Errorf("%w: period overlaps %s (%s)", apperrors.ErrValidation, p.Name, p.PeriodID)
			}
		}
		if err := tx.SavePeriod(ctx, period); err != nil {
			return err
		}
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityPeriod, period.PeriodID, actor, "CREATE", "", string(period.Status)))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create period", slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	return s.store.ListPeriods(ctx, organizationID)
}

func (s *periodService) ClosePeriod(ctx context.Context, organizationID, periodID, actor string) (*domain.AccountingPeriod, error) {
	return s.setStatus(ctx, organizationID, periodID, actor, domain.PeriodClosed, "CLOSE")
}

func (s *periodService) ReopenPeriod(ctx context.Context, organizationID, periodID, actor string) (*domain.AccountingPeriod, error) {
	return s.setStatus(ctx, organizationID, periodID, actor, domain.PeriodOpen, "REOPEN")
}

// setStatus is idempotent: a period already in the target status is returned unchanged.
func (s *periodService) setStatus(ctx context.Context, organizationID, periodID, actor string, status domain.PeriodStatus, action string) (*domain.AccountingPeriod, error) {
	var result *domain.AccountingPeriod
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		period, err := tx.FindPeriodByID(ctx, organizationID, periodID)
		if err != nil {
			return err
		}
		if period.Status == status {
			result = period
			return nil
		}
		before := period.Status
		now := s.Now()
		if err := tx.UpdatePeriodStatus(ctx, organizationID, periodID, status, actor, now); err != nil {
			return err
		}
		period.Status = status
		period.Touch(actor, now)
		result = period
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityPeriod, periodID, actor, action, string(before), string(status)))
	})
	if err != nil {
		return nil, s.recordFailure(ctx, organizationID, domain.EntityPeriod, periodID, actor, action, err)
	}

	s.LogInfo(ctx, "Accounting period status changed", slog.String("period_id", periodID), slog.String("status", string(status)))
	return result, nil
}
