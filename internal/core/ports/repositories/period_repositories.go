package repositories

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods returns the periods of an organization ordered by start date.
	ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error)

	// FindPeriodsCovering returns the periods whose range includes date.
	FindPeriodsCovering(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods
type PeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error
	UpdatePeriodStatus(ctx context.Context, organizationID, periodID string, status domain.PeriodStatus, actor string, now time.Time) error
}

// PeriodLocker re-reads covering periods under a shared lock, so a concurrent
// close waits for the posting transaction holding it.
type PeriodLocker interface {
	FindPeriodsCoveringForPosting(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error)
}
