package accounting

import (
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// CheckOpen finds the period of organizationID covering date and verifies it is open.
// Dates are compared by calendar day in UTC with both bounds inclusive.
func CheckOpen(periods []domain.AccountingPeriod, organizationID string, date time.Time) (domain.PeriodRef, error) {
	for _, p := range periods {
		if p.OrganizationID != organizationID || !p.Covers(date) {
			continue
		}
		if p.Status != domain.PeriodOpen {
			return domain.PeriodRef{}, &apperrors.PeriodClosedError{PeriodID: p.PeriodID, PeriodName: p.Name}
		}
		return domain.PeriodRef{PeriodID: p.PeriodID, Name: p.Name}, nil
	}
	return domain.PeriodRef{}, apperrors.ErrNoPeriodDefined
}
