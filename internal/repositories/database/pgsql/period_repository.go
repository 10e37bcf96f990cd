package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
)

const periodColumns = `period_id, organization_id, name, start_date, end_date, status,
	created_at, created_by, last_updated_at, last_updated_by`

func toDomainPeriods(ms []models.Period) []domain.AccountingPeriod {
	out := make([]domain.AccountingPeriod, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainPeriod(m))
	}
	return out
}

func (r *reader) FindPeriodByID(ctx context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error) {
	rows, err := r.q.Query(ctx, `SELECT `+periodColumns+` FROM accounting_periods WHERE organization_id = $1 AND period_id = $2`, organizationID, periodID)
	m, err := collectOne[models.Period](rows, err, notFound("period", periodID))
	if err != nil {
		return nil, wrapRead("failed to find period "+periodID, err)
	}
	p := mapping.ToDomainPeriod(*m)
	return &p, nil
}

func (r *reader) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	rows, err := r.q.Query(ctx, `SELECT `+periodColumns+` FROM accounting_periods WHERE organization_id = $1 ORDER BY start_date, period_id`, organizationID)
	periods, err := collect[models.Period](rows, err)
	if err != nil {
		return nil, dbError("failed to list periods", err)
	}
	return toDomainPeriods(periods), nil
}

func (r *reader) FindPeriodsCovering(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	return r.periodsCovering(ctx, organizationID, date, "")
}

// FindPeriodsCoveringForPosting holds a share lock on the covering periods
// until the transaction ends, so a concurrent close waits for the posting.
func (t *pgTx) FindPeriodsCoveringForPosting(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	return t.periodsCovering(ctx, organizationID, date, " FOR SHARE")
}

func (r *reader) periodsCovering(ctx context.Context, organizationID string, date time.Time, lock string) ([]domain.AccountingPeriod, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+periodColumns+`
		FROM accounting_periods
		WHERE organization_id = $1 AND start_date <= $2::date AND end_date >= $2::date
		ORDER BY start_date, period_id`+lock, organizationID, domain.DateOnly(date))
	periods, err := collect[models.Period](rows, err)
	if err != nil {
		return nil, dbError("failed to find covering periods", err)
	}
	return toDomainPeriods(periods), nil
}

func (t *pgTx) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	_, err := t.q.Exec(ctx, `
		INSERT INTO accounting_periods (`+periodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.PeriodID, m.OrganizationID, m.Name, m.StartDate, m.EndDate, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if code, _ := pgErrorCode(err); code == pgUniqueViolation {
		return fmt.Errorf("period %s: %w", period.PeriodID, apperrors.ErrDuplicate)
	}
	if err != nil {
		return dbError("failed to insert period "+period.PeriodID, err)
	}
	return nil
}

func (t *pgTx) UpdatePeriodStatus(ctx context.Context, organizationID, periodID string, status domain.PeriodStatus, actor string, now time.Time) error {
	tag, err := t.q.Exec(ctx, `
		UPDATE accounting_periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $1 AND period_id = $2`, organizationID, periodID, string(status), now, actor)
	if err != nil {
		return dbError("failed to update period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("period", periodID)
	}
	return nil
}
