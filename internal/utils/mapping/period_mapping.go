package mapping

import (
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
)

// ToModelPeriod converts a domain AccountingPeriod to a model Period
func ToModelPeriod(d domain.AccountingPeriod) models.Period {
	return models.Period{
		PeriodID:       d.PeriodID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		StartDate:      domain.DateOnly(d.StartDate),
		EndDate:        domain.DateOnly(d.EndDate),
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model Period to a domain AccountingPeriod
func ToDomainPeriod(m models.Period) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:       m.PeriodID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		StartDate:      domain.DateOnly(m.StartDate),
		EndDate:        domain.DateOnly(m.EndDate),
		Status:         domain.PeriodStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
