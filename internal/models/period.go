package models

import "time"

// Period is a row of the accounting_periods table.
type Period struct {
	PeriodID       string    `db:"period_id"`
	OrganizationID string    `db:"organization_id"`
	Name           string    `db:"name"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	Status         string    `db:"status"`
	AuditFields
}
