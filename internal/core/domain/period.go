package domain

import "time"

// PeriodStatus is the open/closed state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a date range per tenant in which journals may be posted while open.
type AccountingPeriod struct {
	PeriodID       string       `json:"periodID"`
	OrganizationID string       `json:"organizationID"`
	Name           string       `json:"name"`
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"` // inclusive
	Status         PeriodStatus `json:"status"`
	AuditFields
}

// PeriodRef identifies the period that admitted a transaction date.
type PeriodRef struct {
	PeriodID string `json:"periodID"`
	Name     string `json:"name"`
}

// Covers reports whether the calendar date of t lies within the period.
func (p AccountingPeriod) Covers(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// Overlaps reports whether two periods share at least one day.
func (p AccountingPeriod) Overlaps(o AccountingPeriod) bool {
	return !DateOnly(p.EndDate).Before(DateOnly(o.StartDate)) && !DateOnly(o.EndDate).Before(DateOnly(p.StartDate))
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
