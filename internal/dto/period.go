package dto

import (
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// CreatePeriodRequest defines an accounting period. Both dates are inclusive.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID      string              `json:"periodID"`
	Name          string              `json:"name"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	Status        domain.PeriodStatus `json:"status"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:      p.PeriodID,
		Name:          p.Name,
		StartDate:     p.StartDate.Format(DateLayout),
		EndDate:       p.EndDate.Format(DateLayout),
		Status:        p.Status,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}
