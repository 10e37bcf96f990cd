package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/ritsnep/HimalytixNew-sub002/internal/middleware"
)

type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create an accounting period
// @Description Opens a new accounting period. Periods of one organization may not overlap.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   period body dto.CreatePeriodRequest true "Period"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Invalid or overlapping period"
// @Failure 500 {object} map[string]string "Failed to create period"
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), c.Param("organization_id"), req, actor)
	if err != nil {
		respondError(c, err, "create period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Period created", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {array} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("organization_id"))
	if err != nil {
		respondError(c, err, "list periods")
		return
	}
	res := make([]dto.PeriodResponse, len(periods))
	for i := range periods {
		res[i] = dto.ToPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, res)
}

// closePeriod godoc
// @Summary Close an accounting period
// @Description Stops postings dated inside the period
// @Tags periods
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Period already closed"
// @Failure 500 {object} map[string]string "Failed to close period"
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	period, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("organization_id"), c.Param("periodID"), actor)
	if err != nil {
		respondError(c, err, "close period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen a closed accounting period
// @Tags periods
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Period already open"
// @Failure 500 {object} map[string]string "Failed to reopen period"
// @Security BearerAuth
// @Router /organizations/{organization_id}/periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	period, err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("organization_id"), c.Param("periodID"), actor)
	if err != nil {
		respondError(c, err, "reopen period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
