package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/ritsnep/HimalytixNew-sub002/internal/middleware"
)

type approvalHandler struct {
	postingService    portssvc.PostingSvcFacade
	escalationService portssvc.EscalationSvc
	now               func() time.Time
}

func registerApprovalRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade, escalationService portssvc.EscalationSvc) {
	h := &approvalHandler{postingService: postingService, escalationService: escalationService, now: time.Now}

	approvals := rg.Group("/approvals")
	{
		approvals.GET("/queue", h.approvalQueue)
		approvals.GET("/:logID", h.getApprovalLog)
		approvals.POST("/escalations/sweep", h.sweepEscalations)
	}
}

// approvalQueue godoc
// @Summary List journals awaiting a decision
// @Description Lists open approvals whose current step the approver may decide. Defaults to the caller.
// @Tags approvals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   approver query string false "Approver ID"
// @Success 200 {array} dto.ApprovalQueueItem
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to load approval queue"
// @Security BearerAuth
// @Router /organizations/{organization_id}/approvals/queue [get]
func (h *approvalHandler) approvalQueue(c *gin.Context) {
	approver := c.Query("approver")
	if approver == "" {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		approver = actor
	}

	items, err := h.postingService.ApprovalQueue(c.Request.Context(), c.Param("organization_id"), approver)
	if err != nil {
		respondError(c, err, "load approval queue")
		return
	}
	if items == nil {
		items = []dto.ApprovalQueueItem{}
	}
	c.JSON(http.StatusOK, items)
}

// getApprovalLog godoc
// @Summary Get an approval log
// @Description Returns the snapshotted steps, their progress and every decision
// @Tags approvals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   logID path string true "Approval log ID"
// @Success 200 {object} dto.ApprovalLogResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Approval log not found"
// @Failure 500 {object} map[string]string "Failed to retrieve approval log"
// @Security BearerAuth
// @Router /organizations/{organization_id}/approvals/{logID} [get]
func (h *approvalHandler) getApprovalLog(c *gin.Context) {
	log, err := h.postingService.GetApprovalLog(c.Request.Context(), c.Param("organization_id"), c.Param("logID"))
	if err != nil {
		respondError(c, err, "retrieve approval log")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalLogResponse(log))
}

// sweepEscalations godoc
// @Summary Escalate timed-out approval steps
// @Description Runs one timeout sweep over the organization's open approvals
// @Tags approvals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {object} dto.EscalationSweepResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to sweep escalations"
// @Security BearerAuth
// @Router /organizations/{organization_id}/approvals/escalations/sweep [post]
func (h *approvalHandler) sweepEscalations(c *gin.Context) {
	res, err := h.escalationService.SweepTimeouts(c.Request.Context(), c.Param("organization_id"), h.now())
	if err != nil {
		respondError(c, err, "sweep escalations")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Escalation sweep finished",
		slog.Int("checked", res.Checked), slog.Int("escalated", res.Escalated), slog.Int("conflicts", res.Conflicts))
	c.JSON(http.StatusOK, dto.EscalationSweepResponse{Checked: res.Checked, Escalated: res.Escalated, Conflicts: res.Conflicts})
}
