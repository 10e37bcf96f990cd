package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/ritsnep/HimalytixNew-sub002/internal/middleware"
)

type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
}

func registerWorkflowRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade) {
	h := &workflowHandler{workflowService: workflowService}

	workflows := rg.Group("/workflows")
	{
		workflows.POST("", h.createWorkflow)
		workflows.GET("", h.listWorkflows)
		workflows.GET("/:workflowID", h.getWorkflow)
		workflows.POST("/:workflowID/activate", h.activateWorkflow)
		workflows.POST("/:workflowID/deactivate", h.deactivateWorkflow)
	}
}

// createWorkflow godoc
// @Summary Create an approval workflow
// @Description Defines a workflow in DRAFT status. It applies to submissions only once activated.
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   workflow body dto.CreateWorkflowRequest true "Workflow definition"
// @Success 201 {object} dto.WorkflowResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Workflow can never complete"
// @Failure 500 {object} map[string]string "Failed to create workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows [post]
func (h *workflowHandler) createWorkflow(c *gin.Context) {
	var req dto.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	wf, err := h.workflowService.CreateWorkflow(c.Request.Context(), c.Param("organization_id"), req, actor)
	if err != nil {
		respondError(c, err, "create workflow")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Workflow created", slog.String("workflow_id", wf.WorkflowID))
	c.JSON(http.StatusCreated, dto.WorkflowResponse{ApprovalWorkflow: *wf})
}

// listWorkflows godoc
// @Summary List approval workflows
// @Tags workflows
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {array} dto.WorkflowResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list workflows"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows [get]
func (h *workflowHandler) listWorkflows(c *gin.Context) {
	wfs, err := h.workflowService.ListWorkflows(c.Request.Context(), c.Param("organization_id"))
	if err != nil {
		respondError(c, err, "list workflows")
		return
	}
	res := make([]dto.WorkflowResponse, len(wfs))
	for i := range wfs {
		res[i] = dto.WorkflowResponse{ApprovalWorkflow: wfs[i]}
	}
	c.JSON(http.StatusOK, res)
}

// getWorkflow godoc
// @Summary Get an approval workflow
// @Tags workflows
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   workflowID path string true "Workflow ID"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Workflow not found"
// @Failure 500 {object} map[string]string "Failed to retrieve workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows/{workflowID} [get]
func (h *workflowHandler) getWorkflow(c *gin.Context) {
	wf, err := h.workflowService.GetWorkflow(c.Request.Context(), c.Param("organization_id"), c.Param("workflowID"))
	if err != nil {
		respondError(c, err, "retrieve workflow")
		return
	}
	c.JSON(http.StatusOK, dto.WorkflowResponse{ApprovalWorkflow: *wf})
}

// activateWorkflow godoc
// @Summary Activate an approval workflow
// @Tags workflows
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   workflowID path string true "Workflow ID"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Workflow not found"
// @Failure 422 {object} map[string]string "Workflow can never complete"
// @Failure 500 {object} map[string]string "Failed to activate workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows/{workflowID}/activate [post]
func (h *workflowHandler) activateWorkflow(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	wf, err := h.workflowService.ActivateWorkflow(c.Request.Context(), c.Param("organization_id"), c.Param("workflowID"), actor)
	if err != nil {
		respondError(c, err, "activate workflow")
		return
	}
	c.JSON(http.StatusOK, dto.WorkflowResponse{ApprovalWorkflow: *wf})
}

// deactivateWorkflow godoc
// @Summary Deactivate an approval workflow
// @Description In-flight approvals keep their snapshotted steps
// @Tags workflows
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   workflowID path string true "Workflow ID"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Workflow not found"
// @Failure 500 {object} map[string]string "Failed to deactivate workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows/{workflowID}/deactivate [post]
func (h *workflowHandler) deactivateWorkflow(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	wf, err := h.workflowService.DeactivateWorkflow(c.Request.Context(), c.Param("organization_id"), c.Param("workflowID"), actor)
	if err != nil {
		respondError(c, err, "deactivate workflow")
		return
	}
	c.JSON(http.StatusOK, dto.WorkflowResponse{ApprovalWorkflow: *wf})
}
