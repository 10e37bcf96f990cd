package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/ritsnep/HimalytixNew-sub002/internal/middleware"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	postingService portssvc.PostingSvcFacade
}

// registerJournalRoutes registers draft maintenance and the posting workflow.
func registerJournalRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := &journalHandler{postingService: postingService}

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.PUT("/:journalID", h.updateJournal)
		journals.POST("/:journalID/submit", h.submitJournal)
		journals.POST("/:journalID/approve", h.approveJournal)
		journals.POST("/:journalID/reject", h.rejectJournal)
		journals.POST("/:journalID/post", h.postJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
	}
}

func toSubmitResponse(res *portssvc.PostingResult) dto.SubmitJournalResponse {
	return dto.SubmitJournalResponse{
		Journal:          dto.ToJournalResponse(res.Journal),
		ApprovalRequired: res.ApprovalRequired,
		ApprovalLog:      dto.ToApprovalLogResponse(res.ApprovalLog),
	}
}

// transition runs a posting workflow call with one retry on a lost race and
// writes the resulting journal and approval log.
func (h *journalHandler) transition(c *gin.Context, action string, fn func(ctx context.Context) (*portssvc.PostingResult, error)) {
	var res *portssvc.PostingResult
	err := retryOnConflict(c.Request.Context(), func(ctx context.Context) error {
		var err error
		res, err = fn(ctx)
		return err
	})
	if err != nil {
		respondError(c, err, action)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal transition completed",
		slog.String("action", action),
		slog.String("journal_id", res.Journal.JournalID),
		slog.String("status", string(res.Journal.Status)))
	c.JSON(http.StatusOK, toSubmitResponse(res))
}

// createJournal godoc
// @Summary Create a draft journal
// @Description Stores a balanced journal in DRAFT status. Nothing reaches the ledger until it is posted.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journal body dto.CreateJournalRequest true "Journal and lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Unbalanced or invalid journal"
// @Failure 500 {object} map[string]string "Failed to create journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	journal, err := h.postingService.CreateDraft(c.Request.Context(), c.Param("organization_id"), req, actor)
	if err != nil {
		respondError(c, err, "create journal")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Draft journal created", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal with its lines
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journal, err := h.postingService.GetJournal(c.Request.Context(), c.Param("organization_id"), c.Param("journalID"))
	if err != nil {
		respondError(c, err, "retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Lists journals newest first, optionally filtered by status and type
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   status query string false "Journal status"
// @Param   journalType query string false "Journal type"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journals"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.postingService.ListJournals(c.Request.Context(), c.Param("organization_id"), params)
	if err != nil {
		respondError(c, err, "list journals")
		return
	}
	c.JSON(http.StatusOK, page)
}

// updateJournal godoc
// @Summary Replace a draft journal
// @Description Rewrites a draft journal. The request version must match the stored version.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journalID path string true "Journal ID"
// @Param   journal body dto.UpdateJournalRequest true "Journal and lines"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not a draft or was modified"
// @Failure 422 {object} map[string]string "Unbalanced or invalid journal"
// @Failure 500 {object} map[string]string "Failed to update journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journalID} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	// A stale client version fails again on retry, so no conflict retry here.
	journal, err := h.postingService.UpdateDraft(c.Request.Context(), c.Param("organization_id"), c.Param("journalID"), req, actor)
	if err != nil {
		respondError(c, err, "update journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// submitJournal godoc
// @Summary Submit a draft journal
// @Description Matches the journal against active workflows. Without a match the journal is approved directly.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.SubmitJournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not a draft"
// @Failure 422 {object} map[string]string "Validation or period error"
// @Failure 500 {object} map[string]string "Failed to submit journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journalID}/submit [post]
func (h *journalHandler) submitJournal(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orgID, journalID := c.Param("organization_id"), c.Param("journalID")
	h.transition(c, "submit journal", func(ctx context.Context) (*portssvc.PostingResult, error) {
		return h.postingService.SubmitForApproval(ctx, orgID, journalID, actor)
	})
}

// approveJournal godoc
// @Summary Approve a pending journal
// @Description Records the caller's approval on the open step
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journalID path string true "Journal ID"
// @Param   decision body dto.ApproveJournalRequest false "Step and comment"
// @Success 200 {object} dto.SubmitJournalResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not decide this step"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not pending approval"
// @Failure 500 {object} map[string]string "Failed to approve journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journalID}/approve [post]
func (h *journalHandler) approveJournal(c *gin.Context) {
	var req dto.ApproveJournalRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orgID, journalID := c.Param("organization_id"), c.Param("journalID")
	h.transition(c, "approve journal", func(ctx context.Context) (*portssvc.PostingResult, error) {
		return h.postingService.Approve(ctx, orgID, journalID, actor, req.StepIndex, req.Comment)
	})
}

// rejectJournal godoc
// @Summary Reject a pending journal
// @Description Records the caller's rejection. The journal returns to DRAFT.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journalID path string true "Journal ID"
// @Param   decision body dto.RejectJournalRequest true "Step and reason"
// @Success 200 {object} dto.SubmitJournalResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not decide this step"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not pending approval"
// @Failure 500 {object} map[string]string "Failed to reject journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journalID}/reject [post]
func (h *journalHandler) rejectJournal(c *gin.Context) {
	var req dto.RejectJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orgID, journalID := c.Param("organization_id"), c.Param("journalID")
	h.transition(c, "reject journal", func(ctx context.Context) (*portssvc.PostingResult, error) {
		return h.postingService.Reject(ctx, orgID, journalID, actor, req.StepIndex, req.Reason)
	})
}

// postJournal godoc
// @Summary Post an approved journal
// @Description Writes general-ledger entries and updates account balances. Posting a posted journal returns it unchanged.
// @Tags journals
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not approved"
// @Failure 422 {object} map[string]string "Period closed or missing"
// @Failure 500 {object} map[string]string "Failed to post journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journalID}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orgID, journalID := c.Param("organization_id"), c.Param("journalID")

	var journal *domain.Journal
	err := retryOnConflict(c.Request.Context(), func(ctx context.Context) error {
		var err error
		journal, err = h.postingService.Post(ctx, orgID, journalID, actor)
		return err
	})
	if err != nil {
		respondError(c, err, "post journal")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal posted", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates a mirror journal with debits and credits swapped and submits it
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   journalID path string true "Journal ID"
// @Param   reversal body dto.ReverseJournalRequest true "Reason and date"
// @Success 200 {object} dto.SubmitJournalResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not posted or already reversed"
// @Failure 422 {object} map[string]string "Period closed or missing"
// @Failure 500 {object} map[string]string "Failed to reverse journal"
// @Security BearerAuth
// @Router /organizations/{organization_id}/journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	var req dto.ReverseJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orgID, journalID := c.Param("organization_id"), c.Param("journalID")
	h.transition(c, "reverse journal", func(ctx context.Context) (*portssvc.PostingResult, error) {
		return h.postingService.Reverse(ctx, orgID, journalID, actor, req)
	})
}
