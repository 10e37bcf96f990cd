package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/middleware"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/backoff"
)

const conflictRetryBase = 25 * time.Millisecond

// statusFor maps an error category to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrPeriod),
		errors.Is(err, apperrors.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrConcurrency),
		errors.Is(err, apperrors.ErrState),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body {"error", "code"} with the matching status.
// Internal failures are logged and their details withheld.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action, "code": apperrors.Kind(err)})
		return
	}

	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.String("code", apperrors.Kind(err)))
	body := gin.H{"error": err.Error(), "code": apperrors.Kind(err)}
	var unbalanced *apperrors.UnbalancedError
	if errors.As(err, &unbalanced) {
		body["debitTotal"] = unbalanced.DebitTotal
		body["creditTotal"] = unbalanced.CreditTotal
	}
	var invalidLine *apperrors.InvalidLineError
	if errors.As(err, &invalidLine) {
		body["lineIndex"] = invalidLine.Index
	}
	c.JSON(status, body)
}

// badRequest reports a body or query that could not be bound.
func badRequest(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error(), "code": "bad_request"})
}

// retryOnConflict runs fn again once after a short backoff when it lost an
// optimistic-concurrency race.
func retryOnConflict(ctx context.Context, fn func(ctx context.Context) error) error {
	return backoff.Retry(ctx, 1, conflictRetryBase, func(err error) bool {
		return errors.Is(err, apperrors.ErrConcurrency)
	}, fn)
}

// actorFrom returns the authenticated caller or aborts with 401.
func actorFrom(c *gin.Context) (string, bool) {
	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actor, true
}
