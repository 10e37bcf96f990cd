package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	"github.com/ritsnep/HimalytixNew-sub002/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	store portsrepo.LedgerStore
	clock func() time.Time
}

func newBaseService(store portsrepo.LedgerStore, clock func() time.Time) BaseService {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return BaseService{store: store, clock: clock}
}

// Now returns the current time from the service clock.
func (s *BaseService) Now() time.Time {
	return s.clock()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogFailure logs err at warn level when it is the caller's fault and at
// error level when it is an infrastructure failure.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if apperrors.Kind(err) == "internal" {
		s.LogError(ctx, err, msg, keyvals...)
		return
	}
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()), slog.String("kind", apperrors.Kind(err)))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Warn(msg, args...)
}

// auditEntry builds an audit row for a successful action.
func (s *BaseService) auditEntry(organizationID, entityType, entityID, actor, action string, before, after string) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:        uuid.NewString(),
		OrganizationID: organizationID,
		EntityType:     entityType,
		EntityID:       entityID,
		Actor:          actor,
		Action:         action,
		BeforeStatus:   before,
		AfterStatus:    after,
		Succeeded:      true,
		CreatedAt:      s.Now(),
	}
}

// recordFailure logs err, writes a failed audit row in its own transaction and
// returns err, joined with the audit error if that write fails too.
func (s *BaseService) recordFailure(ctx context.Context, organizationID, entityType, entityID, actor, action string, err error) error {
	s.LogFailure(ctx, err, "Operation failed",
		slog.String("action", action),
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID))

	entry := s.auditEntry(organizationID, entityType, entityID, actor, action, "", "")
	entry.Succeeded = false
	entry.Detail = err.Error()

	auditErr := s.store.RunInTx(context.WithoutCancel(ctx), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.InsertAuditEntry(ctx, entry)
	})
	if auditErr != nil {
		s.LogError(ctx, auditErr, "Failed to record audit entry", slog.String("action", action))
		return errors.Join(err, fmt.Errorf("record audit entry: %w", auditErr))
	}
	return err
}
