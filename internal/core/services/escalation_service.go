package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/workflow"
)

const escalationActor = "system:escalation"

type escalationService struct {
	BaseService
	engine *workflow.Engine
}

var _ portssvc.EscalationSvc = (*escalationService)(nil)

// NewEscalationService creates the approval timeout sweeper.
func NewEscalationService(store portsrepo.LedgerStore, opts ...Option) portssvc.EscalationSvc {
	o := applyOptions(opts)
	return &escalationService{BaseService: newBaseService(store, o.clock), engine: o.engine}
}

func (s *escalationService) SweepTimeouts(ctx context.Context, organizationID string, now time.Time) (portssvc.SweepResult, error) {
	var result portssvc.SweepResult
	logs, err := s.store.ListOpenApprovalLogs(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open approval logs")
		return result, err
	}

	for _, l := range logs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++
		outcome, escalated := s.engine.CheckTimeout(l, now)
		if !escalated {
			continue
		}

		err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			if err := tx.UpdateApprovalLog(ctx, outcome.Log, l.Version); err != nil {
				return err
			}
			if err := tx.EnqueueNotifications(ctx, outcome.Notifications); err != nil {
				return err
			}
			return tx.InsertAuditEntry(ctx, s.auditEntry(l.OrganizationID, domain.EntityApprovalLog, l.LogID, escalationActor, "ESCALATE", string(l.Status), string(outcome.Log.Status)))
		})
		switch {
		case errors.Is(err, apperrors.ErrConcurrency):
			// A decision landed first; the next sweep sees the new state.
			result.Conflicts++
			s.GetLogger(ctx).Warn("Skipped escalation of concurrently modified approval log", slog.String("approval_log_id", l.LogID))
		case err != nil:
			s.LogError(ctx, err, "Failed to escalate approval log", slog.String("approval_log_id", l.LogID))
			return result, err
		default:
			result.Escalated++
			s.LogInfo(ctx, "Approval log escalated",
				slog.String("approval_log_id", l.LogID),
				slog.String("journal_id", l.JournalID),
				slog.Any("steps", outcome.Escalated))
		}
	}
	return result, nil
}

func (s *escalationService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			res, err := s.SweepTimeouts(ctx, "", s.Now())
			if err != nil && ctx.Err() == nil {
				s.LogError(ctx, err, "Escalation sweep failed")
				continue
			}
			if res.Escalated > 0 || res.Conflicts > 0 {
				s.LogInfo(ctx, "Escalation sweep finished",
					slog.Int("checked", res.Checked),
					slog.Int("escalated", res.Escalated),
					slog.Int("conflicts", res.Conflicts))
			}
		}
	}
}
