package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
)

type notificationRelay struct {
	BaseService
	mailer      portssvc.Mailer
	maxAttempts int
	batchSize   int
}

var _ portssvc.NotificationRelaySvc = (*notificationRelay)(nil)

// NewNotificationRelay creates the outbox relay. Notifications that failed
// maxAttempts times are left unsent.
func NewNotificationRelay(store portsrepo.LedgerStore, mailer portssvc.Mailer, maxAttempts, batchSize int, opts ...Option) portssvc.NotificationRelaySvc {
	o := applyOptions(opts)
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if batchSize < 1 {
		batchSize = 100
	}
	return &notificationRelay{
		BaseService: newBaseService(store, o.clock),
		mailer:      mailer,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
	}
}

func (s *notificationRelay) DeliverPending(ctx context.Context, batch int) (int, error) {
	sent := 0
	err := s.store.ClaimPendingNotifications(ctx, batch, s.maxAttempts, func(ctx context.Context, claimed []domain.Notification, marker portsrepo.NotificationMarker) error {
		for _, n := range claimed {
			if err := s.mailer.Send(ctx, n); err != nil {
				s.GetLogger(ctx).Warn("Notification delivery failed",
					slog.String("notification_id", n.NotificationID),
					slog.Int("attempt", n.Attempts+1),
					slog.String("error", err.Error()))
				if err := marker.MarkNotificationFailed(ctx, n.NotificationID, err.Error()); err != nil {
					return err
				}
				continue
			}
			if err := marker.MarkNotificationSent(ctx, n.NotificationID, s.Now()); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to relay notifications")
		return sent, err
	}
	return sent, nil
}

func (s *notificationRelay) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n, err := s.DeliverPending(ctx, s.batchSize); err == nil && n > 0 {
				s.LogInfo(ctx, "Notifications relayed", slog.Int("sent", n))
			}
		}
	}
}
