package services

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// SweepResult summarises one escalation sweep.
type SweepResult struct {
	Checked   int
	Escalated int
	Conflicts int
}

// EscalationSvc escalates approval steps whose timeout has elapsed.
type EscalationSvc interface {
	// SweepTimeouts checks the open approval logs of organizationID, or of
	// every organization when it is empty.
	SweepTimeouts(ctx context.Context, organizationID string, now time.Time) (SweepResult, error)

	// Run sweeps every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration) error
}

// NotificationRelaySvc delivers outbox notifications to the mailer.
type NotificationRelaySvc interface {
	// DeliverPending delivers up to batch notifications and returns how many were sent.
	DeliverPending(ctx context.Context, batch int) (int, error)

	// Run delivers pending notifications every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration) error
}

// Mailer hands one notification to the external delivery channel.
type Mailer interface {
	Send(ctx context.Context, n domain.Notification) error
}
