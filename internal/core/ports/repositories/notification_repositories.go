package repositories

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// NotificationReader defines read operations for the notification outbox
type NotificationReader interface {
	ListNotificationsByJournal(ctx context.Context, organizationID, journalID string) ([]domain.Notification, error)
}

// NotificationWriter enqueues notifications inside a business transaction.
type NotificationWriter interface {
	EnqueueNotifications(ctx context.Context, notifications []domain.Notification) error
}

// NotificationMarker records delivery results for claimed notifications.
type NotificationMarker interface {
	MarkNotificationSent(ctx context.Context, notificationID string, at time.Time) error
	MarkNotificationFailed(ctx context.Context, notificationID string, reason string) error
}

// ClaimFunc delivers a batch of claimed notifications and marks each result.
type ClaimFunc func(ctx context.Context, claimed []domain.Notification, marker NotificationMarker) error

// NotificationOutbox hands unsent notifications to a relay.
type NotificationOutbox interface {
	// ClaimPendingNotifications claims up to limit unsent notifications with
	// fewer than maxAttempts failed attempts, oldest first. Claimed rows are
	// invisible to concurrent claimers until fn returns.
	ClaimPendingNotifications(ctx context.Context, limit, maxAttempts int, fn ClaimFunc) error
}
