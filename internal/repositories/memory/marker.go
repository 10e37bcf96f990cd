package memory

import (
	"context"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
)

type marker struct {
	store *Store
}

var _ repositories.NotificationMarker = (*marker)(nil)

func (m *marker) MarkNotificationSent(ctx context.Context, notificationID string, at time.Time) error {
	return m.update(ctx, notificationID, func(t *memTx, i int) {
		sentAt := at
		t.st.notifications[i].Sent = true
		t.st.notifications[i].SentAt = &sentAt
	})
}

func (m *marker) MarkNotificationFailed(ctx context.Context, notificationID string, reason string) error {
	return m.update(ctx, notificationID, func(t *memTx, i int) {
		r := reason
		t.st.notifications[i].Attempts++
		t.st.notifications[i].LastError = &r
	})
}

func (m *marker) update(ctx context.Context, notificationID string, apply func(t *memTx, i int)) error {
	return m.store.RunInTx(ctx, func(_ context.Context, tx repositories.LedgerTx) error {
		t := tx.(*memTx)
		for i := range t.st.notifications {
			if t.st.notifications[i].NotificationID == notificationID {
				apply(t, i)
				return nil
			}
		}
		return notFound("notification", notificationID)
	})
}
