package pgsql

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/backoff"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
)

const (
	defaultTxMaxRetries = 3
	defaultTxRetryBase  = 20 * time.Millisecond
)

// Store is the PostgreSQL implementation of portsrepo.LedgerStore.
type Store struct {
	reader
	pool       *pgxpool.Pool
	maxRetries int
	retryBase  time.Duration
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTxRetries sets how often a transaction failing with a serialization
// failure or deadlock is run again, and the base delay between attempts.
func WithTxRetries(maxRetries int, base time.Duration) StoreOption {
	return func(s *Store) {
		s.maxRetries = maxRetries
		s.retryBase = base
	}
}

// NewStore creates a Store backed by pool.
func NewStore(pool *pgxpool.Pool, opts ...StoreOption) *Store {
	s := &Store{
		reader:     reader{q: pool},
		pool:       pool,
		maxRetries: defaultTxMaxRetries,
		retryBase:  defaultTxRetryBase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunInTx executes fn in a read-committed transaction, retrying transient failures.
func (s *Store) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return backoff.Retry(ctx, s.maxRetries, s.retryBase, isTransient, func(ctx context.Context) error {
		return s.runOnce(ctx, fn)
	})
}

func (s *Store) runOnce(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return dbError("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			rollback(ctx, tx)
		}
	}()

	if err = fn(ctx, &pgTx{reader: reader{q: tx}}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return dbError("failed to commit transaction", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.WarnContext(ctx, "failed to rollback transaction", "error", err)
	}
}

// ClaimPendingNotifications locks up to limit deliverable rows with SKIP LOCKED
// and keeps them locked while fn delivers them. Delivery results are committed
// together when fn returns nil.
func (s *Store) ClaimPendingNotifications(ctx context.Context, limit, maxAttempts int, fn portsrepo.ClaimFunc) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return dbError("failed to begin claim transaction", err)
	}
	defer func() {
		if err != nil {
			rollback(ctx, tx)
		}
	}()

	rows, err := tx.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE NOT sent AND attempts < $1
		ORDER BY created_at, notification_id
		LIMIT $2
		FOR UPDATE SKIP LOCKED`, maxAttempts, limit)
	claimed, err := collect[models.Notification](rows, err)
	if err != nil {
		return dbError("failed to claim notifications", err)
	}
	if len(claimed) == 0 {
		return tx.Commit(ctx)
	}

	batch := make([]domain.Notification, 0, len(claimed))
	for _, m := range claimed {
		batch = append(batch, mapping.ToDomainNotification(m))
	}
	if err = fn(ctx, batch, &marker{q: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return dbError("failed to commit notification claim", err)
	}
	return nil
}

// marker records delivery results inside the claim transaction.
type marker struct {
	q querier
}

var _ portsrepo.NotificationMarker = (*marker)(nil)

func (m *marker) MarkNotificationSent(ctx context.Context, notificationID string, at time.Time) error {
	tag, err := m.q.Exec(ctx, `UPDATE notifications SET sent = TRUE, sent_at = $2 WHERE notification_id = $1`, notificationID, at)
	if err != nil {
		return dbError("failed to mark notification "+notificationID+" sent", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("notification", notificationID)
	}
	return nil
}

func (m *marker) MarkNotificationFailed(ctx context.Context, notificationID string, reason string) error {
	tag, err := m.q.Exec(ctx, `UPDATE notifications SET attempts = attempts + 1, last_error = $2 WHERE notification_id = $1`, notificationID, reason)
	if err != nil {
		return dbError("failed to mark notification "+notificationID+" failed", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("notification", notificationID)
	}
	return nil
}

// pgTx implements portsrepo.LedgerTx on an open transaction.
type pgTx struct {
	reader
}

var _ portsrepo.LedgerTx = (*pgTx)(nil)
