// Package mailer contains the Mailer adapters the notification relay hands
// outbox rows to.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
)

// DefaultQueueKey is the Redis list the external mailer consumes.
const DefaultQueueKey = "ledger:notifications"

// Payload is the message shape the external mailer expects.
type Payload struct {
	Recipient        string    `json:"recipient"`
	Kind             string    `json:"kind"`
	JournalReference string    `json:"journal_reference"`
	Message          string    `json:"message"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewPayload converts an outbox row to the mailer payload.
func NewPayload(n domain.Notification) Payload {
	return Payload{
		Recipient:        n.Recipient,
		Kind:             string(n.Kind),
		JournalReference: n.JournalReference,
		Message:          n.Message,
		CreatedAt:        n.CreatedAt,
	}
}

// LogMailer writes notifications to the structured log. Used in development.
type LogMailer struct {
	logger *slog.Logger
}

var _ portssvc.Mailer = (*LogMailer)(nil)

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, n domain.Notification) error {
	m.logger.Info("Notification",
		slog.String("notification_id", n.NotificationID),
		slog.String("recipient", n.Recipient),
		slog.String("kind", string(n.Kind)),
		slog.String("journal_reference", n.JournalReference),
		slog.String("message", n.Message))
	return nil
}

// RedisMailer pushes payloads onto a Redis list.
type RedisMailer struct {
	rdb *redis.Client
	key string
}

var _ portssvc.Mailer = (*RedisMailer)(nil)

func NewRedisMailer(rdb *redis.Client, key string) *RedisMailer {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisMailer{rdb: rdb, key: key}
}

func (m *RedisMailer) Send(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(NewPayload(n))
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := m.rdb.RPush(ctx, m.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification %s: %w", n.NotificationID, err)
	}
	return nil
}
