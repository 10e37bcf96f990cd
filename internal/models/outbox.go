package models

import "time"

// Notification is a row of the notifications outbox.
type Notification struct {
	NotificationID   string     `db:"notification_id"`
	OrganizationID   string     `db:"organization_id"`
	Recipient        string     `db:"recipient"`
	Kind             string     `db:"kind"`
	JournalID        string     `db:"journal_id"`
	JournalReference string     `db:"journal_reference"`
	LogID            *string    `db:"log_id"`
	Message          string     `db:"message"`
	Sent             bool       `db:"sent"`
	Attempts         int        `db:"attempts"`
	LastError        *string    `db:"last_error"`
	CreatedAt        time.Time  `db:"created_at"`
	SentAt           *time.Time `db:"sent_at"`
}

// AuditEntry is a row of the audit_entries table.
type AuditEntry struct {
	AuditID        string    `db:"audit_id"`
	OrganizationID string    `db:"organization_id"`
	EntityType     string    `db:"entity_type"`
	EntityID       string    `db:"entity_id"`
	Actor          string    `db:"actor"`
	Action         string    `db:"action"`
	BeforeStatus   string    `db:"before_status"`
	AfterStatus    string    `db:"after_status"`
	Detail         string    `db:"detail"`
	Succeeded      bool      `db:"succeeded"`
	CreatedAt      time.Time `db:"created_at"`
}
