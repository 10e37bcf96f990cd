package domain

import "time"

// NotificationKind classifies outbound notifications.
type NotificationKind string

const (
	NotifySubmitted     NotificationKind = "SUBMITTED"
	NotifyNeedsApproval NotificationKind = "NEEDS_APPROVAL"
	NotifyApproved      NotificationKind = "APPROVED"
	NotifyRejected      NotificationKind = "REJECTED"
	NotifyEscalated     NotificationKind = "ESCALATED"
	NotifyPosted        NotificationKind = "POSTED"
)

// Notification is an outbox row delivered by an external mailer.
type Notification struct {
	NotificationID   string           `json:"notificationID"`
	OrganizationID   string           `json:"organizationID"`
	Recipient        string           `json:"recipient"`
	Kind             NotificationKind `json:"kind"`
	JournalID        string           `json:"journalID"`
	JournalReference string           `json:"journalReference"`
	LogID            *string          `json:"logID,omitempty"`
	Message          string           `json:"message"`
	Sent             bool             `json:"sent"`
	Attempts         int              `json:"attempts"`
	LastError        *string          `json:"lastError,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	SentAt           *time.Time       `json:"sentAt,omitempty"`
}
