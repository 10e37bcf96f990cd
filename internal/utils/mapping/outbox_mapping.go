package mapping

import (
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
)

// ToModelNotification converts a domain Notification to a model Notification
func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID:   d.NotificationID,
		OrganizationID:   d.OrganizationID,
		Recipient:        d.Recipient,
		Kind:             string(d.Kind),
		JournalID:        d.JournalID,
		JournalReference: d.JournalReference,
		LogID:            d.LogID,
		Message:          d.Message,
		Sent:             d.Sent,
		Attempts:         d.Attempts,
		LastError:        d.LastError,
		CreatedAt:        d.CreatedAt,
		SentAt:           d.SentAt,
	}
}

// ToDomainNotification converts a model Notification to a domain Notification
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID:   m.NotificationID,
		OrganizationID:   m.OrganizationID,
		Recipient:        m.Recipient,
		Kind:             domain.NotificationKind(m.Kind),
		JournalID:        m.JournalID,
		JournalReference: m.JournalReference,
		LogID:            m.LogID,
		Message:          m.Message,
		Sent:             m.Sent,
		Attempts:         m.Attempts,
		LastError:        m.LastError,
		CreatedAt:        m.CreatedAt,
		SentAt:           m.SentAt,
	}
}

// ToModelAuditEntry converts a domain AuditEntry to a model AuditEntry
func ToModelAuditEntry(d domain.AuditEntry) models.AuditEntry {
	return models.AuditEntry(d)
}

// ToDomainAuditEntry converts a model AuditEntry to a domain AuditEntry
func ToDomainAuditEntry(m models.AuditEntry) domain.AuditEntry {
	return domain.AuditEntry(m)
}
