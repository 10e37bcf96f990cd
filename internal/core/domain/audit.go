package domain

import "time"

// AuditEntry records one state transition or terminal failure.
type AuditEntry struct {
	AuditID        string    `json:"auditID"`
	OrganizationID string    `json:"organizationID"`
	EntityType     string    `json:"entityType"`
	EntityID       string    `json:"entityID"`
	Actor          string    `json:"actor"`
	Action         string    `json:"action"`
	BeforeStatus   string    `json:"beforeStatus"`
	AfterStatus    string    `json:"afterStatus"`
	Detail         string    `json:"detail,omitempty"`
	Succeeded      bool      `json:"succeeded"`
	CreatedAt      time.Time `json:"createdAt"`
}

const (
	EntityJournal     = "journal"
	EntityApprovalLog = "approval_log"
	EntityWorkflow    = "workflow"
	EntityPeriod      = "period"
	EntityAccount     = "account"
)
