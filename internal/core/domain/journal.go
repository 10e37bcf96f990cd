package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft           JournalStatus = "DRAFT"
	PendingApproval JournalStatus = "PENDING_APPROVAL"
	Approved        JournalStatus = "APPROVED"
	Posted          JournalStatus = "POSTED"
	Reversed        JournalStatus = "REVERSED"
)

// Journal represents a financial transaction composed of balanced debit/credit lines.
type Journal struct {
	JournalID           string          `json:"journalID"`
	OrganizationID      string          `json:"organizationID"`
	Reference           string          `json:"reference"`
	JournalType         string          `json:"journalType"`
	TransactionDate     time.Time       `json:"transactionDate"`
	CurrencyCode        string          `json:"currencyCode"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"` // journal currency -> base currency, snapshot at submission
	Memo                string          `json:"memo"`
	Status              JournalStatus   `json:"status"`
	Version             int64           `json:"version"`
	ApprovalLogID       *string         `json:"approvalLogID,omitempty"`
	RejectionReason     *string         `json:"rejectionReason,omitempty"`
	ReversalOfJournalID *string         `json:"reversalOfJournalID,omitempty"`
	ReversedByJournalID *string         `json:"reversedByJournalID,omitempty"`
	PostedAt            *time.Time      `json:"postedAt,omitempty"`
	PostedBy            *string         `json:"postedBy,omitempty"`
	Lines               []JournalLine   `json:"lines"`
	AuditFields
}

// Dimensions are optional analytic tags carried by a journal line.
type Dimensions struct {
	Department string `json:"department,omitempty"`
	Project    string `json:"project,omitempty"`
	CostCenter string `json:"costCenter,omitempty"`
}

// JournalLine is one debit or credit row of a Journal.
type JournalLine struct {
	LineID         string     `json:"lineID"`
	JournalID      string     `json:"journalID"`
	OrganizationID string     `json:"organizationID"`
	LineNo         int        `json:"lineNo"`
	AccountID      string     `json:"accountID"`
	Debit          Amount     `json:"debit"`
	Credit         Amount     `json:"credit"`
	Dimensions     Dimensions `json:"dimensions"`
	TaxCode        string     `json:"taxCode,omitempty"`
	TaxAmount      Amount     `json:"taxAmount,omitempty"` // precomputed, never recalculated
	Memo           string     `json:"memo,omitempty"`
}

// Side returns the side carrying the line's amount.
func (l JournalLine) Side() EntrySide {
	if l.Debit != 0 {
		return DebitSide
	}
	return CreditSide
}

// Clone returns a deep copy of the journal.
func (j Journal) Clone() Journal {
	c := j
	c.Lines = append([]JournalLine(nil), j.Lines...)
	c.ApprovalLogID = cloneString(j.ApprovalLogID)
	c.RejectionReason = cloneString(j.RejectionReason)
	c.ReversalOfJournalID = cloneString(j.ReversalOfJournalID)
	c.ReversedByJournalID = cloneString(j.ReversedByJournalID)
	c.PostedBy = cloneString(j.PostedBy)
	if j.PostedAt != nil {
		t := *j.PostedAt
		c.PostedAt = &t
	}
	return c
}

// IsReversal reports whether the journal reverses another journal.
func (j Journal) IsReversal() bool {
	return j.ReversalOfJournalID != nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// GeneralLedgerEntry is the immutable posted projection of a JournalLine.
type GeneralLedgerEntry struct {
	EntryID         string          `json:"entryID"`
	OrganizationID  string          `json:"organizationID"`
	JournalID       string          `json:"journalID"`
	LineID          string          `json:"lineID"`
	AccountID       string          `json:"accountID"`
	TransactionDate time.Time       `json:"transactionDate"`
	CurrencyCode    string          `json:"currencyCode"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	Debit           Amount          `json:"debit"`      // journal currency
	Credit          Amount          `json:"credit"`     // journal currency
	BaseDebit       Amount          `json:"baseDebit"`  // base currency
	BaseCredit      Amount          `json:"baseCredit"` // base currency
	RunningBalance  Amount          `json:"runningBalance"`
	PostedAt        time.Time       `json:"postedAt"`
	PostedBy        string          `json:"postedBy"`
}
