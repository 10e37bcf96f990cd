package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a row of the journals table. Lines live in journal_lines.
type Journal struct {
	JournalID           string          `db:"journal_id"`
	OrganizationID      string          `db:"organization_id"`
	Reference           string          `db:"reference"`
	JournalType         string          `db:"journal_type"`
	TransactionDate     time.Time       `db:"transaction_date"`
	CurrencyCode        string          `db:"currency_code"`
	ExchangeRate        decimal.Decimal `db:"exchange_rate"`
	Memo                string          `db:"memo"`
	Status              string          `db:"status"`
	Version             int64           `db:"version"`
	ApprovalLogID       *string         `db:"approval_log_id"`
	RejectionReason     *string         `db:"rejection_reason"`
	ReversalOfJournalID *string         `db:"reversal_of_journal_id"`
	ReversedByJournalID *string         `db:"reversed_by_journal_id"`
	PostedAt            *time.Time      `db:"posted_at"`
	PostedBy            *string         `db:"posted_by"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID         string `db:"line_id"`
	JournalID      string `db:"journal_id"`
	OrganizationID string `db:"organization_id"`
	LineNo         int    `db:"line_no"`
	AccountID      string `db:"account_id"`
	Debit          int64  `db:"debit"`
	Credit         int64  `db:"credit"`
	Department     string `db:"department"`
	Project        string `db:"project"`
	CostCenter     string `db:"cost_center"`
	TaxCode        string `db:"tax_code"`
	TaxAmount      int64  `db:"tax_amount"`
	Memo           string `db:"memo"`
}

// LedgerEntry is a row of the general_ledger_entries table.
type LedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	OrganizationID  string          `db:"organization_id"`
	JournalID       string          `db:"journal_id"`
	LineID          string          `db:"line_id"`
	AccountID       string          `db:"account_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	CurrencyCode    string          `db:"currency_code"`
	ExchangeRate    decimal.Decimal `db:"exchange_rate"`
	Debit           int64           `db:"debit"`
	Credit          int64           `db:"credit"`
	BaseDebit       int64           `db:"base_debit"`
	BaseCredit      int64           `db:"base_credit"`
	RunningBalance  int64           `db:"running_balance"`
	PostedAt        time.Time       `db:"posted_at"`
	PostedBy        string          `db:"posted_by"`
}
