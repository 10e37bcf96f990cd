package dto

import (
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// JournalLineRequest is one debit or credit line. Amounts are minor currency units.
type JournalLineRequest struct {
	AccountID  string `json:"accountID" binding:"required"`
	Debit      int64  `json:"debit" binding:"min=0,max=1000000000000000"`
	Credit     int64  `json:"credit" binding:"min=0,max=1000000000000000"`
	Department string `json:"department"`
	Project    string `json:"project"`
	CostCenter string `json:"costCenter"`
	TaxCode    string `json:"taxCode"`
	TaxAmount  int64  `json:"taxAmount" binding:"min=0,max=1000000000000000"`
	Memo       string `json:"memo"`
}

// CreateJournalRequest defines the data needed to create a draft journal.
type CreateJournalRequest struct {
	Reference       string               `json:"reference" binding:"max=64"` // generated when empty
	JournalType     string               `json:"journalType" binding:"required,max=32"`
	TransactionDate string               `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	CurrencyCode    string               `json:"currencyCode" binding:"required,currency"`
	ExchangeRate    *decimal.Decimal     `json:"exchangeRate"` // defaults to 1
	Memo            string               `json:"memo"`
	Lines           []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateJournalRequest replaces the content of a draft journal.
type UpdateJournalRequest struct {
	Version int64 `json:"version" binding:"required,min=1"`
	CreateJournalRequest
}

// ParseDate parses a calendar date in DateLayout as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Status      string  `form:"status" binding:"omitempty,oneof=DRAFT PENDING_APPROVAL APPROVED POSTED REVERSED"`
	JournalType string  `form:"journalType"`
	Limit       int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken   *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID     string            `json:"lineID"`
	LineNo     int               `json:"lineNo"`
	AccountID  string            `json:"accountID"`
	Debit      int64             `json:"debit"`
	Credit     int64             `json:"credit"`
	Dimensions domain.Dimensions `json:"dimensions"`
	TaxCode    string            `json:"taxCode,omitempty"`
	TaxAmount  int64             `json:"taxAmount,omitempty"`
	Memo       string            `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID           string                `json:"journalID"`
	Reference           string                `json:"reference"`
	JournalType         string                `json:"journalType"`
	TransactionDate     string                `json:"transactionDate"`
	CurrencyCode        string                `json:"currencyCode"`
	ExchangeRate        string                `json:"exchangeRate"`
	Memo                string                `json:"memo"`
	Status              domain.JournalStatus  `json:"status"`
	Version             int64                 `json:"version"`
	ApprovalLogID       *string               `json:"approvalLogID,omitempty"`
	RejectionReason     *string               `json:"rejectionReason,omitempty"`
	ReversalOfJournalID *string               `json:"reversalOfJournalID,omitempty"`
	ReversedByJournalID *string               `json:"reversedByJournalID,omitempty"`
	PostedAt            *time.Time            `json:"postedAt,omitempty"`
	PostedBy            *string               `json:"postedBy,omitempty"`
	Lines               []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	CreatedBy           string                `json:"createdBy"`
	LastUpdatedAt       time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy       string                `json:"lastUpdatedBy"`
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	res := JournalResponse{
		JournalID:           j.JournalID,
		Reference:           j.Reference,
		JournalType:         j.JournalType,
		TransactionDate:     j.TransactionDate.Format(DateLayout),
		CurrencyCode:        j.CurrencyCode,
		ExchangeRate:        j.ExchangeRate.String(),
		Memo:                j.Memo,
		Status:              j.Status,
		Version:             j.Version,
		ApprovalLogID:       j.ApprovalLogID,
		RejectionReason:     j.RejectionReason,
		ReversalOfJournalID: j.ReversalOfJournalID,
		ReversedByJournalID: j.ReversedByJournalID,
		PostedAt:            j.PostedAt,
		PostedBy:            j.PostedBy,
		CreatedAt:           j.CreatedAt,
		CreatedBy:           j.CreatedBy,
		LastUpdatedAt:       j.LastUpdatedAt,
		LastUpdatedBy:       j.LastUpdatedBy,
	}
	for _, l := range j.Lines {
		res.Lines = append(res.Lines, JournalLineResponse{
			LineID:     l.LineID,
			LineNo:     l.LineNo,
			AccountID:  l.AccountID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Dimensions: l.Dimensions,
			TaxCode:    l.TaxCode,
			TaxAmount:  l.TaxAmount,
			Memo:       l.Memo,
		})
	}
	return res
}

// ListJournalsResponse is a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ApproveJournalRequest records an approval. StepIndex defaults to the step
// the approver can currently decide.
type ApproveJournalRequest struct {
	StepIndex *int   `json:"stepIndex" binding:"omitempty,min=0"`
	Comment   string `json:"comment"`
}

// RejectJournalRequest records a rejection.
type RejectJournalRequest struct {
	StepIndex *int   `json:"stepIndex" binding:"omitempty,min=0"`
	Reason    string `json:"reason" binding:"required"`
}

// ReverseJournalRequest requests a reversal of a posted journal.
type ReverseJournalRequest struct {
	Reason          string  `json:"reason" binding:"required"`
	TransactionDate *string `json:"transactionDate" binding:"omitempty,datetime=2006-01-02"` // defaults to the original date
}

// SubmitJournalResponse reports the result of a submission or decision.
type SubmitJournalResponse struct {
	Journal          JournalResponse      `json:"journal"`
	ApprovalRequired bool                 `json:"approvalRequired"`
	ApprovalLog      *ApprovalLogResponse `json:"approvalLog,omitempty"`
}
