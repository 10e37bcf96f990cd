// Package events publishes ledger events consumed outside the engine, such as
// the inventory posting hook.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// JournalPostedChannel is the Redis channel and default Kafka topic for posted journals.
const JournalPostedChannel = "ledger.journal.posted"

// JournalPostedLine is a posted line as seen by downstream consumers.
type JournalPostedLine struct {
	LineNo     int               `json:"line_no"`
	AccountID  string            `json:"account_id"`
	Debit      int64             `json:"debit"`
	Credit     int64             `json:"credit"`
	Dimensions domain.Dimensions `json:"dimensions"`
	TaxCode    string            `json:"tax_code,omitempty"`
	TaxAmount  int64             `json:"tax_amount,omitempty"`
}

// JournalPostedEvent is emitted once a journal reaches the ledger.
type JournalPostedEvent struct {
	EventType           string              `json:"event_type"`
	JournalID           string              `json:"journal_id"`
	OrganizationID      string              `json:"organization_id"`
	Reference           string              `json:"reference"`
	JournalType         string              `json:"journal_type"`
	CurrencyCode        string              `json:"currency_code"`
	TransactionDate     string              `json:"transaction_date"`
	ReversalOfJournalID *string             `json:"reversal_of_journal_id,omitempty"`
	Lines               []JournalPostedLine `json:"lines"`
	PostedAt            time.Time           `json:"posted_at"`
}

// NewJournalPostedEvent builds the event for a posted journal.
func NewJournalPostedEvent(j domain.Journal) JournalPostedEvent {
	ev := JournalPostedEvent{
		EventType:           "journal.posted",
		JournalID:           j.JournalID,
		OrganizationID:      j.OrganizationID,
		Reference:           j.Reference,
		JournalType:         j.JournalType,
		CurrencyCode:        j.CurrencyCode,
		TransactionDate:     j.TransactionDate.Format("2006-01-02"),
		ReversalOfJournalID: j.ReversalOfJournalID,
		Lines:               make([]JournalPostedLine, 0, len(j.Lines)),
	}
	if j.PostedAt != nil {
		ev.PostedAt = *j.PostedAt
	}
	for _, l := range j.Lines {
		ev.Lines = append(ev.Lines, JournalPostedLine{
			LineNo:     l.LineNo,
			AccountID:  l.AccountID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Dimensions: l.Dimensions,
			TaxCode:    l.TaxCode,
			TaxAmount:  l.TaxAmount,
		})
	}
	return ev
}

func (e JournalPostedEvent) payload() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers ledger events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishJournalPosted(ctx context.Context, event JournalPostedEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishJournalPosted(context.Context, JournalPostedEvent) error { return nil }
func (NopPublisher) Close() error                                                 { return nil }
