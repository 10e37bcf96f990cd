package mapping

import (
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal. Lines are mapped separately.
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:           d.JournalID,
		OrganizationID:      d.OrganizationID,
		Reference:           d.Reference,
		JournalType:         d.JournalType,
		TransactionDate:     domain.DateOnly(d.TransactionDate),
		CurrencyCode:        d.CurrencyCode,
		ExchangeRate:        d.ExchangeRate,
		Memo:                d.Memo,
		Status:              string(d.Status),
		Version:             d.Version,
		ApprovalLogID:       d.ApprovalLogID,
		RejectionReason:     d.RejectionReason,
		ReversalOfJournalID: d.ReversalOfJournalID,
		ReversedByJournalID: d.ReversedByJournalID,
		PostedAt:            d.PostedAt,
		PostedBy:            d.PostedBy,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal and its lines to a domain Journal
func ToDomainJournal(m models.Journal, lines []models.JournalLine) domain.Journal {
	j := domain.Journal{
		JournalID:           m.JournalID,
		OrganizationID:      m.OrganizationID,
		Reference:           m.Reference,
		JournalType:         m.JournalType,
		TransactionDate:     domain.DateOnly(m.TransactionDate),
		CurrencyCode:        m.CurrencyCode,
		ExchangeRate:        m.ExchangeRate,
		Memo:                m.Memo,
		Status:              domain.JournalStatus(m.Status),
		Version:             m.Version,
		ApprovalLogID:       m.ApprovalLogID,
		RejectionReason:     m.RejectionReason,
		ReversalOfJournalID: m.ReversalOfJournalID,
		ReversedByJournalID: m.ReversedByJournalID,
		PostedAt:            m.PostedAt,
		PostedBy:            m.PostedBy,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	for _, l := range lines {
		j.Lines = append(j.Lines, ToDomainJournalLine(l))
	}
	return j
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		JournalID:      d.JournalID,
		OrganizationID: d.OrganizationID,
		LineNo:         d.LineNo,
		AccountID:      d.AccountID,
		Debit:          d.Debit,
		Credit:         d.Credit,
		Department:     d.Dimensions.Department,
		Project:        d.Dimensions.Project,
		CostCenter:     d.Dimensions.CostCenter,
		TaxCode:        d.TaxCode,
		TaxAmount:      d.TaxAmount,
		Memo:           d.Memo,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:         m.LineID,
		JournalID:      m.JournalID,
		OrganizationID: m.OrganizationID,
		LineNo:         m.LineNo,
		AccountID:      m.AccountID,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Dimensions:     domain.Dimensions{Department: m.Department, Project: m.Project, CostCenter: m.CostCenter},
		TaxCode:        m.TaxCode,
		TaxAmount:      m.TaxAmount,
		Memo:           m.Memo,
	}
}

// ToModelLedgerEntry converts a domain GeneralLedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.GeneralLedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:         d.EntryID,
		OrganizationID:  d.OrganizationID,
		JournalID:       d.JournalID,
		LineID:          d.LineID,
		AccountID:       d.AccountID,
		TransactionDate: domain.DateOnly(d.TransactionDate),
		CurrencyCode:    d.CurrencyCode,
		ExchangeRate:    d.ExchangeRate,
		Debit:           d.Debit,
		Credit:          d.Credit,
		BaseDebit:       d.BaseDebit,
		BaseCredit:      d.BaseCredit,
		RunningBalance:  d.RunningBalance,
		PostedAt:        d.PostedAt,
		PostedBy:        d.PostedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain GeneralLedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.GeneralLedgerEntry {
	return domain.GeneralLedgerEntry{
		EntryID:         m.EntryID,
		OrganizationID:  m.OrganizationID,
		JournalID:       m.JournalID,
		LineID:          m.LineID,
		AccountID:       m.AccountID,
		TransactionDate: domain.DateOnly(m.TransactionDate),
		CurrencyCode:    m.CurrencyCode,
		ExchangeRate:    m.ExchangeRate,
		Debit:           m.Debit,
		Credit:          m.Credit,
		BaseDebit:       m.BaseDebit,
		BaseCredit:      m.BaseCredit,
		RunningBalance:  m.RunningBalance,
		PostedAt:        m.PostedAt,
		PostedBy:        m.PostedBy,
	}
}
