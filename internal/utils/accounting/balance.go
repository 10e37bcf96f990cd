package accounting

import (
	"math"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
)

// MaxLineAmount bounds a single debit or credit, in minor units.
const MaxLineAmount domain.Amount = 1_000_000_000_000_000

// ValidateBalance checks that every line carries exactly one positive side and
// that total debits equal total credits. Amounts are compared as exact integers.
func ValidateBalance(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return apperrors.ErrEmptyJournal
	}

	var debitTotal, creditTotal int64
	for i, line := range lines {
		switch {
		case line.Debit < 0 || line.Credit < 0:
			return &apperrors.InvalidLineError{Index: i, Reason: "amounts must not be negative"}
		case line.Debit != 0 && line.Credit != 0:
			return &apperrors.InvalidLineError{Index: i, Reason: "line has both a debit and a credit"}
		case line.Debit == 0 && line.Credit == 0:
			return &apperrors.InvalidLineError{Index: i, Reason: "line has neither a debit nor a credit"}
		}
		if line.AccountID == "" {
			return &apperrors.InvalidLineError{Index: i, Reason: "account is required"}
		}
		if line.Debit > MaxLineAmount || line.Credit > MaxLineAmount {
			return &apperrors.InvalidLineError{Index: i, Reason: "amount exceeds the maximum line amount"}
		}
		if line.Debit > math.MaxInt64-debitTotal || line.Credit > math.MaxInt64-creditTotal {
			return &apperrors.InvalidLineError{Index: i, Reason: "journal total exceeds the supported range"}
		}
		debitTotal += line.Debit
		creditTotal += line.Credit
	}

	if debitTotal != creditTotal {
		return &apperrors.UnbalancedError{DebitTotal: debitTotal, CreditTotal: creditTotal}
	}
	return nil
}

// JournalAmount is the journal's total debit, used for thresholds and step conditions.
func JournalAmount(lines []domain.JournalLine) domain.Amount {
	var total domain.Amount
	for _, line := range lines {
		total += line.Debit
	}
	return total
}
