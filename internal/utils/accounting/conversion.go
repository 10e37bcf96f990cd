package accounting

import (
	"fmt"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BaseAmounts holds a line's amounts converted to the base currency.
type BaseAmounts struct {
	Debit  domain.Amount
	Credit domain.Amount
}

// ConvertToBase converts every line to the base currency using rate, rounding
// half to even. When rounding leaves the converted totals unequal, the
// difference is added to the largest line of the smaller side so the base
// amounts still balance.
func ConvertToBase(lines []domain.JournalLine, rate decimal.Decimal) ([]BaseAmounts, error) {
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive, got %s", apperrors.ErrValidation, rate.String())
	}

	out := make([]BaseAmounts, len(lines))
	if rate.Equal(decimal.NewFromInt(1)) {
		for i, l := range lines {
			out[i] = BaseAmounts{Debit: l.Debit, Credit: l.Credit}
		}
		return out, nil
	}

	var debitTotal, creditTotal int64
	for i, l := range lines {
		out[i] = BaseAmounts{Debit: convert(l.Debit, rate), Credit: convert(l.Credit, rate)}
		debitTotal += out[i].Debit
		creditTotal += out[i].Credit
	}

	if residue := debitTotal - creditTotal; residue != 0 {
		debitShort := residue < 0
		idx := largestLine(out, debitShort)
		if idx < 0 {
			return nil, &apperrors.UnbalancedError{DebitTotal: debitTotal, CreditTotal: creditTotal}
		}
		if debitShort {
			out[idx].Debit -= residue
		} else {
			out[idx].Credit += residue
		}
	}
	return out, nil
}

func convert(amount domain.Amount, rate decimal.Decimal) domain.Amount {
	if amount == 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(rate).RoundBank(0).IntPart()
}

// largestLine returns the index of the largest debit (or credit) line; ties go to the first.
func largestLine(amounts []BaseAmounts, debit bool) int {
	idx := -1
	var best domain.Amount
	for i, a := range amounts {
		v := a.Credit
		if debit {
			v = a.Debit
		}
		if v > best {
			best, idx = v, i
		}
	}
	return idx
}

// BalanceDelta is the signed change a line makes to an account balance, in the
// account's normal-side convention: debits increase ASSET and EXPENSE accounts,
// credits increase LIABILITY, EQUITY and INCOME accounts.
func BalanceDelta(account domain.Account, base BaseAmounts) (domain.Amount, error) {
	if account.NormalSide != domain.DebitSide && account.NormalSide != domain.CreditSide {
		return 0, fmt.Errorf("unknown normal side %q for account %s", account.NormalSide, account.AccountID)
	}
	return account.SignedDelta(base.Debit, base.Credit), nil
}
