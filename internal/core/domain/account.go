package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// EntrySide is the debit or credit side of a ledger entry.
type EntrySide string

const (
	DebitSide  EntrySide = "DEBIT"
	CreditSide EntrySide = "CREDIT"
)

// DefaultNormalSide returns the side on which an account of type t increases.
func DefaultNormalSide(t AccountType) EntrySide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// Account represents a ledger account in the chart of accounts.
type Account struct {
	AccountID      string      `json:"accountID"`
	OrganizationID string      `json:"organizationID"`
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	NormalSide     EntrySide   `json:"normalSide"`
	CurrencyCode   string      `json:"currencyCode"`
	IsActive       bool        `json:"isActive"`
	Balance        Amount      `json:"balance"` // base currency, signed by NormalSide
	AuditFields
}

// SignedDelta returns the balance change caused by posting debit and credit to the account.
func (a Account) SignedDelta(debit, credit Amount) Amount {
	if a.NormalSide == CreditSide {
		return credit - debit
	}
	return debit - credit
}
