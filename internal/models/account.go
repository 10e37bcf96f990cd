package models

// Account is a row of the accounts table.
type Account struct {
	AccountID      string `db:"account_id"`
	OrganizationID string `db:"organization_id"`
	Code           string `db:"code"`
	Name           string `db:"name"`
	AccountType    string `db:"account_type"`
	NormalSide     string `db:"normal_side"`
	CurrencyCode   string `db:"currency_code"`
	IsActive       bool   `db:"is_active"`
	Balance        int64  `db:"balance"` // minor units of the base currency
	AuditFields
}
