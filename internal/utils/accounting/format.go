package accounting

import (
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// minorUnitExponents lists currencies whose minor unit is not 1/100.
var minorUnitExponents = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"CLP": 0,
	"ISK": 0,
	"BHD": 3,
	"JOD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
}

// CurrencyPrecision returns the number of decimal places of currency's minor unit.
func CurrencyPrecision(currency string) int32 {
	if p, ok := minorUnitExponents[currency]; ok {
		return p
	}
	return 2
}

// FormatAmount renders an amount of minor units in major units with the
// currency's precision, e.g. 12345 USD is "123.45 USD" and 500 JPY is "500 JPY".
func FormatAmount(amount domain.Amount, currency string) string {
	p := CurrencyPrecision(currency)
	return decimal.New(int64(amount), -p).StringFixed(p) + " " + currency
}
