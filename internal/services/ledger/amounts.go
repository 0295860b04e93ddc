package ledger

import "github.com/shopspring/decimal"

var (
	availableShare = decimal.RequireFromString("0.75")
	retainedShare  = decimal.RequireFromString("0.25")
)

type Amounts struct {
	Balance   decimal.Decimal
	Available decimal.Decimal
	Retained  decimal.Decimal
}

// Split derives the bet balances: balance = stake * factor, of which 75% is
// available and 25% retained.
func Split(stake, factor decimal.Decimal) Amounts {
	balance := stake.Mul(factor)

	return Amounts{
		Balance:   balance,
		Available: balance.Mul(availableShare),
		Retained:  balance.Mul(retainedShare),
	}
}
