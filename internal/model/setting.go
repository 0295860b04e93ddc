package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting is the system wide configuration snapshotted into every new bet.
type Setting struct {
	ID        int64
	Factor    decimal.Decimal
	TimeOfBet time.Duration
	CreatedAt time.Time
}
