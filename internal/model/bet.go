package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BetStatus string

const (
	BetInProgress BetStatus = "IN_PROGRESS"
	BetCompleted  BetStatus = "COMPLETED"
	BetCancelled  BetStatus = "CANCELLED"
)

// Bet is a single staked wager with its derived sub-balances.
// UserID is uuid.Nil only for records created through an upsert without owner.
type Bet struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	User             *User // resolved relation, nil when not requested
	BetAmount        decimal.Decimal
	Factor           decimal.Decimal
	BalanceAmount    decimal.Decimal
	AvailableAmount  decimal.Decimal
	RetainedAmount   decimal.Decimal
	ActiveDuration   time.Duration
	PaymentReference string
	Status           BetStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BetPatch is a partial replacement of bet fields. Nil fields are left untouched.
type BetPatch struct {
	UserID           *uuid.UUID
	BetAmount        *decimal.Decimal
	Factor           *decimal.Decimal
	BalanceAmount    *decimal.Decimal
	AvailableAmount  *decimal.Decimal
	RetainedAmount   *decimal.Decimal
	ActiveDuration   *time.Duration
	PaymentReference *string
	Status           *BetStatus
}

func (p BetPatch) Empty() bool {
	return p.UserID == nil && p.BetAmount == nil && p.Factor == nil &&
		p.BalanceAmount == nil && p.AvailableAmount == nil && p.RetainedAmount == nil &&
		p.ActiveDuration == nil && p.PaymentReference == nil && p.Status == nil
}

// Stake is the caller supplied part of a new bet.
type Stake struct {
	BetAmount *decimal.Decimal
}
