package aggregation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
)

type Totals struct {
	Available decimal.Decimal
	Retained  decimal.Decimal
	Balance   decimal.Decimal
	Bet       decimal.Decimal
}

type GlobalTotals struct {
	Totals
	// LastBetAmount is the stake of the most recently created bet.
	LastBetAmount decimal.Decimal
}

type UserTotals struct {
	Totals
	Gains decimal.Decimal
}

func sum(list []model.Bet) Totals {
	var t Totals
	for _, b := range list {
		t.Available = t.Available.Add(b.AvailableAmount)
		t.Retained = t.Retained.Add(b.RetainedAmount)
		t.Balance = t.Balance.Add(b.BalanceAmount)
		t.Bet = t.Bet.Add(b.BetAmount)
	}

	return t
}

func userTotals(list []model.Bet) UserTotals {
	t := sum(list)
	return UserTotals{Totals: t, Gains: t.Available.Sub(t.Bet)}
}

// TotalsAcrossAllBets sums every bet. It fails with model.ErrNoBets when no bet exists.
func (s *AggregationService) TotalsAcrossAllBets(ctx context.Context) (*GlobalTotals, error) {
	list, err := s.bets.List(ctx, bets.Query{})
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}

	if len(list) == 0 {
		return nil, model.ErrNoBets
	}

	return &GlobalTotals{Totals: sum(list), LastBetAmount: list[0].BetAmount}, nil
}

// TotalsForUser sums the user's bets. A user without bets gets all zeros.
func (s *AggregationService) TotalsForUser(ctx context.Context, userID uuid.UUID) (*UserTotals, error) {
	list, err := s.bets.List(ctx, bets.Query{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list user bets: %w", err)
	}

	t := userTotals(list)
	return &t, nil
}
