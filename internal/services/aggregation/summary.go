package aggregation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
)

type UserSummary struct {
	UserID    uuid.UUID
	FirstName string
	Totals    UserTotals
	LastBet   *model.Bet
	BetCount  int
}

func (s *AggregationService) UserBetSummary(ctx context.Context, userID uuid.UUID) (*UserSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	list, err := s.bets.List(ctx, bets.Query{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list user bets: %w", err)
	}

	summary := &UserSummary{
		UserID:    user.ID,
		FirstName: user.FirstName,
		Totals:    userTotals(list),
		BetCount:  len(list),
	}
	if len(list) > 0 {
		last := list[0]
		last.User = user
		summary.LastBet = &last
	}

	return summary, nil
}
