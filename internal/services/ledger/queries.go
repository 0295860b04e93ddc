package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
)

// Ack is the positive answer of CheckExistingBet. The transport picks the
// status code that goes with it.
type Ack struct {
	Msg string
}

// CheckExistingBet fails with model.ErrBetInProgress when the user already has
// an in-progress bet. The answer may be stale by the time CreateBet runs;
// the store rejects the second bet regardless.
func (s *LedgerService) CheckExistingBet(ctx context.Context, userID uuid.UUID) (Ack, error) {
	exists, err := s.bets.ExistsInProgress(ctx, userID)
	if err != nil {
		return Ack{}, fmt.Errorf("check existing bet: %w", err)
	}

	if exists {
		return Ack{}, model.ErrBetInProgress
	}

	return Ack{Msg: "done"}, nil
}

func (s *LedgerService) FindCurrentBet(ctx context.Context, userID uuid.UUID) (*model.Bet, error) {
	bet, err := s.bets.FindInProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find current bet: %w", err)
	}

	return bet, nil
}

// ListUserBets returns every bet of the user, newest first, owner resolved.
func (s *LedgerService) ListUserBets(ctx context.Context, userID uuid.UUID) ([]model.Bet, error) {
	_, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	list, err := s.bets.List(ctx, bets.Query{UserID: userID, WithUser: true})
	if err != nil {
		return nil, fmt.Errorf("list user bets: %w", err)
	}

	return list, nil
}
