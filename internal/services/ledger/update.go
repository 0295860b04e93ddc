package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/pkg/contracts/events"
)

// UpdateBet overwrites the fields set in patch, creating the bet when betID is
// unknown. Values are not validated.
func (s *LedgerService) UpdateBet(ctx context.Context, betID uuid.UUID, patch model.BetPatch) (*model.Bet, error) {
	bet, err := s.bets.Upsert(ctx, betID, patch)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			s.rec.BetConflict()
		}

		return nil, fmt.Errorf("update bet: %w", err)
	}

	s.publish(ctx, events.TypeBetUpdated, bet)

	return bet, nil
}
