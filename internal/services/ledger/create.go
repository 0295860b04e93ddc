package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/pkg/contracts/events"
)

// CreateBet places a new in-progress bet for userID, priced with the current
// setting. The bet row and the user's bet reference are written atomically.
func (s *LedgerService) CreateBet(ctx context.Context, userID uuid.UUID, stake model.Stake) (*model.Bet, error) {
	if stake.BetAmount == nil {
		return nil, fmt.Errorf("%w: bet_amount is required", model.ErrValidation)
	}
	if !stake.BetAmount.IsPositive() {
		return nil, fmt.Errorf("%w: bet_amount must be greater than zero", model.ErrValidation)
	}

	setting, err := s.settings.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current setting: %w", err)
	}

	amounts := Split(*stake.BetAmount, setting.Factor)

	bet := &model.Bet{
		ID:               uuid.New(),
		UserID:           userID,
		BetAmount:        *stake.BetAmount,
		Factor:           setting.Factor,
		BalanceAmount:    amounts.Balance,
		AvailableAmount:  amounts.Available,
		RetainedAmount:   amounts.Retained,
		ActiveDuration:   setting.TimeOfBet,
		PaymentReference: s.newRef(),
		Status:           model.BetInProgress,
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		err := s.bets.Create(ctx, bet)
		if err != nil {
			return fmt.Errorf("insert bet: %w", err)
		}

		err = s.users.AppendBetReference(ctx, userID, bet.ID)
		if err != nil {
			return fmt.Errorf("link bet to user: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			s.rec.BetConflict()
		}

		return nil, fmt.Errorf("create bet: %w", err)
	}

	created, err := s.bets.FindByID(ctx, bet.ID, true)
	if err != nil {
		return nil, fmt.Errorf("reload created bet: %w", err)
	}

	s.rec.BetCreated()
	s.publish(ctx, events.TypeBetCreated, created)

	return created, nil
}
