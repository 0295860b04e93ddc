package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/settings"
)

type SettingsService struct {
	store settings.Settings
}

func New(store settings.Settings) *SettingsService {
	return &SettingsService{store: store}
}

func (s *SettingsService) Current(ctx context.Context) (*model.Setting, error) {
	cur, err := s.store.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current setting: %w", err)
	}

	return cur, nil
}

// Publish makes a new setting current. Bets already placed keep the values
// they were created with.
func (s *SettingsService) Publish(ctx context.Context, factor decimal.Decimal, timeOfBet time.Duration) (*model.Setting, error) {
	if !factor.IsPositive() {
		return nil, fmt.Errorf("%w: factor must be greater than zero", model.ErrValidation)
	}
	if timeOfBet < 0 {
		return nil, fmt.Errorf("%w: time_of_bet must not be negative", model.ErrValidation)
	}

	st := &model.Setting{Factor: factor, TimeOfBet: timeOfBet}

	err := s.store.Insert(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("insert setting: %w", err)
	}

	return st, nil
}
