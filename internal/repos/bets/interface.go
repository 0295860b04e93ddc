package bets

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
)

type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// Query selects bets. Zero values mean "no constraint"; Limit 0 returns every row.
type Query struct {
	UserID   uuid.UUID
	Status   model.BetStatus
	Offset   uint64
	Limit    uint64
	Order    Order
	WithUser bool
}

type Bets interface {
	Create(ctx context.Context, bet *model.Bet) error
	FindByID(ctx context.Context, id uuid.UUID, withUser bool) (*model.Bet, error)
	FindInProgress(ctx context.Context, userID uuid.UUID) (*model.Bet, error)
	ExistsInProgress(ctx context.Context, userID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, id uuid.UUID, patch model.BetPatch) (*model.Bet, error)
	List(ctx context.Context, q Query) ([]model.Bet, error)
	Count(ctx context.Context) (int, error)
}
