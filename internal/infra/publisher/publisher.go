package publisher

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/pkg/contracts/events"
)

type Publisher interface {
	PublishBet(ctx context.Context, e events.BetEvent) error
	Close() error
}

// BetEvent builds the event for b. ts is filled by the publisher.
func BetEvent(typ string, b *model.Bet) events.BetEvent {
	e := events.BetEvent{
		Type:          typ,
		BetID:         b.ID.String(),
		Status:        string(b.Status),
		BetAmount:     b.BetAmount.String(),
		BalanceAmount: b.BalanceAmount.String(),
		Factor:        b.Factor.String(),
	}
	if b.UserID != uuid.Nil {
		e.UserID = b.UserID.String()
	}

	return e
}
