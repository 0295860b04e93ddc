package publisher

import (
	"context"

	"github.com/fastprodman/betledger/pkg/contracts/events"
)

type NoopPublisher struct{}

func (NoopPublisher) PublishBet(context.Context, events.BetEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
