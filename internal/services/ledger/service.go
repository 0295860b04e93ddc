package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/infra/publisher"
	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
	"github.com/fastprodman/betledger/internal/repos/settings"
	"github.com/fastprodman/betledger/internal/repos/users"
)

// Recorder counts ledger outcomes.
type Recorder interface {
	BetCreated()
	BetConflict()
}

type noopRecorder struct{}

func (noopRecorder) BetCreated()  {}
func (noopRecorder) BetConflict() {}

type LedgerService struct {
	tx       pgutils.Transactor
	bets     bets.Bets
	users    users.Users
	settings settings.Settings
	events   publisher.Publisher
	rec      Recorder
	newRef   func() string
}

type Option func(*LedgerService)

func WithPublisher(p publisher.Publisher) Option {
	return func(s *LedgerService) { s.events = p }
}

func WithRecorder(r Recorder) Option {
	return func(s *LedgerService) { s.rec = r }
}

// WithPaymentReference replaces the payment reference source.
func WithPaymentReference(fn func() string) Option {
	return func(s *LedgerService) { s.newRef = fn }
}

func New(tx pgutils.Transactor, b bets.Bets, u users.Users, st settings.Settings, opts ...Option) *LedgerService {
	s := &LedgerService{
		tx:       tx,
		bets:     b,
		users:    u,
		settings: st,
		events:   publisher.NoopPublisher{},
		rec:      noopRecorder{},
		newRef:   func() string { return "PAY-" + uuid.NewString() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// publish never fails the operation that produced the event.
func (s *LedgerService) publish(ctx context.Context, typ string, b *model.Bet) {
	err := s.events.PublishBet(ctx, publisher.BetEvent(typ, b))
	if err != nil {
		slog.WarnContext(ctx, "publish bet event failed", "type", typ, "bet_id", b.ID, "err", err)
	}
}
