// Package memstore is an in-memory implementation of the bets, users and
// settings stores with the same error contract as the postgres ones.
// Service and transport tests run on it.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
	"github.com/fastprodman/betledger/internal/repos/settings"
	"github.com/fastprodman/betledger/internal/repos/users"
)

var (
	_ bets.Bets         = (*betStore)(nil)
	_ users.Users       = (*userStore)(nil)
	_ settings.Settings = (*settingStore)(nil)
)

type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]model.User
	links    map[uuid.UUID][]uuid.UUID
	bets     map[uuid.UUID]model.Bet
	settings []model.Setting
	clock    time.Time
}

func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]model.User),
		links: make(map[uuid.UUID][]uuid.UUID),
		bets:  make(map[uuid.UUID]model.Bet),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *Store) Bets() bets.Bets             { return &betStore{s} }
func (s *Store) Users() users.Users          { return &userStore{s} }
func (s *Store) Settings() settings.Settings { return &settingStore{s} }

// Tx runs fn directly; the store has no rollback.
type Tx struct{}

func (Tx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// tick returns a strictly increasing timestamp. Callers hold mu.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *Store) AddUser(firstName string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.users[id] = model.User{ID: id, FirstName: firstName, CreatedAt: s.tick()}
	return id
}

// AddBet stores b as is, stamping its timestamps.
func (s *Store) AddBet(b model.Bet) model.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = s.tick()
	b.UpdatedAt = b.CreatedAt
	s.bets[b.ID] = b
	return b
}

type betStore struct{ s *Store }

func (r *betStore) withUser(b model.Bet) model.Bet {
	if u, ok := r.s.users[b.UserID]; ok {
		b.User = &u
	}
	return b
}

func (r *betStore) inProgressOther(userID, except uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	for _, b := range r.s.bets {
		if b.ID != except && b.UserID == userID && b.Status == model.BetInProgress {
			return true
		}
	}
	return false
}

func (r *betStore) Create(_ context.Context, bet *model.Bet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if bet.UserID != uuid.Nil {
		if _, ok := r.s.users[bet.UserID]; !ok {
			return model.ErrUserNotFound
		}
	}
	if bet.Status == model.BetInProgress && r.inProgressOther(bet.UserID, bet.ID) {
		return model.ErrBetInProgress
	}

	bet.CreatedAt = r.s.tick()
	bet.UpdatedAt = bet.CreatedAt
	cp := *bet
	cp.User = nil
	r.s.bets[bet.ID] = cp
	return nil
}

func (r *betStore) FindByID(_ context.Context, id uuid.UUID, withUser bool) (*model.Bet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bets[id]
	if !ok {
		return nil, model.ErrBetNotFound
	}
	if withUser {
		b = r.withUser(b)
	}
	return &b, nil
}

func (r *betStore) FindInProgress(ctx context.Context, userID uuid.UUID) (*model.Bet, error) {
	list, err := r.List(ctx, bets.Query{UserID: userID, Status: model.BetInProgress, Limit: 1, WithUser: true})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, model.ErrNoInProgressBet
	}
	return &list[0], nil
}

func (r *betStore) ExistsInProgress(_ context.Context, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.inProgressOther(userID, uuid.Nil), nil
}

func (r *betStore) Upsert(_ context.Context, id uuid.UUID, p model.BetPatch) (*model.Bet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bets[id]
	if !ok {
		b = model.Bet{ID: id, Status: model.BetInProgress, CreatedAt: r.s.tick()}
		b.UpdatedAt = b.CreatedAt
	}

	if p.UserID != nil {
		if _, known := r.s.users[*p.UserID]; *p.UserID != uuid.Nil && !known {
			return nil, model.ErrUserNotFound
		}
		b.UserID = *p.UserID
	}
	if p.BetAmount != nil {
		b.BetAmount = *p.BetAmount
	}
	if p.Factor != nil {
		b.Factor = *p.Factor
	}
	if p.BalanceAmount != nil {
		b.BalanceAmount = *p.BalanceAmount
	}
	if p.AvailableAmount != nil {
		b.AvailableAmount = *p.AvailableAmount
	}
	if p.RetainedAmount != nil {
		b.RetainedAmount = *p.RetainedAmount
	}
	if p.ActiveDuration != nil {
		b.ActiveDuration = *p.ActiveDuration
	}
	if p.PaymentReference != nil {
		b.PaymentReference = *p.PaymentReference
	}
	if p.Status != nil {
		b.Status = *p.Status
	}

	if b.Status == model.BetInProgress && r.inProgressOther(b.UserID, b.ID) {
		return nil, model.ErrBetInProgress
	}
	if !p.Empty() {
		b.UpdatedAt = r.s.tick()
	}

	r.s.bets[id] = b
	return &b, nil
}

func (r *betStore) List(_ context.Context, q bets.Query) ([]model.Bet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Bet, 0, len(r.s.bets))
	for _, b := range r.s.bets {
		if q.UserID != uuid.Nil && b.UserID != q.UserID {
			continue
		}
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		if q.WithUser {
			b = r.withUser(b)
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		if q.Order == bets.OldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if q.Offset >= uint64(len(out)) {
		return []model.Bet{}, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && q.Limit < uint64(len(out)) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *betStore) Count(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return len(r.s.bets), nil
}

type userStore struct{ s *Store }

func (r *userStore) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (r *userStore) AppendBetReference(_ context.Context, userID, betID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return model.ErrUserNotFound
	}
	for _, id := range r.s.links[userID] {
		if id == betID {
			return nil
		}
	}
	r.s.links[userID] = append(r.s.links[userID], betID)
	return nil
}

func (r *userStore) BetIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return append([]uuid.UUID{}, r.s.links[userID]...), nil
}

type settingStore struct{ s *Store }

func (r *settingStore) Current(context.Context) (*model.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if len(r.s.settings) == 0 {
		return nil, model.ErrNoCurrentSetting
	}
	cur := r.s.settings[len(r.s.settings)-1]
	return &cur, nil
}

func (r *settingStore) Insert(_ context.Context, st *model.Setting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st.ID = int64(len(r.s.settings) + 1)
	st.CreatedAt = r.s.tick()
	r.s.settings = append(r.s.settings, *st)
	return nil
}
