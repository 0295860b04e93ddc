package bets

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/infra/pgtestutil"
	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
)

func newBet(userID uuid.UUID, stake string) *model.Bet {
	amount := decimal.RequireFromString(stake)
	balance := amount.Mul(decimal.NewFromInt(2))

	return &model.Bet{
		ID:               uuid.New(),
		UserID:           userID,
		BetAmount:        amount,
		Factor:           decimal.NewFromInt(2),
		BalanceAmount:    balance,
		AvailableAmount:  balance.Mul(decimal.RequireFromString("0.75")),
		RetainedAmount:   balance.Mul(decimal.RequireFromString("0.25")),
		ActiveDuration:   24 * time.Hour,
		PaymentReference: "PAY-test",
		Status:           model.BetInProgress,
	}
}

func TestCreateAndFind(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := pgtestutil.SeedUser(t, db, "Alice")

	in := newBet(userID, "100")
	err := repo.Create(t.Context(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if in.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not filled")
	}

	got, err := repo.FindByID(t.Context(), in.ID, true)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.BalanceAmount.Equal(decimal.NewFromInt(200)) ||
		!got.AvailableAmount.Equal(decimal.NewFromInt(150)) ||
		!got.RetainedAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("amounts mismatch: %+v", got)
	}
	if got.ActiveDuration != 24*time.Hour || got.Status != model.BetInProgress {
		t.Fatalf("fields mismatch: %+v", got)
	}
	if got.User == nil || got.User.FirstName != "Alice" {
		t.Fatalf("owner not resolved: %+v", got.User)
	}

	plain, err := repo.FindByID(t.Context(), in.ID, false)
	if err != nil {
		t.Fatalf("FindByID without user: %v", err)
	}
	if plain.User != nil {
		t.Fatal("owner resolved when not requested")
	}

	_, err = repo.FindByID(t.Context(), uuid.New(), false)
	if !errors.Is(err, model.ErrBetNotFound) {
		t.Fatalf("want ErrBetNotFound, got %v", err)
	}
}

func TestCreateRejectsSecondInProgress(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := pgtestutil.SeedUser(t, db, "Bob")

	err := repo.Create(t.Context(), newBet(userID, "10"))
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err = repo.Create(t.Context(), newBet(userID, "20"))
	if !errors.Is(err, model.ErrBetInProgress) {
		t.Fatalf("want ErrBetInProgress, got %v", err)
	}

	done := newBet(userID, "30")
	done.Status = model.BetCompleted
	err = repo.Create(t.Context(), done)
	if err != nil {
		t.Fatalf("completed bet must not conflict: %v", err)
	}

	err = repo.Create(t.Context(), newBet(uuid.New(), "5"))
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("unknown user: want ErrUserNotFound, got %v", err)
	}
}

func TestInProgressLookups(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := pgtestutil.SeedUser(t, db, "Carol")

	exists, err := repo.ExistsInProgress(t.Context(), userID)
	if err != nil || exists {
		t.Fatalf("ExistsInProgress on empty: %v %v", exists, err)
	}
	_, err = repo.FindInProgress(t.Context(), userID)
	if !errors.Is(err, model.ErrNoInProgressBet) {
		t.Fatalf("want ErrNoInProgressBet, got %v", err)
	}

	now := time.Now().UTC()
	pgtestutil.SeedBet(t, db, userID, "10", string(model.BetCompleted), now.Add(-time.Hour))
	id := pgtestutil.SeedBet(t, db, userID, "40", string(model.BetInProgress), now)

	exists, err = repo.ExistsInProgress(t.Context(), userID)
	if err != nil || !exists {
		t.Fatalf("ExistsInProgress: %v %v", exists, err)
	}

	bet, err := repo.FindInProgress(t.Context(), userID)
	if err != nil {
		t.Fatalf("FindInProgress: %v", err)
	}
	if bet.ID != id || bet.User == nil || bet.User.ID != userID {
		t.Fatalf("unexpected bet: %+v", bet)
	}
}

func TestUpsert(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := pgtestutil.SeedUser(t, db, "Dave")
	id := pgtestutil.SeedBet(t, db, userID, "100", string(model.BetInProgress), time.Now().UTC())

	status := model.BetCompleted
	got, err := repo.Upsert(t.Context(), id, model.BetPatch{Status: &status})
	if err != nil {
		t.Fatalf("Upsert existing: %v", err)
	}
	if got.Status != model.BetCompleted || !got.BetAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("patch must only touch status: %+v", got)
	}

	got, err = repo.Upsert(t.Context(), id, model.BetPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if got.Status != model.BetCompleted {
		t.Fatalf("empty patch changed the bet: %+v", got)
	}

	newID := uuid.New()
	amount := decimal.RequireFromString("7.5")
	got, err = repo.Upsert(t.Context(), newID, model.BetPatch{BetAmount: &amount})
	if err != nil {
		t.Fatalf("Upsert missing: %v", err)
	}
	if got.ID != newID || !got.BetAmount.Equal(amount) || got.UserID != uuid.Nil {
		t.Fatalf("inserted bet mismatch: %+v", got)
	}

	// a second in-progress bet for the same user
	otherID := pgtestutil.SeedBet(t, db, userID, "1", string(model.BetCancelled), time.Now().UTC())
	pgtestutil.SeedBet(t, db, userID, "2", string(model.BetInProgress), time.Now().UTC())
	inProgress := model.BetInProgress
	_, err = repo.Upsert(t.Context(), otherID, model.BetPatch{Status: &inProgress})
	if !errors.Is(err, model.ErrBetInProgress) {
		t.Fatalf("want ErrBetInProgress, got %v", err)
	}
}

func TestListAndCount(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	alice := pgtestutil.SeedUser(t, db, "Alice")
	bob := pgtestutil.SeedUser(t, db, "Bob")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b1 := pgtestutil.SeedBet(t, db, alice, "10", string(model.BetCompleted), base)
	b2 := pgtestutil.SeedBet(t, db, bob, "20", string(model.BetInProgress), base.Add(time.Minute))
	b3 := pgtestutil.SeedBet(t, db, alice, "30", string(model.BetInProgress), base.Add(2*time.Minute))

	n, err := repo.Count(t.Context())
	if err != nil || n != 3 {
		t.Fatalf("Count: %d %v", n, err)
	}

	tests := []struct {
		name string
		q    bets.Query
		want []uuid.UUID
	}{
		{name: "all_newest_first", q: bets.Query{}, want: []uuid.UUID{b3, b2, b1}},
		{name: "oldest_first", q: bets.Query{Order: bets.OldestFirst}, want: []uuid.UUID{b1, b2, b3}},
		{name: "in_progress", q: bets.Query{Status: model.BetInProgress}, want: []uuid.UUID{b3, b2}},
		{name: "by_user", q: bets.Query{UserID: alice}, want: []uuid.UUID{b3, b1}},
		{name: "page_two", q: bets.Query{Offset: 1, Limit: 1, WithUser: true}, want: []uuid.UUID{b2}},
		{name: "past_end", q: bets.Query{Offset: 10, Limit: 5}, want: []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(t.Context(), tt.q)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len: want %d, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i].ID != tt.want[i] {
					t.Fatalf("pos %d: want %s, got %s", i, tt.want[i], got[i].ID)
				}
				if tt.q.WithUser && (got[i].User == nil || got[i].User.FirstName != "Bob") {
					t.Fatalf("owner not resolved: %+v", got[i].User)
				}
			}
		})
	}
}
