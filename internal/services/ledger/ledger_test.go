package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/memstore"
	"github.com/fastprodman/betledger/pkg/contracts/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BetEvent
	err    error
}

func (p *recordingPublisher) PublishBet(_ context.Context, e events.BetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type countingRecorder struct {
	created, conflicts int
}

func (r *countingRecorder) BetCreated()  { r.created++ }
func (r *countingRecorder) BetConflict() { r.conflicts++ }

type fixture struct {
	store *memstore.Store
	svc   *LedgerService
	pub   *recordingPublisher
	rec   *countingRecorder
	user  uuid.UUID
}

func newFixture(t *testing.T, factor string) *fixture {
	t.Helper()

	store := memstore.New()
	if factor != "" {
		err := store.Settings().Insert(t.Context(), &model.Setting{
			Factor:    decimal.RequireFromString(factor),
			TimeOfBet: 24 * time.Hour,
		})
		if err != nil {
			t.Fatalf("seed setting: %v", err)
		}
	}

	f := &fixture{
		store: store,
		pub:   &recordingPublisher{},
		rec:   &countingRecorder{},
		user:  store.AddUser("Alice"),
	}
	f.svc = New(memstore.Tx{}, store.Bets(), store.Users(), store.Settings(),
		WithPublisher(f.pub),
		WithRecorder(f.rec),
		WithPaymentReference(func() string { return "PAY-fixed" }),
	)

	return f
}

func stake(v string) model.Stake {
	d := decimal.RequireFromString(v)
	return model.Stake{BetAmount: &d}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stake, factor                 string
		balance, available, retained string
	}{
		{"100", "2", "200", "150", "50"},
		{"10", "1.5", "15", "11.25", "3.75"},
		{"0.01", "3", "0.03", "0.0225", "0.0075"},
	}

	for _, tt := range tests {
		t.Run(tt.stake+"x"+tt.factor, func(t *testing.T) {
			t.Parallel()

			a := Split(decimal.RequireFromString(tt.stake), decimal.RequireFromString(tt.factor))
			if !a.Balance.Equal(decimal.RequireFromString(tt.balance)) ||
				!a.Available.Equal(decimal.RequireFromString(tt.available)) ||
				!a.Retained.Equal(decimal.RequireFromString(tt.retained)) {
				t.Fatalf("got %+v", a)
			}
			if !a.Available.Add(a.Retained).Equal(a.Balance) {
				t.Fatalf("available + retained != balance: %+v", a)
			}
		})
	}
}

func TestCreateBet(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	bet, err := f.svc.CreateBet(t.Context(), f.user, stake("100"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}

	if !bet.BalanceAmount.Equal(decimal.NewFromInt(200)) ||
		!bet.AvailableAmount.Equal(decimal.NewFromInt(150)) ||
		!bet.RetainedAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("amounts: %+v", bet)
	}
	if !bet.Factor.Equal(decimal.NewFromInt(2)) || bet.ActiveDuration != 24*time.Hour {
		t.Fatalf("setting not snapshotted: %+v", bet)
	}
	if bet.Status != model.BetInProgress || bet.PaymentReference != "PAY-fixed" {
		t.Fatalf("status/reference: %+v", bet)
	}
	if bet.User == nil || bet.User.FirstName != "Alice" {
		t.Fatalf("user not resolved: %+v", bet.User)
	}

	ids, _ := f.store.Users().BetIDs(t.Context(), f.user)
	if len(ids) != 1 || ids[0] != bet.ID {
		t.Fatalf("bet not linked to user: %v", ids)
	}

	if f.rec.created != 1 || len(f.pub.events) != 1 || f.pub.events[0].Type != events.TypeBetCreated {
		t.Fatalf("side effects: rec=%+v events=%+v", f.rec, f.pub.events)
	}
}

func TestCreateBetSnapshotsSetting(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	first, err := f.svc.CreateBet(t.Context(), f.user, stake("10"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}

	err = f.store.Settings().Insert(t.Context(), &model.Setting{Factor: decimal.NewFromInt(5), TimeOfBet: time.Hour})
	if err != nil {
		t.Fatalf("insert setting: %v", err)
	}

	again, err := f.store.Bets().FindByID(t.Context(), first.ID, false)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !again.Factor.Equal(decimal.NewFromInt(2)) || !again.BalanceAmount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("existing bet changed by a new setting: %+v", again)
	}

	other := f.store.AddUser("Bob")
	second, err := f.svc.CreateBet(t.Context(), other, stake("10"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}
	if !second.BalanceAmount.Equal(decimal.NewFromInt(50)) || second.ActiveDuration != time.Hour {
		t.Fatalf("new setting not applied: %+v", second)
	}
}

func TestCreateBetErrors(t *testing.T) {
	t.Parallel()

	zero := decimal.Zero
	negative := decimal.NewFromInt(-5)

	tests := []struct {
		name    string
		factor  string
		user    func(f *fixture) uuid.UUID
		stake   model.Stake
		wantErr error
	}{
		{name: "missing_amount", factor: "2", stake: model.Stake{}, wantErr: model.ErrValidation},
		{name: "zero_amount", factor: "2", stake: model.Stake{BetAmount: &zero}, wantErr: model.ErrValidation},
		{name: "negative_amount", factor: "2", stake: model.Stake{BetAmount: &negative}, wantErr: model.ErrValidation},
		{name: "no_setting", factor: "", stake: stake("10"), wantErr: model.ErrNoCurrentSetting},
		{
			name:    "unknown_user",
			factor:  "2",
			user:    func(*fixture) uuid.UUID { return uuid.New() },
			stake:   stake("10"),
			wantErr: model.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tt.factor)
			userID := f.user
			if tt.user != nil {
				userID = tt.user(f)
			}

			_, err := f.svc.CreateBet(t.Context(), userID, tt.stake)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if len(f.pub.events) != 0 {
				t.Fatalf("no event expected on failure, got %v", f.pub.events)
			}
		})
	}
}

func TestCreateBetSecondInProgressConflicts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	_, err := f.svc.CreateBet(t.Context(), f.user, stake("10"))
	if err != nil {
		t.Fatalf("first CreateBet: %v", err)
	}

	_, err = f.svc.CreateBet(t.Context(), f.user, stake("20"))
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	if f.rec.conflicts != 1 {
		t.Fatalf("conflict not counted: %+v", f.rec)
	}
}

func TestCreateBetPublishFailureIsIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")
	f.pub.err = errors.New("broker down")

	_, err := f.svc.CreateBet(t.Context(), f.user, stake("10"))
	if err != nil {
		t.Fatalf("publish failure must not fail the bet: %v", err)
	}
}

func TestCheckExistingBet(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	ack, err := f.svc.CheckExistingBet(t.Context(), f.user)
	if err != nil {
		t.Fatalf("CheckExistingBet: %v", err)
	}
	if ack.Msg != "done" {
		t.Fatalf("unexpected ack: %+v", ack)
	}

	_, err = f.svc.CreateBet(t.Context(), f.user, stake("10"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}

	_, err = f.svc.CheckExistingBet(t.Context(), f.user)
	if !errors.Is(err, model.ErrBetInProgress) || !errors.Is(err, model.ErrConflict) {
		t.Fatalf("want ErrBetInProgress, got %v", err)
	}
}

func TestFindCurrentBet(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	_, err := f.svc.FindCurrentBet(t.Context(), f.user)
	if !errors.Is(err, model.ErrNoInProgressBet) {
		t.Fatalf("want ErrNoInProgressBet, got %v", err)
	}

	f.store.AddBet(model.Bet{UserID: f.user, Status: model.BetCompleted})
	created, err := f.svc.CreateBet(t.Context(), f.user, stake("10"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}

	cur, err := f.svc.FindCurrentBet(t.Context(), f.user)
	if err != nil {
		t.Fatalf("FindCurrentBet: %v", err)
	}
	if cur.ID != created.ID || cur.User == nil {
		t.Fatalf("unexpected current bet: %+v", cur)
	}
}

func TestUpdateBet(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	created, err := f.svc.CreateBet(t.Context(), f.user, stake("100"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}

	status := model.BetCompleted
	negative := decimal.NewFromInt(-1)
	updated, err := f.svc.UpdateBet(t.Context(), created.ID, model.BetPatch{Status: &status, RetainedAmount: &negative})
	if err != nil {
		t.Fatalf("UpdateBet: %v", err)
	}
	if updated.Status != model.BetCompleted || !updated.RetainedAmount.Equal(negative) {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if !updated.BetAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("untouched field changed: %+v", updated)
	}

	_, err = f.svc.FindCurrentBet(t.Context(), f.user)
	if !errors.Is(err, model.ErrNoInProgressBet) {
		t.Fatalf("completed bet still current: %v", err)
	}

	last := f.pub.events[len(f.pub.events)-1]
	if last.Type != events.TypeBetUpdated || last.Status != "COMPLETED" {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestUpdateBetUpsertsMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	id := uuid.New()
	amount := decimal.NewFromInt(42)
	bet, err := f.svc.UpdateBet(t.Context(), id, model.BetPatch{BetAmount: &amount})
	if err != nil {
		t.Fatalf("UpdateBet: %v", err)
	}
	if bet.ID != id || !bet.BetAmount.Equal(amount) {
		t.Fatalf("upserted bet mismatch: %+v", bet)
	}
}

func TestUpdateBetConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	_, err := f.svc.CreateBet(t.Context(), f.user, stake("10"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}
	old := f.store.AddBet(model.Bet{UserID: f.user, Status: model.BetCancelled})

	inProgress := model.BetInProgress
	_, err = f.svc.UpdateBet(t.Context(), old.ID, model.BetPatch{Status: &inProgress})
	if !errors.Is(err, model.ErrBetInProgress) {
		t.Fatalf("want ErrBetInProgress, got %v", err)
	}
	if f.rec.conflicts != 1 {
		t.Fatalf("conflict not counted")
	}
}

func TestListUserBets(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "2")

	older := f.store.AddBet(model.Bet{UserID: f.user, Status: model.BetCompleted})
	newer, err := f.svc.CreateBet(t.Context(), f.user, stake("5"))
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}
	f.store.AddBet(model.Bet{UserID: f.store.AddUser("Bob"), Status: model.BetCompleted})

	list, err := f.svc.ListUserBets(t.Context(), f.user)
	if err != nil {
		t.Fatalf("ListUserBets: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	_, err = f.svc.ListUserBets(t.Context(), uuid.New())
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
