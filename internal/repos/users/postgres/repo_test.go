package users

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/infra/pgtestutil"
	"github.com/fastprodman/betledger/internal/model"
)

func TestFindByID(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	id := pgtestutil.SeedUser(t, db, "Alice")

	u, err := repo.FindByID(t.Context(), id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u.ID != id || u.FirstName != "Alice" {
		t.Fatalf("unexpected user: %+v", u)
	}

	_, err = repo.FindByID(t.Context(), uuid.New())
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestAppendBetReference(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := pgtestutil.SeedUser(t, db, "Bob")

	now := time.Now().UTC()
	first := pgtestutil.SeedBet(t, db, userID, "10", string(model.BetCompleted), now.Add(-time.Hour))
	second := pgtestutil.SeedBet(t, db, userID, "20", string(model.BetInProgress), now)

	for _, id := range []uuid.UUID{first, second, first} {
		err := repo.AppendBetReference(t.Context(), userID, id)
		if err != nil {
			t.Fatalf("AppendBetReference(%s): %v", id, err)
		}
	}

	ids, err := repo.BetIDs(t.Context(), userID)
	if err != nil {
		t.Fatalf("BetIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != first || ids[1] != second {
		t.Fatalf("unexpected bet ids: %v", ids)
	}

	err = repo.AppendBetReference(t.Context(), uuid.New(), first)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("unknown user: want ErrUserNotFound, got %v", err)
	}
}
