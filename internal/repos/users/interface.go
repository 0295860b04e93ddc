package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/model"
)

type Users interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// AppendBetReference records betID in the user's bet list.
	AppendBetReference(ctx context.Context, userID, betID uuid.UUID) error
	BetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
