package bets

import (
	"context"
	"fmt"

	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/model"
)

func (r *betsRepo) Create(ctx context.Context, bet *model.Bet) error {
	query, args, err := psql.Insert(table).
		Columns(betColumns[:10]...).
		Values(
			bet.ID, nullableUser(bet.UserID), bet.BetAmount, bet.Factor, bet.BalanceAmount,
			bet.AvailableAmount, bet.RetainedAmount, bet.ActiveDuration.Milliseconds(),
			bet.PaymentReference, string(bet.Status),
		).
		Suffix("RETURNING " + colCreatedAt + ", " + colUpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert bet: %w", err)
	}

	err = pgutils.Conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&bet.CreatedAt, &bet.UpdatedAt)
	if err != nil {
		return translate("insert bet", err)
	}

	return nil
}

// translate maps constraint violations to domain errors.
func translate(op string, err error) error {
	switch {
	case pgutils.IsUniqueViolationOn(err, inProgressIdx):
		return model.ErrBetInProgress
	case pgutils.IsForeignKeyViolation(err):
		return model.ErrUserNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
