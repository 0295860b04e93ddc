package bets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/model"
)

func (r *betsRepo) FindByID(ctx context.Context, id uuid.UUID, withUser bool) (*model.Bet, error) {
	bet, err := r.findOne(ctx, selectBets(withUser).Where(sq.Eq{"b." + colID: id}), withUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBetNotFound
		}

		return nil, fmt.Errorf("find bet by id: %w", err)
	}

	return bet, nil
}

// FindInProgress returns the most recently created in-progress bet of the user, owner resolved.
func (r *betsRepo) FindInProgress(ctx context.Context, userID uuid.UUID) (*model.Bet, error) {
	q := selectBets(true).
		Where(sq.Eq{"b." + colUserID: userID, "b." + colStatus: string(model.BetInProgress)}).
		OrderBy("b." + colCreatedAt + " DESC").
		Limit(1)

	bet, err := r.findOne(ctx, q, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoInProgressBet
		}

		return nil, fmt.Errorf("find in-progress bet: %w", err)
	}

	return bet, nil
}

func (r *betsRepo) ExistsInProgress(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool

	err := pgutils.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM bets WHERE user_id = $1 AND status = $2)
	`, userID, string(model.BetInProgress)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check in-progress bet: %w", err)
	}

	return exists, nil
}

func (r *betsRepo) findOne(ctx context.Context, q sq.SelectBuilder, withUser bool) (*model.Bet, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row betRow
	err = pgutils.Conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(row.dest(withUser)...)
	if err != nil {
		return nil, err
	}

	bet := row.toModel()
	return &bet, nil
}
