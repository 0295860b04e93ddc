package bets

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
)

func (r *betsRepo) List(ctx context.Context, q bets.Query) ([]model.Bet, error) {
	sel := selectBets(q.WithUser)

	if q.UserID != uuid.Nil {
		sel = sel.Where(sq.Eq{"b." + colUserID: q.UserID})
	}
	if q.Status != "" {
		sel = sel.Where(sq.Eq{"b." + colStatus: string(q.Status)})
	}

	switch q.Order {
	case bets.OldestFirst:
		sel = sel.OrderBy("b."+colCreatedAt+" ASC", "b."+colID+" ASC")
	default:
		sel = sel.OrderBy("b."+colCreatedAt+" DESC", "b."+colID+" DESC")
	}

	if q.Offset > 0 {
		sel = sel.Offset(q.Offset)
	}
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bets: %w", err)
	}

	rows, err := pgutils.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	defer rows.Close()

	out := make([]model.Bet, 0)
	for rows.Next() {
		var row betRow
		err = rows.Scan(row.dest(q.WithUser)...)
		if err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}
		out = append(out, row.toModel())
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate bets: %w", err)
	}

	return out, nil
}

func (r *betsRepo) Count(ctx context.Context) (int, error) {
	var n int

	err := pgutils.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM bets`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bets: %w", err)
	}

	return n, nil
}
