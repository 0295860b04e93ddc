package bets

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/model"
)

// Upsert writes only the fields present in patch. A missing row is created
// with column defaults for everything else.
func (r *betsRepo) Upsert(ctx context.Context, id uuid.UUID, patch model.BetPatch) (*model.Bet, error) {
	cols := []string{colID}
	vals := []any{id}

	set := func(col string, v any) {
		cols = append(cols, col)
		vals = append(vals, v)
	}

	if patch.UserID != nil {
		set(colUserID, nullableUser(*patch.UserID))
	}
	if patch.BetAmount != nil {
		set(colBetAmount, *patch.BetAmount)
	}
	if patch.Factor != nil {
		set(colFactor, *patch.Factor)
	}
	if patch.BalanceAmount != nil {
		set(colBalance, *patch.BalanceAmount)
	}
	if patch.AvailableAmount != nil {
		set(colAvailable, *patch.AvailableAmount)
	}
	if patch.RetainedAmount != nil {
		set(colRetained, *patch.RetainedAmount)
	}
	if patch.ActiveDuration != nil {
		set(colDurationMs, patch.ActiveDuration.Milliseconds())
	}
	if patch.PaymentReference != nil {
		set(colPaymentRef, *patch.PaymentReference)
	}
	if patch.Status != nil {
		set(colStatus, string(*patch.Status))
	}

	updates := make([]string, 0, len(cols))
	for _, c := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	if len(updates) == 0 {
		updates = append(updates, colUpdatedAt+" = "+table+"."+colUpdatedAt)
	} else {
		updates = append(updates, colUpdatedAt+" = NOW()")
	}

	query, args, err := psql.Insert(table).
		Columns(cols...).
		Values(vals...).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " + strings.Join(updates, ", ") +
			" RETURNING " + strings.Join(betColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert bet: %w", err)
	}

	var row betRow
	err = pgutils.Conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(row.dest(false)...)
	if err != nil {
		return nil, translate("upsert bet", err)
	}

	bet := row.toModel()
	return &bet, nil
}
