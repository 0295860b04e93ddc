package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/settings"
)

var _ settings.Settings = (*settingsRepo)(nil)

const (
	table        = "settings"
	colID        = "id"
	colFactor    = "factor"
	colTimeOfBet = "time_of_bet_ms"
	colCreatedAt = "created_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type settingsRepo struct{ db *sql.DB }

func New(db *sql.DB) *settingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Current(ctx context.Context) (*model.Setting, error) {
	query, args, err := psql.Select(colID, colFactor, colTimeOfBet, colCreatedAt).
		From(table).
		OrderBy(colCreatedAt+" DESC", colID+" DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select setting: %w", err)
	}

	var (
		s  model.Setting
		ms int64
	)

	err = pgutils.Conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Factor, &ms, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoCurrentSetting
		}

		return nil, fmt.Errorf("select current setting: %w", err)
	}

	s.TimeOfBet = time.Duration(ms) * time.Millisecond

	return &s, nil
}

func (r *settingsRepo) Insert(ctx context.Context, s *model.Setting) error {
	query, args, err := psql.Insert(table).
		Columns(colFactor, colTimeOfBet).
		Values(s.Factor, s.TimeOfBet.Milliseconds()).
		Suffix("RETURNING " + colID + ", " + colCreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert setting: %w", err)
	}

	err = pgutils.Conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert setting: %w", err)
	}

	return nil
}
