package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/users"
)

var _ users.Users = (*usersRepo)(nil)

const (
	usersTable    = "users"
	linksTable    = "user_bets"
	colID         = "id"
	colFirstName  = "first_name"
	colCreatedAt  = "created_at"
	colUserID     = "user_id"
	colBetID      = "bet_id"
	colSeq        = "seq"
	linkPkeyIndex = "user_bets_pkey"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}

func (r *usersRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query, args, err := psql.Select(colID, colFirstName, colCreatedAt).
		From(usersTable).
		Where(sq.Eq{colID: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}

	var u model.User
	err = pgutils.Conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.FirstName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}

		return nil, fmt.Errorf("select user: %w", err)
	}

	return &u, nil
}

// AppendBetReference is idempotent for an already linked pair.
func (r *usersRepo) AppendBetReference(ctx context.Context, userID, betID uuid.UUID) error {
	query, args, err := psql.Insert(linksTable).
		Columns(colUserID, colBetID).
		Values(userID, betID).
		Suffix("ON CONFLICT ON CONSTRAINT " + linkPkeyIndex + " DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build link bet: %w", err)
	}

	_, err = pgutils.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		if pgutils.IsForeignKeyViolation(err) {
			return model.ErrUserNotFound
		}

		return fmt.Errorf("link bet to user: %w", err)
	}

	return nil
}

// BetIDs returns the linked bet ids in the order they were appended.
func (r *usersRepo) BetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := psql.Select(colBetID).
		From(linksTable).
		Where(sq.Eq{colUserID: userID}).
		OrderBy(colSeq + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select bet ids: %w", err)
	}

	rows, err := pgutils.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select bet ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		err = rows.Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("scan bet id: %w", err)
		}
		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate bet ids: %w", err)
	}

	return ids, nil
}
