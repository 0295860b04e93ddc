package bets

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
)

var _ bets.Bets = (*betsRepo)(nil)

const (
	table          = "bets"
	usersTable     = "users"
	colID          = "id"
	colUserID      = "user_id"
	colBetAmount   = "bet_amount"
	colFactor      = "factor"
	colBalance     = "balance_amount"
	colAvailable   = "available_amount"
	colRetained    = "retained_amount"
	colDurationMs  = "active_duration_ms"
	colPaymentRef  = "payment_reference"
	colStatus      = "status"
	colCreatedAt   = "created_at"
	colUpdatedAt   = "updated_at"
	inProgressIdx  = "bets_one_in_progress_per_user"
	userFirstName  = "first_name"
	userCreatedAt  = "created_at"
	userIDColAlias = "u." + colID
)

var betColumns = []string{
	colID, colUserID, colBetAmount, colFactor, colBalance, colAvailable, colRetained,
	colDurationMs, colPaymentRef, colStatus, colCreatedAt, colUpdatedAt,
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type betsRepo struct{ db *sql.DB }

func New(db *sql.DB) *betsRepo {
	return &betsRepo{db: db}
}

func qualified(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

// betRow mirrors one bets row, optionally joined with its owner.
type betRow struct {
	id             uuid.UUID
	userID         uuid.NullUUID
	betAmount      decimal.Decimal
	factor         decimal.Decimal
	balance        decimal.Decimal
	available      decimal.Decimal
	retained       decimal.Decimal
	durationMs     int64
	paymentRef     string
	status         string
	createdAt      time.Time
	updatedAt      time.Time
	ownerID        uuid.NullUUID
	ownerFirstName sql.NullString
	ownerCreatedAt sql.NullTime
}

func (r *betRow) dest(withUser bool) []any {
	d := []any{
		&r.id, &r.userID, &r.betAmount, &r.factor, &r.balance, &r.available, &r.retained,
		&r.durationMs, &r.paymentRef, &r.status, &r.createdAt, &r.updatedAt,
	}
	if withUser {
		d = append(d, &r.ownerID, &r.ownerFirstName, &r.ownerCreatedAt)
	}
	return d
}

func (r *betRow) toModel() model.Bet {
	b := model.Bet{
		ID:               r.id,
		BetAmount:        r.betAmount,
		Factor:           r.factor,
		BalanceAmount:    r.balance,
		AvailableAmount:  r.available,
		RetainedAmount:   r.retained,
		ActiveDuration:   time.Duration(r.durationMs) * time.Millisecond,
		PaymentReference: r.paymentRef,
		Status:           model.BetStatus(r.status),
		CreatedAt:        r.createdAt,
		UpdatedAt:        r.updatedAt,
	}
	if r.userID.Valid {
		b.UserID = r.userID.UUID
	}
	if r.ownerID.Valid {
		b.User = &model.User{
			ID:        r.ownerID.UUID,
			FirstName: r.ownerFirstName.String,
			CreatedAt: r.ownerCreatedAt.Time,
		}
	}
	return b
}

// selectBets builds the base SELECT, joining the owner when withUser is set.
func selectBets(withUser bool) sq.SelectBuilder {
	cols := qualified("b", betColumns)
	if withUser {
		cols = append(cols, userIDColAlias, "u."+userFirstName, "u."+userCreatedAt)
	}

	q := psql.Select(cols...).From(table + " b")
	if withUser {
		q = q.LeftJoin(usersTable + " u ON u." + colID + " = b." + colUserID)
	}
	return q
}

func nullableUser(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
