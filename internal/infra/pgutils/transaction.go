package pgutils

import (
	"context"
	"database/sql"
	"fmt"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
)

// Transactor runs fn inside a transaction carried by the ctx passed to fn.
// It commits if fn returns nil, otherwise it rolls back.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewTxManager(db *sql.DB) (*manager.Manager, error) {
	m, err := manager.New(trmsql.NewDefaultFactory(db))
	if err != nil {
		return nil, fmt.Errorf("new tx manager: %w", err)
	}

	return m, nil
}

// Conn returns the transaction bound to ctx, or db itself outside of one.
func Conn(ctx context.Context, db *sql.DB) trmsql.Tr {
	return trmsql.DefaultCtxGetter.DefaultTrOrDB(ctx, db)
}
