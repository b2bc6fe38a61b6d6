package repositories

import (
	"context"
	"errors"

	"orderdesk/internal/common"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Pool is a DBTX that can also open transactions.
type Pool interface {
	DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// liveOnly returns the soft-delete predicate for a read path.
func liveOnly(alias string, includeDeleted bool) string {
	if includeDeleted {
		return ""
	}
	if alias != "" {
		return " AND " + alias + ".deleted_at IS NULL"
	}
	return " AND deleted_at IS NULL"
}

// notFound converts pgx.ErrNoRows into a NOT_FOUND error and anything else into a store error.
func notFound(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewNotFoundError(resource, id)
	}
	return common.StoreError("load "+resource, err)
}
