package repositories

import (
	"context"

	"orderdesk/internal/common"
	"orderdesk/internal/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Repositories bundles every repository bound to one executor (pool or transaction).
type Repositories struct {
	Orders      OrderRepository
	OrderItems  OrderItemRepository
	Rentals     RentalRepository
	RentalCosts RentalCostRepository
	Payments    PaymentRepository
	Expenses    ExpenseRepository
	AuditLogs   AuditLogsRepository
	Inventory   InventoryRepository
}

// NewRepositories binds all repositories to db.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Orders:      NewOrderRepo(db),
		OrderItems:  NewOrderItemRepo(db),
		Rentals:     NewRentalRepo(db),
		RentalCosts: NewRentalCostRepo(db),
		Payments:    NewPaymentRepo(db),
		Expenses:    NewExpenseRepo(db),
		AuditLogs:   NewAuditLogsRepo(db),
		Inventory:   NewInventoryRepo(db),
	}
}

// TxManager runs a unit of work atomically.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
	Repos() *Repositories
}

// Store is the pgx-backed TxManager.
type Store struct {
	db    Pool
	repos *Repositories
}

// txOptions: same-order serialization comes from SELECT ... FOR UPDATE on the order row.
var txOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func NewStore(db Pool) *Store {
	return &Store{db: db, repos: NewRepositories(db)}
}

// Repos returns repositories bound to the pool, for reads outside a transaction.
func (s *Store) Repos() *Repositories {
	return s.repos
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(repos *Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, txOptions)
	if err != nil {
		return common.StoreError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.FromContext(ctx).Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return common.StoreError("commit transaction", err)
	}
	return nil
}
