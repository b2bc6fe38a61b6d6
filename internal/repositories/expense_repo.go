package repositories

import (
	"context"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"

	"github.com/google/uuid"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	ListByOrderItem(ctx context.Context, orderItemID uuid.UUID, includeDeleted bool) ([]*models.Expense, error)
	SoftDeleteByOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) error
}

type expenseRepo struct {
	db DBTX
}

func NewExpenseRepo(db DBTX) ExpenseRepository {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = time.Now().UTC()
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = expense.CreatedAt
	}

	query := `
		INSERT INTO expenses (id, order_item_id, category, amount, description, expense_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		expense.ID,
		expense.OrderItemID,
		expense.Category,
		expense.Amount,
		expense.Description,
		expense.ExpenseDate,
		expense.CreatedAt,
	)
	return common.StoreError("insert expense", err)
}

func (r *expenseRepo) ListByOrderItem(ctx context.Context, orderItemID uuid.UUID, includeDeleted bool) ([]*models.Expense, error) {
	query := `SELECT id, order_item_id, category, amount, description, expense_date, created_at, deleted_at
		FROM expenses WHERE order_item_id = $1` + liveOnly("", includeDeleted) + ` ORDER BY expense_date`

	rows, err := r.db.Query(ctx, query, orderItemID)
	if err != nil {
		return nil, common.StoreError("list expenses", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.OrderItemID, &e.Category, &e.Amount, &e.Description,
			&e.ExpenseDate, &e.CreatedAt, &e.DeletedAt); err != nil {
			return nil, common.StoreError("scan expense", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("list expenses", err)
	}
	return expenses, nil
}

func (r *expenseRepo) SoftDeleteByOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) error {
	if len(orderItemIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE expenses SET deleted_at = NOW() WHERE order_item_id = ANY($1) AND deleted_at IS NULL`, orderItemIDs)
	return common.StoreError("soft delete expenses", err)
}
