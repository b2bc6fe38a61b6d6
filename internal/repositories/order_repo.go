package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Order, error)
	// GetForUpdate loads a live order and row-locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdateTotals(ctx context.Context, id uuid.UUID, totalPrice, totalCost money.Money) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error)
	NextOrderNumber(ctx context.Context) (string, error)
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, order_number, status, client_id, order_date, event_date, delivery_date,
	total_price, total_cost, adjustment_amount, adjustment_reason, min_downpayment_percent,
	notes, created_at, updated_at, deleted_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.Status,
		&o.ClientID,
		&o.OrderDate,
		&o.EventDate,
		&o.DeliveryDate,
		&o.TotalPrice,
		&o.TotalCost,
		&o.AdjustmentAmount,
		&o.AdjustmentReason,
		&o.MinDownpaymentPercent,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	query := `
		INSERT INTO orders (id, order_number, status, client_id, order_date, event_date, delivery_date,
			total_price, total_cost, adjustment_amount, adjustment_reason, min_downpayment_percent,
			notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.Status,
		order.ClientID,
		order.OrderDate,
		order.EventDate,
		order.DeliveryDate,
		order.TotalPrice,
		order.TotalCost,
		order.AdjustmentAmount,
		order.AdjustmentReason,
		order.MinDownpaymentPercent,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.NewValidationError("order_number", "already exists")
	}
	return common.StoreError("insert order", err)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1` + liveOnly("", includeDeleted)
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return o, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return o, nil
}

// Update writes the caller-editable header. Totals and status have their own paths.
func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE orders
		SET client_id = $2, order_date = $3, event_date = $4, delivery_date = $5,
			adjustment_amount = $6, adjustment_reason = $7, min_downpayment_percent = $8,
			notes = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query,
		order.ID,
		order.ClientID,
		order.OrderDate,
		order.EventDate,
		order.DeliveryDate,
		order.AdjustmentAmount,
		order.AdjustmentReason,
		order.MinDownpaymentPercent,
		order.Notes,
		order.UpdatedAt,
	)
	if err != nil {
		return common.StoreError("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("order", order.ID)
	}
	return nil
}

func (r *orderRepo) UpdateTotals(ctx context.Context, id uuid.UUID, totalPrice, totalCost money.Money) error {
	query := `UPDATE orders SET total_price = $2, total_cost = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, totalPrice, totalCost)
	return common.StoreError("update order totals", err)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status)
	return common.StoreError("update order status", err)
}

func (r *orderRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE orders SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.Exec(ctx, query, id)
	return common.StoreError("soft delete order", err)
}

func (r *orderRepo) List(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error) {
	if filter == nil {
		filter = &models.OrderFilter{}
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1` + liveOnly("", filter.IncludeDeleted)

	args := []interface{}{}
	argN := 0
	if filter.Status != nil {
		argN++
		query += fmt.Sprintf(` AND status = $%d`, argN)
		args = append(args, *filter.Status)
	}
	if filter.ClientID != nil {
		argN++
		query += fmt.Sprintf(` AND client_id = $%d`, argN)
		args = append(args, *filter.ClientID)
	}
	if filter.OrderDateFrom != nil {
		argN++
		query += fmt.Sprintf(` AND order_date >= $%d`, argN)
		args = append(args, *filter.OrderDateFrom)
	}
	if filter.OrderDateTo != nil {
		argN++
		query += fmt.Sprintf(` AND order_date <= $%d`, argN)
		args = append(args, *filter.OrderDateTo)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	argN++
	query += fmt.Sprintf(` ORDER BY order_date DESC, created_at DESC LIMIT $%d`, argN)
	args = append(args, limit)
	if filter.Offset > 0 {
		argN++
		query += fmt.Sprintf(` OFFSET $%d`, argN)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, common.StoreError("list orders", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, common.StoreError("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("list orders", err)
	}
	return orders, nil
}

// NextOrderNumber draws from order_number_seq and renders it as ORD-000123.
func (r *orderRepo) NextOrderNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.db.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return "", common.StoreError("next order number", err)
	}
	return fmt.Sprintf("ORD-%06d", seq), nil
}
