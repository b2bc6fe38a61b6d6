package repositories

import (
	"context"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.OrderItem, error)
	// Update overwrites the financial and descriptive fields. An existing inventory unit link is kept.
	Update(ctx context.Context, item *models.OrderItem) error
	ListByOrder(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.OrderItem, error)
	SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

type orderItemRepo struct {
	db DBTX
}

func NewOrderItemRepo(db DBTX) OrderItemRepository {
	return &orderItemRepo{db: db}
}

const orderItemColumns = `id, order_id, item_type, product_id, inventory_unit_id, name, quantity,
	unit_price, discount_type, discount_value, cost_source, cost_amount, created_at, updated_at, deleted_at`

func scanOrderItem(row pgx.Row) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ItemType,
		&item.ProductID,
		&item.InventoryUnitID,
		&item.Name,
		&item.Quantity,
		&item.UnitPrice,
		&item.DiscountType,
		&item.DiscountValue,
		&item.CostSource,
		&item.CostAmount,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	now := time.Now().UTC()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO order_items (id, order_id, item_type, product_id, inventory_unit_id, name, quantity,
			unit_price, discount_type, discount_value, cost_source, cost_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.OrderID,
		item.ItemType,
		item.ProductID,
		item.InventoryUnitID,
		item.Name,
		item.Quantity,
		item.UnitPrice,
		item.DiscountType,
		item.DiscountValue,
		item.CostSource,
		item.CostAmount,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return common.StoreError("insert order item", err)
}

func (r *orderItemRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE id = $1` + liveOnly("", includeDeleted)
	item, err := scanOrderItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "order item", id)
	}
	return item, nil
}

func (r *orderItemRepo) Update(ctx context.Context, item *models.OrderItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE order_items
		SET item_type = $2, product_id = $3, inventory_unit_id = COALESCE(inventory_unit_id, $4),
			name = $5, quantity = $6, unit_price = $7, discount_type = $8, discount_value = $9,
			cost_source = $10, cost_amount = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query,
		item.ID,
		item.ItemType,
		item.ProductID,
		item.InventoryUnitID,
		item.Name,
		item.Quantity,
		item.UnitPrice,
		item.DiscountType,
		item.DiscountValue,
		item.CostSource,
		item.CostAmount,
		item.UpdatedAt,
	)
	if err != nil {
		return common.StoreError("update order item", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("order item", item.ID)
	}
	return nil
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1` +
		liveOnly("", includeDeleted) + ` ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, common.StoreError("list order items", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, common.StoreError("scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("list order items", err)
	}
	return items, nil
}

func (r *orderItemRepo) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE order_items SET deleted_at = NOW(), updated_at = NOW() WHERE id = ANY($1) AND deleted_at IS NULL`
	_, err := r.db.Exec(ctx, query, ids)
	return common.StoreError("soft delete order items", err)
}
