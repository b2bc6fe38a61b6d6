package repositories

import (
	"context"

	"orderdesk/internal/common"
	"orderdesk/internal/models"

	"github.com/google/uuid"
)

// InventoryRepository covers the slice of inventory_units the order engine touches.
type InventoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error)
	MarkReturned(ctx context.Context, id uuid.UUID) error
}

type inventoryRepo struct {
	db DBTX
}

func NewInventoryRepo(db DBTX) InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	unit := &models.InventoryUnit{}
	query := `
		SELECT id, product_id, asset_code, status, usage_count, updated_at, deleted_at
		FROM inventory_units
		WHERE id = $1 AND deleted_at IS NULL
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&unit.ID,
		&unit.ProductID,
		&unit.AssetCode,
		&unit.Status,
		&unit.UsageCount,
		&unit.UpdatedAt,
		&unit.DeletedAt,
	)
	if err != nil {
		return nil, notFound(err, "inventory unit", id)
	}
	return unit, nil
}

// MarkReturned bumps the usage counter and puts the unit back on the shelf.
func (r *inventoryRepo) MarkReturned(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE inventory_units
		SET usage_count = usage_count + 1, status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, id, models.UnitAvailable)
	if err != nil {
		return common.StoreError("mark inventory unit returned", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("inventory unit", id)
	}
	return nil
}
