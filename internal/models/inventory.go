package models

import (
	"time"

	"github.com/google/uuid"
)

type InventoryUnitStatus string

const (
	UnitAvailable   InventoryUnitStatus = "AVAILABLE"
	UnitRented      InventoryUnitStatus = "RENTED"
	UnitMaintenance InventoryUnitStatus = "MAINTENANCE"
	UnitRetired     InventoryUnitStatus = "RETIRED"
)

// InventoryUnit is a single physical, trackable piece of stock.
type InventoryUnit struct {
	ID         uuid.UUID           `json:"id" db:"id"`
	ProductID  uuid.UUID           `json:"product_id" db:"product_id"`
	AssetCode  string              `json:"asset_code" db:"asset_code"`
	Status     InventoryUnitStatus `json:"status" db:"status"`
	UsageCount int                 `json:"usage_count" db:"usage_count"`
	UpdatedAt  time.Time           `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time          `json:"deleted_at,omitempty" db:"deleted_at"`
}
