package models

import (
	"time"

	"orderdesk/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType classifies an order line.
type ItemType string

const (
	ItemTypeSale    ItemType = "SALE"
	ItemTypeRental  ItemType = "RENTAL"
	ItemTypeService ItemType = "SERVICE"
)

func (t ItemType) IsValid() bool {
	return t == ItemTypeSale || t == ItemTypeRental || t == ItemTypeService
}

// RequiresProduct reports whether lines of this type must reference a product.
func (t ItemType) RequiresProduct() bool {
	return t == ItemTypeSale || t == ItemTypeRental
}

type DiscountType string

const (
	DiscountFixed      DiscountType = "FIXED"
	DiscountPercentage DiscountType = "PERCENTAGE"
)

type CostSource string

const (
	CostSourceInventory CostSource = "INVENTORY"
	CostSourceExpenses  CostSource = "EXPENSES"
	CostSourceManual    CostSource = "MANUAL"
)

func (s CostSource) IsValid() bool {
	return s == CostSourceInventory || s == CostSourceExpenses || s == CostSourceManual
}

// OrderItem is one sale, rental or service line within an order.
type OrderItem struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	OrderID         uuid.UUID        `json:"order_id" db:"order_id"`
	ItemType        ItemType         `json:"item_type" db:"item_type"`
	ProductID       *uuid.UUID       `json:"product_id" db:"product_id"`
	InventoryUnitID *uuid.UUID       `json:"inventory_unit_id" db:"inventory_unit_id"`
	Name            string           `json:"name" db:"name"`
	Quantity        int              `json:"quantity" db:"quantity"`
	UnitPrice       money.Money      `json:"unit_price" db:"unit_price"`
	DiscountType    *DiscountType    `json:"discount_type" db:"discount_type"`
	DiscountValue   *decimal.Decimal `json:"discount_value" db:"discount_value"`
	CostSource      CostSource       `json:"cost_source" db:"cost_source"`
	CostAmount      money.Money      `json:"cost_amount" db:"cost_amount"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time       `json:"deleted_at,omitempty" db:"deleted_at"`
}

// RentalTerms carries the rental fields supplied alongside a RENTAL line.
type RentalTerms struct {
	PickupDate         *time.Time   `json:"pickup_date,omitempty"`
	ExpectedReturnDate *time.Time   `json:"expected_return_date,omitempty"`
	ChargedIncome      *money.Money `json:"charged_income,omitempty"`
	Deposit            *money.Money `json:"deposit,omitempty"`
}

// OrderItemInput is one caller-supplied line. A nil ID means "create".
type OrderItemInput struct {
	ID              *uuid.UUID       `json:"id,omitempty"`
	ItemType        ItemType         `json:"item_type"`
	ProductID       *uuid.UUID       `json:"product_id,omitempty"`
	InventoryUnitID *uuid.UUID       `json:"inventory_unit_id,omitempty"`
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	UnitPrice       money.Money      `json:"unit_price"`
	DiscountType    *DiscountType    `json:"discount_type,omitempty"`
	DiscountValue   *decimal.Decimal `json:"discount_value,omitempty"`
	CostSource      CostSource       `json:"cost_source"`
	CostAmount      money.Money      `json:"cost_amount"`
	Rental          *RentalTerms     `json:"rental,omitempty"`
}
