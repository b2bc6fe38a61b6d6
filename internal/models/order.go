package models

import (
	"time"

	"orderdesk/internal/money"

	"github.com/google/uuid"
)

// OrderStatus is a stage of the fulfillment pipeline.
type OrderStatus string

const (
	OrderStatusQuote      OrderStatus = "QUOTE"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// AllOrderStatuses lists every status in pipeline order.
var AllOrderStatuses = []OrderStatus{
	OrderStatusQuote,
	OrderStatusConfirmed,
	OrderStatusInProgress,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	for _, known := range AllOrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DefaultMinDownpaymentPercent applies when an order does not specify one.
const DefaultMinDownpaymentPercent = 30

// Order is one purchase or rental transaction.
type Order struct {
	ID                    uuid.UUID   `json:"id" db:"id"`
	OrderNumber           string      `json:"order_number" db:"order_number"`
	Status                OrderStatus `json:"status" db:"status"`
	ClientID              uuid.UUID   `json:"client_id" db:"client_id"`
	OrderDate             time.Time   `json:"order_date" db:"order_date"`
	EventDate             *time.Time  `json:"event_date" db:"event_date"`
	DeliveryDate          *time.Time  `json:"delivery_date" db:"delivery_date"`
	TotalPrice            money.Money `json:"total_price" db:"total_price"`
	TotalCost             money.Money `json:"total_cost" db:"total_cost"`
	AdjustmentAmount      money.Money `json:"adjustment_amount" db:"adjustment_amount"`
	AdjustmentReason      *string     `json:"adjustment_reason" db:"adjustment_reason"`
	MinDownpaymentPercent int         `json:"min_downpayment_percent" db:"min_downpayment_percent"`
	Notes                 *string     `json:"notes" db:"notes"`
	CreatedAt             time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at" db:"updated_at"`
	DeletedAt             *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
}

// OrderDates groups the caller-editable dates of an order.
type OrderDates struct {
	OrderDate    time.Time  `json:"order_date"`
	EventDate    *time.Time `json:"event_date,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

// OrderAdjustment is a manual correction to an order's total price.
type OrderAdjustment struct {
	Amount money.Money `json:"amount"`
	Reason *string     `json:"reason,omitempty"`
}

// OrderWithItems is an order together with its live line items.
type OrderWithItems struct {
	Order
	Items []*OrderItem `json:"items"`
}

// OrderFilter holds criteria for order list queries
type OrderFilter struct {
	Status         *OrderStatus `json:"status,omitempty"`
	ClientID       *uuid.UUID   `json:"client_id,omitempty"`
	OrderDateFrom  *time.Time   `json:"order_date_from,omitempty"`
	OrderDateTo    *time.Time   `json:"order_date_to,omitempty"`
	IncludeDeleted bool         `json:"include_deleted,omitempty"`
	Limit          int          `json:"limit,omitempty"`  // default 50
	Offset         int          `json:"offset,omitempty"`
}

// OrderSummary is the cached financial projection of an order.
type OrderSummary struct {
	OrderID              uuid.UUID   `json:"order_id"`
	OrderNumber          string      `json:"order_number"`
	Status               OrderStatus `json:"status"`
	TotalPrice           money.Money `json:"total_price"`
	TotalCost            money.Money `json:"total_cost"`
	PaidAmount           money.Money `json:"paid_amount"`
	RemainingAmount      money.Money `json:"remaining_amount"`
	MinDownpaymentAmount money.Money `json:"min_downpayment_amount"`
	ItemCount            int         `json:"item_count"`
}

// OrderInput is the caller-supplied header plus the complete desired item set.
// OrderNumber is only honoured on create; nil draws the next number from the sequence.
type OrderInput struct {
	OrderNumber           *string          `json:"order_number,omitempty"`
	ClientID              uuid.UUID        `json:"client_id"`
	Dates                 OrderDates       `json:"dates"`
	Adjustment            OrderAdjustment  `json:"adjustment"`
	MinDownpaymentPercent *int             `json:"min_downpayment_percent,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	Items                 []OrderItemInput `json:"items"`
}
