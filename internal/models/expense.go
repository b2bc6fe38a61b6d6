package models

import (
	"time"

	"orderdesk/internal/money"

	"github.com/google/uuid"
)

// Expense is a cost row optionally linked to an order line. The link is informational.
type Expense struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	OrderItemID *uuid.UUID  `json:"order_item_id" db:"order_item_id"`
	Category    string      `json:"category" db:"category"`
	Amount      money.Money `json:"amount" db:"amount"`
	Description *string     `json:"description" db:"description"`
	ExpenseDate time.Time   `json:"expense_date" db:"expense_date"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
}
