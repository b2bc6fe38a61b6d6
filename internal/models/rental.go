package models

import (
	"time"

	"orderdesk/internal/money"

	"github.com/google/uuid"
)

// Rental tracks the physical hand-out of a RENTAL order line.
type Rental struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	OrderItemID        *uuid.UUID  `json:"order_item_id" db:"order_item_id"`
	PickupDate         *time.Time  `json:"pickup_date" db:"pickup_date"`
	ExpectedReturnDate *time.Time  `json:"expected_return_date" db:"expected_return_date"`
	ActualReturnDate   *time.Time  `json:"actual_return_date" db:"actual_return_date"`
	ChargedIncome      money.Money `json:"charged_income" db:"charged_income"`
	Deposit            money.Money `json:"deposit" db:"deposit"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
}

// RentalCostSuggestions are the cost types offered to users; any text is accepted.
var RentalCostSuggestions = []string{"CLEANING", "DAMAGE", "TRANSPORT", "REPAIR", "LATE_FEE", "OTHER"}

// RentalCost is an incidental cost incurred by a rental.
type RentalCost struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	RentalID    uuid.UUID   `json:"rental_id" db:"rental_id"`
	Type        string      `json:"type" db:"type"`
	Amount      money.Money `json:"amount" db:"amount"`
	Description *string     `json:"description" db:"description"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
}
