package models

import (
	"time"

	"orderdesk/internal/money"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentTypeDownpayment PaymentType = "DOWNPAYMENT"
	PaymentTypeInstallment PaymentType = "INSTALLMENT"
	PaymentTypeFinal       PaymentType = "FINAL"
)

func (t PaymentType) IsValid() bool {
	return t == PaymentTypeDownpayment || t == PaymentTypeInstallment || t == PaymentTypeFinal
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodEWallet      PaymentMethod = "E_WALLET"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodEWallet, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is an immutable financial event against an order.
type Payment struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	OrderID     uuid.UUID     `json:"order_id" db:"order_id"`
	PaymentDate time.Time     `json:"payment_date" db:"payment_date"`
	Amount      money.Money   `json:"amount" db:"amount"`
	PaymentType PaymentType   `json:"payment_type" db:"payment_type"`
	Method      PaymentMethod `json:"payment_method" db:"payment_method"`
	Reference   *string       `json:"reference" db:"reference"`
	Notes       *string       `json:"notes" db:"notes"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
}

// PaymentInput is a request to record a payment.
type PaymentInput struct {
	OrderID     uuid.UUID     `json:"order_id"`
	Amount      money.Money   `json:"amount"`
	PaymentType PaymentType   `json:"payment_type"`
	Method      PaymentMethod `json:"payment_method"`
	PaymentDate *time.Time    `json:"payment_date,omitempty"`
	Reference   *string       `json:"reference,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
}
