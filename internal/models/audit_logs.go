package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is free-form metadata stored as a jsonb column.
type JSONB map[string]interface{}

// AuditLog is an append-only record of a status change or payment event.
type AuditLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	EntityType string     `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id" db:"entity_id"`
	Action     string     `json:"action" db:"action"`
	OldValue   *string    `json:"old_value" db:"old_value"`
	NewValue   string     `json:"new_value" db:"new_value"`
	OrderID    uuid.UUID  `json:"order_id" db:"order_id"`
	PaymentID  *uuid.UUID `json:"payment_id" db:"payment_id"`
	Metadata   JSONB      `json:"metadata" db:"metadata"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionCreated        = "CREATED"
	ActionStatusChange   = "STATUS_CHANGE"
	ActionPaymentCreated = "PAYMENT_CREATED"
)

// Entity types recorded in the audit trail
const (
	EntityOrder   = "ORDER"
	EntityPayment = "PAYMENT"
)

// Trigger sources stored under metadata["trigger"]
const (
	TriggerManual  = "manual"
	TriggerPayment = "payment"
	TriggerCreate  = "create"
)

// AuditLogFilters represents filters for querying audit logs
type AuditLogFilters struct {
	OrderID   *uuid.UUID `json:"order_id"`
	Action    *string    `json:"action"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
