package services

import (
	"context"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/money"
	"orderdesk/internal/repositories"

	"github.com/google/uuid"
)

// AuditTrail appends order history. Writes always go through the repository of the caller's
// transaction so an entry commits or rolls back together with the change it describes.
type AuditTrail struct {
	tx repositories.TxManager
}

func NewAuditTrail(tx repositories.TxManager) *AuditTrail {
	return &AuditTrail{tx: tx}
}

// Record appends one entry.
func (a *AuditTrail) Record(ctx context.Context, repo repositories.AuditLogsRepository, entry *models.AuditLog) error {
	if entry.EntityID == uuid.Nil || entry.OrderID == uuid.Nil {
		return common.NewValidationError("audit_log", "entity and order are required")
	}
	if entry.Metadata == nil {
		entry.Metadata = models.JSONB{}
	}
	return repo.Create(ctx, entry)
}

// RecordCreated logs the birth of an order.
func (a *AuditTrail) RecordCreated(ctx context.Context, repo repositories.AuditLogsRepository, order *models.Order) error {
	return a.Record(ctx, repo, &models.AuditLog{
		EntityType: models.EntityOrder,
		EntityID:   order.ID,
		Action:     models.ActionCreated,
		NewValue:   string(order.Status),
		OrderID:    order.ID,
		Metadata: models.JSONB{
			"trigger":      models.TriggerCreate,
			"order_number": order.OrderNumber,
			"total_price":  order.TotalPrice.String(),
		},
	})
}

// RecordStatusChange logs a status move. paymentID and amount are set only for payment-driven moves.
func (a *AuditTrail) RecordStatusChange(ctx context.Context, repo repositories.AuditLogsRepository,
	orderID uuid.UUID, from, to models.OrderStatus, trigger string, paymentID *uuid.UUID, amount *money.Money) error {
	oldValue := string(from)
	metadata := models.JSONB{"trigger": trigger}
	if amount != nil {
		metadata["amount"] = amount.String()
	}
	return a.Record(ctx, repo, &models.AuditLog{
		EntityType: models.EntityOrder,
		EntityID:   orderID,
		Action:     models.ActionStatusChange,
		OldValue:   &oldValue,
		NewValue:   string(to),
		OrderID:    orderID,
		PaymentID:  paymentID,
		Metadata:   metadata,
	})
}

// RecordPaymentCreated logs a new payment.
func (a *AuditTrail) RecordPaymentCreated(ctx context.Context, repo repositories.AuditLogsRepository, payment *models.Payment) error {
	paymentID := payment.ID
	return a.Record(ctx, repo, &models.AuditLog{
		EntityType: models.EntityPayment,
		EntityID:   payment.ID,
		Action:     models.ActionPaymentCreated,
		NewValue:   payment.Amount.String(),
		OrderID:    payment.OrderID,
		PaymentID:  &paymentID,
		Metadata: models.JSONB{
			"trigger":        models.TriggerPayment,
			"amount":         payment.Amount.String(),
			"payment_type":   string(payment.PaymentType),
			"payment_method": string(payment.Method),
		},
	})
}

// History returns an order's entries oldest first. Soft-deleted orders keep their history.
func (a *AuditTrail) History(ctx context.Context, orderID uuid.UUID) ([]*models.AuditLog, error) {
	repos := a.tx.Repos()
	if _, err := repos.Orders.GetByID(ctx, orderID, true); err != nil {
		return nil, err
	}
	return repos.AuditLogs.ListByOrder(ctx, orderID)
}

// List serves reporting queries over the whole trail.
func (a *AuditTrail) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil {
		if err := common.ValidateDateRange(*filters.StartDate, *filters.EndDate); err != nil {
			return nil, err
		}
	}
	return a.tx.Repos().AuditLogs.List(ctx, filters)
}
