package services

import (
	"context"
	"time"

	"orderdesk/internal/caching"
	"orderdesk/internal/common"
	"orderdesk/internal/logger"
	"orderdesk/internal/models"
	"orderdesk/internal/money"
	"orderdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	RecordPayment(ctx context.Context, in *models.PaymentInput) (*models.Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
	ListPayments(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.Payment, error)
	PaymentSummary(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error)
}

type paymentService struct {
	tx    repositories.TxManager
	audit *AuditTrail
	cache caching.CacheService
	now   func() time.Time
}

func NewPaymentService(tx repositories.TxManager, audit *AuditTrail, cache caching.CacheService) PaymentService {
	return &paymentService{tx: tx, audit: audit, cache: cache, now: time.Now}
}

// DeriveStatusAfterPayment returns the status an order should hold once newTotalPaid has been received.
// Only QUOTE→CONFIRMED (down payment reached) and DELIVERED→COMPLETED (fully paid) happen automatically.
func DeriveStatusAfterPayment(current models.OrderStatus, totalPrice money.Money, minDownpaymentPercent int, newTotalPaid money.Money) models.OrderStatus {
	if totalPrice <= 0 {
		return current
	}
	// paid/total*100 >= pct, kept in integers
	paidTimesHundred := newTotalPaid.Minor() * 100
	switch {
	case current == models.OrderStatusQuote && paidTimesHundred >= int64(minDownpaymentPercent)*totalPrice.Minor():
		return models.OrderStatusConfirmed
	case current == models.OrderStatusDelivered && newTotalPaid >= totalPrice:
		return models.OrderStatusCompleted
	}
	return current
}

func (s *paymentService) RecordPayment(ctx context.Context, in *models.PaymentInput) (*models.Payment, error) {
	if err := validatePaymentInput(in); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).With(zap.String("order_id", in.OrderID.String()))

	payment := &models.Payment{
		ID:          uuid.New(),
		OrderID:     in.OrderID,
		Amount:      in.Amount,
		PaymentType: in.PaymentType,
		Method:      in.Method,
		Reference:   common.TrimOptional(in.Reference),
		Notes:       common.TrimOptional(in.Notes),
	}
	if in.PaymentDate != nil {
		payment.PaymentDate = *in.PaymentDate
	} else {
		payment.PaymentDate = s.now().UTC()
	}

	var from, to models.OrderStatus
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		// The row lock makes the paid total below include every committed payment.
		order, err := repos.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		currentPaid, err := repos.Payments.SumLiveByOrder(ctx, order.ID)
		if err != nil {
			return err
		}

		newPaid, sumErr := currentPaid.CheckedAdd(in.Amount)
		if sumErr != nil || newPaid > order.TotalPrice {
			maxAllowed := money.Max(order.TotalPrice.Sub(currentPaid), money.Zero)
			log.Info("payment rejected: overpayment",
				zap.Stringer("amount", in.Amount),
				zap.Stringer("max_allowed", maxAllowed))
			return &common.OverpaymentError{MaxAllowed: maxAllowed}
		}

		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}

		from = order.Status
		to = DeriveStatusAfterPayment(order.Status, order.TotalPrice, order.MinDownpaymentPercent, newPaid)
		if to != from {
			if err := repos.Orders.UpdateStatus(ctx, order.ID, to); err != nil {
				return err
			}
			paymentID := payment.ID
			amount := payment.Amount
			if err := s.audit.RecordStatusChange(ctx, repos.AuditLogs, order.ID, from, to,
				models.TriggerPayment, &paymentID, &amount); err != nil {
				return err
			}
		}

		return s.audit.RecordPaymentCreated(ctx, repos.AuditLogs, payment)
	})
	if err != nil {
		return nil, err
	}

	invalidateOrder(ctx, s.cache, in.OrderID)
	log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.Stringer("amount", payment.Amount))
	if to != from {
		log.Info("order status advanced by payment",
			zap.String("from", string(from)),
			zap.String("to", string(to)))
	}
	return payment, nil
}

// DeletePayment soft-deletes a payment. The order status is intentionally left where it is.
func (s *paymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	var orderID uuid.UUID
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		payment, err := repos.Payments.GetByID(ctx, id, false)
		if err != nil {
			return err
		}
		orderID = payment.OrderID
		return repos.Payments.SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}

	invalidateOrder(ctx, s.cache, orderID)
	logger.FromContext(ctx).Info("payment deleted",
		zap.String("payment_id", id.String()),
		zap.String("order_id", orderID.String()))
	return nil
}

func (s *paymentService) ListPayments(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.Payment, error) {
	repos := s.tx.Repos()
	if _, err := repos.Orders.GetByID(ctx, orderID, includeDeleted); err != nil {
		return nil, err
	}
	return repos.Payments.ListByOrder(ctx, orderID, includeDeleted)
}

// PaymentSummary is read-through cached; a cache failure falls back to the store.
func (s *paymentService) PaymentSummary(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error) {
	log := logger.FromContext(ctx)
	if cached, err := s.cache.GetOrderSummary(ctx, orderID); err != nil {
		log.Warn("order summary cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	repos := s.tx.Repos()
	order, err := repos.Orders.GetByID(ctx, orderID, false)
	if err != nil {
		return nil, err
	}
	paid, err := repos.Payments.SumLiveByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := repos.OrderItems.ListByOrder(ctx, orderID, false)
	if err != nil {
		return nil, err
	}

	summary := &models.OrderSummary{
		OrderID:              order.ID,
		OrderNumber:          order.OrderNumber,
		Status:               order.Status,
		TotalPrice:           order.TotalPrice,
		TotalCost:            order.TotalCost,
		PaidAmount:           paid,
		RemainingAmount:      order.TotalPrice.Sub(paid),
		MinDownpaymentAmount: order.TotalPrice.Percent(order.MinDownpaymentPercent),
		ItemCount:            len(items),
	}
	if err := s.cache.SetOrderSummary(ctx, summary); err != nil {
		log.Warn("order summary cache write failed", zap.Error(err))
	}
	return summary, nil
}

func invalidateOrder(ctx context.Context, cache caching.CacheService, orderID uuid.UUID) {
	if err := cache.InvalidateOrder(ctx, orderID); err != nil {
		logger.FromContext(ctx).Warn("order summary cache invalidation failed",
			zap.String("order_id", orderID.String()), zap.Error(err))
	}
}
