package services

import (
	"context"
	"fmt"
	"strings"

	"orderdesk/internal/caching"
	"orderdesk/internal/common"
	"orderdesk/internal/logger"
	"orderdesk/internal/models"
	"orderdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in *models.OrderInput) (*models.OrderWithItems, error)
	// UpdateOrder reconciles the stored item set with in.Items and recomputes totals from the result.
	UpdateOrder(ctx context.Context, id uuid.UUID, in *models.OrderInput) (*models.OrderWithItems, error)
	UpdateOrderItem(ctx context.Context, id uuid.UUID, in *models.OrderItemInput) (*models.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderWithItems, error)
	ListOrders(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	tx                    repositories.TxManager
	audit                 *AuditTrail
	cache                 caching.CacheService
	defaultMinDownpayment int
}

func NewOrderService(tx repositories.TxManager, audit *AuditTrail, cache caching.CacheService, defaultMinDownpayment int) OrderService {
	if defaultMinDownpayment < 0 || defaultMinDownpayment > 100 {
		defaultMinDownpayment = models.DefaultMinDownpaymentPercent
	}
	return &orderService{
		tx:                    tx,
		audit:                 audit,
		cache:                 cache,
		defaultMinDownpayment: defaultMinDownpayment,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in *models.OrderInput) (*models.OrderWithItems, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}
	for i := range in.Items {
		if in.Items[i].ID != nil {
			return nil, common.NewValidationError(fmt.Sprintf("items[%d].id", i), "must be empty when creating an order")
		}
	}

	order := &models.Order{
		ID:                    uuid.New(),
		Status:                models.OrderStatusQuote,
		MinDownpaymentPercent: s.defaultMinDownpayment,
	}
	applyOrderHeader(order, in)

	items := make([]*models.OrderItem, 0, len(in.Items))
	for i := range in.Items {
		items = append(items, newItemFromInput(order.ID, &in.Items[i]))
	}
	totals, err := Recalculate(items, order.AdjustmentAmount)
	if err != nil {
		return nil, err
	}
	order.TotalPrice = totals.TotalPrice
	order.TotalCost = totals.TotalCost

	err = s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		number := strings.TrimSpace(common.SafeString(in.OrderNumber))
		if number == "" {
			var err error
			if number, err = repos.Orders.NextOrderNumber(ctx); err != nil {
				return err
			}
		}
		order.OrderNumber = number

		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		for i, item := range items {
			if err := repos.OrderItems.Create(ctx, item); err != nil {
				return err
			}
			if item.ItemType == models.ItemTypeRental {
				if err := repos.Rentals.Create(ctx, newRental(item, in.Items[i].Rental)); err != nil {
					return err
				}
			}
		}
		return s.audit.RecordCreated(ctx, repos.AuditLogs, order)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(items)),
		zap.Stringer("total_price", order.TotalPrice))
	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, in *models.OrderInput) (*models.OrderWithItems, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	var result *models.OrderWithItems
	var removed int
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		order, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		existing, err := repos.OrderItems.ListByOrder(ctx, order.ID, false)
		if err != nil {
			return err
		}
		remaining := make(map[uuid.UUID]*models.OrderItem, len(existing))
		for _, item := range existing {
			remaining[item.ID] = item
		}

		kept := make([]*models.OrderItem, 0, len(in.Items))
		for i := range in.Items {
			itemIn := &in.Items[i]
			var item *models.OrderItem
			if itemIn.ID != nil {
				current, ok := remaining[*itemIn.ID]
				if !ok {
					return common.NewNotFoundError("order item", *itemIn.ID)
				}
				delete(remaining, current.ID)
				item = current
				applyItemInput(item, itemIn)
				if err := repos.OrderItems.Update(ctx, item); err != nil {
					return err
				}
			} else {
				item = newItemFromInput(order.ID, itemIn)
				if err := repos.OrderItems.Create(ctx, item); err != nil {
					return err
				}
			}
			kept = append(kept, item)
		}

		// existing keeps the store's ordering, the map does not
		removedIDs := make([]uuid.UUID, 0, len(remaining))
		for _, item := range existing {
			if _, gone := remaining[item.ID]; gone {
				removedIDs = append(removedIDs, item.ID)
			}
		}
		removed = len(removedIDs)
		if err := softDeleteItemDependents(ctx, repos, removedIDs, true); err != nil {
			return err
		}
		if err := repos.OrderItems.SoftDeleteByIDs(ctx, removedIDs); err != nil {
			return err
		}

		applyOrderHeader(order, in)
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
		totals, err := Recalculate(kept, order.AdjustmentAmount)
		if err != nil {
			return err
		}
		if err := repos.Orders.UpdateTotals(ctx, order.ID, totals.TotalPrice, totals.TotalCost); err != nil {
			return err
		}
		order.TotalPrice = totals.TotalPrice
		order.TotalCost = totals.TotalCost

		for i, item := range kept {
			if item.ItemType != models.ItemTypeRental {
				continue
			}
			if err := syncRental(ctx, repos, item, in.Items[i].Rental); err != nil {
				return err
			}
		}

		result = &models.OrderWithItems{Order: *order, Items: kept}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateOrder(ctx, s.cache, id)
	logger.FromContext(ctx).Info("order updated",
		zap.String("order_id", id.String()),
		zap.Int("items", len(result.Items)),
		zap.Int("removed_items", removed),
		zap.Stringer("total_price", result.TotalPrice))
	return result, nil
}

func (s *orderService) UpdateOrderItem(ctx context.Context, id uuid.UUID, in *models.OrderItemInput) (*models.OrderItem, error) {
	if in == nil {
		return nil, common.NewValidationError("item", "is required")
	}
	if err := validateItemInput("item", in); err != nil {
		return nil, err
	}

	var updated *models.OrderItem
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		item, err := repos.OrderItems.GetByID(ctx, id, false)
		if err != nil {
			return err
		}
		order, err := repos.Orders.GetForUpdate(ctx, item.OrderID)
		if err != nil {
			return err
		}

		applyItemInput(item, in)
		if err := repos.OrderItems.Update(ctx, item); err != nil {
			return err
		}
		if err := s.recalculate(ctx, repos, order, item, nil); err != nil {
			return err
		}
		if item.ItemType == models.ItemTypeRental {
			if err := syncRental(ctx, repos, item, in.Rental); err != nil {
				return err
			}
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateOrder(ctx, s.cache, updated.OrderID)
	logger.FromContext(ctx).Info("order item updated",
		zap.String("order_id", updated.OrderID.String()),
		zap.String("item_id", id.String()))
	return updated, nil
}

func (s *orderService) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	var orderID uuid.UUID
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		item, err := repos.OrderItems.GetByID(ctx, id, false)
		if err != nil {
			return err
		}
		order, err := repos.Orders.GetForUpdate(ctx, item.OrderID)
		if err != nil {
			return err
		}
		orderID = order.ID

		ids := []uuid.UUID{item.ID}
		if err := softDeleteItemDependents(ctx, repos, ids, false); err != nil {
			return err
		}
		if err := repos.OrderItems.SoftDeleteByIDs(ctx, ids); err != nil {
			return err
		}
		return s.recalculate(ctx, repos, order, nil, &item.ID)
	})
	if err != nil {
		return err
	}

	invalidateOrder(ctx, s.cache, orderID)
	logger.FromContext(ctx).Info("order item deleted",
		zap.String("order_id", orderID.String()),
		zap.String("item_id", id.String()))
	return nil
}

// recalculate persists fresh totals for order from its live items, with changed substituted
// and removedID left out.
func (s *orderService) recalculate(ctx context.Context, repos *repositories.Repositories, order *models.Order,
	changed *models.OrderItem, removedID *uuid.UUID) error {
	items, err := repos.OrderItems.ListByOrder(ctx, order.ID, false)
	if err != nil {
		return err
	}
	live := make([]*models.OrderItem, 0, len(items)+1)
	substituted := false
	for _, item := range items {
		switch {
		case removedID != nil && item.ID == *removedID:
			continue
		case changed != nil && item.ID == changed.ID:
			live = append(live, changed)
			substituted = true
		default:
			live = append(live, item)
		}
	}
	if changed != nil && !substituted {
		live = append(live, changed)
	}

	totals, err := Recalculate(live, order.AdjustmentAmount)
	if err != nil {
		return err
	}
	if err := repos.Orders.UpdateTotals(ctx, order.ID, totals.TotalPrice, totals.TotalCost); err != nil {
		return err
	}
	order.TotalPrice = totals.TotalPrice
	order.TotalCost = totals.TotalCost
	return nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	if !target.IsValid() {
		return nil, common.NewValidationError("status", fmt.Sprintf("unknown status %q", target))
	}

	var order *models.Order
	var from models.OrderStatus
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		order, err = repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if err := ValidateTransition(from, target); err != nil {
			return err
		}
		if err := repos.Orders.UpdateStatus(ctx, id, target); err != nil {
			return err
		}
		order.Status = target
		return s.audit.RecordStatusChange(ctx, repos.AuditLogs, id, from, target, models.TriggerManual, nil, nil)
	})
	if err != nil {
		return nil, err
	}

	invalidateOrder(ctx, s.cache, id)
	logger.FromContext(ctx).Info("order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderWithItems, error) {
	repos := s.tx.Repos()
	order, err := repos.Orders.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	items, err := repos.OrderItems.ListByOrder(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error) {
	if filter == nil {
		filter = &models.OrderFilter{}
	}
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = limit, offset
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, common.NewValidationError("status", fmt.Sprintf("unknown status %q", *filter.Status))
	}
	if filter.OrderDateFrom != nil && filter.OrderDateTo != nil {
		if err := common.ValidateDateRange(*filter.OrderDateFrom, *filter.OrderDateTo); err != nil {
			return nil, err
		}
	}
	orders, err := s.tx.Repos().Orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

func applyOrderHeader(order *models.Order, in *models.OrderInput) {
	order.ClientID = in.ClientID
	order.OrderDate = in.Dates.OrderDate
	order.EventDate = in.Dates.EventDate
	order.DeliveryDate = in.Dates.DeliveryDate
	order.AdjustmentAmount = in.Adjustment.Amount
	order.AdjustmentReason = common.TrimOptional(in.Adjustment.Reason)
	if order.AdjustmentAmount.IsZero() {
		order.AdjustmentReason = nil
	}
	if in.MinDownpaymentPercent != nil {
		order.MinDownpaymentPercent = *in.MinDownpaymentPercent
	}
	order.Notes = common.TrimOptional(in.Notes)
}

// syncRental makes sure a RENTAL line has its rental, matched by item identity.
func syncRental(ctx context.Context, repos *repositories.Repositories, item *models.OrderItem, terms *models.RentalTerms) error {
	rental, err := repos.Rentals.GetByOrderItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if rental == nil {
		return repos.Rentals.Create(ctx, newRental(item, terms))
	}
	if terms == nil {
		return nil
	}
	applyRentalTerms(rental, terms)
	return repos.Rentals.Update(ctx, rental)
}
