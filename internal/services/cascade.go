package services

import (
	"context"

	"orderdesk/internal/logger"
	"orderdesk/internal/models"
	"orderdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// softDeleteItemDependents retires everything hanging off the given items: expenses, rental
// costs, then the rentals. With unlink set, rentals also lose their item reference first.
// The items themselves are left to the caller.
func softDeleteItemDependents(ctx context.Context, repos *repositories.Repositories, itemIDs []uuid.UUID, unlink bool) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := repos.Expenses.SoftDeleteByOrderItems(ctx, itemIDs); err != nil {
		return err
	}
	rentalIDs, err := repos.Rentals.ListIDsByOrderItems(ctx, itemIDs)
	if err != nil {
		return err
	}
	if err := repos.RentalCosts.SoftDeleteByRentalIDs(ctx, rentalIDs); err != nil {
		return err
	}
	if unlink {
		if err := repos.Rentals.UnlinkOrderItems(ctx, itemIDs); err != nil {
			return err
		}
	}
	return repos.Rentals.SoftDeleteByIDs(ctx, rentalIDs)
}

// DeleteOrder soft-deletes an order and every record that depends on it, leaves first.
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	var itemCount int
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		order, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		items, err := repos.OrderItems.ListByOrder(ctx, order.ID, false)
		if err != nil {
			return err
		}
		itemIDs := itemIDsOf(items)
		itemCount = len(itemIDs)

		if err := softDeleteItemDependents(ctx, repos, itemIDs, false); err != nil {
			return err
		}
		if err := repos.Payments.SoftDeleteByOrder(ctx, order.ID); err != nil {
			return err
		}
		if err := repos.OrderItems.SoftDeleteByIDs(ctx, itemIDs); err != nil {
			return err
		}
		return repos.Orders.SoftDelete(ctx, order.ID)
	})
	if err != nil {
		return err
	}

	invalidateOrder(ctx, s.cache, id)
	logger.FromContext(ctx).Info("order deleted",
		zap.String("order_id", id.String()),
		zap.Int("items", itemCount))
	return nil
}

func itemIDsOf(items []*models.OrderItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
