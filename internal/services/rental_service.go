package services

import (
	"context"
	"strings"
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

// RentalCostInput describes an incidental cost. Type is free text; see models.RentalCostSuggestions.
type RentalCostInput struct {
	Type        string      `json:"type"`
	Amount      money.Money `json:"amount"`
	Description *string     `json:"description,omitempty"`
}

type RentalService interface {
	UpsertRental(ctx context.Context, orderItemID uuid.UUID, terms *models.RentalTerms) (*models.Rental, error)
	// RecordReturn sets the actual return date once; the first call also returns the inventory unit.
	RecordReturn(ctx context.Context, rentalID uuid.UUID, returnedAt *time.Time) (*models.Rental, error)
	DeleteRental(ctx context.Context, rentalID uuid.UUID) error
	AddRentalCost(ctx context.Context, rentalID uuid.UUID, in *RentalCostInput) (*models.RentalCost, error)
	DeleteRentalCost(ctx context.Context, costID uuid.UUID) error
	ListRentalCosts(ctx context.Context, rentalID uuid.UUID) ([]*models.RentalCost, error)
}

type rentalService struct {
	tx        repositories.TxManager
	inventory InventoryService
	cache     caching.CacheService
	now       func() time.Time
}

func NewRentalService(tx repositories.TxManager, inventory InventoryService, cache caching.CacheService) RentalService {
	return &rentalService{tx: tx, inventory: inventory, cache: cache, now: time.Now}
}

func (s *rentalService) UpsertRental(ctx context.Context, orderItemID uuid.UUID, terms *models.RentalTerms) (*models.Rental, error) {
	if terms == nil {
		terms = &models.RentalTerms{}
	}
	if terms.PickupDate != nil && terms.ExpectedReturnDate != nil && terms.ExpectedReturnDate.Before(*terms.PickupDate) {
		return nil, common.NewValidationError("expected_return_date", "must not be before the pickup date")
	}
	if terms.Deposit != nil && terms.Deposit.IsNegative() {
		return nil, common.NewValidationError("deposit", "must not be negative")
	}
	if terms.ChargedIncome != nil && terms.ChargedIncome.IsNegative() {
		return nil, common.NewValidationError("charged_income", "must not be negative")
	}

	var rental *models.Rental
	var orderID uuid.UUID
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		item, err := repos.OrderItems.GetByID(ctx, orderItemID, false)
		if err != nil {
			return err
		}
		if item.ItemType != models.ItemTypeRental {
			return common.NewValidationError("order_item_id", "is not a RENTAL item")
		}
		if _, err := repos.Orders.GetForUpdate(ctx, item.OrderID); err != nil {
			return err
		}
		orderID = item.OrderID

		if err := syncRental(ctx, repos, item, terms); err != nil {
			return err
		}
		rental, err = repos.Rentals.GetByOrderItem(ctx, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateOrder(ctx, s.cache, orderID)
	return rental, nil
}

func (s *rentalService) RecordReturn(ctx context.Context, rentalID uuid.UUID, returnedAt *time.Time) (*models.Rental, error) {
	at := s.now().UTC()
	if returnedAt != nil {
		at = *returnedAt
	}

	var rental *models.Rental
	var unitID *uuid.UUID
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		rental, err = repos.Rentals.GetByID(ctx, rentalID, false)
		if err != nil {
			return err
		}
		first, err := repos.Rentals.MarkReturned(ctx, rentalID, at)
		if err != nil {
			return err
		}
		if !first {
			return common.NewValidationError("actual_return_date", "rental has already been returned")
		}
		rental.ActualReturnDate = &at

		if rental.OrderItemID == nil {
			return nil
		}
		item, err := repos.OrderItems.GetByID(ctx, *rental.OrderItemID, true)
		if err != nil {
			return err
		}
		if item.InventoryUnitID == nil {
			return nil
		}
		unitID = item.InventoryUnitID
		return s.inventory.MarkUnitReturned(ctx, repos.Inventory, *unitID)
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("rental_id", rentalID.String()), zap.Time("returned_at", at)}
	if unitID != nil {
		fields = append(fields, zap.String("unit_id", unitID.String()))
	}
	logger.FromContext(ctx).Info("rental returned", fields...)
	return rental, nil
}

func (s *rentalService) DeleteRental(ctx context.Context, rentalID uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if _, err := repos.Rentals.GetByID(ctx, rentalID, false); err != nil {
			return err
		}
		ids := []uuid.UUID{rentalID}
		if err := repos.RentalCosts.SoftDeleteByRentalIDs(ctx, ids); err != nil {
			return err
		}
		return repos.Rentals.SoftDeleteByIDs(ctx, ids)
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("rental deleted", zap.String("rental_id", rentalID.String()))
	return nil
}

func (s *rentalService) AddRentalCost(ctx context.Context, rentalID uuid.UUID, in *RentalCostInput) (*models.RentalCost, error) {
	if in == nil || strings.TrimSpace(in.Type) == "" {
		return nil, common.NewValidationError("type", "is required")
	}
	if in.Amount.IsNegative() {
		return nil, common.NewValidationError("amount", "must not be negative")
	}

	cost := &models.RentalCost{
		RentalID:    rentalID,
		Type:        strings.ToUpper(strings.TrimSpace(in.Type)),
		Amount:      in.Amount,
		Description: common.TrimOptional(in.Description),
	}
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if _, err := repos.Rentals.GetByID(ctx, rentalID, false); err != nil {
			return err
		}
		return repos.RentalCosts.Create(ctx, cost)
	})
	if err != nil {
		return nil, err
	}
	return cost, nil
}

func (s *rentalService) DeleteRentalCost(ctx context.Context, costID uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		return repos.RentalCosts.SoftDelete(ctx, costID)
	})
}

func (s *rentalService) ListRentalCosts(ctx context.Context, rentalID uuid.UUID) ([]*models.RentalCost, error) {
	repos := s.tx.Repos()
	if _, err := repos.Rentals.GetByID(ctx, rentalID, false); err != nil {
		return nil, err
	}
	costs, err := repos.RentalCosts.ListByRental(ctx, rentalID, false)
	if err != nil {
		return nil, err
	}
	if costs == nil {
		costs = []*models.RentalCost{}
	}
	return costs, nil
}
