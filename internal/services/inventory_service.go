package services

import (
	"context"

	"orderdesk/internal/common"
	"orderdesk/internal/logger"
	"orderdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService is the inventory side effect of a rental coming back.
type InventoryService interface {
	// MarkUnitReturned runs inside the caller's transaction via repo. A unit that is gone
	// or soft-deleted is skipped so the return itself still commits.
	MarkUnitReturned(ctx context.Context, repo repositories.InventoryRepository, unitID uuid.UUID) error
}

type inventoryService struct{}

func NewInventoryService() InventoryService {
	return &inventoryService{}
}

func (s *inventoryService) MarkUnitReturned(ctx context.Context, repo repositories.InventoryRepository, unitID uuid.UUID) error {
	log := logger.FromContext(ctx)
	unit, err := repo.GetByID(ctx, unitID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			log.Warn("inventory unit missing, return recorded without it", zap.String("unit_id", unitID.String()))
			return nil
		}
		return err
	}
	if err := repo.MarkReturned(ctx, unit.ID); err != nil {
		return err
	}
	log.Info("inventory unit returned",
		zap.String("unit_id", unit.ID.String()),
		zap.String("asset_code", unit.AssetCode),
		zap.Int("usage_count", unit.UsageCount+1))
	return nil
}
