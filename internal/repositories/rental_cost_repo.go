package repositories

import (
	"context"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RentalCostRepository interface {
	Create(ctx context.Context, cost *models.RentalCost) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.RentalCost, error)
	ListByRental(ctx context.Context, rentalID uuid.UUID, includeDeleted bool) ([]*models.RentalCost, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteByRentalIDs(ctx context.Context, rentalIDs []uuid.UUID) error
}

type rentalCostRepo struct {
	db DBTX
}

func NewRentalCostRepo(db DBTX) RentalCostRepository {
	return &rentalCostRepo{db: db}
}

const rentalCostColumns = `id, rental_id, type, amount, description, created_at, deleted_at`

func scanRentalCost(row pgx.Row) (*models.RentalCost, error) {
	cost := &models.RentalCost{}
	err := row.Scan(
		&cost.ID,
		&cost.RentalID,
		&cost.Type,
		&cost.Amount,
		&cost.Description,
		&cost.CreatedAt,
		&cost.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return cost, nil
}

func (r *rentalCostRepo) Create(ctx context.Context, cost *models.RentalCost) error {
	if cost.ID == uuid.Nil {
		cost.ID = uuid.New()
	}
	cost.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO rental_costs (id, rental_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, cost.ID, cost.RentalID, cost.Type, cost.Amount, cost.Description, cost.CreatedAt)
	return common.StoreError("insert rental cost", err)
}

func (r *rentalCostRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.RentalCost, error) {
	query := `SELECT ` + rentalCostColumns + ` FROM rental_costs WHERE id = $1` + liveOnly("", includeDeleted)
	cost, err := scanRentalCost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "rental cost", id)
	}
	return cost, nil
}

func (r *rentalCostRepo) ListByRental(ctx context.Context, rentalID uuid.UUID, includeDeleted bool) ([]*models.RentalCost, error) {
	query := `SELECT ` + rentalCostColumns + ` FROM rental_costs WHERE rental_id = $1` +
		liveOnly("", includeDeleted) + ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, rentalID)
	if err != nil {
		return nil, common.StoreError("list rental costs", err)
	}
	defer rows.Close()

	var costs []*models.RentalCost
	for rows.Next() {
		cost, err := scanRentalCost(rows)
		if err != nil {
			return nil, common.StoreError("scan rental cost", err)
		}
		costs = append(costs, cost)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("list rental costs", err)
	}
	return costs, nil
}

func (r *rentalCostRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE rental_costs SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return common.StoreError("soft delete rental cost", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("rental cost", id)
	}
	return nil
}

func (r *rentalCostRepo) SoftDeleteByRentalIDs(ctx context.Context, rentalIDs []uuid.UUID) error {
	if len(rentalIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE rental_costs SET deleted_at = NOW() WHERE rental_id = ANY($1) AND deleted_at IS NULL`, rentalIDs)
	return common.StoreError("soft delete rental costs", err)
}
