package repositories

import (
	"context"
	"errors"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *models.Rental) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Rental, error)
	// GetByOrderItem returns the live rental for a line, or nil when there is none.
	GetByOrderItem(ctx context.Context, orderItemID uuid.UUID) (*models.Rental, error)
	Update(ctx context.Context, rental *models.Rental) error
	// MarkReturned sets actual_return_date once. It reports false if the rental was already returned.
	MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) (bool, error)
	ListIDsByOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) ([]uuid.UUID, error)
	UnlinkOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

type rentalRepo struct {
	db DBTX
}

func NewRentalRepo(db DBTX) RentalRepository {
	return &rentalRepo{db: db}
}

const rentalColumns = `id, order_item_id, pickup_date, expected_return_date, actual_return_date,
	charged_income, deposit, created_at, updated_at, deleted_at`

func scanRental(row pgx.Row) (*models.Rental, error) {
	rental := &models.Rental{}
	err := row.Scan(
		&rental.ID,
		&rental.OrderItemID,
		&rental.PickupDate,
		&rental.ExpectedReturnDate,
		&rental.ActualReturnDate,
		&rental.ChargedIncome,
		&rental.Deposit,
		&rental.CreatedAt,
		&rental.UpdatedAt,
		&rental.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (r *rentalRepo) Create(ctx context.Context, rental *models.Rental) error {
	now := time.Now().UTC()
	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}
	rental.CreatedAt = now
	rental.UpdatedAt = now

	query := `
		INSERT INTO rentals (id, order_item_id, pickup_date, expected_return_date, actual_return_date,
			charged_income, deposit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		rental.ID,
		rental.OrderItemID,
		rental.PickupDate,
		rental.ExpectedReturnDate,
		rental.ActualReturnDate,
		rental.ChargedIncome,
		rental.Deposit,
		rental.CreatedAt,
		rental.UpdatedAt,
	)
	return common.StoreError("insert rental", err)
}

func (r *rentalRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1` + liveOnly("", includeDeleted)
	rental, err := scanRental(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "rental", id)
	}
	return rental, nil
}

func (r *rentalRepo) GetByOrderItem(ctx context.Context, orderItemID uuid.UUID) (*models.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE order_item_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT 1`
	rental, err := scanRental(r.db.QueryRow(ctx, query, orderItemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.StoreError("load rental by order item", err)
	}
	return rental, nil
}

func (r *rentalRepo) Update(ctx context.Context, rental *models.Rental) error {
	rental.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE rentals
		SET pickup_date = $2, expected_return_date = $3, charged_income = $4, deposit = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.Exec(ctx, query,
		rental.ID,
		rental.PickupDate,
		rental.ExpectedReturnDate,
		rental.ChargedIncome,
		rental.Deposit,
		rental.UpdatedAt,
	)
	return common.StoreError("update rental", err)
}

func (r *rentalRepo) MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) (bool, error) {
	query := `
		UPDATE rentals SET actual_return_date = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND actual_return_date IS NULL
	`
	tag, err := r.db.Exec(ctx, query, id, returnedAt)
	if err != nil {
		return false, common.StoreError("mark rental returned", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *rentalRepo) ListIDsByOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(orderItemIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id FROM rentals WHERE order_item_id = ANY($1) AND deleted_at IS NULL`, orderItemIDs)
	if err != nil {
		return nil, common.StoreError("list rentals", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, common.StoreError("scan rental id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("list rentals", err)
	}
	return ids, nil
}

func (r *rentalRepo) UnlinkOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) error {
	if len(orderItemIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE rentals SET order_item_id = NULL, updated_at = NOW() WHERE order_item_id = ANY($1)`, orderItemIDs)
	return common.StoreError("unlink rentals", err)
}

func (r *rentalRepo) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE rentals SET deleted_at = NOW(), updated_at = NOW() WHERE id = ANY($1) AND deleted_at IS NULL`, ids)
	return common.StoreError("soft delete rentals", err)
}
