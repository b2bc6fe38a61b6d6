package repositories

import (
	"context"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository has no update path: payments are immutable once written.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.Payment, error)
	SumLiveByOrder(ctx context.Context, orderID uuid.UUID) (money.Money, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteByOrder(ctx context.Context, orderID uuid.UUID) error
}

type paymentRepo struct {
	db DBTX
}

func NewPaymentRepo(db DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, order_id, payment_date, amount, payment_type, payment_method,
	reference, notes, created_at, deleted_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.PaymentDate,
		&p.Amount,
		&p.PaymentType,
		&p.Method,
		&p.Reference,
		&p.Notes,
		&p.CreatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO payments (id, order_id, payment_date, amount, payment_type, payment_method,
			reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.PaymentDate,
		payment.Amount,
		payment.PaymentType,
		payment.Method,
		payment.Reference,
		payment.Notes,
		payment.CreatedAt,
	)
	return common.StoreError("insert payment", err)
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1` + liveOnly("", includeDeleted)
	p, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	return p, nil
}

func (r *paymentRepo) ListByOrder(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1` +
		liveOnly("", includeDeleted) + ` ORDER BY payment_date, created_at`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, common.StoreError("list payments", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, common.StoreError("scan payment", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("list payments", err)
	}
	return payments, nil
}

func (r *paymentRepo) SumLiveByOrder(ctx context.Context, orderID uuid.UUID) (money.Money, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount), 0)::BIGINT FROM payments WHERE order_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRow(ctx, query, orderID).Scan(&total); err != nil {
		return 0, common.StoreError("sum payments", err)
	}
	return money.FromMinor(total), nil
}

func (r *paymentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE payments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return common.StoreError("soft delete payment", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("payment", id)
	}
	return nil
}

func (r *paymentRepo) SoftDeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payments SET deleted_at = NOW() WHERE order_id = $1 AND deleted_at IS NULL`, orderID)
	return common.StoreError("soft delete order payments", err)
}
