package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AuditLogsRepository is append-only. It has no update or delete method.
type AuditLogsRepository interface {
	// Create appends a new audit log entry
	Create(ctx context.Context, auditLog *models.AuditLog) error

	// ListByOrder returns an order's history oldest first
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.AuditLog, error)

	// List audit logs with filtering options, oldest first
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DBTX
}

func NewAuditLogsRepo(db DBTX) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

const auditLogColumns = `id, entity_type, entity_id, action, old_value, new_value, order_id, payment_id, metadata, created_at`

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.CreatedAt = time.Now().UTC()
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	var metadata []byte
	if auditLog.Metadata != nil {
		var err error
		metadata, err = json.Marshal(auditLog.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, entity_type, entity_id, action, old_value, new_value, order_id, payment_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		auditLog.ID,
		auditLog.EntityType,
		auditLog.EntityID,
		auditLog.Action,
		auditLog.OldValue,
		auditLog.NewValue,
		auditLog.OrderID,
		auditLog.PaymentID,
		metadata,
		auditLog.CreatedAt,
	)
	return common.StoreError("insert audit log", err)
}

func scanAuditLogs(rows pgx.Rows) ([]*models.AuditLog, error) {
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		auditLog := &models.AuditLog{}
		var metadata []byte
		err := rows.Scan(
			&auditLog.ID,
			&auditLog.EntityType,
			&auditLog.EntityID,
			&auditLog.Action,
			&auditLog.OldValue,
			&auditLog.NewValue,
			&auditLog.OrderID,
			&auditLog.PaymentID,
			&metadata,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, common.StoreError("scan audit log", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &auditLog.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		logs = append(logs, auditLog)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("list audit logs", err)
	}
	return logs, nil
}

func (r *auditLogsRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, common.StoreError("list audit logs", err)
	}
	return scanAuditLogs(rows)
}

func (r *auditLogsRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.OrderID != nil {
		argCount++
		query += fmt.Sprintf(" AND order_id = $%d", argCount)
		args = append(args, *filters.OrderID)
	}
	if filters.Action != nil {
		argCount++
		query += fmt.Sprintf(" AND action = $%d", argCount)
		args = append(args, *filters.Action)
	}
	if filters.StartDate != nil {
		argCount++
		query += fmt.Sprintf(" AND created_at >= $%d", argCount)
		args = append(args, *filters.StartDate)
	}
	if filters.EndDate != nil {
		argCount++
		query += fmt.Sprintf(" AND created_at < $%d", argCount)
		args = append(args, *filters.EndDate)
	}

	query += " ORDER BY created_at, id"
	if filters.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, common.StoreError("list audit logs", err)
	}
	return scanAuditLogs(rows)
}
