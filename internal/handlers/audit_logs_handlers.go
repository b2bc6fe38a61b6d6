package handlers

import (
	"context"
	"net/http"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditReader is the read side of the audit trail.
type AuditReader interface {
	History(ctx context.Context, orderID uuid.UUID) ([]*models.AuditLog, error)
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

// AuditLogsHandlers serves order history, trail queries and exports.
type AuditLogsHandlers struct {
	audit  AuditReader
	export services.AuditExportService
}

func NewAuditLogsHandlers(audit AuditReader, export services.AuditExportService) *AuditLogsHandlers {
	return &AuditLogsHandlers{audit: audit, export: export}
}

// OrderHistory handles GET /v1/orders/:id/audit
func (h *AuditLogsHandlers) OrderHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	entries, err := h.audit.History(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}
	return common.SendSuccess(c, http.StatusOK, entries)
}

// ListAuditLogs handles GET /v1/audit
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	filters := &models.AuditLogFilters{}
	if raw := c.QueryParam("order_id"); raw != "" {
		orderID, err := common.ValidateUUID(raw, "order_id")
		if err != nil {
			return common.SendError(c, err)
		}
		filters.OrderID = &orderID
	}
	if action := c.QueryParam("action"); action != "" {
		filters.Action = &action
	}
	var err error
	if filters.StartDate, _, err = parseTimestamp(c.QueryParam("start_date"), "start_date"); err != nil {
		return common.SendError(c, err)
	}
	var endIsDate bool
	if filters.EndDate, endIsDate, err = parseTimestamp(c.QueryParam("end_date"), "end_date"); err != nil {
		return common.SendError(c, err)
	}
	if endIsDate {
		// a bare end date covers that whole day
		next := filters.EndDate.AddDate(0, 0, 1)
		filters.EndDate = &next
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return common.SendError(c, err)
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return common.SendError(c, err)
	}
	if filters.Limit, filters.Offset, err = common.ValidatePaginationParams(limit, offset); err != nil {
		return common.SendError(c, err)
	}

	entries, err := h.audit.List(c.Request().Context(), filters)
	if err != nil {
		return common.SendError(c, err)
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}
	return common.SendSuccess(c, http.StatusOK, entries)
}

// ExportDay handles POST /v1/audit/exports/:date, running the daily export on demand.
func (h *AuditLogsHandlers) ExportDay(c echo.Context) error {
	day, err := exportDate(c)
	if err != nil {
		return common.SendError(c, err)
	}
	result, err := h.export.ExportDay(c.Request().Context(), day)
	if err != nil {
		if common.KindOf(err) != common.KindInternal {
			return common.SendError(c, err)
		}
		return common.SendServerError(c, "audit export failed")
	}
	return common.SendSuccess(c, http.StatusCreated, result)
}

// ExportDownload handles GET /v1/audit/exports/:date
func (h *AuditLogsHandlers) ExportDownload(c echo.Context) error {
	day, err := exportDate(c)
	if err != nil {
		return common.SendError(c, err)
	}
	url, err := h.export.DownloadURL(c.Request().Context(), day, 0)
	if err != nil {
		if common.KindOf(err) != common.KindInternal {
			return common.SendError(c, err)
		}
		return common.SendServerError(c, "could not sign export download")
	}
	return common.SendSuccess(c, http.StatusOK, map[string]string{"url": url})
}

func exportDate(c echo.Context) (time.Time, error) {
	day, err := common.ParseOptionalDate(c.Param("date"), "date")
	if err != nil {
		return time.Time{}, err
	}
	if day == nil {
		return time.Time{}, common.NewValidationError("date", "is required")
	}
	return *day, nil
}

// parseTimestamp accepts RFC 3339 or a bare YYYY-MM-DD date, reporting which form was given.
func parseTimestamp(raw, field string) (*time.Time, bool, error) {
	if raw == "" {
		return nil, false, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, false, nil
	}
	date, err := common.ParseOptionalDate(raw, field)
	return date, date != nil, err
}
