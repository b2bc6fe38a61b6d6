package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditExportService_ExportDay(t *testing.T) {
	m := newRepoMocks()
	storage := new(MockObjectStorage)
	service := NewAuditExportService(NewAuditTrail(m.tx), storage, "audit-exports")

	day := time.Date(2026, 4, 9, 15, 45, 0, 0, time.UTC)
	start := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	entries := []*models.AuditLog{
		{ID: uuid.New(), Action: models.ActionCreated, NewValue: "QUOTE", OrderID: uuid.New()},
		{ID: uuid.New(), Action: models.ActionPaymentCreated, NewValue: "10.00", OrderID: uuid.New()},
	}

	m.audit.On("List", mock.Anything, mock.MatchedBy(func(f *models.AuditLogFilters) bool {
		return f.StartDate.Equal(start) && f.EndDate.Equal(start.AddDate(0, 0, 1))
	})).Return(entries, nil).Once()
	storage.On("EnsureBucketExists", mock.Anything, "audit-exports").Return(nil).Once()
	storage.On("PutObject", mock.Anything, "audit-exports", "audit/2026-04-09.jsonl",
		mock.MatchedBy(func(body string) bool {
			lines := strings.Split(strings.TrimSpace(body), "\n")
			if len(lines) != 2 {
				return false
			}
			var first models.AuditLog
			return json.Unmarshal([]byte(lines[0]), &first) == nil && first.Action == models.ActionCreated
		}), mock.AnythingOfType("int64"), "application/x-ndjson").Return(nil).Once()

	result, err := service.ExportDay(context.Background(), day)

	require.NoError(t, err)
	assert.Equal(t, "audit/2026-04-09.jsonl", result.Object)
	assert.Equal(t, 2, result.Entries)
	m.assertExpectations(t)
	storage.AssertExpectations(t)
}

func TestAuditExportService_UploadFailure(t *testing.T) {
	m := newRepoMocks()
	storage := new(MockObjectStorage)
	service := NewAuditExportService(NewAuditTrail(m.tx), storage, "audit-exports")

	m.audit.On("List", mock.Anything, mock.Anything).Return([]*models.AuditLog{}, nil).Once()
	storage.On("EnsureBucketExists", mock.Anything, "audit-exports").Return(nil).Once()
	storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, "", int64(0), mock.Anything).
		Return(errors.New("access denied")).Once()

	_, err := service.ExportDay(context.Background(), time.Now())

	assert.ErrorContains(t, err, "access denied")
	storage.AssertExpectations(t)
}

func TestAuditExportService_DownloadURL(t *testing.T) {
	m := newRepoMocks()
	storage := new(MockObjectStorage)
	service := NewAuditExportService(NewAuditTrail(m.tx), storage, "audit-exports")

	storage.On("GetPresignedURL", mock.Anything, "audit-exports", "audit/2026-04-09.jsonl", 15*time.Minute).
		Return("https://minio.local/audit-exports/audit/2026-04-09.jsonl?sig=abc", nil).Once()

	url, err := service.DownloadURL(context.Background(), time.Date(2026, 4, 9, 23, 0, 0, 0, time.UTC), 0)

	require.NoError(t, err)
	assert.Contains(t, url, "2026-04-09.jsonl")
	storage.AssertExpectations(t)
}

func TestAuditExportService_DisabledWithoutBucket(t *testing.T) {
	m := newRepoMocks()
	storage := new(MockObjectStorage)
	service := NewAuditExportService(NewAuditTrail(m.tx), storage, "")

	_, err := service.ExportDay(context.Background(), time.Now())
	assert.True(t, common.IsKind(err, common.KindValidation))

	_, err = service.DownloadURL(context.Background(), time.Now(), 0)
	assert.True(t, common.IsKind(err, common.KindValidation))

	m.audit.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "EnsureBucketExists", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditTrail_HistoryIncludesDeletedOrders(t *testing.T) {
	m := newRepoMocks()
	trail := NewAuditTrail(m.tx)
	orderID := uuid.New()
	deletedAt := time.Now()

	m.orders.On("GetByID", mock.Anything, orderID, true).Return(&models.Order{ID: orderID, DeletedAt: &deletedAt}, nil).Once()
	m.audit.On("ListByOrder", mock.Anything, orderID).Return([]*models.AuditLog{{OrderID: orderID}}, nil).Once()

	history, err := trail.History(context.Background(), orderID)

	require.NoError(t, err)
	assert.Len(t, history, 1)
	m.assertExpectations(t)
}

func TestAuditTrail_RecordRequiresOrder(t *testing.T) {
	m := newRepoMocks()
	trail := NewAuditTrail(m.tx)

	err := trail.Record(context.Background(), m.audit, &models.AuditLog{EntityID: uuid.New()})

	assert.Error(t, err)
	m.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
