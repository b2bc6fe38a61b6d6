package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/logger"
	"orderdesk/internal/models"

	"go.uber.org/zap"
)

// AuditExportResult describes one uploaded export object.
type AuditExportResult struct {
	Bucket  string `json:"bucket"`
	Object  string `json:"object"`
	Entries int    `json:"entries"`
}

// AuditExportService publishes the audit trail to object storage for reporting. It only reads.
type AuditExportService interface {
	ExportDay(ctx context.Context, day time.Time) (*AuditExportResult, error)
	// DownloadURL presigns a GET for an earlier export of day.
	DownloadURL(ctx context.Context, day time.Time, expiry time.Duration) (string, error)
}

type auditExportService struct {
	audit   *AuditTrail
	storage ObjectStorage
	bucket  string
}

func NewAuditExportService(audit *AuditTrail, storage ObjectStorage, bucket string) AuditExportService {
	return &auditExportService{audit: audit, storage: storage, bucket: bucket}
}

const defaultDownloadExpiry = 15 * time.Minute

func (s *auditExportService) enabled() error {
	if s.bucket == "" {
		return common.NewValidationError("bucket", "audit export is disabled")
	}
	return nil
}

func auditExportObjectName(day time.Time) string {
	return fmt.Sprintf("audit/%s.jsonl", day.Format("2006-01-02"))
}

// ExportDay writes every entry created on day (UTC) as JSON lines to audit/YYYY-MM-DD.jsonl.
func (s *auditExportService) ExportDay(ctx context.Context, day time.Time) (*AuditExportResult, error) {
	if err := s.enabled(); err != nil {
		return nil, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	entries, err := s.audit.List(ctx, &models.AuditLogFilters{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return nil, fmt.Errorf("failed to encode audit entry %s: %w", entry.ID, err)
		}
	}

	if err := s.storage.EnsureBucketExists(ctx, s.bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", s.bucket, err)
	}
	object := auditExportObjectName(start)
	if err := s.storage.PutObject(ctx, s.bucket, object, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "application/x-ndjson"); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", object, err)
	}

	logger.FromContext(ctx).Info("audit trail exported",
		zap.String("bucket", s.bucket),
		zap.String("object", object),
		zap.Int("entries", len(entries)))
	return &AuditExportResult{Bucket: s.bucket, Object: object, Entries: len(entries)}, nil
}

func (s *auditExportService) DownloadURL(ctx context.Context, day time.Time, expiry time.Duration) (string, error) {
	if err := s.enabled(); err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = defaultDownloadExpiry
	}
	object := auditExportObjectName(day.UTC())
	url, err := s.storage.GetPresignedURL(ctx, s.bucket, object, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", object, err)
	}
	return url, nil
}
