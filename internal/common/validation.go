package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, "is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, "must be a valid UUID")
	}
	return id, nil
}

// ParseOptionalDate parses a YYYY-MM-DD string; empty input yields nil
func ParseOptionalDate(dateStr, fieldName string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, NewValidationError(fieldName, "must be in YYYY-MM-DD format")
	}
	return &date, nil
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, NewValidationError("offset", "cannot exceed 1,000,000")
	}
	return limit, offset, nil
}

// ValidateDateRange validates date ranges to prevent abuse
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return NewValidationError("date_range", "end date cannot be before start date")
	}
	if endDate.Sub(startDate) > time.Hour*24*365*10 {
		return NewValidationError("date_range", fmt.Sprintf("cannot exceed %d years", 10))
	}
	return nil
}

// SafeString dereferences an optional string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TrimOptional trims an optional string and collapses blanks to nil
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
