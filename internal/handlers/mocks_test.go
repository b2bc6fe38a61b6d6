package handlers

import (
	"context"
	"io"
	"time"

	"orderdesk/internal/models"
	"orderdesk/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, in *models.OrderInput) (*models.OrderWithItems, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithItems), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, id uuid.UUID, in *models.OrderInput) (*models.OrderWithItems, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithItems), args.Error(1)
}

func (m *MockOrderService) UpdateOrderItem(ctx context.Context, id uuid.UUID, in *models.OrderItemInput) (*models.OrderItem, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderService) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderWithItems, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithItems), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, in *models.PaymentInput) (*models.Payment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.Payment, error) {
	args := m.Called(ctx, orderID, includeDeleted)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentService) PaymentSummary(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderSummary), args.Error(1)
}

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) UpsertRental(ctx context.Context, orderItemID uuid.UUID, terms *models.RentalTerms) (*models.Rental, error) {
	args := m.Called(ctx, orderItemID, terms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalService) RecordReturn(ctx context.Context, rentalID uuid.UUID, returnedAt *time.Time) (*models.Rental, error) {
	args := m.Called(ctx, rentalID, returnedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalService) DeleteRental(ctx context.Context, rentalID uuid.UUID) error {
	args := m.Called(ctx, rentalID)
	return args.Error(0)
}

func (m *MockRentalService) AddRentalCost(ctx context.Context, rentalID uuid.UUID, in *services.RentalCostInput) (*models.RentalCost, error) {
	args := m.Called(ctx, rentalID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalCost), args.Error(1)
}

func (m *MockRentalService) DeleteRentalCost(ctx context.Context, costID uuid.UUID) error {
	args := m.Called(ctx, costID)
	return args.Error(0)
}

func (m *MockRentalService) ListRentalCosts(ctx context.Context, rentalID uuid.UUID) ([]*models.RentalCost, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]*models.RentalCost), args.Error(1)
}

type MockAuditReader struct {
	mock.Mock
}

func (m *MockAuditReader) History(ctx context.Context, orderID uuid.UUID) ([]*models.AuditLog, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditReader) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type MockAuditExportService struct {
	mock.Mock
}

func (m *MockAuditExportService) ExportDay(ctx context.Context, day time.Time) (*services.AuditExportResult, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuditExportResult), args.Error(1)
}

func (m *MockAuditExportService) DownloadURL(ctx context.Context, day time.Time, expiry time.Duration) (string, error) {
	args := m.Called(ctx, day, expiry)
	return args.String(0), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetOrderSummary(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderSummary), args.Error(1)
}

func (m *MockCacheService) SetOrderSummary(ctx context.Context, summary *models.OrderSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}
