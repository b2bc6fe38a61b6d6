package services

import (
	"context"
	"io"
	"time"

	"orderdesk/internal/models"
	"orderdesk/internal/money"
	"orderdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the unit of work directly against mocked repositories.
type fakeTxManager struct {
	repos     *repositories.Repositories
	commits   int
	rollbacks int
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(repos *repositories.Repositories) error) error {
	if err := fn(f.repos); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

func (f *fakeTxManager) Repos() *repositories.Repositories {
	return f.repos
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Order, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totalPrice, totalCost money.Money) error {
	args := m.Called(ctx, id, totalPrice, totalCost)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.OrderItem, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) Update(ctx context.Context, item *models.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID, includeDeleted)
	return args.Get(0).([]*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Rental, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalRepository) GetByOrderItem(ctx context.Context, orderItemID uuid.UUID) (*models.Rental, error) {
	args := m.Called(ctx, orderItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalRepository) Update(ctx context.Context, rental *models.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, returnedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockRentalRepository) ListIDsByOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, orderItemIDs)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRentalRepository) UnlinkOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) error {
	args := m.Called(ctx, orderItemIDs)
	return args.Error(0)
}

func (m *MockRentalRepository) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type MockRentalCostRepository struct {
	mock.Mock
}

func (m *MockRentalCostRepository) Create(ctx context.Context, cost *models.RentalCost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}

func (m *MockRentalCostRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.RentalCost, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalCost), args.Error(1)
}

func (m *MockRentalCostRepository) ListByRental(ctx context.Context, rentalID uuid.UUID, includeDeleted bool) ([]*models.RentalCost, error) {
	args := m.Called(ctx, rentalID, includeDeleted)
	return args.Get(0).([]*models.RentalCost), args.Error(1)
}

func (m *MockRentalCostRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRentalCostRepository) SoftDeleteByRentalIDs(ctx context.Context, rentalIDs []uuid.UUID) error {
	args := m.Called(ctx, rentalIDs)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Payment, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID, includeDeleted bool) ([]*models.Payment, error) {
	args := m.Called(ctx, orderID, includeDeleted)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumLiveByOrder(ctx context.Context, orderID uuid.UUID) (money.Money, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(money.Money), args.Error(1)
}

func (m *MockPaymentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) SoftDeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ListByOrderItem(ctx context.Context, orderItemID uuid.UUID, includeDeleted bool) ([]*models.Expense, error) {
	args := m.Called(ctx, orderItemID, includeDeleted)
	return args.Get(0).([]*models.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SoftDeleteByOrderItems(ctx context.Context, orderItemIDs []uuid.UUID) error {
	args := m.Called(ctx, orderItemIDs)
	return args.Error(0)
}

type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *MockAuditLogsRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.AuditLog, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryUnit), args.Error(1)
}

func (m *MockInventoryRepository) MarkReturned(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
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
	data, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucketName, objectName, string(data), objectSize, contentType)
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

// repoMocks bundles one mock per repository behind a fakeTxManager.
type repoMocks struct {
	orders      *MockOrderRepository
	items       *MockOrderItemRepository
	rentals     *MockRentalRepository
	rentalCosts *MockRentalCostRepository
	payments    *MockPaymentRepository
	expenses    *MockExpenseRepository
	audit       *MockAuditLogsRepository
	inventory   *MockInventoryRepository
	cache       *MockCacheService
	tx          *fakeTxManager
}

func newRepoMocks() *repoMocks {
	m := &repoMocks{
		orders:      new(MockOrderRepository),
		items:       new(MockOrderItemRepository),
		rentals:     new(MockRentalRepository),
		rentalCosts: new(MockRentalCostRepository),
		payments:    new(MockPaymentRepository),
		expenses:    new(MockExpenseRepository),
		audit:       new(MockAuditLogsRepository),
		inventory:   new(MockInventoryRepository),
		cache:       new(MockCacheService),
	}
	m.tx = &fakeTxManager{repos: &repositories.Repositories{
		Orders:      m.orders,
		OrderItems:  m.items,
		Rentals:     m.rentals,
		RentalCosts: m.rentalCosts,
		Payments:    m.payments,
		Expenses:    m.expenses,
		AuditLogs:   m.audit,
		Inventory:   m.inventory,
	}}
	return m
}

func (m *repoMocks) assertExpectations(t mock.TestingT) {
	m.orders.AssertExpectations(t)
	m.items.AssertExpectations(t)
	m.rentals.AssertExpectations(t)
	m.rentalCosts.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.expenses.AssertExpectations(t)
	m.audit.AssertExpectations(t)
	m.inventory.AssertExpectations(t)
	m.cache.AssertExpectations(t)
}

// auditWith matches an audit entry by action and new value.
func auditWith(action, newValue string) interface{} {
	return mock.MatchedBy(func(entry *models.AuditLog) bool {
		return entry.Action == action && entry.NewValue == newValue
	})
}
