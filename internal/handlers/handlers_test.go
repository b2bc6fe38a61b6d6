package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/middleware"
	"orderdesk/internal/models"
	"orderdesk/internal/money"
	"orderdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	e        *echo.Echo
	orders   *MockOrderService
	payments *MockPaymentService
	rentals  *MockRentalService
	audit    *MockAuditReader
	export   *MockAuditExportService
	db       *MockPinger
	cache    *MockCacheService
	storage  *MockObjectStorage
}

func (suite *HandlersTestSuite) SetupTest() {
	suite.orders = new(MockOrderService)
	suite.payments = new(MockPaymentService)
	suite.rentals = new(MockRentalService)
	suite.audit = new(MockAuditReader)
	suite.export = new(MockAuditExportService)
	suite.db = new(MockPinger)
	suite.cache = new(MockCacheService)
	suite.storage = new(MockObjectStorage)

	suite.e = echo.New()
	RegisterRoutes(suite.e, &Handlers{
		Orders:   NewOrderHandlers(suite.orders),
		Payments: NewPaymentHandlers(suite.payments),
		Rentals:  NewRentalHandlers(suite.rentals),
		Audit:    NewAuditLogsHandlers(suite.audit, suite.export),
		Health:   NewHealthHandlers(suite.db, suite.cache, suite.storage, "audit-exports", "test"),
	}, middleware.NewVersionMiddleware())
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.orders.AssertExpectations(suite.T())
	suite.payments.AssertExpectations(suite.T())
	suite.rentals.AssertExpectations(suite.T())
	suite.audit.AssertExpectations(suite.T())
	suite.export.AssertExpectations(suite.T())
	suite.db.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
	suite.storage.AssertExpectations(suite.T())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	suite.e.ServeHTTP(rec, req)
	return rec
}

func (suite *HandlersTestSuite) errorBody(rec *httptest.ResponseRecorder) common.ErrorResponse {
	var resp common.ErrorResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.False(resp.Success)
	return resp
}

func (suite *HandlersTestSuite) TestCreateOrder() {
	clientID := uuid.New()
	suite.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(in *models.OrderInput) bool {
		return in.ClientID == clientID &&
			len(in.Items) == 1 &&
			in.Items[0].UnitPrice == money.FromMinor(1250050)
	})).Return(&models.OrderWithItems{Order: models.Order{ID: uuid.New(), OrderNumber: "ORD-000001"}}, nil).Once()

	body := `{"client_id":"` + clientID.String() + `","dates":{"order_date":"2026-05-01T00:00:00Z"},
		"items":[{"item_type":"SERVICE","name":"Setup crew","quantity":1,"unit_price":"12500.50"}]}`
	rec := suite.do(http.MethodPost, "/v1/orders", body)

	suite.Equal(http.StatusCreated, rec.Code)
	suite.Equal("v1", rec.Header().Get("X-API-Version"))
	suite.Contains(rec.Body.String(), `"success":true`)
	suite.Contains(rec.Body.String(), "ORD-000001")
}

func (suite *HandlersTestSuite) TestCreateOrder_MalformedBody() {
	rec := suite.do(http.MethodPost, "/v1/orders", `{"client_id":`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("CLIENT_ERROR", suite.errorBody(rec).Error.Code)
}

func (suite *HandlersTestSuite) TestCreateOrder_ValidationError() {
	suite.orders.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, common.NewValidationError("items[0].quantity", "must be at least 1")).Once()

	rec := suite.do(http.MethodPost, "/v1/orders", `{}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	resp := suite.errorBody(rec)
	suite.Equal("VALIDATION_ERROR", resp.Error.Code)
	suite.Equal("must be at least 1", resp.Error.Details["items[0].quantity"])
}

func (suite *HandlersTestSuite) TestGetOrder_InvalidID() {
	rec := suite.do(http.MethodGet, "/v1/orders/not-a-uuid", "")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorBody(rec).Error.Code)
}

func (suite *HandlersTestSuite) TestGetOrder_NotFound() {
	id := uuid.New()
	suite.orders.On("GetOrder", mock.Anything, id).Return(nil, common.NewNotFoundError("order", id)).Once()

	rec := suite.do(http.MethodGet, "/v1/orders/"+id.String(), "")

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("NOT_FOUND", suite.errorBody(rec).Error.Code)
}

func (suite *HandlersTestSuite) TestGetOrder_StoreFailureDoesNotLeak() {
	id := uuid.New()
	suite.orders.On("GetOrder", mock.Anything, id).
		Return(nil, common.StoreError("select order", errors.New("pq: password authentication failed"))).Once()

	rec := suite.do(http.MethodGet, "/v1/orders/"+id.String(), "")

	suite.Equal(http.StatusInternalServerError, rec.Code)
	suite.NotContains(rec.Body.String(), "password")
}

func (suite *HandlersTestSuite) TestListOrders_ParsesFilters() {
	clientID := uuid.New()
	suite.orders.On("ListOrders", mock.Anything, mock.MatchedBy(func(f *models.OrderFilter) bool {
		return f.Status != nil && *f.Status == models.OrderStatusConfirmed &&
			f.ClientID != nil && *f.ClientID == clientID &&
			f.OrderDateFrom != nil && f.OrderDateFrom.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.Limit == 10 && f.Offset == 20 && !f.IncludeDeleted
	})).Return([]*models.Order{}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/orders?status=CONFIRMED&client_id="+clientID.String()+"&from=2026-01-01&limit=10&offset=20", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"success":true,"data":[]}`, rec.Body.String())
}

func (suite *HandlersTestSuite) TestListOrders_BadDate() {
	rec := suite.do(http.MethodGet, "/v1/orders?from=01/02/2026", "")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestUpdateOrderStatus_InvalidTransition() {
	id := uuid.New()
	suite.orders.On("UpdateOrderStatus", mock.Anything, id, models.OrderStatusDelivered).
		Return(nil, &common.InvalidTransitionError{From: "QUOTE", To: "DELIVERED"}).Once()

	rec := suite.do(http.MethodPut, "/v1/orders/"+id.String()+"/status", `{"status":"DELIVERED"}`)

	suite.Equal(http.StatusConflict, rec.Code)
	resp := suite.errorBody(rec)
	suite.Equal("INVALID_TRANSITION", resp.Error.Code)
	suite.Equal("QUOTE", resp.Error.Details["from"])
	suite.Equal("DELIVERED", resp.Error.Details["to"])
}

func (suite *HandlersTestSuite) TestUpdateOrderStatus_MissingStatus() {
	rec := suite.do(http.MethodPut, "/v1/orders/"+uuid.NewString()+"/status", `{}`)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestDeleteOrder() {
	id := uuid.New()
	suite.orders.On("DeleteOrder", mock.Anything, id).Return(nil).Once()

	rec := suite.do(http.MethodDelete, "/v1/orders/"+id.String(), "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `"deleted":true`)
}

func (suite *HandlersTestSuite) TestRecordPayment_Overpayment() {
	orderID := uuid.New()
	suite.payments.On("RecordPayment", mock.Anything, mock.MatchedBy(func(in *models.PaymentInput) bool {
		return in.OrderID == orderID && in.Amount == money.FromMinor(1) && in.Method == models.PaymentMethodCash
	})).Return(nil, &common.OverpaymentError{MaxAllowed: money.Zero}).Once()

	rec := suite.do(http.MethodPost, "/v1/orders/"+orderID.String()+"/payments",
		`{"amount":"0.01","payment_type":"FINAL","payment_method":"CASH"}`)

	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	resp := suite.errorBody(rec)
	suite.Equal("OVERPAYMENT", resp.Error.Code)
	suite.Equal("0.00", resp.Error.Details["max_allowed"])
}

func (suite *HandlersTestSuite) TestRecordPayment_Created() {
	orderID := uuid.New()
	suite.payments.On("RecordPayment", mock.Anything, mock.Anything).
		Return(&models.Payment{ID: uuid.New(), OrderID: orderID, Amount: money.FromMajor(300)}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/orders/"+orderID.String()+"/payments",
		`{"amount":300,"payment_type":"DOWNPAYMENT","payment_method":"CARD"}`)

	suite.Equal(http.StatusCreated, rec.Code)
}

func (suite *HandlersTestSuite) TestListPayments_IncludeDeleted() {
	orderID := uuid.New()
	suite.payments.On("ListPayments", mock.Anything, orderID, true).Return([]*models.Payment(nil), nil).Once()

	rec := suite.do(http.MethodGet, "/v1/orders/"+orderID.String()+"/payments?include_deleted=true", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"success":true,"data":[]}`, rec.Body.String())
}

func (suite *HandlersTestSuite) TestRecordReturn_EmptyBody() {
	id := uuid.New()
	suite.rentals.On("RecordReturn", mock.Anything, id, (*time.Time)(nil)).Return(&models.Rental{ID: id}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/rentals/"+id.String()+"/return", "")

	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestRecordReturn_AlreadyReturned() {
	id := uuid.New()
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.rentals.On("RecordReturn", mock.Anything, id, mock.MatchedBy(func(ts *time.Time) bool {
		return ts != nil && ts.Equal(at)
	})).Return(nil, common.NewValidationError("actual_return_date", "rental has already been returned")).Once()

	rec := suite.do(http.MethodPost, "/v1/rentals/"+id.String()+"/return", `{"returned_at":"2026-06-01T12:00:00Z"}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestAddRentalCost() {
	id := uuid.New()
	suite.rentals.On("AddRentalCost", mock.Anything, id, mock.MatchedBy(func(in *services.RentalCostInput) bool {
		return in.Type == "cleaning" && in.Amount == money.FromMajor(45)
	})).Return(&models.RentalCost{ID: uuid.New(), RentalID: id, Type: "CLEANING"}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/rentals/"+id.String()+"/costs", `{"type":"cleaning","amount":"45"}`)

	suite.Equal(http.StatusCreated, rec.Code)
}

func (suite *HandlersTestSuite) TestRentalCostTypes() {
	rec := suite.do(http.MethodGet, "/v1/rental-costs/types", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "LATE_FEE")
}

func (suite *HandlersTestSuite) TestOrderHistory() {
	id := uuid.New()
	suite.audit.On("History", mock.Anything, id).Return([]*models.AuditLog{{OrderID: id, Action: models.ActionCreated}}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/orders/"+id.String()+"/audit", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "CREATED")
}

func (suite *HandlersTestSuite) TestListAuditLogs_Filters() {
	suite.audit.On("List", mock.Anything, mock.MatchedBy(func(f *models.AuditLogFilters) bool {
		return f.Action != nil && *f.Action == models.ActionStatusChange &&
			f.StartDate != nil && f.EndDate == nil && f.Limit == 50
	})).Return([]*models.AuditLog{}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/audit?action=STATUS_CHANGE&start_date=2026-01-01T00:00:00Z", "")

	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestListAuditLogs_DateOnlyEndCoversWholeDay() {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	suite.audit.On("List", mock.Anything, mock.MatchedBy(func(f *models.AuditLogFilters) bool {
		return f.StartDate != nil && f.StartDate.Equal(start) &&
			f.EndDate != nil && f.EndDate.Equal(start.AddDate(0, 0, 1))
	})).Return([]*models.AuditLog{{Action: models.ActionCreated}}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/audit?start_date=2026-01-05&end_date=2026-01-05", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "CREATED")
}

func (suite *HandlersTestSuite) TestListAuditLogs_TimestampEndIsExclusive() {
	end := time.Date(2026, 1, 5, 12, 30, 0, 0, time.UTC)
	suite.audit.On("List", mock.Anything, mock.MatchedBy(func(f *models.AuditLogFilters) bool {
		return f.StartDate == nil && f.EndDate != nil && f.EndDate.Equal(end)
	})).Return([]*models.AuditLog{}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/audit?end_date=2026-01-05T12:30:00Z", "")

	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestExportDay() {
	day := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	suite.export.On("ExportDay", mock.Anything, day).
		Return(&services.AuditExportResult{Bucket: "audit-exports", Object: "audit/2026-04-09.jsonl", Entries: 3}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/audit/exports/2026-04-09", "")

	suite.Equal(http.StatusCreated, rec.Code)
	suite.Contains(rec.Body.String(), "audit/2026-04-09.jsonl")
}

func (suite *HandlersTestSuite) TestExportDay_DisabledIsClientError() {
	day := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	suite.export.On("ExportDay", mock.Anything, day).
		Return(nil, common.NewValidationError("bucket", "audit export is disabled")).Once()

	rec := suite.do(http.MethodPost, "/v1/audit/exports/2026-04-09", "")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorBody(rec).Error.Code)
}

func (suite *HandlersTestSuite) TestExportDay_StorageFailureIsServerError() {
	suite.export.On("ExportDay", mock.Anything, mock.Anything).
		Return(nil, errors.New("failed to upload audit/2026-04-09.jsonl: access denied")).Once()

	rec := suite.do(http.MethodPost, "/v1/audit/exports/2026-04-09", "")

	suite.Equal(http.StatusInternalServerError, rec.Code)
}

func (suite *HandlersTestSuite) TestExportDownload_BadDate() {
	rec := suite.do(http.MethodGet, "/v1/audit/exports/yesterday", "")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestHealth() {
	rec := suite.do(http.MethodGet, "/health", "")
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestDetailedHealth_CacheDownIsDegraded() {
	suite.db.On("Ping", mock.Anything).Return(nil).Once()
	suite.cache.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	suite.storage.On("BucketExists", mock.Anything, "audit-exports").Return(true, nil).Once()

	rec := suite.do(http.MethodGet, "/health/detailed", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `"overall_status":"degraded"`)
}

func (suite *HandlersTestSuite) TestDetailedHealth_DatabaseDownIsUnavailable() {
	suite.db.On("Ping", mock.Anything).Return(errors.New("timeout")).Once()
	suite.cache.On("Ping", mock.Anything).Return(nil).Once()
	suite.storage.On("BucketExists", mock.Anything, "audit-exports").Return(false, errors.New("dial tcp")).Once()

	rec := suite.do(http.MethodGet, "/health/detailed", "")

	suite.Equal(http.StatusServiceUnavailable, rec.Code)
	suite.Contains(rec.Body.String(), `"overall_status":"unhealthy"`)
}
