package handlers

import (
	"net/http"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/money"
	"orderdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type PaymentHandlers struct {
	paymentService services.PaymentService
}

func NewPaymentHandlers(paymentService services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

type paymentRequest struct {
	Amount      money.Money          `json:"amount"`
	PaymentType models.PaymentType   `json:"payment_type"`
	Method      models.PaymentMethod `json:"payment_method"`
	PaymentDate *time.Time           `json:"payment_date"`
	Reference   *string              `json:"reference"`
	Notes       *string              `json:"notes"`
}

// RecordPayment handles POST /v1/orders/:id/payments
func (h *PaymentHandlers) RecordPayment(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	payment, err := h.paymentService.RecordPayment(c.Request().Context(), &models.PaymentInput{
		OrderID:     orderID,
		Amount:      req.Amount,
		PaymentType: req.PaymentType,
		Method:      req.Method,
		PaymentDate: req.PaymentDate,
		Reference:   req.Reference,
		Notes:       req.Notes,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, payment)
}

// ListPayments handles GET /v1/orders/:id/payments
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	payments, err := h.paymentService.ListPayments(c.Request().Context(), orderID, queryBool(c, "include_deleted"))
	if err != nil {
		return common.SendError(c, err)
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return common.SendSuccess(c, http.StatusOK, payments)
}

// PaymentSummary handles GET /v1/orders/:id/summary
func (h *PaymentHandlers) PaymentSummary(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	summary, err := h.paymentService.PaymentSummary(c.Request().Context(), orderID)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, summary)
}

// DeletePayment handles DELETE /v1/payments/:id
func (h *PaymentHandlers) DeletePayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.paymentService.DeletePayment(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}
