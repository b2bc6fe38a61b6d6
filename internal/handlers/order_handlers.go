package handlers

import (
	"net/http"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers serves order, order item and status endpoints.
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrder handles POST /v1/orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req models.OrderInput
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	order, err := h.orderService.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, order)
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, order)
}

// ListOrders handles GET /v1/orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	filter := &models.OrderFilter{IncludeDeleted: queryBool(c, "include_deleted")}

	if raw := c.QueryParam("status"); raw != "" {
		status := models.OrderStatus(raw)
		filter.Status = &status
	}
	if raw := c.QueryParam("client_id"); raw != "" {
		clientID, err := common.ValidateUUID(raw, "client_id")
		if err != nil {
			return common.SendError(c, err)
		}
		filter.ClientID = &clientID
	}
	var err error
	if filter.OrderDateFrom, err = common.ParseOptionalDate(c.QueryParam("from"), "from"); err != nil {
		return common.SendError(c, err)
	}
	if filter.OrderDateTo, err = common.ParseOptionalDate(c.QueryParam("to"), "to"); err != nil {
		return common.SendError(c, err)
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return common.SendError(c, err)
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return common.SendError(c, err)
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return common.SendError(c, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return common.SendSuccess(c, http.StatusOK, orders)
}

// UpdateOrder handles PUT /v1/orders/:id with the full desired item set.
func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req models.OrderInput
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	order, err := h.orderService.UpdateOrder(c.Request().Context(), id, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /v1/orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateOrderStatus handles PUT /v1/orders/:id/status
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	if req.Status == "" {
		return common.SendValidationError(c, "status", "is required")
	}
	order, err := h.orderService.UpdateOrderStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, order)
}

// UpdateOrderItem handles PUT /v1/order-items/:id
func (h *OrderHandlers) UpdateOrderItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req models.OrderItemInput
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	item, err := h.orderService.UpdateOrderItem(c.Request().Context(), id, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, item)
}

// DeleteOrderItem handles DELETE /v1/order-items/:id
func (h *OrderHandlers) DeleteOrderItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.orderService.DeleteOrderItem(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}
