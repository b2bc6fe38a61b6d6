package handlers

import (
	"net/http"
	"time"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type RentalHandlers struct {
	rentalService services.RentalService
}

func NewRentalHandlers(rentalService services.RentalService) *RentalHandlers {
	return &RentalHandlers{rentalService: rentalService}
}

// UpsertRental handles PUT /v1/order-items/:id/rental
func (h *RentalHandlers) UpsertRental(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req models.RentalTerms
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	rental, err := h.rentalService.UpsertRental(c.Request().Context(), itemID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, rental)
}

type returnRequest struct {
	ReturnedAt *time.Time `json:"returned_at"`
}

// RecordReturn handles POST /v1/rentals/:id/return. An empty body means "now".
func (h *RentalHandlers) RecordReturn(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req returnRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return bindError(c)
		}
	}
	rental, err := h.rentalService.RecordReturn(c.Request().Context(), id, req.ReturnedAt)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, rental)
}

// DeleteRental handles DELETE /v1/rentals/:id
func (h *RentalHandlers) DeleteRental(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.rentalService.DeleteRental(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}

// AddRentalCost handles POST /v1/rentals/:id/costs
func (h *RentalHandlers) AddRentalCost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.RentalCostInput
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	cost, err := h.rentalService.AddRentalCost(c.Request().Context(), id, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, cost)
}

// ListRentalCosts handles GET /v1/rentals/:id/costs
func (h *RentalHandlers) ListRentalCosts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	costs, err := h.rentalService.ListRentalCosts(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, costs)
}

// DeleteRentalCost handles DELETE /v1/rental-costs/:id
func (h *RentalHandlers) DeleteRentalCost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.rentalService.DeleteRentalCost(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}

// RentalCostTypes handles GET /v1/rental-costs/types
func (h *RentalHandlers) RentalCostTypes(c echo.Context) error {
	return common.SendSuccess(c, http.StatusOK, models.RentalCostSuggestions)
}
