package handlers

import (
	"orderdesk/internal/middleware"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler set.
type Handlers struct {
	Orders   *OrderHandlers
	Payments *PaymentHandlers
	Rentals  *RentalHandlers
	Audit    *AuditLogsHandlers
	Health   *HealthHandlers
}

// RegisterRoutes mounts health, swagger and the /v1 API on e.
func RegisterRoutes(e *echo.Echo, h *Handlers, versions *middleware.VersionMiddleware) {
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/detailed", h.Health.DetailedHealthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	v1.Use(versions.VersionHeader("v1"))

	v1.POST("/orders", h.Orders.CreateOrder)
	v1.GET("/orders", h.Orders.ListOrders)
	v1.GET("/orders/:id", h.Orders.GetOrder)
	v1.PUT("/orders/:id", h.Orders.UpdateOrder)
	v1.DELETE("/orders/:id", h.Orders.DeleteOrder)
	v1.PUT("/orders/:id/status", h.Orders.UpdateOrderStatus)
	v1.PUT("/order-items/:id", h.Orders.UpdateOrderItem)
	v1.DELETE("/order-items/:id", h.Orders.DeleteOrderItem)

	v1.POST("/orders/:id/payments", h.Payments.RecordPayment)
	v1.GET("/orders/:id/payments", h.Payments.ListPayments)
	v1.GET("/orders/:id/summary", h.Payments.PaymentSummary)
	v1.DELETE("/payments/:id", h.Payments.DeletePayment)

	v1.PUT("/order-items/:id/rental", h.Rentals.UpsertRental)
	v1.POST("/rentals/:id/return", h.Rentals.RecordReturn)
	v1.DELETE("/rentals/:id", h.Rentals.DeleteRental)
	v1.POST("/rentals/:id/costs", h.Rentals.AddRentalCost)
	v1.GET("/rentals/:id/costs", h.Rentals.ListRentalCosts)
	v1.GET("/rental-costs/types", h.Rentals.RentalCostTypes)
	v1.DELETE("/rental-costs/:id", h.Rentals.DeleteRentalCost)

	v1.GET("/orders/:id/audit", h.Audit.OrderHistory)
	v1.GET("/audit", h.Audit.ListAuditLogs)
	v1.POST("/audit/exports/:date", h.Audit.ExportDay)
	v1.GET("/audit/exports/:date", h.Audit.ExportDownload)
}
