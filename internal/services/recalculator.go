package services

import (
	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/money"
)

// Totals are the derived financial figures of an order.
type Totals struct {
	TotalPrice money.Money `json:"total_price"`
	TotalCost  money.Money `json:"total_cost"`
}

// LineSubtotal is quantity × unit price less the line discount, floored at zero.
// The gross amount must fit in Money; Recalculate checks that before calling it.
func LineSubtotal(item *models.OrderItem) money.Money {
	subtotal := item.UnitPrice.MulInt(item.Quantity)
	if item.DiscountType != nil && item.DiscountValue != nil {
		switch *item.DiscountType {
		case models.DiscountFixed:
			discount, err := money.FromDecimal(*item.DiscountValue)
			if err != nil {
				// larger than any representable amount
				return money.Zero
			}
			subtotal = subtotal.Sub(discount)
		case models.DiscountPercentage:
			subtotal = subtotal.ApplyPercentOff(*item.DiscountValue)
		}
	}
	if subtotal.IsNegative() {
		return money.Zero
	}
	return subtotal
}

// LineCost is quantity × unit cost.
func LineCost(item *models.OrderItem) money.Money {
	return item.CostAmount.MulInt(item.Quantity)
}

// Recalculate derives order totals from its items. Soft-deleted items are ignored. A line or
// total that does not fit in Money is a validation error, never a wrapped amount.
func Recalculate(items []*models.OrderItem, adjustment money.Money) (Totals, error) {
	prices := []money.Money{adjustment}
	costs := make([]money.Money, 0, len(items))
	for _, item := range items {
		if item == nil || item.DeletedAt != nil {
			continue
		}
		if _, err := item.UnitPrice.CheckedMulInt(item.Quantity); err != nil {
			return Totals{}, common.NewValidationError("items", "line amount is out of range")
		}
		cost, err := item.CostAmount.CheckedMulInt(item.Quantity)
		if err != nil {
			return Totals{}, common.NewValidationError("items", "line cost is out of range")
		}
		prices = append(prices, LineSubtotal(item))
		costs = append(costs, cost)
	}

	totalPrice, err := money.Sum(prices...)
	if err != nil {
		return Totals{}, common.NewValidationError("total_price", "is out of range")
	}
	totalCost, err := money.Sum(costs...)
	if err != nil {
		return Totals{}, common.NewValidationError("total_cost", "is out of range")
	}
	return Totals{TotalPrice: totalPrice, TotalCost: totalCost}, nil
}
