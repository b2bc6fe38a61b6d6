package services

import (
	"fmt"
	"strings"

	"orderdesk/internal/common"
	"orderdesk/internal/models"
	"orderdesk/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundredPercent = decimal.NewFromInt(100)

func validateOrderInput(in *models.OrderInput) error {
	if in == nil {
		return common.NewValidationError("order", "is required")
	}
	if in.ClientID == uuid.Nil {
		return common.NewValidationError("client_id", "is required")
	}
	if in.Dates.OrderDate.IsZero() {
		return common.NewValidationError("order_date", "is required")
	}
	if in.MinDownpaymentPercent != nil && (*in.MinDownpaymentPercent < 0 || *in.MinDownpaymentPercent > 100) {
		return common.NewValidationError("min_downpayment_percent", "must be between 0 and 100")
	}
	if !in.Adjustment.Amount.IsZero() && strings.TrimSpace(common.SafeString(in.Adjustment.Reason)) == "" {
		return common.NewValidationError("adjustment_reason", "is required when an adjustment amount is set")
	}

	seen := make(map[uuid.UUID]struct{}, len(in.Items))
	for i := range in.Items {
		if err := validateItemInput(fmt.Sprintf("items[%d]", i), &in.Items[i]); err != nil {
			return err
		}
		if id := in.Items[i].ID; id != nil {
			if _, dup := seen[*id]; dup {
				return common.NewValidationError(fmt.Sprintf("items[%d].id", i), "appears more than once")
			}
			seen[*id] = struct{}{}
		}
	}
	return nil
}

func validateItemInput(field string, in *models.OrderItemInput) error {
	if !in.ItemType.IsValid() {
		return common.NewValidationError(field+".item_type", "must be SALE, RENTAL or SERVICE")
	}
	if in.ItemType.RequiresProduct() && in.ProductID == nil {
		return common.NewValidationError(field+".product_id", fmt.Sprintf("is required for %s items", in.ItemType))
	}
	if !in.ItemType.RequiresProduct() && in.ProductID != nil {
		return common.NewValidationError(field+".product_id", "must be empty for SERVICE items")
	}
	if strings.TrimSpace(in.Name) == "" {
		return common.NewValidationError(field+".name", "is required")
	}
	if in.Quantity < 1 {
		return common.NewValidationError(field+".quantity", "must be at least 1")
	}
	if in.UnitPrice.IsNegative() {
		return common.NewValidationError(field+".unit_price", "must not be negative")
	}
	if in.CostSource != "" && !in.CostSource.IsValid() {
		return common.NewValidationError(field+".cost_source", "must be INVENTORY, EXPENSES or MANUAL")
	}
	if in.CostAmount.IsNegative() {
		return common.NewValidationError(field+".cost_amount", "must not be negative")
	}

	if in.DiscountType != nil {
		if in.DiscountValue == nil {
			return common.NewValidationError(field+".discount_value", "is required with a discount type")
		}
		switch *in.DiscountType {
		case models.DiscountFixed:
			if in.DiscountValue.IsNegative() {
				return common.NewValidationError(field+".discount_value", "must not be negative")
			}
		case models.DiscountPercentage:
			if in.DiscountValue.IsNegative() || in.DiscountValue.GreaterThan(hundredPercent) {
				return common.NewValidationError(field+".discount_value", "must be between 0 and 100")
			}
		default:
			return common.NewValidationError(field+".discount_type", "must be FIXED or PERCENTAGE")
		}
	}

	if r := in.Rental; r != nil {
		if r.PickupDate != nil && r.ExpectedReturnDate != nil && r.ExpectedReturnDate.Before(*r.PickupDate) {
			return common.NewValidationError(field+".rental.expected_return_date", "must not be before the pickup date")
		}
		if r.Deposit != nil && r.Deposit.IsNegative() {
			return common.NewValidationError(field+".rental.deposit", "must not be negative")
		}
		if r.ChargedIncome != nil && r.ChargedIncome.IsNegative() {
			return common.NewValidationError(field+".rental.charged_income", "must not be negative")
		}
	}
	return nil
}

func validatePaymentInput(in *models.PaymentInput) error {
	if in == nil {
		return common.NewValidationError("payment", "is required")
	}
	if in.OrderID == uuid.Nil {
		return common.NewValidationError("order_id", "is required")
	}
	if !in.Amount.IsPositive() {
		return common.NewValidationError("amount", "must be greater than zero")
	}
	if !in.PaymentType.IsValid() {
		return common.NewValidationError("payment_type", "must be DOWNPAYMENT, INSTALLMENT or FINAL")
	}
	if !in.Method.IsValid() {
		return common.NewValidationError("payment_method", "is not a supported payment method")
	}
	return nil
}

// applyItemInput copies caller-editable fields onto item. Identity, order and timestamps are untouched.
func applyItemInput(item *models.OrderItem, in *models.OrderItemInput) {
	item.ItemType = in.ItemType
	item.ProductID = in.ProductID
	if in.InventoryUnitID != nil {
		item.InventoryUnitID = in.InventoryUnitID
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Quantity = in.Quantity
	item.UnitPrice = in.UnitPrice
	item.DiscountType = in.DiscountType
	item.DiscountValue = in.DiscountValue
	if in.DiscountType == nil {
		item.DiscountValue = nil
	}
	item.CostSource = in.CostSource
	if item.CostSource == "" {
		item.CostSource = models.CostSourceManual
	}
	item.CostAmount = in.CostAmount
}

func newItemFromInput(orderID uuid.UUID, in *models.OrderItemInput) *models.OrderItem {
	item := &models.OrderItem{ID: uuid.New(), OrderID: orderID}
	applyItemInput(item, in)
	return item
}

// newRental builds the rental for a freshly created RENTAL line. Charged income defaults to the
// line subtotal and the deposit to zero.
func newRental(item *models.OrderItem, terms *models.RentalTerms) *models.Rental {
	itemID := item.ID
	rental := &models.Rental{
		OrderItemID:   &itemID,
		ChargedIncome: LineSubtotal(item),
		Deposit:       money.Zero,
	}
	applyRentalTerms(rental, terms)
	return rental
}

func applyRentalTerms(rental *models.Rental, terms *models.RentalTerms) {
	if terms == nil {
		return
	}
	if terms.PickupDate != nil {
		rental.PickupDate = terms.PickupDate
	}
	if terms.ExpectedReturnDate != nil {
		rental.ExpectedReturnDate = terms.ExpectedReturnDate
	}
	if terms.ChargedIncome != nil {
		rental.ChargedIncome = *terms.ChargedIncome
	}
	if terms.Deposit != nil {
		rental.Deposit = *terms.Deposit
	}
}
