package services

import (
	"orderdesk/internal/common"
	"orderdesk/internal/models"
)

// orderTransitions is the complete set of permitted status moves. COMPLETED has no way out
// and CANCELLED can only be revived as a fresh QUOTE.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusQuote:      {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusInProgress, models.OrderStatusCancelled},
	models.OrderStatusInProgress: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:      {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {models.OrderStatusQuote},
}

// CanTransitionTo reports whether the table allows moving from current to target.
func CanTransitionTo(current, target models.OrderStatus) bool {
	for _, allowed := range orderTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the statuses reachable from current.
func AllowedTransitions(current models.OrderStatus) []models.OrderStatus {
	next := orderTransitions[current]
	out := make([]models.OrderStatus, len(next))
	copy(out, next)
	return out
}

// ValidateTransition returns an *common.InvalidTransitionError when the move is not in the table.
func ValidateTransition(current, target models.OrderStatus) error {
	if !CanTransitionTo(current, target) {
		return &common.InvalidTransitionError{From: string(current), To: string(target)}
	}
	return nil
}
