package orders

import "github.com/glowora/glowora-backend/pkg/enums"

// transitionTable enumerates every accepted (current -> requested) move.
// Admins may override the forward flow, including reopening delivered or
// cancelled orders, so every pair is allowed; keeping the full table explicit
// makes that policy visible and lets a future forward-only rule land as data
// rather than new control flow. Re-entering the same state is allowed too:
// re-issuing a delivered update is the manual retry path for settlement and
// invoicing.
var transitionTable = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusPreparing, enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed: {enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusPreparing, enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusPreparing: {enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusPreparing, enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:   {enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusPreparing, enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered: {enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusPreparing, enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusCancelled: {enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusPreparing, enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled},
}

// CanTransition reports whether the requested status may replace the current one.
func CanTransition(current, requested enums.OrderStatus) bool {
	allowed, ok := transitionTable[current]
	if !ok {
		return false
	}
	for _, candidate := range allowed {
		if candidate == requested {
			return true
		}
	}
	return false
}

// triggersSettlement reports whether the requested status fires the delivered
// side effects (earnings settlement and invoice generation).
func triggersSettlement(requested enums.OrderStatus) bool {
	return requested == enums.OrderStatusDelivered
}

// initialStatuses derives the creation-time order and payment status from the
// payment method: cash on delivery starts unpaid and pending, every gateway
// method implies immediate payment.
func initialStatuses(paymentMethod string) (enums.OrderStatus, enums.PaymentStatus) {
	if isCashOnDelivery(paymentMethod) {
		return enums.OrderStatusPending, enums.PaymentStatusPending
	}
	return enums.OrderStatusConfirmed, enums.PaymentStatusPaid
}
