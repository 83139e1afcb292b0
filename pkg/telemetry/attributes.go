package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard attribute keys shared across the fleet's spans.
const (
	// Order
	AttrOrderID             = "order.id"
	AttrOrderItemID         = "order.item_id"
	AttrOrderCount          = "order.count"
	AttrOrderInventoryState = "order.inventory_state"

	// Inventory
	AttrInventoryID    = "inventory.id"
	AttrInventoryCount = "inventory.count"

	// Deduction (Phase B / reconciler)
	AttrDeductionSuccess       = "deduction.success"
	AttrDeductionIdempotentHit = "deduction.idempotent_hit"

	// Identity
	AttrUserID = "identity.user_id"
)

// OrderAttributes describes the order an operation is acting on.
func OrderAttributes(orderID int64, itemID, count, inventoryState int32) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(AttrOrderID, orderID),
		attribute.Int(AttrOrderItemID, int(itemID)),
		attribute.Int(AttrOrderCount, int(count)),
		attribute.Int(AttrOrderInventoryState, int(inventoryState)),
	}
}

// InventoryAttributes describes the inventory row an operation touches.
func InventoryAttributes(inventoryID, count int32) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrInventoryID, int(inventoryID)),
		attribute.Int(AttrInventoryCount, int(count)),
	}
}

// DeductionAttributes describes the outcome of one inventory deduction
// attempt, whether driven by the synchronous Phase B call or a
// reconciler retry.
func DeductionAttributes(orderID, inventoryID int32, success, idempotentHit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrOrderID, int(orderID)),
		attribute.Int(AttrInventoryID, int(inventoryID)),
		attribute.Bool(AttrDeductionSuccess, success),
		attribute.Bool(AttrDeductionIdempotentHit, idempotentHit),
	}
}

// IdentityAttributes describes the user a sign-up/sign-in span acts on.
func IdentityAttributes(userID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrUserID, userID),
	}
}
