package shipping

import "strings"

// orderReferencePrefix is prepended to the order ID to form the courier-side
// reference identifier. The courier returns this identifier verbatim in both
// shipment detail and webhook payloads, making it the only join key between
// a courier shipment and an order.
const orderReferencePrefix = "MARKETPLACE-ORDER-"

// BuildOrderReference returns the reference identifier embedded in a courier
// shipment at creation time.
func BuildOrderReference(orderID string) string {
	return orderReferencePrefix + orderID
}

// ParseOrderIDFromReference recovers the order ID from a courier reference
// identifier. A reference without the expected prefix yields ok=false, never
// an error: losing an unresolvable reference is safer than rejecting it.
func ParseOrderIDFromReference(reference string) (string, bool) {
	if !strings.HasPrefix(reference, orderReferencePrefix) {
		return "", false
	}
	return reference[len(orderReferencePrefix):], true
}
