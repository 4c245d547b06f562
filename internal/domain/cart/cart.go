package cart

// Line is a single cart entry for one listing.
type Line struct {
	Quantity int `json:"quantity"`
}

// SellerCart maps listing IDs to cart lines for a single seller.
type SellerCart map[string]Line

// Cart maps seller IDs to their per-listing cart lines. Both levels are
// keyed by opaque string identifiers; iteration order is never significant.
type Cart map[string]SellerCart

// Update merges a single quantity delta into a cart and returns the merged
// result. The input cart is never mutated, so sequential applications are
// replayable. A quantity of zero removes the (seller, listing) entry and
// drops the seller bucket when it becomes empty; a positive quantity upserts
// the entry.
func Update(old Cart, sellerID, listingID string, quantity int) Cart {
	merged := old.Clone()
	if merged == nil {
		merged = Cart{}
	}

	if quantity == 0 {
		bucket, ok := merged[sellerID]
		if !ok {
			return merged
		}
		delete(bucket, listingID)
		if len(bucket) == 0 {
			delete(merged, sellerID)
		}
		return merged
	}

	bucket, ok := merged[sellerID]
	if !ok {
		bucket = SellerCart{}
		merged[sellerID] = bucket
	}
	bucket[listingID] = Line{Quantity: quantity}
	return merged
}

// ClearSeller removes an entire seller bucket from the cart. Used after a
// seller's order has been paid.
func ClearSeller(old Cart, sellerID string) Cart {
	merged := old.Clone()
	delete(merged, sellerID)
	return merged
}

// RemoveListings prunes the given listing IDs from every seller bucket,
// dropping buckets that become empty.
func RemoveListings(old Cart, listingIDs []string) Cart {
	remove := make(map[string]struct{}, len(listingIDs))
	for _, id := range listingIDs {
		remove[id] = struct{}{}
	}

	result := Cart{}
	for sellerID, bucket := range old {
		kept := SellerCart{}
		for listingID, line := range bucket {
			if _, ok := remove[listingID]; !ok {
				kept[listingID] = line
			}
		}
		if len(kept) > 0 {
			result[sellerID] = kept
		}
	}
	return result
}

// TotalCount returns the total quantity across all seller buckets.
func TotalCount(c Cart) int {
	total := 0
	for _, bucket := range c {
		for _, line := range bucket {
			total += line.Quantity
		}
	}
	return total
}

// Clone returns a deep copy of the cart. Returns nil for a nil cart.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	cloned := make(Cart, len(c))
	for sellerID, bucket := range c {
		clonedBucket := make(SellerCart, len(bucket))
		for listingID, line := range bucket {
			clonedBucket[listingID] = line
		}
		cloned[sellerID] = clonedBucket
	}
	return cloned
}
