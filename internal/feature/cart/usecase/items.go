package usecase

import (
	"math"

	"shop_backend/internal/feature/cart/domain/entity"
	"shop_backend/internal/shared/ids"
)

// ItemInput is an unvalidated line as received from a client.
// Quantity is nil when the client omitted it. Malformed is set when the entry
// could not be decoded at all and holds the reason reported back for it.
type ItemInput struct {
	ProductID string
	Quantity  *float64
	Malformed string
}

// validateItems checks every entry and returns the normalised items keyed by canonical id.
// A repeated product keeps its first position and its last quantity.
// With allowZero, zero quantities pass validation and are dropped from the result.
func validateItems(in []ItemInput, allowZero bool) ([]entity.Item, error) {
	var bad []InvalidItem
	out := make([]entity.Item, 0, len(in))
	pos := make(map[string]int, len(in))

	for i, it := range in {
		if it.Malformed != "" {
			bad = append(bad, InvalidItem{Index: i, ProductID: it.ProductID, Reason: it.Malformed})
			continue
		}
		id, err := ids.Canonical(it.ProductID)
		if err != nil {
			bad = append(bad, InvalidItem{Index: i, ProductID: it.ProductID, Reason: "productId must be a valid identifier"})
			continue
		}
		qty, reason := quantity(it.Quantity, allowZero)
		if reason != "" {
			bad = append(bad, InvalidItem{Index: i, ProductID: it.ProductID, Reason: reason})
			continue
		}
		if p, ok := pos[id]; ok {
			out[p].Quantity = qty
			continue
		}
		pos[id] = len(out)
		out = append(out, entity.Item{ProductID: id, Quantity: qty})
	}
	if len(bad) > 0 {
		return nil, &BatchValidationError{Items: bad}
	}

	kept := out[:0]
	for _, it := range out {
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	return kept, nil
}

// quantity converts q to an int or explains why it cannot.
func quantity(q *float64, allowZero bool) (int, string) {
	switch {
	case q == nil:
		return 0, "quantity is required"
	case math.IsNaN(*q) || math.IsInf(*q, 0) || *q != math.Trunc(*q):
		return 0, "quantity must be an integer"
	case *q < 0, *q == 0 && !allowZero:
		if allowZero {
			return 0, "quantity must not be negative"
		}
		return 0, "quantity must be a positive integer"
	case *q > math.MaxInt32:
		return 0, "quantity is too large"
	}
	return int(*q), ""
}

// mergeItems overwrites existing quantities with incoming ones per product.
// Existing items absent from incoming are kept in place; new products are appended.
func mergeItems(existing, incoming []entity.Item) []entity.Item {
	out := make([]entity.Item, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	pos := make(map[string]int, len(out))
	for i, it := range out {
		pos[it.ProductID] = i
	}
	for _, it := range incoming {
		if p, ok := pos[it.ProductID]; ok {
			out[p].Quantity = it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}
