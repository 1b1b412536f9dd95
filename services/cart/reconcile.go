package cart

import "platter/models"

// QuantityFor sums the quantities of lines for itemID whose variant matches
// exactly. An empty variantID matches only variant-less lines, and a variant
// never matches a variant-less line.
func QuantityFor(lines []models.CartLine, itemID, variantID string) int {
	total := 0
	for _, l := range lines {
		if l.FoodItemID == itemID && l.VariantID == variantID {
			total += l.Quantity
		}
	}
	return total
}

// LineKey identifies a (food item, variant) pair on the menu page.
type LineKey struct {
	FoodItemID string `json:"foodItemId"`
	VariantID  string `json:"variantId,omitempty"`
}

// ItemQuantity is the in-cart count shown next to a menu entry.
type ItemQuantity struct {
	LineKey
	Quantity int `json:"quantity"`
}

// Annotate returns the in-cart quantity of every orderable entry of the menu:
// one per variant for items with variants, one per plain item otherwise.
// Entries with nothing in the cart are omitted.
func Annotate(menu []models.FoodItem, lines []models.CartLine) []ItemQuantity {
	var out []ItemQuantity
	add := func(itemID, variantID string) {
		if q := QuantityFor(lines, itemID, variantID); q > 0 {
			out = append(out, ItemQuantity{LineKey: LineKey{FoodItemID: itemID, VariantID: variantID}, Quantity: q})
		}
	}
	for _, item := range menu {
		if len(item.Variants) == 0 {
			add(item.ID, "")
			continue
		}
		for _, v := range item.Variants {
			add(item.ID, v.ID)
		}
	}
	return out
}
