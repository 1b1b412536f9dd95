package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (food item, variant) entry in a customer's cart. VariantID
// is empty for items added without a variant.
type CartLine struct {
	FoodItemID string          `json:"foodItemId"`
	VariantID  string          `json:"variantId,omitempty"`
	Name       string          `json:"name,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	RestaurantID string     `json:"restaurantId,omitempty"`
	Items        []CartLine `json:"items"`
}

// Total sums every line subtotal.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// CartChange adds or removes quantity for a (food item, variant) pair.
type CartChange struct {
	RestaurantID string `json:"restaurantId,omitempty"`
	FoodItemID   string `json:"foodItemId" binding:"required"`
	VariantID    string `json:"variantId,omitempty"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Items        []CartLine      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}
