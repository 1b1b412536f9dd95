package catalog

import (
	"sort"

	"platter/models"
)

// SortKey selects one comparator for a browse view.
type SortKey string

const (
	SortNone       SortKey = ""
	SortRating     SortKey = "rating"     // descending
	SortDistance   SortKey = "distance"   // ascending
	SortPriceAsc   SortKey = "price_asc"  // ascending
	SortPriceDesc  SortKey = "price_desc" // descending
	SortPopularity SortKey = "popularity" // descending
)

// Valid reports whether k is a known key. The empty key keeps source order.
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortRating, SortDistance, SortPriceAsc, SortPriceDesc, SortPopularity:
		return true
	}
	return false
}

// Less returns the comparator for a key, or nil for source order.
type Less[T any] func(a, b T) bool

// RestaurantLess returns the restaurant comparator for k.
func RestaurantLess(k SortKey) Less[models.RestaurantSummary] {
	switch k {
	case SortRating:
		return func(a, b models.RestaurantSummary) bool { return a.Rating > b.Rating }
	case SortDistance:
		return func(a, b models.RestaurantSummary) bool { return a.DistanceKm < b.DistanceKm }
	case SortPriceAsc:
		return func(a, b models.RestaurantSummary) bool { return a.PriceForTwo.LessThan(b.PriceForTwo) }
	case SortPriceDesc:
		return func(a, b models.RestaurantSummary) bool { return a.PriceForTwo.GreaterThan(b.PriceForTwo) }
	case SortPopularity:
		return func(a, b models.RestaurantSummary) bool { return a.Popularity > b.Popularity }
	}
	return nil
}

// FoodItemLess returns the food item comparator for k. Items have no
// distance, so SortDistance keeps source order.
func FoodItemLess(k SortKey) Less[models.FoodItem] {
	switch k {
	case SortRating:
		return func(a, b models.FoodItem) bool { return a.Rating > b.Rating }
	case SortPriceAsc:
		return func(a, b models.FoodItem) bool { return a.StartingPrice().LessThan(b.StartingPrice()) }
	case SortPriceDesc:
		return func(a, b models.FoodItem) bool { return a.StartingPrice().GreaterThan(b.StartingPrice()) }
	case SortPopularity:
		return func(a, b models.FoodItem) bool { return a.Popularity > b.Popularity }
	}
	return nil
}

// Sort orders items in place. Ties are left in no particular order.
func Sort[T any](items []T, less Less[T]) {
	if less == nil {
		return
	}
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
}
