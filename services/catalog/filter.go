package catalog

import (
	"fmt"
	"strings"

	"platter/models"

	"github.com/shopspring/decimal"
)

// Predicate reports whether an item stays in a browse view.
type Predicate[T any] func(T) bool

// All combines predicates with AND. Nil predicates are skipped.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p != nil && !p(v) {
				return false
			}
		}
		return true
	}
}

// Filter returns the items p keeps, in their original order.
func Filter[T any](items []T, p Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p == nil || p(it) {
			out = append(out, it)
		}
	}
	return out
}

// Query holds the filters and sort selected on a browse screen. Zero values
// mean "no filter".
type Query struct {
	Search    string           `form:"q"`
	Category  string           `form:"category"`
	VegOnly   bool             `form:"veg"`
	MinPrice  *decimal.Decimal `form:"-"`
	MaxPrice  *decimal.Decimal `form:"-"`
	MinRating float64          `form:"minRating"`
	OpenNow   bool             `form:"openNow"`
	Feature   string           `form:"feature"`
	Sort      SortKey          `form:"sort"`
	Page      int              `form:"page"`
	PageSize  int              `form:"pageSize"`
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func anyContainsFold(values []string, needle string) bool {
	for _, v := range values {
		if containsFold(v, needle) {
			return true
		}
	}
	return false
}

func anyEqualFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func inRange(price decimal.Decimal, min, max *decimal.Decimal) bool {
	if min != nil && price.LessThan(*min) {
		return false
	}
	if max != nil && price.GreaterThan(*max) {
		return false
	}
	return true
}

// RestaurantPredicate builds the predicate for restaurant grids. Category
// matches a cuisine; search covers name, cuisines, description and tags.
func RestaurantPredicate(q Query) Predicate[models.RestaurantSummary] {
	var preds []Predicate[models.RestaurantSummary]
	if c := strings.TrimSpace(q.Category); c != "" {
		preds = append(preds, func(r models.RestaurantSummary) bool { return anyEqualFold(r.Cuisines, c) })
	}
	if q.VegOnly {
		preds = append(preds, func(r models.RestaurantSummary) bool { return r.PureVeg })
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		preds = append(preds, func(r models.RestaurantSummary) bool { return inRange(r.PriceForTwo, q.MinPrice, q.MaxPrice) })
	}
	if q.MinRating > 0 {
		preds = append(preds, func(r models.RestaurantSummary) bool { return r.Rating >= q.MinRating })
	}
	if q.OpenNow {
		preds = append(preds, func(r models.RestaurantSummary) bool { return r.IsOpen })
	}
	if f := strings.TrimSpace(q.Feature); f != "" {
		preds = append(preds, func(r models.RestaurantSummary) bool { return r.HasFeature(f) })
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		preds = append(preds, func(r models.RestaurantSummary) bool {
			return containsFold(r.Name, s) || anyContainsFold(r.Cuisines, s) ||
				containsFold(r.Description, s) || anyContainsFold(r.Tags, s)
		})
	}
	return All(preds...)
}

// FoodItemPredicate builds the predicate for the menu page. Search covers
// name, category, description and tags.
func FoodItemPredicate(q Query) Predicate[models.FoodItem] {
	var preds []Predicate[models.FoodItem]
	if c := strings.TrimSpace(q.Category); c != "" {
		preds = append(preds, func(f models.FoodItem) bool { return strings.EqualFold(f.Category, c) })
	}
	if q.VegOnly {
		preds = append(preds, func(f models.FoodItem) bool { return f.IsVeg })
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		preds = append(preds, func(f models.FoodItem) bool { return inRange(f.StartingPrice(), q.MinPrice, q.MaxPrice) })
	}
	if q.MinRating > 0 {
		preds = append(preds, func(f models.FoodItem) bool { return f.Rating >= q.MinRating })
	}
	if q.OpenNow {
		preds = append(preds, func(f models.FoodItem) bool { return f.Available })
	}
	if tag := strings.TrimSpace(q.Feature); tag != "" {
		preds = append(preds, func(f models.FoodItem) bool { return anyEqualFold(f.Tags, tag) })
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		preds = append(preds, func(f models.FoodItem) bool {
			return containsFold(f.Name, s) || containsFold(f.Category, s) ||
				containsFold(f.Description, s) || anyContainsFold(f.Tags, s)
		})
	}
	return All(preds...)
}

// WithPriceBounds parses optional price bounds ("" means unbounded) into q.
func (q *Query) WithPriceBounds(min, max string) error {
	parse := func(s string) (*decimal.Decimal, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", s, err)
		}
		return &d, nil
	}
	lo, err := parse(min)
	if err != nil {
		return err
	}
	hi, err := parse(max)
	if err != nil {
		return err
	}
	q.MinPrice, q.MaxPrice = lo, hi
	return nil
}
