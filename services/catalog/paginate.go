package catalog

import "platter/models"

const (
	// DefaultPageSize is used when a query asks for no size.
	DefaultPageSize = 12
	// MaxPageSize caps the size a query may ask for.
	MaxPageSize = 100
)

// Page is one fixed-size slice of an already filtered and sorted view.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Paginate slices items. A page below 1 is treated as 1; a page past the end
// is returned empty with the real totals.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	pages := total / size
	if total%size != 0 {
		pages++
	}

	// Pages past the end are checked before multiplying so a huge page
	// number cannot overflow the offset.
	start, end := total, total
	if page <= pages {
		start = (page - 1) * size
		end = start + size
		if end > total || end < start {
			end = total
		}
	}
	return Page[T]{
		Items:      append(make([]T, 0, end-start), items[start:end]...),
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// BrowseRestaurants filters, sorts and paginates a fetched restaurant list.
func BrowseRestaurants(items []models.RestaurantSummary, q Query) Page[models.RestaurantSummary] {
	view := Filter(items, RestaurantPredicate(q))
	Sort(view, RestaurantLess(q.Sort))
	return Paginate(view, q.Page, q.PageSize)
}

// BrowseMenu filters and sorts a restaurant's menu. The menu page shows every
// match, so there is no pagination.
func BrowseMenu(p models.RestaurantProfile, q Query) []models.FoodItem {
	view := Filter(p.Items(), FoodItemPredicate(q))
	Sort(view, FoodItemLess(q.Sort))
	return view
}

// MenuCategories lists the distinct item categories in menu order.
func MenuCategories(p models.RestaurantProfile) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range p.Items() {
		if item.Category != "" && !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}
