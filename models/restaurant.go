package models

import "github.com/shopspring/decimal"

// Restaurant feature flags used by browse filters.
const (
	FeatureFreeDelivery = "freeDelivery"
	FeatureOffers       = "offers"
	FeatureFeatured     = "featured"
	FeatureNew          = "new"
)

// RestaurantSummary is one card on the home, restaurants and search pages.
type RestaurantSummary struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Cuisines    []string          `json:"cuisines"`
	Tags        []string          `json:"tags,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Rating      float64           `json:"rating"`
	RatingCount int               `json:"ratingCount"`
	DistanceKm  float64           `json:"distanceKm"`
	PriceForTwo decimal.Decimal   `json:"priceForTwo"`
	IsOpen      bool              `json:"isOpen"`
	PureVeg     bool              `json:"pureVeg"`
	Popularity  int               `json:"popularity"` // completed orders
	Features    []string          `json:"features,omitempty"`
	Verified    bool              `json:"verified"`
	Email       string            `json:"email,omitempty"`
	Address     RestaurantAddress `json:"address"`
}

// HasFeature reports whether the restaurant carries the named feature flag.
func (r RestaurantSummary) HasFeature(feature string) bool {
	for _, f := range r.Features {
		if f == feature {
			return true
		}
	}
	return false
}

type Variant struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type FoodItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsVeg       bool            `json:"isVeg"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Popularity  int             `json:"popularity"`
	Available   bool            `json:"available"`
	Variants    []Variant       `json:"variants,omitempty"`
}

// StartingPrice is the base price, or the cheapest variant when the item only
// sells through variants.
func (f FoodItem) StartingPrice() decimal.Decimal {
	if !f.Price.IsZero() || len(f.Variants) == 0 {
		return f.Price
	}
	low := f.Variants[0].Price
	for _, v := range f.Variants[1:] {
		if v.Price.LessThan(low) {
			low = v.Price
		}
	}
	return low
}

type MenuCategory struct {
	Name  string     `json:"name"`
	Items []FoodItem `json:"items"`
}

// RestaurantProfile is the single-restaurant view behind the menu page.
type RestaurantProfile struct {
	RestaurantSummary
	Phone       string         `json:"phone,omitempty"`
	OpeningTime string         `json:"openingTime,omitempty"`
	ClosingTime string         `json:"closingTime,omitempty"`
	IsFavourite bool           `json:"isFavourite"`
	Menu        []MenuCategory `json:"menu"`
}

// Items flattens the menu in category order.
func (p RestaurantProfile) Items() []FoodItem {
	var out []FoodItem
	for _, c := range p.Menu {
		out = append(out, c.Items...)
	}
	return out
}

// FoodCategory is a browse tile on the home page.
type FoodCategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Coordinates are a viewer position used for distance-aware lookups.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
