package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"platter/middleware"
	"platter/models"
	"platter/services/cart"
	"platter/services/catalog"
	"platter/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HomeService is the public browse slice of the backend.
type HomeService interface {
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.RestaurantSummary, error)
	Restaurant(ctx context.Context, id string, coords *models.Coordinates) (*models.RestaurantProfile, error)
	Categories(ctx context.Context) ([]models.FoodCategory, error)
}

// CustomerService is the signed-in customer slice of the backend.
type CustomerService interface {
	Cart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, change models.CartChange) (string, error)
	RemoveFromCart(ctx context.Context, change models.CartChange) (string, error)
	ToggleFavourite(ctx context.Context, restaurantID string) (bool, string, error)
	Favourites(ctx context.Context) ([]models.RestaurantSummary, error)
}

var errLocationRequired = errors.New("location required")

// BrowseHandler serves the storefront: home, restaurant grids, search, menus
// and the customer's cart.
type BrowseHandler struct {
	Home       HomeService
	Customer   CustomerService
	RadiusKm   float64
	PageSize   int
	GeoTimeout time.Duration
}

func NewBrowseHandler(home HomeService, customer CustomerService, radiusKm float64, pageSize int, geoTimeout time.Duration) *BrowseHandler {
	return &BrowseHandler{Home: home, Customer: customer, RadiusKm: radiusKm, PageSize: pageSize, GeoTimeout: geoTimeout}
}

// bindQuery reads the browse filters from the query string.
func (h *BrowseHandler) bindQuery(c *gin.Context) (catalog.Query, bool) {
	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid filters", err.Error())
		return q, false
	}
	if err := q.WithPriceBounds(c.Query("minPrice"), c.Query("maxPrice")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid price range", err.Error())
		return q, false
	}
	if !q.Sort.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "Invalid sort", string(q.Sort))
		return q, false
	}
	if q.PageSize <= 0 {
		q.PageSize = h.PageSize
	}
	if q.PageSize > catalog.MaxPageSize {
		q.PageSize = catalog.MaxPageSize
	}
	return q, true
}

// coordinates reads lat/lng from the query. Without them the caller's IP
// locator is tried.
func (h *BrowseHandler) coordinates(c *gin.Context) (*models.Coordinates, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, errLocationRequired
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return nil, errLocationRequired
		}
		return &models.Coordinates{Lat: lat, Lng: lng}, nil
	}
	loc, ok := middleware.Locator(c)
	if !ok || !loc.Supported() {
		return nil, errLocationRequired
	}
	ctx := c.Request.Context()
	if h.GeoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.GeoTimeout)
		defer cancel()
	}
	coords, err := loc.Locate(ctx)
	if err != nil {
		getLogger(c).Debug("IP location failed", zap.Error(err))
		return nil, errLocationRequired
	}
	return &coords, nil
}

func (h *BrowseHandler) nearby(c *gin.Context) ([]models.RestaurantSummary, bool) {
	coords, err := h.coordinates(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Location is required to find restaurants near you", "")
		return nil, false
	}
	list, err := h.Home.Nearby(c.Request.Context(), coords.Lat, coords.Lng, h.RadiusKm)
	if err != nil {
		respondError(c, err, "Failed to load restaurants")
		return nil, false
	}
	return list, true
}

// HomePage returns the category tiles and the first page of nearby restaurants.
func (h *BrowseHandler) HomePage(c *gin.Context) {
	categories, err := h.Home.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load categories")
		return
	}
	list, ok := h.nearby(c)
	if !ok {
		return
	}
	page := catalog.BrowseRestaurants(list, catalog.Query{Sort: catalog.SortDistance, PageSize: h.PageSize})
	respondJSON(c, http.StatusOK, gin.H{"categories": categories, "restaurants": page})
}

// Restaurants is the filterable, sortable, paginated nearby grid.
func (h *BrowseHandler) Restaurants(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	list, ok := h.nearby(c)
	if !ok {
		return
	}
	respondJSON(c, http.StatusOK, catalog.BrowseRestaurants(list, q))
}

// Search matches nearby restaurants and category tiles against q.
func (h *BrowseHandler) Search(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		utils.JSONError(c, http.StatusBadRequest, "A search term is required", "")
		return
	}
	list, ok := h.nearby(c)
	if !ok {
		return
	}
	categories, err := h.Home.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load categories")
		return
	}
	matched := catalog.Filter(categories, func(fc models.FoodCategory) bool {
		return strings.Contains(strings.ToLower(fc.Name), term)
	})
	respondJSON(c, http.StatusOK, gin.H{"categories": matched, "restaurants": catalog.BrowseRestaurants(list, q)})
}

type menuResponse struct {
	Restaurant models.RestaurantSummary `json:"restaurant"`
	Phone      string                   `json:"phone,omitempty"`
	Opening    string                   `json:"openingTime,omitempty"`
	Closing    string                   `json:"closingTime,omitempty"`
	Favourite  bool                     `json:"isFavourite"`
	Categories []string                 `json:"categories"`
	Items      []models.FoodItem        `json:"items"`
	InCart     []cart.ItemQuantity      `json:"inCart"`
	CartTotal  string                   `json:"cartTotal,omitempty"`
}

// Menu returns a restaurant with its filtered menu. A signed-in customer also
// gets the in-cart quantity of every entry.
func (h *BrowseHandler) Menu(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	var coords *models.Coordinates
	if c.Query("lat") != "" {
		coords, _ = h.coordinates(c)
	}
	profile, err := h.Home.Restaurant(c.Request.Context(), c.Param("id"), coords)
	if err != nil {
		respondError(c, err, "Failed to load restaurant")
		return
	}

	resp := menuResponse{
		Restaurant: profile.RestaurantSummary,
		Phone:      profile.Phone,
		Opening:    profile.OpeningTime,
		Closing:    profile.ClosingTime,
		Favourite:  profile.IsFavourite,
		Categories: catalog.MenuCategories(*profile),
		Items:      catalog.BrowseMenu(*profile, q),
		InCart:     []cart.ItemQuantity{},
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}

	if middleware.CurrentActor(c).Role == models.RoleCustomer {
		current, err := h.Customer.Cart(c.Request.Context())
		if err != nil {
			getLogger(c).Warn("Failed to load cart for menu", zap.Error(err))
		} else if current.RestaurantID == "" || current.RestaurantID == profile.ID {
			if annotated := cart.Annotate(profile.Items(), current.Items); annotated != nil {
				resp.InCart = annotated
			}
			resp.CartTotal = current.Total().StringFixed(2)
		}
	}
	respondJSON(c, http.StatusOK, resp)
}

func (h *BrowseHandler) changeCart(c *gin.Context, apply func(context.Context, models.CartChange) (string, error), fallback string) {
	var change models.CartChange
	if err := c.ShouldBindJSON(&change); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid cart change", err.Error())
		return
	}
	msg, err := apply(c.Request.Context(), change)
	if err != nil {
		respondError(c, err, fallback)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": msg})
}

// AddToCart confirms only; the page re-fetches the menu for new quantities.
func (h *BrowseHandler) AddToCart(c *gin.Context) {
	h.changeCart(c, h.Customer.AddToCart, "Failed to add item to cart")
}

func (h *BrowseHandler) RemoveFromCart(c *gin.Context) {
	h.changeCart(c, h.Customer.RemoveFromCart, "Failed to remove item from cart")
}

func (h *BrowseHandler) ToggleFavourite(c *gin.Context) {
	fav, msg, err := h.Customer.ToggleFavourite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to update favourites")
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": msg, "isFavourite": fav})
}

func (h *BrowseHandler) Favourites(c *gin.Context) {
	list, err := h.Customer.Favourites(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load favourites")
		return
	}
	if list == nil {
		list = []models.RestaurantSummary{}
	}
	respondJSON(c, http.StatusOK, gin.H{"restaurants": list})
}
