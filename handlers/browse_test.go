package handlers

import (
	"context"
	"net/http"
	"testing"

	"platter/middleware"
	"platter/models"
	"platter/services/catalog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHome struct {
	nearby     []models.RestaurantSummary
	profile    *models.RestaurantProfile
	categories []models.FoodCategory
	lastRadius float64
}

func (f *fakeHome) Nearby(_ context.Context, _, _, radiusKm float64) ([]models.RestaurantSummary, error) {
	f.lastRadius = radiusKm
	return f.nearby, nil
}

func (f *fakeHome) Restaurant(_ context.Context, id string, _ *models.Coordinates) (*models.RestaurantProfile, error) {
	p := *f.profile
	p.ID = id
	return &p, nil
}

func (f *fakeHome) Categories(context.Context) ([]models.FoodCategory, error) {
	return f.categories, nil
}

type fakeCustomer struct {
	cart    *models.Cart
	changes []models.CartChange
}

func (f *fakeCustomer) Cart(context.Context) (*models.Cart, error) { return f.cart, nil }

func (f *fakeCustomer) AddToCart(_ context.Context, change models.CartChange) (string, error) {
	f.changes = append(f.changes, change)
	return "Item added to cart", nil
}

func (f *fakeCustomer) RemoveFromCart(_ context.Context, change models.CartChange) (string, error) {
	f.changes = append(f.changes, change)
	return "Item removed from cart", nil
}

func (f *fakeCustomer) ToggleFavourite(context.Context, string) (bool, string, error) {
	return true, "Added to favourites", nil
}

func (f *fakeCustomer) Favourites(context.Context) ([]models.RestaurantSummary, error) {
	return nil, nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newBrowseRouter(home *fakeHome, customer *fakeCustomer, actor *models.Actor) *gin.Engine {
	h := NewBrowseHandler(home, customer, 8, 12, 0)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorKey, *actor)
		}
		c.Next()
	})
	r.GET("/home", h.HomePage)
	r.GET("/restaurants", h.Restaurants)
	r.GET("/search", h.Search)
	r.GET("/restaurants/:id/menu", h.Menu)
	r.POST("/cart/add", h.AddToCart)
	r.POST("/restaurants/:id/favourite", h.ToggleFavourite)
	r.GET("/favourites", h.Favourites)
	return r
}

func browseFixture() *fakeHome {
	return &fakeHome{
		nearby: []models.RestaurantSummary{
			{ID: "r1", Name: "Dosa Corner", Cuisines: []string{"South Indian"}, Rating: 4.1, DistanceKm: 2.5, PriceForTwo: price("300")},
			{ID: "r2", Name: "Spice Route", Cuisines: []string{"Seafood"}, Rating: 4.7, DistanceKm: 1.2, PriceForTwo: price("900"), PureVeg: false},
			{ID: "r3", Name: "Green Bowl", Cuisines: []string{"Salads"}, Rating: 3.9, DistanceKm: 0.4, PriceForTwo: price("450"), PureVeg: true},
		},
		categories: []models.FoodCategory{{ID: "c1", Name: "Dosa"}, {ID: "c2", Name: "Biryani"}},
		profile: &models.RestaurantProfile{
			RestaurantSummary: models.RestaurantSummary{Name: "Spice Route"},
			Menu: []models.MenuCategory{
				{Name: "Mains", Items: []models.FoodItem{
					{ID: "f1", Name: "Fish Curry", Category: "Mains", Price: price("120")},
					{ID: "f2", Name: "Thali", Category: "Mains", Variants: []models.Variant{
						{ID: "v1", Name: "Regular", Price: price("150")},
						{ID: "v2", Name: "Large", Price: price("220")},
					}},
				}},
				{Name: "Desserts", Items: []models.FoodItem{
					{ID: "f3", Name: "Payasam", Category: "Desserts", IsVeg: true, Price: price("80")},
				}},
			},
		},
	}
}

const near = "lat=12.97&lng=77.59"

func TestRestaurantsRequiresLocation(t *testing.T) {
	r := newBrowseRouter(browseFixture(), &fakeCustomer{}, nil)

	w := doJSON(t, r, http.MethodGet, "/restaurants", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Location is required")
}

func TestRestaurantsFilterSortPaginate(t *testing.T) {
	home := browseFixture()
	r := newBrowseRouter(home, &fakeCustomer{}, nil)

	w := doJSON(t, r, http.MethodGet, "/restaurants?"+near+"&sort=rating&pageSize=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page catalog.Page[models.RestaurantSummary]
	decode(t, w, &page)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "r2", page.Items[0].ID)
	assert.Equal(t, "r1", page.Items[1].ID)
	assert.Equal(t, 8.0, home.lastRadius)

	w = doJSON(t, r, http.MethodGet, "/restaurants?"+near+"&veg=true", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r3", page.Items[0].ID)

	w = doJSON(t, r, http.MethodGet, "/restaurants?"+near+"&maxPrice=500&sort=price_desc", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "r3", page.Items[0].ID)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/restaurants?"+near+"&sort=cheapest", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/restaurants?"+near+"&minPrice=abc", nil, nil).Code)
}

func TestHomePageSortsByDistance(t *testing.T) {
	r := newBrowseRouter(browseFixture(), &fakeCustomer{}, nil)

	w := doJSON(t, r, http.MethodGet, "/home?"+near, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Categories  []models.FoodCategory                   `json:"categories"`
		Restaurants catalog.Page[models.RestaurantSummary] `json:"restaurants"`
	}
	decode(t, w, &resp)
	assert.Len(t, resp.Categories, 2)
	require.Len(t, resp.Restaurants.Items, 3)
	assert.Equal(t, "r3", resp.Restaurants.Items[0].ID)
}

func TestSearchMatchesRestaurantsAndCategories(t *testing.T) {
	r := newBrowseRouter(browseFixture(), &fakeCustomer{}, nil)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/search?"+near, nil, nil).Code)

	w := doJSON(t, r, http.MethodGet, "/search?"+near+"&q=dosa", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Categories  []models.FoodCategory                   `json:"categories"`
		Restaurants catalog.Page[models.RestaurantSummary] `json:"restaurants"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "c1", resp.Categories[0].ID)
	require.Len(t, resp.Restaurants.Items, 1)
	assert.Equal(t, "r1", resp.Restaurants.Items[0].ID)
}

func TestMenuAnonymousHasNoCart(t *testing.T) {
	r := newBrowseRouter(browseFixture(), &fakeCustomer{}, nil)

	w := doJSON(t, r, http.MethodGet, "/restaurants/r2/menu", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp menuResponse
	decode(t, w, &resp)
	assert.Equal(t, "r2", resp.Restaurant.ID)
	assert.Equal(t, []string{"Mains", "Desserts"}, resp.Categories)
	assert.Len(t, resp.Items, 3)
	assert.Empty(t, resp.InCart)
	assert.Empty(t, resp.CartTotal)
}

func TestMenuShowsCustomerCart(t *testing.T) {
	customer := &fakeCustomer{cart: &models.Cart{
		RestaurantID: "r2",
		Items: []models.CartLine{
			{FoodItemID: "f1", Quantity: 2, Price: price("120")},
			{FoodItemID: "f2", VariantID: "v2", Quantity: 1, Price: price("220")},
		},
	}}
	actor := &models.Actor{ID: "u1", Role: models.RoleCustomer}
	r := newBrowseRouter(browseFixture(), customer, actor)

	w := doJSON(t, r, http.MethodGet, "/restaurants/r2/menu?category=mains", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp menuResponse
	decode(t, w, &resp)
	assert.Len(t, resp.Items, 2)
	require.Len(t, resp.InCart, 2)
	assert.Equal(t, "f1", resp.InCart[0].FoodItemID)
	assert.Equal(t, 2, resp.InCart[0].Quantity)
	assert.Equal(t, "v2", resp.InCart[1].VariantID)
	assert.Equal(t, "460.00", resp.CartTotal)

	// A cart held at another restaurant is not shown against this menu.
	w = doJSON(t, r, http.MethodGet, "/restaurants/r9/menu", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var other menuResponse
	decode(t, w, &other)
	assert.Empty(t, other.InCart)
	assert.Empty(t, other.CartTotal)
}

func TestAddToCartAndFavourites(t *testing.T) {
	customer := &fakeCustomer{}
	r := newBrowseRouter(browseFixture(), customer, &models.Actor{ID: "u1", Role: models.RoleCustomer})

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"foodItemId": "f1", "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Item added to cart"}`, w.Body.String())
	require.Len(t, customer.changes, 1)
	assert.Equal(t, "f1", customer.changes[0].FoodItemID)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"quantity": 1}, nil).Code)

	w = doJSON(t, r, http.MethodPost, "/restaurants/r2/favourite", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Added to favourites","isFavourite":true}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/favourites", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"restaurants":[]}`, w.Body.String())
}

func TestRestaurantsHugePageIsEmpty(t *testing.T) {
	r := newBrowseRouter(browseFixture(), &fakeCustomer{}, nil)

	w := doJSON(t, r, http.MethodGet, "/restaurants?"+near+"&page=1537228672809129301&pageSize=9223372036854775807", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page catalog.Page[models.RestaurantSummary]
	decode(t, w, &page)
	assert.Empty(t, page.Items)
	assert.Equal(t, catalog.MaxPageSize, page.PageSize)
	assert.Equal(t, 3, page.TotalItems)
}
