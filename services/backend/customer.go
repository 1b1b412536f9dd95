package backend

import (
	"context"
	"net/http"

	"platter/models"

	"github.com/go-resty/resty/v2"
)

// CustomerAPI covers the signed-in customer's profile, cart and favourites.
type CustomerAPI struct {
	c    *Client
	cart *CartAPI
}

func NewCustomerAPI(c *Client) *CustomerAPI {
	return &CustomerAPI{c: c, cart: NewCartAPI(c)}
}

func (a *CustomerAPI) Profile(ctx context.Context) (*models.Customer, error) {
	customer, _, err := send[models.Customer](ctx, a.c, "customer", "profile", http.MethodGet, "/customer/profile", nil)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (a *CustomerAPI) Login(ctx context.Context, creds models.Credentials) (*models.Customer, error) {
	customer, _, err := send[models.Customer](ctx, a.c, "customer", "login", http.MethodPost, "/customer/login",
		func(r *resty.Request) { r.SetBody(creds) })
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (a *CustomerAPI) Logout(ctx context.Context) error {
	_, _, err := send[none](ctx, a.c, "customer", "logout", http.MethodPost, "/customer/logout", nil)
	return err
}

func (a *CustomerAPI) Cart(ctx context.Context) (*models.Cart, error) {
	cart, _, err := send[models.Cart](ctx, a.c, "customer", "cart", http.MethodGet, "/customer/cart", nil)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart and RemoveFromCart go through the shared cart endpoints.
func (a *CustomerAPI) AddToCart(ctx context.Context, change models.CartChange) (string, error) {
	return a.cart.Add(ctx, change)
}

func (a *CustomerAPI) RemoveFromCart(ctx context.Context, change models.CartChange) (string, error) {
	return a.cart.Remove(ctx, change)
}

// ToggleFavourite flips restaurantID in the customer's favourites and returns
// the new state.
func (a *CustomerAPI) ToggleFavourite(ctx context.Context, restaurantID string) (bool, string, error) {
	out, msg, err := send[struct {
		IsFavourite bool `json:"isFavourite"`
	}](ctx, a.c, "customer", "toggle_favourite", http.MethodPost, "/customer/favourites/{restaurantId}",
		func(r *resty.Request) { r.SetPathParam("restaurantId", restaurantID) })
	if err != nil {
		return false, "", err
	}
	return out.IsFavourite, msg, nil
}

func (a *CustomerAPI) Favourites(ctx context.Context) ([]models.RestaurantSummary, error) {
	list, _, err := send[[]models.RestaurantSummary](ctx, a.c, "customer", "favourites", http.MethodGet, "/customer/favourites", nil)
	return list, err
}
