package backend

import (
	"context"
	"net/http"

	"platter/models"

	"github.com/go-resty/resty/v2"
)

// CartAPI changes cart quantities. Both calls return only a confirmation
// message; callers re-fetch the restaurant profile to see the new cart.
type CartAPI struct {
	c *Client
}

func NewCartAPI(c *Client) *CartAPI {
	return &CartAPI{c: c}
}

func (a *CartAPI) Add(ctx context.Context, change models.CartChange) (string, error) {
	return a.change(ctx, "add", change)
}

func (a *CartAPI) Remove(ctx context.Context, change models.CartChange) (string, error) {
	return a.change(ctx, "remove", change)
}

func (a *CartAPI) change(ctx context.Context, op string, change models.CartChange) (string, error) {
	_, msg, err := send[none](ctx, a.c, "cart", op, http.MethodPost, "/cart/"+op,
		func(r *resty.Request) { r.SetBody(change) })
	return msg, err
}
