package backend

import (
	"context"
	"net/http"

	"platter/models"

	"github.com/go-resty/resty/v2"
)

// AdminAPI is the operations console's view of the platform.
type AdminAPI struct {
	c *Client
}

func NewAdminAPI(c *Client) *AdminAPI {
	return &AdminAPI{c: c}
}

func (a *AdminAPI) Profile(ctx context.Context) (*models.Actor, error) {
	admin, _, err := send[models.Actor](ctx, a.c, "admin", "profile", http.MethodGet, "/admin/profile", nil)
	if err != nil {
		return nil, err
	}
	admin.Role = models.RoleAdmin
	return &admin, nil
}

func (a *AdminAPI) Login(ctx context.Context, creds models.Credentials) (*models.Actor, error) {
	admin, _, err := send[models.Actor](ctx, a.c, "admin", "login", http.MethodPost, "/admin/login",
		func(r *resty.Request) { r.SetBody(creds) })
	if err != nil {
		return nil, err
	}
	admin.Role = models.RoleAdmin
	return &admin, nil
}

func (a *AdminAPI) Logout(ctx context.Context) error {
	_, _, err := send[none](ctx, a.c, "admin", "logout", http.MethodPost, "/admin/logout", nil)
	return err
}

func (a *AdminAPI) Restaurants(ctx context.Context) ([]models.RestaurantSummary, error) {
	list, _, err := send[[]models.RestaurantSummary](ctx, a.c, "admin", "restaurants", http.MethodGet, "/admin/restaurants", nil)
	return list, err
}

func (a *AdminAPI) Customers(ctx context.Context) ([]models.Customer, error) {
	list, _, err := send[[]models.Customer](ctx, a.c, "admin", "customers", http.MethodGet, "/admin/customers", nil)
	return list, err
}

// VerifyRestaurant records the admin's verification decision for id.
func (a *AdminAPI) VerifyRestaurant(ctx context.Context, id string, verified bool) (string, error) {
	_, msg, err := send[none](ctx, a.c, "admin", "verify_restaurant", http.MethodPatch, "/admin/restaurants/{id}/verify",
		func(r *resty.Request) {
			r.SetPathParam("id", id)
			r.SetBody(map[string]bool{"verified": verified})
		})
	return msg, err
}
