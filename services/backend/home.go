package backend

import (
	"context"
	"net/http"
	"strconv"

	"platter/models"

	"github.com/go-resty/resty/v2"
)

// HomeAPI serves the public browse data.
type HomeAPI struct {
	c *Client
}

func NewHomeAPI(c *Client) *HomeAPI {
	return &HomeAPI{c: c}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Nearby lists restaurants within radiusKm of (lat, lng).
func (a *HomeAPI) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.RestaurantSummary, error) {
	list, _, err := send[[]models.RestaurantSummary](ctx, a.c, "home", "nearby", http.MethodGet, "/home/restaurants/nearby",
		func(r *resty.Request) {
			r.SetQueryParams(map[string]string{
				"lat":    formatFloat(lat),
				"lng":    formatFloat(lng),
				"radius": formatFloat(radiusKm),
			})
		})
	return list, err
}

// Restaurant fetches one restaurant with its menu. When coords is set the
// backend fills in the distance from the viewer.
func (a *HomeAPI) Restaurant(ctx context.Context, id string, coords *models.Coordinates) (*models.RestaurantProfile, error) {
	profile, _, err := send[models.RestaurantProfile](ctx, a.c, "home", "restaurant", http.MethodGet, "/home/restaurants/{id}",
		func(r *resty.Request) {
			r.SetPathParam("id", id)
			if coords != nil {
				r.SetQueryParam("lat", formatFloat(coords.Lat))
				r.SetQueryParam("lng", formatFloat(coords.Lng))
			}
		})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *HomeAPI) Categories(ctx context.Context) ([]models.FoodCategory, error) {
	list, _, err := send[[]models.FoodCategory](ctx, a.c, "home", "categories", http.MethodGet, "/home/categories", nil)
	return list, err
}
