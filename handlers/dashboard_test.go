package handlers

import (
	"context"
	"net/http"
	"testing"

	kvRepo "platter/database/repository/kv"
	"platter/middleware"
	"platter/models"
	"platter/services/backend"
	"platter/services/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdmin struct {
	restaurants []models.RestaurantSummary
	customers   []models.Customer
	verifyErr   error
	decisions   map[string]bool
}

func (f *fakeAdmin) Restaurants(context.Context) ([]models.RestaurantSummary, error) {
	return f.restaurants, nil
}

func (f *fakeAdmin) Customers(context.Context) ([]models.Customer, error) {
	return f.customers, nil
}

func (f *fakeAdmin) VerifyRestaurant(_ context.Context, id string, verified bool) (string, error) {
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	f.decisions[id] = verified
	if verified {
		return "Restaurant verified", nil
	}
	return "Restaurant rejected", nil
}

type fakeRestaurant struct {
	orders  []models.Order
	updated map[string]string
}

func (f *fakeRestaurant) Profile(context.Context) (*models.RestaurantProfile, error) {
	return &models.RestaurantProfile{RestaurantSummary: models.RestaurantSummary{ID: "r1", Name: "Spice Route"}}, nil
}

func (f *fakeRestaurant) Orders(context.Context) ([]models.Order, error) { return f.orders, nil }

func (f *fakeRestaurant) UpdateOrderStatus(_ context.Context, id, status string) (string, error) {
	f.updated[id] = status
	return "Order updated", nil
}

func newDashboardRouter(admin *fakeAdmin, rest *fakeRestaurant, actor models.Actor) *gin.Engine {
	h := NewDashboardHandler(dashboard.NewService(admin, rest, kvRepo.NewMemoryStore(0), nil))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ActorKey, actor)
		c.Next()
	})
	r.GET("/admin/restaurants", h.AdminRestaurants)
	r.GET("/admin/customers", h.AdminCustomers)
	r.POST("/admin/restaurants/:id/verification", h.Verify)
	r.GET("/dashboard/state", h.GetState)
	r.PUT("/dashboard/state", h.PutState)
	r.GET("/restaurant/dashboard", h.RestaurantDashboard)
	r.PATCH("/restaurant/orders/:id/status", h.UpdateOrderStatus)
	return r
}

func pendingFixture() *fakeAdmin {
	return &fakeAdmin{
		restaurants: []models.RestaurantSummary{
			{ID: "r1", Name: "Spice Route", Verified: true},
			{ID: "r2", Name: "Dosa Corner"},
			{ID: "r3", Name: "Green Bowl"},
		},
		customers: []models.Customer{{ID: "c1", Name: "Asha"}},
		decisions: make(map[string]bool),
	}
}

var adminActor = models.Actor{ID: "a1", Role: models.RoleAdmin}

func TestAdminVerifyRefiltersPending(t *testing.T) {
	admin := pendingFixture()
	r := newDashboardRouter(admin, nil, adminActor)

	w := doJSON(t, r, http.MethodGet, "/admin/restaurants", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Restaurants []models.RestaurantSummary `json:"restaurants"`
		Unverified  []models.RestaurantSummary `json:"unverified"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Restaurants, 3)
	assert.Len(t, list.Unverified, 2)

	w = doJSON(t, r, http.MethodPost, "/admin/restaurants/r2/verification", gin.H{"verified": true}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var decision dashboard.Decision
	decode(t, w, &decision)
	assert.Equal(t, "Restaurant verified", decision.Message)
	require.Len(t, decision.Unverified, 1)
	assert.Equal(t, "r3", decision.Unverified[0].ID)

	w = doJSON(t, r, http.MethodPost, "/admin/restaurants/r3/verification", gin.H{"verified": false}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rejected dashboard.Decision
	decode(t, w, &rejected)
	assert.Empty(t, rejected.Unverified)
	assert.Equal(t, map[string]bool{"r2": true, "r3": false}, admin.decisions)
}

func TestAdminVerifyRequiresDecision(t *testing.T) {
	r := newDashboardRouter(pendingFixture(), nil, adminActor)

	w := doJSON(t, r, http.MethodPost, "/admin/restaurants/r2/verification", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminVerifyFailureKeepsList(t *testing.T) {
	admin := pendingFixture()
	admin.verifyErr = &backend.APIError{Status: http.StatusForbidden, Message: "Only super admins can verify"}
	r := newDashboardRouter(admin, nil, adminActor)

	w := doJSON(t, r, http.MethodPost, "/admin/restaurants/r2/verification", gin.H{"verified": true}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only super admins can verify")
}

func TestDashboardStateRestoresSelection(t *testing.T) {
	r := newDashboardRouter(pendingFixture(), nil, adminActor)

	w := doJSON(t, r, http.MethodGet, "/dashboard/state", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"activeTab":"restaurants"}`, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/dashboard/state", gin.H{"activeTab": "customers", "selectedCustomerId": "c1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/admin/customers", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Selected *models.Customer      `json:"selected"`
		State    models.DashboardState `json:"state"`
	}
	decode(t, w, &view)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "Asha", view.Selected.Name)
	assert.Equal(t, "customers", view.State.ActiveTab)

	w = doJSON(t, r, http.MethodPut, "/dashboard/state", gin.H{"activeTab": "orders"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestaurantDashboardAndOrderStatus(t *testing.T) {
	rest := &fakeRestaurant{
		orders:  []models.Order{{ID: "o1", Status: "placed"}, {ID: "o2", Status: "preparing"}},
		updated: make(map[string]string),
	}
	r := newDashboardRouter(nil, rest, models.Actor{ID: "r1", Role: models.RoleRestaurant})

	w := doJSON(t, r, http.MethodGet, "/dashboard/state", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"activeTab":"orders"}`, w.Body.String())

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/dashboard/state", gin.H{"activeTab": "orders", "selectedOrderId": "o2"}, nil).Code)

	w = doJSON(t, r, http.MethodGet, "/restaurant/dashboard", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view dashboard.RestaurantView
	decode(t, w, &view)
	assert.Equal(t, "Spice Route", view.Profile.Name)
	assert.Len(t, view.Orders, 2)
	require.NotNil(t, view.SelectedOrder)
	assert.Equal(t, "o2", view.SelectedOrder.ID)

	w = doJSON(t, r, http.MethodPatch, "/restaurant/orders/o1/status", gin.H{"status": "ready"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", rest.updated["o1"])
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPatch, "/restaurant/orders/o1/status", gin.H{}, nil).Code)
}
