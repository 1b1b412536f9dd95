package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"platter/handlers"
	"platter/models"
	"platter/services/session"
	"platter/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions map[string]*session.Session

func (f fakeSessions) Get(_ context.Context, id string) (*session.Session, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, session.ErrSessionNotFound
}

// stubBundle fills every handler field with one that answers 200.
func stubBundle(sessions fakeSessions) *handlers.HandlerBundle {
	hb := &handlers.HandlerBundle{Sessions: sessions}
	stub := gin.HandlerFunc(func(c *gin.Context) { c.Status(http.StatusOK) })
	v := reflect.ValueOf(hb).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Type() == reflect.TypeOf(stub) {
			f.Set(reflect.ValueOf(stub))
		}
	}
	return hb
}

func newRouter(sessions fakeSessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, stubBundle(sessions))
	return r
}

func TestAllRoutesRegistered(t *testing.T) {
	r := newRouter(fakeSessions{})

	got := make(map[string]bool)
	for _, rt := range r.Routes() {
		got[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"POST /api/session/bootstrap",
		"POST /api/session/login",
		"POST /api/session/logout",
		"PUT /api/session/login-draft",
		"POST /api/partner/signup/mounts",
		"PATCH /api/partner/signup/mounts/:id/draft",
		"PUT /api/partner/signup/mounts/:id/documents/:slot",
		"POST /api/partner/signup/mounts/:id/submit",
		"GET /api/home",
		"GET /api/restaurants/:id/menu",
		"POST /api/cart/add",
		"GET /api/customer/favourites",
		"POST /api/admin/restaurants/:id/verification",
		"GET /api/restaurant/dashboard",
		"PATCH /api/restaurant/orders/:id/status",
	} {
		assert.True(t, got[want], want)
	}
}

func tokenFor(t *testing.T, sessions fakeSessions, role models.Role) string {
	t.Helper()
	id := "s-" + string(role)
	sessions[id] = &session.Session{ID: id, Actor: models.Actor{ID: "u-" + string(role), Role: role}}
	token, err := utils.GenerateToken(id, string(role), time.Hour)
	require.NoError(t, err)
	return token
}

func get(r *gin.Engine, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Device-ID", "device-1")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRoleGuards(t *testing.T) {
	sessions := fakeSessions{}
	r := newRouter(sessions)
	customer := tokenFor(t, sessions, models.RoleCustomer)
	restaurant := tokenFor(t, sessions, models.RoleRestaurant)
	admin := tokenFor(t, sessions, models.RoleAdmin)

	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/api/home", ""))
	assert.Equal(t, http.StatusUnauthorized, get(r, http.MethodPost, "/api/cart/add", ""))
	assert.Equal(t, http.StatusOK, get(r, http.MethodPost, "/api/cart/add", customer))
	assert.Equal(t, http.StatusForbidden, get(r, http.MethodPost, "/api/cart/add", admin))

	assert.Equal(t, http.StatusUnauthorized, get(r, http.MethodGet, "/api/admin/restaurants", ""))
	assert.Equal(t, http.StatusForbidden, get(r, http.MethodGet, "/api/admin/restaurants", restaurant))
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/api/admin/restaurants", admin))

	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/api/restaurant/dashboard", restaurant))
	assert.Equal(t, http.StatusForbidden, get(r, http.MethodGet, "/api/restaurant/dashboard", customer))
}

func TestSignupNeedsDeviceID(t *testing.T) {
	r := newRouter(fakeSessions{})

	req := httptest.NewRequest(http.MethodPost, "/api/partner/signup/mounts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, get(r, http.MethodPost, "/api/partner/signup/mounts", ""))
}
