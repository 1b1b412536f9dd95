package routes

import (
	"strings"
	"time"

	"platter/config"
	"platter/handlers"
	"platter/middleware"
	"platter/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterSessionRoutes registers console sign-in endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	api.Use(middleware.DeviceDetailsMiddleware())
	api.Use(middleware.ConsoleAuthMiddleware(hb.Sessions, true))
	{
		api.POST("/bootstrap", hb.BootstrapHandler)
		api.POST("/login", hb.LoginHandler)
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/login-draft", hb.GetLoginDraftHandler)
		api.PUT("/login-draft", hb.SaveLoginDraftHandler)
	}
}

// RegisterPartnerRoutes registers the restaurant signup wizard.
func RegisterPartnerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/partner/signup")
	api.Use(middleware.DeviceDetailsMiddleware())
	if hb.IPLookup != nil {
		api.Use(middleware.GeolocationMiddleware(hb.IPLookup))
	}
	{
		api.POST("/mounts", hb.MountWizardHandler)
		api.GET("/mounts/:id", hb.WizardStateHandler)
		api.DELETE("/mounts/:id", hb.UnmountWizardHandler)
		api.PATCH("/mounts/:id/draft", hb.UpdateDraftHandler)
		api.POST("/mounts/:id/advance", hb.AdvanceHandler)
		api.POST("/mounts/:id/retreat", hb.RetreatHandler)
		api.POST("/mounts/:id/jump", hb.JumpHandler)
		api.PUT("/mounts/:id/documents/:slot", hb.PutDocumentHandler)
		api.DELETE("/mounts/:id/documents/:slot", hb.DeleteDocumentHandler)
		api.POST("/mounts/:id/images", hb.AddImagesHandler)
		api.DELETE("/mounts/:id/images/:index", hb.DeleteImageHandler)
		api.POST("/mounts/:id/geolocation", hb.GeolocationHandler)
		api.POST("/mounts/:id/submit", hb.SubmitHandler)
	}
}

// RegisterStorefrontRoutes registers browse, menu and cart endpoints.
func RegisterStorefrontRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.ConsoleAuthMiddleware(hb.Sessions, true))
	if hb.IPLookup != nil {
		api.Use(middleware.GeolocationMiddleware(hb.IPLookup))
	}
	{
		api.GET("/home", hb.HomeHandler)
		api.GET("/restaurants", hb.RestaurantsHandler)
		api.GET("/search", hb.SearchHandler)
		api.GET("/restaurants/:id/menu", hb.MenuHandler)

		customer := api.Group("", middleware.RequireRole(models.RoleCustomer))
		customer.POST("/cart/add", hb.AddToCartHandler)
		customer.POST("/cart/remove", hb.RemoveFromCartHandler)
		customer.POST("/restaurants/:id/favourite", hb.ToggleFavouriteHandler)
		customer.GET("/customer/favourites", hb.FavouritesHandler)
	}
}

// RegisterAdminRoutes registers the admin dashboard.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.ConsoleAuthMiddleware(hb.Sessions, false))
	adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
	{
		adminGroup.GET("/restaurants", hb.AdminRestaurantsHandler)
		adminGroup.GET("/customers", hb.AdminCustomersHandler)
		adminGroup.POST("/restaurants/:id/verification", hb.VerifyRestaurantHandler)
		adminGroup.GET("/dashboard/state", hb.GetDashboardStateHandler)
		adminGroup.PUT("/dashboard/state", hb.PutDashboardStateHandler)
	}
}

// RegisterRestaurantRoutes registers the partner dashboard.
func RegisterRestaurantRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/restaurant")
	api.Use(middleware.ConsoleAuthMiddleware(hb.Sessions, false))
	api.Use(middleware.RequireRole(models.RoleRestaurant))
	{
		api.GET("/dashboard", hb.RestaurantDashboardHandler)
		api.GET("/dashboard/state", hb.GetDashboardStateHandler)
		api.PUT("/dashboard/state", hb.PutDashboardStateHandler)
		api.PATCH("/orders/:id/status", hb.UpdateOrderStatusHandler)
	}
}

// RegisterHealthRoute registers the health check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func allowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(config.AppConfig.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:5173"}
	}
	return out
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Credentials are forwarded to the backend, so origins must be explicit.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Device-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.BackendCredentialsMiddleware())

	RegisterHealthRoute(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterPartnerRoutes(r, hb)
	RegisterStorefrontRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterRestaurantRoutes(r, hb)
}
