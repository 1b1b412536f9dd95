package handlers

import (
	"platter/middleware"
	"platter/services/wizard"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Sessions middleware.SessionLoader
	IPLookup *wizard.IPLookup

	// Session endpoints
	BootstrapHandler      gin.HandlerFunc
	LoginHandler          gin.HandlerFunc
	LogoutHandler         gin.HandlerFunc
	GetLoginDraftHandler  gin.HandlerFunc
	SaveLoginDraftHandler gin.HandlerFunc

	// Partner signup endpoints
	MountWizardHandler    gin.HandlerFunc
	WizardStateHandler    gin.HandlerFunc
	UnmountWizardHandler  gin.HandlerFunc
	UpdateDraftHandler    gin.HandlerFunc
	AdvanceHandler        gin.HandlerFunc
	RetreatHandler        gin.HandlerFunc
	JumpHandler           gin.HandlerFunc
	PutDocumentHandler    gin.HandlerFunc
	DeleteDocumentHandler gin.HandlerFunc
	AddImagesHandler      gin.HandlerFunc
	DeleteImageHandler    gin.HandlerFunc
	GeolocationHandler    gin.HandlerFunc
	SubmitHandler         gin.HandlerFunc

	// Storefront endpoints
	HomeHandler            gin.HandlerFunc
	RestaurantsHandler     gin.HandlerFunc
	SearchHandler          gin.HandlerFunc
	MenuHandler            gin.HandlerFunc
	AddToCartHandler       gin.HandlerFunc
	RemoveFromCartHandler  gin.HandlerFunc
	ToggleFavouriteHandler gin.HandlerFunc
	FavouritesHandler      gin.HandlerFunc

	// Dashboard endpoints
	AdminRestaurantsHandler    gin.HandlerFunc
	AdminCustomersHandler      gin.HandlerFunc
	VerifyRestaurantHandler    gin.HandlerFunc
	GetDashboardStateHandler   gin.HandlerFunc
	PutDashboardStateHandler   gin.HandlerFunc
	RestaurantDashboardHandler gin.HandlerFunc
	UpdateOrderStatusHandler   gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
