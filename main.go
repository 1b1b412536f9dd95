package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"platter/config"
	"platter/database"
	kvRepo "platter/database/repository/kv"
	"platter/handlers"
	"platter/metrics"
	"platter/middleware"
	"platter/routes"
	"platter/services/backend"
	"platter/services/dashboard"
	"platter/services/session"
	"platter/services/wizard"
	"platter/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// draftStore picks the persistence for signup drafts from DRAFT_STORE.
func draftStore(ctx context.Context, logger *zap.Logger) kvRepo.Store {
	ttl := config.AppConfig.DraftTTL
	switch config.AppConfig.DraftStore {
	case "mongo":
		store, err := kvRepo.NewMongoStore(ctx, database.Database().Collection("registration_drafts"), ttl)
		if err != nil {
			logger.Fatal("main: failed to prepare mongo draft store", zap.Error(err))
		}
		return store
	case "memory":
		logger.Warn("main: signup drafts are kept in memory and will not survive a restart")
		return kvRepo.NewMemoryStore(ttl)
	default:
		return kvRepo.NewRedisStore(utils.GetDraftCacheClient(), ttl)
	}
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	utils.InitRedis()
	var mongoClient *mongo.Client
	if config.AppConfig.DatabaseURL != "" {
		database.InitDB()
		mongoClient = database.MongoClient
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Stores.
	drafts := draftStore(rootCtx, logger)
	sessionCache := kvRepo.NewRedisStore(utils.GetSessionCacheClient(), config.AppConfig.SessionTTL)
	var consoleState kvRepo.Store
	if mongoClient != nil {
		store, err := kvRepo.NewMongoStore(rootCtx, database.Database().Collection("console_state"), config.AppConfig.ConsoleStateTTL)
		if err != nil {
			logger.Fatal("main: failed to prepare console state store", zap.Error(err))
		}
		consoleState = store
	} else {
		consoleState = kvRepo.NewRedisStore(utils.GetSessionCacheClient(), config.AppConfig.ConsoleStateTTL)
	}

	// Backend.
	api := backend.NewAPI(backend.NewClient(config.AppConfig.BackendURL, config.AppConfig.BackendTimeout, logger))

	// Services.
	sessions := session.NewStore(session.Backends{
		Customer:   api.Customer,
		Restaurant: api.Restaurant,
		Admin:      api.Admin,
	}, sessionCache, config.AppConfig.SessionTTL, logger)

	dash := dashboard.NewService(api.Admin, api.Restaurant, consoleState, logger)

	policy := wizard.ValidateCurrentOnly
	if config.AppConfig.StrictStepJumps {
		policy = wizard.ValidateIntermediate
	}
	wizards := wizard.NewManager(drafts, api.Restaurant, wizard.Options{
		Policy:        policy,
		FileRules:     wizard.FileRules{MaxBytes: config.AppConfig.UploadMaxBytes},
		RedirectTo:    config.AppConfig.PartnerDashboardPath,
		RedirectAfter: config.AppConfig.SubmitRedirectDelay,
	}, logger)
	if idle := config.AppConfig.MountIdleTimeout; idle > 0 {
		wizards.StartJanitor(rootCtx, idle/4, idle)
	}

	ipLookup := wizard.NewIPLookup(config.AppConfig.GeoIPURL, config.AppConfig.GeolocationTimeout)

	redisClients := []*redis.Client{utils.GetDraftCacheClient(), utils.GetSessionCacheClient()}
	utils.StartHealthMonitor(rootCtx, redisClients, mongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(metrics.GinMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	sessionHandler := handlers.NewSessionHandler(sessions, dash)
	wizardHandler := handlers.NewWizardHandler(wizards, config.AppConfig.UploadMaxBytes, config.AppConfig.GeolocationTimeout)
	browseHandler := handlers.NewBrowseHandler(api.Home, api.Customer, config.AppConfig.NearbyRadiusKm,
		config.AppConfig.PageSize, config.AppConfig.GeolocationTimeout)
	dashboardHandler := handlers.NewDashboardHandler(dash)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions: sessions,
		IPLookup: ipLookup,

		// Session endpoints.
		BootstrapHandler:      sessionHandler.Bootstrap,
		LoginHandler:          sessionHandler.Login,
		LogoutHandler:         sessionHandler.Logout,
		GetLoginDraftHandler:  sessionHandler.GetLoginDraft,
		SaveLoginDraftHandler: sessionHandler.SaveLoginDraft,

		// Partner signup endpoints.
		MountWizardHandler:    wizardHandler.Mount,
		WizardStateHandler:    wizardHandler.State,
		UnmountWizardHandler:  wizardHandler.Unmount,
		UpdateDraftHandler:    wizardHandler.UpdateDraft,
		AdvanceHandler:        wizardHandler.Advance,
		RetreatHandler:        wizardHandler.Retreat,
		JumpHandler:           wizardHandler.Jump,
		PutDocumentHandler:    wizardHandler.PutDocument,
		DeleteDocumentHandler: wizardHandler.DeleteDocument,
		AddImagesHandler:      wizardHandler.AddImages,
		DeleteImageHandler:    wizardHandler.DeleteImage,
		GeolocationHandler:    wizardHandler.Geolocation,
		SubmitHandler:         wizardHandler.Submit,

		// Storefront endpoints.
		HomeHandler:            browseHandler.HomePage,
		RestaurantsHandler:     browseHandler.Restaurants,
		SearchHandler:          browseHandler.Search,
		MenuHandler:            browseHandler.Menu,
		AddToCartHandler:       browseHandler.AddToCart,
		RemoveFromCartHandler:  browseHandler.RemoveFromCart,
		ToggleFavouriteHandler: browseHandler.ToggleFavourite,
		FavouritesHandler:      browseHandler.Favourites,

		// Dashboard endpoints.
		AdminRestaurantsHandler:    dashboardHandler.AdminRestaurants,
		AdminCustomersHandler:      dashboardHandler.AdminCustomers,
		VerifyRestaurantHandler:    dashboardHandler.Verify,
		GetDashboardStateHandler:   dashboardHandler.GetState,
		PutDashboardStateHandler:   dashboardHandler.PutState,
		RestaurantDashboardHandler: dashboardHandler.RestaurantDashboard,
		UpdateOrderStatusHandler:   dashboardHandler.UpdateOrderStatus,

		HealthHandler: handlers.HealthHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
