// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prolance/prolance-backend/internal/config"
	"github.com/prolance/prolance-backend/internal/handlers"
	"github.com/prolance/prolance-backend/internal/middleware"
	"github.com/prolance/prolance-backend/internal/services"
	"github.com/prolance/prolance-backend/internal/store"
	"github.com/prolance/prolance-backend/internal/utils"
)

// Router is the HTTP surface plus the background workers it owns.
type Router struct {
	Engine *gin.Engine

	Catalog       *services.CatalogService
	Notifications *services.NotificationService
	limiters      []*middleware.RateLimiter
}

func Initialize(st store.Store, cfg *config.Config) (*Router, error) {
	// Initialize services
	notificationService := services.NewNotificationService(st, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	hub := services.NewMessageHub(32)

	authService := services.NewAuthService(st, cfg, notificationService)
	catalogService := services.NewCatalogService(st)
	orderService := services.NewOrderService(st, cfg, notificationService, hub)
	messageService := services.NewMessageService(st, hub, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	messageHandler := handlers.NewMessageHandler(messageService, cfg.CORS.AllowedOrigins)
	uploadHandler := handlers.NewUploadHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.PerSecond(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	authLimiter := middleware.PerMinute(cfg.RateLimit.AuthPerMinute)
	uploadLimiter := middleware.PerMinute(10)

	cookie := cfg.Session.CookieName
	requireAuth := middleware.AuthRequired(cookie)
	optionalAuth := middleware.OptionalAuth(cookie)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(generalLimiter.Middleware())
	r.Use(middleware.AuditLogMiddleware(st))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"store":  cfg.Store.Driver,
		})
	})

	if storageService.UsesLocalDisk() {
		r.Static("/uploads", cfg.Upload.Dir)
	}

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
			auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/user", requireAuth, authHandler.CurrentUser)
		}

		api.GET("/categories", catalogHandler.ListCategories)

		gigs := api.Group("/gigs")
		{
			gigs.GET("", optionalAuth, catalogHandler.ListGigs)
			gigs.GET("/:id", optionalAuth, catalogHandler.GetGig)
			gigs.POST("", requireAuth, catalogHandler.CreateGig)
		}

		api.POST("/uploads/cover", requireAuth, uploadLimiter.Middleware(), uploadHandler.UploadCover)

		orders := api.Group("/orders")
		orders.Use(requireAuth)
		{
			orders.GET("", orderHandler.ListOrders)
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			orders.GET("/:id/messages", messageHandler.ListMessages)
			orders.GET("/:id/stream", messageHandler.Stream)
		}

		api.POST("/messages", requireAuth, messageHandler.CreateMessage)
	}

	return &Router{
		Engine:        r,
		Catalog:       catalogService,
		Notifications: notificationService,
		limiters:      []*middleware.RateLimiter{generalLimiter, authLimiter, uploadLimiter},
	}, nil
}

// Close stops the rate limiter sweepers and waits for queued notifications.
func (rt *Router) Close() {
	for _, l := range rt.limiters {
		l.Stop()
	}
	rt.Notifications.Wait()
}
