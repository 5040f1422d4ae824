package routes

import (
	"net/http"
	"time"

	"evently/internal/analytics"
	"evently/internal/bookings"
	"evently/internal/events"
	"evently/internal/notifications"
	"evently/internal/seats"
	"evently/internal/shared/config"
	"evently/internal/shared/database"
	"evently/internal/users"
	"evently/internal/venues"
	"evently/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes. Everything is registered at
// the engine root: the hold/confirm/cancel paths are contractual and carry no
// API prefix.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	st := r.db.GetStore()
	cacheService := cache.NewService(r.db.GetRedis())

	venueRepo := venues.NewRepository(st)
	venueService := venues.NewService(venueRepo, cacheService)
	venueController := venues.NewController(venueService)

	userRepo := users.NewRepository(st)
	userService := users.NewService(userRepo, cacheService)
	userController := users.NewController(userService)

	eventRepo := events.NewRepository(st)
	eventService := events.NewService(eventRepo, venueRepo, cacheService)
	eventController := events.NewController(eventService)

	seatRepo := seats.NewRepository(st)
	seatService := seats.NewService(seatRepo, cacheService, r.producer)
	seatController := seats.NewController(seatService)

	bookingRepo := bookings.NewRepository(st)
	bookingService := bookings.NewService(bookingRepo, seatRepo, cacheService, r.producer)
	bookingController := bookings.NewController(bookingService)

	analyticsRepo := analytics.NewRepository(st)
	analyticsService := analytics.NewService(analyticsRepo, cacheService)
	analyticsController := analytics.NewController(analyticsService)

	root := &engine.RouterGroup
	venues.SetupVenueRoutes(root, venueController)
	users.SetupUserRoutes(root, userController)
	events.SetupEventRoutes(root, eventController)
	seats.SetupSeatRoutes(root, seatController)
	analytics.SetupAnalyticsRoutes(root, analyticsController)

	// Confirm and cancel live at the URL root and are dispatched from the
	// no-route fallback
	bookings.SetupBookingRoutes(engine, bookingController)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "evently-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "evently-backend",
			"cache":     r.db.GetRedis() != nil,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
