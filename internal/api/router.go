package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/restaurant/storage-tracker/docs"
	"github.com/restaurant/storage-tracker/internal/api/handler"
	"github.com/restaurant/storage-tracker/internal/api/middleware"
	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/ports"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Log       zerolog.Logger
	JWTSecret string
	Session   ports.SessionService
	Inventory ports.InventoryStore
	// Readiness lists the backends pinged by /health/ready, keyed by name.
	Readiness map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("storage_tracker"))

	authHandler := handler.NewAuthHandler(deps.Session)
	inventoryHandler := handler.NewInventoryHandler(deps.Inventory)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/session", authHandler.Session)

	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Protected routes ---
	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Session)
	staff := middleware.RBAC(domain.RoleEmployee, domain.RoleManager)

	auth := e.Group("/auth", authMiddleware)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	v1 := e.Group("/v1", authMiddleware, staff)

	items := v1.Group("/items")
	items.GET("", inventoryHandler.ListItems)
	items.POST("", inventoryHandler.CreateItem)
	items.GET("/stats", inventoryHandler.ItemStats)
	items.GET("/grouped", inventoryHandler.GroupedItems)
	items.PATCH("/:id", inventoryHandler.UpdateItem)
	items.DELETE("/:id", inventoryHandler.DeleteItem)
	items.POST("/:id/increase", inventoryHandler.IncreaseQuantity)
	items.POST("/:id/decrease", inventoryHandler.DecreaseQuantity)

	activities := v1.Group("/activities")
	activities.GET("", inventoryHandler.ListActivities)
	activities.POST("", inventoryHandler.CreateActivity)
	activities.GET("/stats", inventoryHandler.ActivityStats)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
