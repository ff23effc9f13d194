// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/launchboard/launchboard-go/internal/application/container"
	"github.com/launchboard/launchboard-go/internal/presentation/http/handlers"
	"github.com/launchboard/launchboard-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestIDMiddleware())

	// Serve static SysOp dashboard files from the /sysop URL.
	r.Static("/sysop", "web/sysop")
	r.StaticFile("/favicon.ico", "web/sysop/favicon.ico")

	// Initialize handlers
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.UserAnalyticsService, container.Logger, container.PerfTracker)
	catalogHandlers := handlers.NewCatalogHandlers(container.CatalogService, container.Logger, container.PerfTracker)
	userHandlers := handlers.NewUserHandlers(container.UserService, container.Logger, container.PerfTracker)
	dbHandlers := handlers.NewDBHandlers(container.DBService, container.Logger, container.PerfTracker)
	sysopHandlers := handlers.NewSysOpHandlers(container)

	// SysOp API endpoints live under /api/sysop to avoid conflict with
	// static file serving
	sysopAPI := r.Group("/api/sysop")
	{
		sysopAPI.GET("/auth", sysopHandlers.AuthCheck)
		sysopAPI.POST("/login", sysopHandlers.Login)

		// SysOp Authenticated endpoints
		sysopAPI.Use(sysopHandlers.SysOpAuthMiddleware())
		{
			sysopAPI.GET("/activity", sysopHandlers.GetActivityMetrics)
			sysopAPI.GET("/activity/ws", sysopHandlers.ActivityWebSocket)
			sysopAPI.GET("/logs/levels", sysopHandlers.GetLogLevels)
			sysopAPI.POST("/logs/levels", sysopHandlers.SetLogLevel)
		}
	}

	// Log streaming is a special case and can remain at top level
	r.GET("/sysop-logs/stream", sysopHandlers.StreamLogs)

	// Public API routes
	api := r.Group("/api/v1")
	{
		// Analytics endpoints
		analytics := api.Group("/analytics")
		{
			analytics.GET("/users/:username", analyticsHandlers.GetUserAnalytics)
		}

		// Catalog endpoints
		api.GET("/products", catalogHandlers.GetProducts)
		api.GET("/products/:id", catalogHandlers.GetProduct)
		api.GET("/tags", catalogHandlers.GetTags)

		// User profiles
		api.GET("/users/:username", userHandlers.GetUserProfile)

		// Database status
		api.GET("/db/status", dbHandlers.GetDatabaseStatus)
	}

	return r
}
