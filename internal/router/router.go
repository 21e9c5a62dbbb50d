package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/statuspng/statuspng/internal/handlers"
	"github.com/statuspng/statuspng/internal/middleware"
	"github.com/statuspng/statuspng/internal/store"
	"github.com/statuspng/statuspng/internal/types"
)

func NewRouter(h *handlers.Handler, st store.Store) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(st), h.WebSocket)
		api.GET("/status/:slug", h.GetStatusPage)

		// Bulk sweeps arrive from an unauthenticated cron trigger;
		// single-monitor checks authenticate inside the handler.
		api.POST("/check", middleware.OptionalAuth(st), h.RunCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.Logout)
			auth.GET("/me", middleware.AuthMiddleware(st), h.Me)
		}

		monitors := api.Group("/monitors", middleware.AuthMiddleware(st))
		{
			monitors.POST("", h.CreateMonitor)
			monitors.GET("", h.ListMonitors)
			monitors.DELETE("/:monitor_id", h.DeleteMonitor)
			monitors.GET("/:monitor_id/checks", h.GetMonitorChecks)
			monitors.GET("/:monitor_id/incidents", h.GetMonitorIncidents)
		}
	}

	return r
}
