package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mjoubert/agenda-api/internal/api"
	"github.com/mjoubert/agenda-api/internal/config"
	"github.com/mjoubert/agenda-api/internal/events"
	"github.com/mjoubert/agenda-api/internal/health"
	"github.com/mjoubert/agenda-api/internal/middleware"
	"github.com/mjoubert/agenda-api/internal/users"
)

// newRouter assembles the Gin engine: global middleware, the health probe
// and the /api/events and /api/users route groups.
func newRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", gin.WrapF(health.Handler))

	eventSvc := events.NewService(db)
	ev := r.Group("/api/events")
	{
		ev.GET("", events.ListHandler(eventSvc))
		ev.GET("/:id", events.GetHandler(eventSvc))
		ev.GET("/user/:userId/daterange", events.DateRangeHandler(eventSvc))
		ev.POST("", middleware.ValidateEventCreate(), events.CreateHandler(eventSvc))
		ev.PUT("/:id", middleware.ValidateEventUpdate(), events.UpdateHandler(eventSvc))
		ev.DELETE("/:id", events.DeleteHandler(eventSvc))
	}

	userSvc := users.NewService(db)
	us := r.Group("/api/users")
	{
		us.GET("", users.ListHandler(userSvc))
		us.GET("/:id", users.GetHandler(userSvc))
		us.POST("", middleware.ValidateUserCreate(), users.CreateHandler(userSvc))
		us.PUT("/:id", middleware.ValidateUserUpdate(), users.UpdateHandler(userSvc))
		us.DELETE("/:id", users.DeleteHandler(userSvc))
	}

	r.NoRoute(func(c *gin.Context) {
		api.Fail(c, http.StatusNotFound, "route not found")
	})

	return r
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
