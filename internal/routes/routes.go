package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"train_schedule/internal/controllers"
	"train_schedule/internal/logger"
	"train_schedule/internal/middleware"
	"train_schedule/internal/models"
	"train_schedule/internal/observability/metrics"
)

// SetupRouter builds the engine with every route group mounted.
func SetupRouter(ctl *controllers.Controller) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	// Request logging middleware
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(logger.Writer()),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/healthz", "/metrics"}),
	))
	r.Use(metrics.Middleware())
	r.Use(middleware.EnableCORS())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.Handler())

	AuthRoutes(r, ctl)
	StationRoutes(r, ctl)
	PlatformRoutes(r, ctl)
	TrainRoutes(r, ctl)
	AssignmentRoutes(r, ctl)
	WebSocketRoutes(r, ctl)

	return r
}

// requireDispatcher guards schedule writes.
func requireDispatcher(ctl *controllers.Controller) gin.HandlerFunc {
	return ctl.JWT.RequireAuthWithRole(models.RoleDispatcher, models.RoleAdmin)
}
