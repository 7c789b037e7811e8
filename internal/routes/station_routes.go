package routes

import (
	"github.com/gin-gonic/gin"

	"train_schedule/internal/controllers"
)

func StationRoutes(r *gin.Engine, ctl *controllers.Controller) {
	stations := r.Group("/stations")
	{
		stations.GET("", ctl.ListStations)
		stations.GET("/:id", ctl.GetStation)
		stations.GET("/:id/platforms", ctl.ListStationPlatforms)
		stations.GET("/:id/board", ctl.GetStationBoard)
	}

	write := stations.Group("", requireDispatcher(ctl))
	{
		write.POST("", ctl.CreateStation)
		write.PATCH("/:id", ctl.UpdateStation)
		write.DELETE("/:id", ctl.DeleteStation)
	}
}
