package routes

import (
	"github.com/gin-gonic/gin"

	"train_schedule/internal/controllers"
)

func PlatformRoutes(r *gin.Engine, ctl *controllers.Controller) {
	platforms := r.Group("/platforms")
	{
		platforms.GET("", ctl.ListPlatforms)
		platforms.GET("/:id", ctl.GetPlatform)
	}

	write := platforms.Group("", requireDispatcher(ctl))
	{
		write.POST("", ctl.CreatePlatform)
		write.PATCH("/:id", ctl.UpdatePlatform)
		write.DELETE("/:id", ctl.DeletePlatform)
	}
}
