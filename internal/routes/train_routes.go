package routes

import (
	"github.com/gin-gonic/gin"

	"train_schedule/internal/controllers"
)

func TrainRoutes(r *gin.Engine, ctl *controllers.Controller) {
	trains := r.Group("/trains")
	{
		trains.GET("", ctl.ListTrains)
		trains.GET("/:id", ctl.GetTrain)
	}

	write := trains.Group("", requireDispatcher(ctl))
	{
		write.POST("", ctl.CreateTrain)
		write.PATCH("/:id", ctl.UpdateTrain)
		write.DELETE("/:id", ctl.DeleteTrain)
	}
}
