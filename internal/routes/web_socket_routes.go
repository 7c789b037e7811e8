package routes

import (
	"github.com/gin-gonic/gin"

	"train_schedule/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, ctl *controllers.Controller) {
	ws := r.Group("/ws")
	{
		ws.GET("/stations/:id/board", ctl.HandleBoardWebSocket)
	}
}
