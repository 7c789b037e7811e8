package routes

import (
	"github.com/gin-gonic/gin"

	"train_schedule/internal/controllers"
)

func AuthRoutes(r *gin.Engine, ctl *controllers.Controller) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", ctl.SignupUser)
		auth.POST("/login", ctl.LoginUser)
		auth.GET("/me", ctl.JWT.RequireAuth(), ctl.CurrentUser)
	}
}
