package routes

import (
	"github.com/gin-gonic/gin"

	"train_schedule/internal/controllers"
)

func AssignmentRoutes(r *gin.Engine, ctl *controllers.Controller) {
	assignments := r.Group("/assignments")
	{
		assignments.GET("", ctl.ListAssignments)
		assignments.GET("/:id", ctl.GetAssignment)
	}

	write := assignments.Group("", requireDispatcher(ctl))
	{
		write.POST("", ctl.CreateAssignment)
		write.PATCH("/:id", ctl.UpdateAssignment)
		write.DELETE("/:id", ctl.DeleteAssignment)
	}
}
