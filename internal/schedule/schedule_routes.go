package schedule

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	schedules := r.Group("/work-schedules")
	schedules.Use(middleware.AuthMiddleware())
	{
		schedules.GET("", rbac.Authorize(rbacService, "work-schedule", "read"), handler.GetAll)
		schedules.GET("/:id", rbac.Authorize(rbacService, "work-schedule", "read"), handler.GetById)
		schedules.POST("", rbac.Authorize(rbacService, "work-schedule", "write"), handler.Create)
		schedules.PUT("/:id", rbac.Authorize(rbacService, "work-schedule", "write"), handler.Update)
		schedules.DELETE("/:id", rbac.Authorize(rbacService, "work-schedule", "write"), handler.Delete)
	}
}
