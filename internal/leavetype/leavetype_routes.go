package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", rbac.Authorize(rbacService, "leave-type", "read"), handler.GetAll)
		types.GET("/:id", rbac.Authorize(rbacService, "leave-type", "read"), handler.GetById)
		types.POST("", rbac.Authorize(rbacService, "leave-type", "write"), handler.Create)
		types.PUT("/:id", rbac.Authorize(rbacService, "leave-type", "write"), handler.Update)
		types.DELETE("/:id", rbac.Authorize(rbacService, "leave-type", "write"), handler.Delete)
	}
}
