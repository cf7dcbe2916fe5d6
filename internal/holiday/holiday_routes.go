package holiday

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
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", rbac.Authorize(rbacService, "holiday", "read"), handler.GetAll)
		holidays.GET("/:id", rbac.Authorize(rbacService, "holiday", "read"), handler.GetById)
		holidays.POST("", rbac.Authorize(rbacService, "holiday", "write"), handler.Create)
		holidays.PUT("/:id", rbac.Authorize(rbacService, "holiday", "write"), handler.Update)
		holidays.DELETE("/:id", rbac.Authorize(rbacService, "holiday", "write"), handler.Delete)
	}
}
