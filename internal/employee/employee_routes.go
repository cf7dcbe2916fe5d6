package employee

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(zap.L()))
	{
		employees.GET("", rbac.Authorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/:id", rbac.Authorize(rbacService, "employee", "read"), handler.GetById)
		employees.POST("",
			rbac.Authorize(rbacService, "employee", "write"),
			middleware.RateLimitByEmployee(1, 5),
			handler.Create,
		)
		employees.PUT("/:id", rbac.Authorize(rbacService, "employee", "write"), handler.Update)
		employees.DELETE("/:id",
			rbac.Authorize(rbacService, "employee", "write"),
			middleware.RateLimitByEmployee(0.5, 2),
			handler.Deactivate,
		)
		employees.POST("/:id/reactivate", rbac.Authorize(rbacService, "employee", "write"), handler.Reactivate)
	}

	manager := r.Group("/manager")
	manager.Use(middleware.AuthMiddleware())
	manager.Use(middleware.ContextLogger(zap.L()))
	{
		manager.GET("/accessible-employees", rbac.Authorize(rbacService, "manager-queue", "read"), handler.AccessibleEmployees)
	}
}
