package leaverequest

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	redisClient *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	requests.Use(middleware.ContextLogger(zap.L()))
	{
		requests.POST("",
			rbac.Authorize(rbacService, "leave-request", "create"),
			middleware.RateLimitByEmployee(0.5, 3),
			middleware.Idempotency(redisClient),
			handler.Submit,
		)
		requests.GET("", rbac.Authorize(rbacService, "leave-request", "read"), handler.GetMine)
		requests.GET("/:id", rbac.Authorize(rbacService, "leave-request", "read"), handler.GetById)
		requests.GET("/:id/audit", rbac.Authorize(rbacService, "leave-request", "read"), handler.GetAudit)
		requests.PATCH("/:id/status", rbac.Authorize(rbacService, "leave-request", "approve"), handler.UpdateStatus)
		requests.PATCH("/:id/cancel",
			rbac.Authorize(rbacService, "leave-request", "cancel"),
			middleware.RateLimitByEmployee(0.5, 2),
			handler.Cancel,
		)
		requests.PATCH("/:id/request-cancellation",
			rbac.Authorize(rbacService, "leave-request", "cancel"),
			middleware.RateLimitByEmployee(0.5, 2),
			handler.RequestCancellation,
		)
		requests.PATCH("/:id/cancellation-approval", rbac.Authorize(rbacService, "leave-request", "approve"), handler.ResolveCancellation)
	}

	manager := r.Group("/manager")
	manager.Use(middleware.AuthMiddleware())
	{
		manager.GET("/pending-approvals", rbac.Authorize(rbacService, "manager-queue", "read"), handler.ManagerPendingApprovals)
		manager.GET("/pending-cancellations", rbac.Authorize(rbacService, "manager-queue", "read"), handler.ManagerPendingCancellations)
		manager.GET("/requests", rbac.Authorize(rbacService, "manager-queue", "read"), handler.ManagerRequests)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/leave-requests", rbac.Authorize(rbacService, "admin-queue", "read"), handler.AdminQueue)
	}
}
