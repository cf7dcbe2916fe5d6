package balance

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
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", rbac.Authorize(rbacService, "leave-balance", "read"), handler.GetAll)
		balances.POST("", rbac.Authorize(rbacService, "leave-balance", "write"), handler.ManualSet)
		// Bulk rebase menyentuh semua karyawan, jadi dibatasi ketat.
		balances.POST("/bulk-update",
			rbac.Authorize(rbacService, "leave-balance", "write"),
			middleware.RateLimitByEmployee(0.05, 1),
			handler.BulkRebase,
		)
	}

	mine := r.Group("/my-balances")
	mine.Use(middleware.AuthMiddleware())
	{
		mine.GET("", rbac.Authorize(rbacService, "my-balance", "read"), handler.MyBalances)
	}
}
