package app

import (
	"path/filepath"

	"leavedesk/internal/balance"
	"leavedesk/internal/employee"
	"leavedesk/internal/holiday"
	"leavedesk/internal/leaverequest"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/rbac"
	"leavedesk/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	requestRepo := leaverequest.NewRepository(gormDB)
	auditRepo := leaverequest.NewAuditRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(
		filepath.Join("internal", "rbac", "model.conf"),
		filepath.Join("internal", "rbac", "policy.csv"),
	)
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(gormDB, employeeRepo)
	scheduleService := schedule.NewService(gormDB, scheduleRepo)
	holidayService := holiday.NewService(holidayRepo)
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	balanceService := balance.NewService(gormDB, balanceRepo, leaveTypeRepo, rdb)
	requestService := leaverequest.NewService(leaverequest.ServiceDeps{
		DB:             gormDB,
		Requests:       requestRepo,
		Audit:          auditRepo,
		Employees:      employeeRepo,
		Schedules:      scheduleRepo,
		Holidays:       holidayRepo,
		LeaveTypes:     leaveTypeRepo,
		Balances:       balanceRepo,
		BalanceService: balanceService,
		Outbox:         outboxRepo,
	})

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	balanceHandler := balance.NewHandler(balanceService)
	requestHandler := leaverequest.NewHandler(requestService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		schedule.RegisterRoutes(api, scheduleHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		leaverequest.RegisterRoutes(api, requestHandler, rbacService, rdb)
	}

	return nil
}
