package leaverequest

import (
	"context"
	"errors"
	"time"

	"leavedesk/internal/employee"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SkipReasonNoManager      = "No manager assigned."
	SkipReasonManagerOnLeave = "Manager is currently on leave."
)

// BypassResolver decides whether manager approval should be skipped for an
// employee: either no manager is assigned, or the manager is on finally
// approved leave today. Any lookup failure resolves to no bypass so a
// request is never silently routed past its manager.
type BypassResolver struct {
	employees employee.Repository
	requests  Repository
	logger    *zap.Logger
}

func NewBypassResolver(employees employee.Repository, requests Repository, logger ...*zap.Logger) *BypassResolver {
	l := zap.L().Named("leaverequest.bypass")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.bypass")
	}
	return &BypassResolver{employees: employees, requests: requests, logger: l}
}

// Resolve returns whether to bypass manager approval and the reason
// recorded on the request when it does.
func (b *BypassResolver) Resolve(ctx context.Context, employeeID uuid.UUID) (bool, string) {
	managerID, err := b.employees.GetManagerID(ctx, employeeID.String())
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			b.logger.Error("bypass manager lookup failed",
				zap.String("employee_id", employeeID.String()),
				zap.Error(err),
			)
		}
		return false, ""
	}
	if managerID == nil {
		return true, SkipReasonNoManager
	}

	today := normalizeDay(time.Now())
	onLeave, err := b.requests.HasApprovedLeaveOn(ctx, *managerID, today)
	if err != nil {
		b.logger.Error("bypass manager leave lookup failed",
			zap.String("manager_id", managerID.String()),
			zap.Error(err),
		)
		return false, ""
	}
	if onLeave {
		return true, SkipReasonManagerOnLeave
	}
	return false, ""
}
