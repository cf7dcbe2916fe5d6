package leaverequest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leavedesk/internal/balance"
	balanceerrors "leavedesk/internal/balance/errors"
	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
	employeeerrors "leavedesk/internal/employee/errors"
	"leavedesk/internal/events"
	"leavedesk/internal/holiday"
	leaverequesterrors "leavedesk/internal/leaverequest/errors"
	"leavedesk/internal/leavetype"
	leavetypeerrors "leavedesk/internal/leavetype/errors"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/schedule"
	scheduleerrors "leavedesk/internal/schedule/errors"
	"leavedesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error)
	Transition(ctx context.Context, requestID, actorID, actorRole string, req TransitionRequest) (LeaveRequestResponse, error)
	RequestCancellation(ctx context.Context, requestID, actorID, reason string) (LeaveRequestResponse, error)
	ResolveCancellation(ctx context.Context, requestID, actorID, actorRole string, req ResolveCancellationRequest) (LeaveRequestResponse, error)
	CancelPending(ctx context.Context, requestID, actorID string) (LeaveRequestResponse, error)

	GetMine(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, requestID, actorID, actorRole string) (LeaveRequestResponse, error)
	GetAudit(ctx context.Context, requestID, actorID, actorRole string) ([]AuditEntryResponse, error)
	ManagerPendingApprovals(ctx context.Context, managerID string) ([]LeaveRequestResponse, error)
	ManagerPendingCancellations(ctx context.Context, managerID string) ([]LeaveRequestResponse, error)
	ManagerRequests(ctx context.Context, managerID string) ([]LeaveRequestResponse, error)
	AdminQueue(ctx context.Context) ([]LeaveRequestResponse, error)
}

// ServiceDeps bundles the collaborators the state machine consults. The
// repositories must all share the same database handle so WithTx binds
// them to one transaction.
type ServiceDeps struct {
	DB             *gorm.DB
	Requests       Repository
	Audit          AuditRepository
	Employees      employee.Repository
	Schedules      schedule.Repository
	Holidays       holiday.Repository
	LeaveTypes     leavetype.Repository
	Balances       balance.Repository
	BalanceService balance.Service
	Outbox         kafka.OutboxRepository
}

type service struct {
	deps   ServiceDeps
	bypass *BypassResolver
	logger *zap.Logger
}

func NewService(deps ServiceDeps, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		deps:   deps,
		bypass: NewBypassResolver(deps.Employees, deps.Requests, l),
		logger: l,
	}
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error) {
	// Logger dari middleware sudah membawa request_id dan employee_id.
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("submit leave request",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
	)

	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveRequestResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	emp, err := s.deps.Employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if !emp.IsActive {
		return LeaveRequestResponse{}, leaverequesterrors.ErrEmployeeInactive
	}

	lt, err := s.deps.LeaveTypes.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveRequestResponse{}, err
	}

	days, err := s.workingDaysFor(ctx, emp, startDate, endDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if days == 0 {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNoWorkingDays
	}

	// Pre-check the balance at submission time. Final approval re-checks
	// with a guarded debit since the balance may move in between.
	if err := s.deps.BalanceService.EnsureSeeded(ctx, eid, startDate); err != nil {
		return LeaveRequestResponse{}, err
	}
	year, month := balance.PeriodFor(lt.Cadence, startDate)
	bal, err := s.deps.Balances.FindForPeriod(ctx, eid, lt.ID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return LeaveRequestResponse{}, err
	}
	required := decimal.NewFromInt(int64(days))
	if bal.Remaining.LessThan(required) {
		log.Warn("submission rejected, insufficient balance",
			zap.String("employee_id", employeeID),
			zap.String("remaining", bal.Remaining.String()),
			zap.Int("required", days),
		)
		return LeaveRequestResponse{}, balanceerrors.ErrInsufficientBalance
	}

	status := StatusPendingManager
	var skipReason *string
	if bypass, reason := s.bypass.Resolve(ctx, eid); bypass {
		status = StatusPendingAdmin
		skipReason = &reason
	}

	lr := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  eid,
		LeaveTypeID: lt.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      status,
		SkipReason:  skipReason,
	}

	auditReason := "Request submitted by employee."
	if skipReason != nil {
		auditReason = auditReason + " " + *skipReason
	}

	tx := s.deps.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("submit begin tx failed", zap.Error(tx.Error))
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	if err := s.deps.Requests.WithTx(tx).Create(ctx, lr); err != nil {
		log.Error("submit persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := s.recordTransition(ctx, tx, lr, eid, "", auditReason); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("submit commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	log.Info("leave request submitted",
		zap.String("request_id", lr.ID.String()),
		zap.String("status", string(lr.Status)),
		zap.Int("working_days", days),
	)

	return mapToResponse(*lr), nil
}

func (s *service) Transition(ctx context.Context, requestID, actorID, actorRole string, req TransitionRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("transition requested",
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID),
		zap.String("target_status", req.Status),
	)

	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrForbiddenActor
	}
	target := Status(req.Status)
	if !ValidStatus(target) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatus
	}

	tx := s.deps.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.deps.Requests.WithTx(tx)

	lr, err := qtx.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	class, ok := allowedTransition(lr.Status, target)
	if !ok {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidTransition
	}
	if err := s.authorizeActor(ctx, class, lr, actor, actorRole); err != nil {
		return LeaveRequestResponse{}, err
	}

	now := time.Now().UTC()
	prev := lr.Status
	reason := req.Reason
	debited := false

	switch target {
	case StatusApprovedByManager:
		lr.ApprovedByManagerID = &actor
		lr.ApprovedByManagerAt = &now
		if reason == "" {
			reason = "Approved by manager."
		}
	case StatusApprovedByAdmin:
		days, err := s.debitForFinalApproval(ctx, tx, lr)
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		lr.ApprovedByAdminID = &actor
		lr.ApprovedByAdminAt = &now
		if reason == "" {
			reason = "Request approved by admin. Balance debited."
		}
		debited = true
		s.logger.Info("final approval debit",
			zap.String("request_id", lr.ID.String()),
			zap.Int("working_days", days),
		)
	case StatusDenied:
		if reason == "" {
			return LeaveRequestResponse{}, leaverequesterrors.ErrReasonRequired
		}
		lr.DeniedByID = &actor
		lr.DeniedAt = &now
		lr.DenialReason = &req.Reason
	}

	lr.Status = target
	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("transition persist failed", zap.String("request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := s.recordTransition(ctx, tx, lr, actor, prev, reason); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("transition commit failed", zap.String("request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("transition applied",
		zap.String("request_id", lr.ID.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(lr.Status)),
	)

	if debited {
		s.deps.BalanceService.InvalidateCache(ctx, lr.EmployeeID)
	}
	return mapToResponse(*lr), nil
}

func (s *service) RequestCancellation(ctx context.Context, requestID, actorID, reason string) (LeaveRequestResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrForbiddenActor
	}

	tx := s.deps.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.deps.Requests.WithTx(tx)

	lr, err := qtx.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if lr.EmployeeID != actor {
		return LeaveRequestResponse{}, leaverequesterrors.ErrForbiddenActor
	}
	if lr.Status != StatusApprovedByAdmin {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidTransition
	}

	prev := lr.Status
	snapshot := lr.Status
	lr.StatusBeforeCancellation = &snapshot
	if reason != "" {
		lr.CancellationReason = &reason
	}

	lr.Status = StatusCancellationPendingManager
	auditReason := "Cancellation requested by employee."
	if bypass, skipReason := s.bypass.Resolve(ctx, lr.EmployeeID); bypass {
		lr.Status = StatusCancellationPendingAdmin
		auditReason = auditReason + " " + skipReason
	}

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("request cancellation persist failed", zap.String("request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := s.recordTransition(ctx, tx, lr, actor, prev, auditReason); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("cancellation requested",
		zap.String("request_id", lr.ID.String()),
		zap.String("status", string(lr.Status)),
	)
	return mapToResponse(*lr), nil
}

func (s *service) ResolveCancellation(ctx context.Context, requestID, actorID, actorRole string, req ResolveCancellationRequest) (LeaveRequestResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrForbiddenActor
	}

	tx := s.deps.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.deps.Requests.WithTx(tx)

	lr, err := qtx.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	now := time.Now().UTC()
	prev := lr.Status
	reason := req.Reason
	credited := false

	switch lr.Status {
	case StatusCancellationPendingManager:
		if err := s.authorizeActor(ctx, actorManager, lr, actor, actorRole); err != nil {
			return LeaveRequestResponse{}, err
		}
		if req.Approve {
			lr.Status = StatusCancellationPendingAdmin
			if reason == "" {
				reason = "Cancellation approved by manager."
			}
		} else {
			restoreStatus(lr)
			if reason == "" {
				reason = "Cancellation rejected by manager."
			}
		}
	case StatusCancellationPendingAdmin:
		if err := s.authorizeActor(ctx, actorAdmin, lr, actor, actorRole); err != nil {
			return LeaveRequestResponse{}, err
		}
		if req.Approve {
			days, err := s.creditForCancellation(ctx, tx, lr)
			if err != nil {
				return LeaveRequestResponse{}, err
			}
			lr.Status = StatusCancelled
			lr.CancelledByID = &actor
			lr.CancelledAt = &now
			credited = true
			if reason == "" {
				reason = "Cancellation approved by admin. Balance restored."
			}
			s.logger.Info("cancellation credit",
				zap.String("request_id", lr.ID.String()),
				zap.Int("working_days", days),
			)
		} else {
			restoreStatus(lr)
			if reason == "" {
				reason = "Cancellation rejected by admin."
			}
		}
	default:
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidTransition
	}

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("resolve cancellation persist failed", zap.String("request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := s.recordTransition(ctx, tx, lr, actor, prev, reason); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("cancellation resolved",
		zap.String("request_id", lr.ID.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(lr.Status)),
		zap.Bool("approved", req.Approve),
	)

	if credited {
		s.deps.BalanceService.InvalidateCache(ctx, lr.EmployeeID)
	}
	return mapToResponse(*lr), nil
}

func (s *service) CancelPending(ctx context.Context, requestID, actorID string) (LeaveRequestResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrForbiddenActor
	}

	tx := s.deps.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.deps.Requests.WithTx(tx)

	lr, err := qtx.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if lr.EmployeeID != actor {
		return LeaveRequestResponse{}, leaverequesterrors.ErrForbiddenActor
	}
	if !canCancelPending(lr.Status) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	prev := lr.Status
	lr.Status = StatusCancelled
	lr.CancelledByID = &actor
	lr.CancelledAt = &now

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("cancel pending persist failed", zap.String("request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := s.recordTransition(ctx, tx, lr, actor, prev, "Cancelled by employee."); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("pending request cancelled", zap.String("request_id", lr.ID.String()))
	return mapToResponse(*lr), nil
}

func (s *service) GetMine(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	requests, err := s.deps.Requests.FindByEmployee(ctx, eid)
	if err != nil {
		return nil, err
	}
	return mapToResponses(requests), nil
}

func (s *service) GetByID(ctx context.Context, requestID, actorID, actorRole string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}
	lr, err := s.deps.Requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if err := s.authorizeRead(ctx, lr, actorID, actorRole); err != nil {
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) GetAudit(ctx context.Context, requestID, actorID, actorRole string) ([]AuditEntryResponse, error) {
	rid, err := uuid.Parse(requestID)
	if err != nil {
		return nil, leaverequesterrors.ErrInvalidRequestID
	}
	lr, err := s.deps.Requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaverequesterrors.ErrRequestNotFound
		}
		return nil, err
	}
	if err := s.authorizeRead(ctx, lr, actorID, actorRole); err != nil {
		return nil, err
	}

	entries, err := s.deps.Audit.FindByRequest(ctx, rid)
	if err != nil {
		return nil, err
	}
	resp := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = AuditEntryResponse{
			ID:             e.ID.String(),
			LeaveRequestID: e.LeaveRequestID.String(),
			ChangedByID:    e.ChangedByID.String(),
			PreviousStatus: string(e.PreviousStatus),
			NewStatus:      string(e.NewStatus),
			Reason:         e.Reason,
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) ManagerPendingApprovals(ctx context.Context, managerID string) ([]LeaveRequestResponse, error) {
	mid, err := uuid.Parse(managerID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	requests, err := s.deps.Requests.FindByStatusesForManager(ctx, mid, []Status{StatusPendingManager})
	if err != nil {
		return nil, err
	}
	return mapToResponses(requests), nil
}

func (s *service) ManagerPendingCancellations(ctx context.Context, managerID string) ([]LeaveRequestResponse, error) {
	mid, err := uuid.Parse(managerID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	requests, err := s.deps.Requests.FindByStatusesForManager(ctx, mid, []Status{StatusCancellationPendingManager})
	if err != nil {
		return nil, err
	}
	return mapToResponses(requests), nil
}

// ManagerRequests is the manager's full history view over their reports,
// not just the actionable queues.
func (s *service) ManagerRequests(ctx context.Context, managerID string) ([]LeaveRequestResponse, error) {
	mid, err := uuid.Parse(managerID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	requests, err := s.deps.Requests.FindByManager(ctx, mid)
	if err != nil {
		return nil, err
	}
	return mapToResponses(requests), nil
}

func (s *service) AdminQueue(ctx context.Context) ([]LeaveRequestResponse, error) {
	statuses := append([]Status{}, awaitingAdmin...)
	statuses = append(statuses, StatusCancellationPendingAdmin)
	requests, err := s.deps.Requests.FindByStatuses(ctx, statuses)
	if err != nil {
		return nil, err
	}
	return mapToResponses(requests), nil
}

// debitForFinalApproval recomputes the working days and applies the
// guarded debit inside the transaction. The conditional update is what
// keeps two concurrent final approvals from driving remaining negative.
func (s *service) debitForFinalApproval(ctx context.Context, tx *gorm.DB, lr *LeaveRequest) (int, error) {
	days, bal, err := s.recomputeAgainstBalance(ctx, lr)
	if err != nil {
		return 0, err
	}

	ok, err := s.deps.Balances.WithTx(tx).DebitGuarded(ctx, bal.ID, decimal.NewFromInt(int64(days)))
	if err != nil {
		s.logger.Error("guarded debit failed", zap.String("request_id", lr.ID.String()), zap.Error(err))
		return 0, err
	}
	if !ok {
		return 0, balanceerrors.ErrInsufficientBalance
	}
	return days, nil
}

// creditForCancellation credits back the same recomputed count the final
// approval debited. Both sides go through the same calculator and the same
// period resolution, so a full cancellation round-trips the balance.
func (s *service) creditForCancellation(ctx context.Context, tx *gorm.DB, lr *LeaveRequest) (int, error) {
	days, bal, err := s.recomputeAgainstBalance(ctx, lr)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Balances.WithTx(tx).Credit(ctx, bal.ID, decimal.NewFromInt(int64(days))); err != nil {
		s.logger.Error("cancellation credit failed", zap.String("request_id", lr.ID.String()), zap.Error(err))
		return 0, err
	}
	return days, nil
}

func (s *service) recomputeAgainstBalance(ctx context.Context, lr *LeaveRequest) (int, *balance.LeaveBalance, error) {
	emp, err := s.deps.Employees.FindByID(ctx, lr.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, employeeerrors.ErrEmployeeNotFound
		}
		return 0, nil, err
	}
	lt, err := s.deps.LeaveTypes.FindByID(ctx, lr.LeaveTypeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return 0, nil, err
	}

	days, err := s.workingDaysFor(ctx, emp, lr.StartDate, lr.EndDate)
	if err != nil {
		return 0, nil, err
	}

	year, month := balance.PeriodFor(lt.Cadence, lr.StartDate)
	bal, err := s.deps.Balances.FindForPeriod(ctx, lr.EmployeeID, lr.LeaveTypeID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, balanceerrors.ErrBalanceNotFound
		}
		return 0, nil, err
	}
	return days, bal, nil
}

// workingDaysFor resolves the employee's schedule (falling back to the
// system default) and applicable holidays, then counts working days.
func (s *service) workingDaysFor(ctx context.Context, emp *employee.Employee, start, end time.Time) (int, error) {
	var sched *schedule.WorkSchedule
	var err error
	if emp.WorkScheduleID != nil {
		sched, err = s.deps.Schedules.FindByID(ctx, emp.WorkScheduleID.String())
	} else {
		sched, err = s.deps.Schedules.FindDefault(ctx)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, scheduleerrors.ErrNoDefaultSchedule
		}
		return 0, err
	}

	overlapping, err := s.deps.Holidays.FindApplicableOverlapping(ctx, emp.ID.String(), start, end)
	if err != nil {
		return 0, err
	}
	intervals := make([]HolidayInterval, len(overlapping))
	for i, h := range overlapping {
		intervals[i] = HolidayInterval{
			Start:      h.StartDate,
			End:        h.EndDate,
			Type:       h.Type,
			EmployeeID: h.EmployeeID,
		}
	}

	recurring, err := s.deps.Holidays.FindWeeklyRecurring(ctx, emp.ID.String())
	if err != nil {
		return 0, err
	}
	weeklyDaysOff := make(map[time.Weekday]bool, len(recurring))
	for _, h := range recurring {
		weeklyDaysOff[h.StartDate.UTC().Weekday()] = true
	}

	mask := WeekdayMask(sched.WorkingWeekdays())
	return CountWorkingDays(start, end, mask, intervals, weeklyDaysOff, emp.ID), nil
}

// authorizeActor enforces the relationship a transition demands: manager
// gated steps accept the employee's manager or an admin, admin gated steps
// accept admins only, self gated steps the owning employee.
func (s *service) authorizeActor(ctx context.Context, class actorClass, lr *LeaveRequest, actor uuid.UUID, actorRole string) error {
	switch class {
	case actorSelf:
		if lr.EmployeeID != actor {
			return leaverequesterrors.ErrForbiddenActor
		}
		return nil
	case actorAdmin:
		if !domain.IsAdmin(actorRole) {
			return leaverequesterrors.ErrForbiddenActor
		}
		return nil
	case actorManager:
		if domain.IsAdmin(actorRole) {
			return nil
		}
		managerID, err := s.deps.Employees.GetManagerID(ctx, lr.EmployeeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrForbiddenActor
			}
			return err
		}
		if managerID == nil || *managerID != actor {
			return leaverequesterrors.ErrForbiddenActor
		}
		return nil
	}
	return leaverequesterrors.ErrForbiddenActor
}

func (s *service) authorizeRead(ctx context.Context, lr *LeaveRequest, actorID, actorRole string) error {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return leaverequesterrors.ErrForbiddenActor
	}
	if lr.EmployeeID == actor || domain.IsAdmin(actorRole) {
		return nil
	}
	managerID, err := s.deps.Employees.GetManagerID(ctx, lr.EmployeeID.String())
	if err == nil && managerID != nil && *managerID == actor {
		return nil
	}
	return leaverequesterrors.ErrForbiddenActor
}

// recordTransition writes the audit row and the outbox event in the same
// transaction as the status change itself.
func (s *service) recordTransition(ctx context.Context, tx *gorm.DB, lr *LeaveRequest, changedBy uuid.UUID, prev Status, reason string) error {
	entry := &LeaveRequestAudit{
		ID:             uuid.New(),
		LeaveRequestID: lr.ID,
		ChangedByID:    changedBy,
		PreviousStatus: prev,
		NewStatus:      lr.Status,
		Reason:         reason,
	}
	if err := s.deps.Audit.WithTx(tx).Record(ctx, entry); err != nil {
		s.logger.Error("audit append failed", zap.String("request_id", lr.ID.String()), zap.Error(err))
		return err
	}

	event := events.LeaveStatusChangedEvent{
		RequestID:      lr.ID.String(),
		EmployeeID:     lr.EmployeeID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		PreviousStatus: string(prev),
		NewStatus:      string(lr.Status),
		ChangedByID:    changedBy.String(),
		Reason:         reason,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     "leave.status-changed",
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.deps.Outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("outbox append failed", zap.String("request_id", lr.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

// restoreStatus puts a rejected cancellation back where it came from.
// Requests written before the snapshot field existed fall back to
// APPROVED_BY_ADMIN, the only state a cancellation can start from.
func restoreStatus(lr *LeaveRequest) {
	restored := StatusApprovedByAdmin
	if lr.StatusBeforeCancellation != nil {
		restored = *lr.StatusBeforeCancellation
	}
	lr.Status = restored
	lr.StatusBeforeCancellation = nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func mapToResponses(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                 lr.ID.String(),
		EmployeeID:         lr.EmployeeID.String(),
		LeaveTypeID:        lr.LeaveTypeID.String(),
		StartDate:          lr.StartDate.Format("2006-01-02"),
		EndDate:            lr.EndDate.Format("2006-01-02"),
		Status:             string(lr.Status),
		SkipReason:         lr.SkipReason,
		CancellationReason: lr.CancellationReason,
		DenialReason:       lr.DenialReason,
		CreatedAt:          lr.CreatedAt.Format(time.RFC3339),
	}
	if lr.StatusBeforeCancellation != nil {
		v := string(*lr.StatusBeforeCancellation)
		resp.StatusBeforeCancellation = &v
	}
	return resp
}
