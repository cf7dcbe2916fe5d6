package leaverequest

import (
	"context"
	"testing"
	"time"

	"leavedesk/internal/balance"
	balanceerrors "leavedesk/internal/balance/errors"
	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
	"leavedesk/internal/holiday"
	leaverequesterrors "leavedesk/internal/leaverequest/errors"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// --- fakes ---

type fakeScheduleRepo struct {
	schedule.Repository
	schedules    map[uuid.UUID]*schedule.WorkSchedule
	defaultSched *schedule.WorkSchedule
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id string) (*schedule.WorkSchedule, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	s, ok := f.schedules[sid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeScheduleRepo) FindDefault(ctx context.Context) (*schedule.WorkSchedule, error) {
	if f.defaultSched == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.defaultSched, nil
}

type fakeHolidayRepo struct {
	holiday.Repository
	overlapping []holiday.Holiday
	recurring   []holiday.Holiday
}

func (f *fakeHolidayRepo) FindApplicableOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]holiday.Holiday, error) {
	return f.overlapping, nil
}

func (f *fakeHolidayRepo) FindWeeklyRecurring(ctx context.Context, employeeID string) ([]holiday.Holiday, error) {
	return f.recurring, nil
}

type fakeLeaveTypeRepo struct {
	leavetype.Repository
	types map[uuid.UUID]*leavetype.LeaveType
}

func (f *fakeLeaveTypeRepo) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	ltid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	lt, ok := f.types[ltid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lt, nil
}

type fakeBalanceRepo struct {
	balance.Repository
	row          *balance.LeaveBalance
	debitOK      bool
	debitedWith  *decimal.Decimal
	creditedWith *decimal.Decimal
}

func (f *fakeBalanceRepo) WithTx(tx *gorm.DB) balance.Repository { return f }

func (f *fakeBalanceRepo) FindForPeriod(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, month *int) (*balance.LeaveBalance, error) {
	if f.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.row, nil
}

func (f *fakeBalanceRepo) DebitGuarded(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	f.debitedWith = &amount
	return f.debitOK, nil
}

func (f *fakeBalanceRepo) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	f.creditedWith = &amount
	return nil
}

type fakeBalanceService struct {
	balance.Service
	seeded      []uuid.UUID
	invalidated []uuid.UUID
}

func (f *fakeBalanceService) EnsureSeeded(ctx context.Context, employeeID uuid.UUID, now time.Time) error {
	f.seeded = append(f.seeded, employeeID)
	return nil
}

func (f *fakeBalanceService) InvalidateCache(ctx context.Context, employeeID uuid.UUID) {
	f.invalidated = append(f.invalidated, employeeID)
}

type fakeAuditRepo struct {
	entries []LeaveRequestAudit
}

func (f *fakeAuditRepo) WithTx(tx *gorm.DB) AuditRepository { return f }

func (f *fakeAuditRepo) Record(ctx context.Context, entry *LeaveRequestAudit) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) FindByRequest(ctx context.Context, requestID uuid.UUID) ([]LeaveRequestAudit, error) {
	return f.entries, nil
}

type fakeOutboxRepo struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

// --- fixture ---

type serviceFixture struct {
	mock       sqlmock.Sqlmock
	service    Service
	employees  *fakeEmployeeRepo
	requests   *fakeRequestRepo
	balances   *fakeBalanceRepo
	balanceSvc *fakeBalanceService
	audit      *fakeAuditRepo
	outbox     *fakeOutboxRepo
	holidays   *fakeHolidayRepo

	employeeID  uuid.UUID
	managerID   uuid.UUID
	leaveTypeID uuid.UUID
	balanceID   uuid.UUID
}

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(
		gormpostgres.New(gormpostgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: gormlogger.Discard},
	)
	assert.NoError(t, err)
	return db, mock
}

func setupService(t *testing.T, withManager bool) *serviceFixture {
	t.Helper()

	db, mock := newGormMock(t)

	f := &serviceFixture{
		mock:        mock,
		employeeID:  uuid.New(),
		managerID:   uuid.New(),
		leaveTypeID: uuid.New(),
		balanceID:   uuid.New(),
	}

	emp := &employee.Employee{ID: f.employeeID, IsActive: true}
	if withManager {
		emp.ManagerID = &f.managerID
	}
	f.employees = &fakeEmployeeRepo{employees: map[uuid.UUID]*employee.Employee{
		f.employeeID: emp,
		f.managerID:  {ID: f.managerID, IsActive: true},
	}}

	f.requests = &fakeRequestRepo{
		CreateFn:   func(ctx context.Context, lr *LeaveRequest) error { return nil },
		UpdateFn:   func(ctx context.Context, lr *LeaveRequest) error { return nil },
		FindByIDFn: func(ctx context.Context, id string) (*LeaveRequest, error) { return nil, gorm.ErrRecordNotFound },
	}

	f.balances = &fakeBalanceRepo{
		row: &balance.LeaveBalance{
			ID:        f.balanceID,
			Total:     decimal.NewFromInt(12),
			Remaining: decimal.NewFromInt(10),
		},
		debitOK: true,
	}
	f.balanceSvc = &fakeBalanceService{}
	f.audit = &fakeAuditRepo{}
	f.outbox = &fakeOutboxRepo{}
	f.holidays = &fakeHolidayRepo{}

	schedules := &fakeScheduleRepo{defaultSched: &schedule.WorkSchedule{
		ID:       uuid.New(),
		IsMonday: true, IsTuesday: true, IsWednesday: true, IsThursday: true, IsFriday: true,
		IsDefault: true,
	}}
	leaveTypes := &fakeLeaveTypeRepo{types: map[uuid.UUID]*leavetype.LeaveType{
		f.leaveTypeID: {
			ID:               f.leaveTypeID,
			Name:             "Annual Leave",
			DefaultAllowance: decimal.NewFromInt(12),
			Unit:             leavetype.UnitDays,
			Cadence:          leavetype.CadenceAnnual,
		},
	}}

	f.service = NewService(ServiceDeps{
		DB:             db,
		Requests:       f.requests,
		Audit:          f.audit,
		Employees:      f.employees,
		Schedules:      schedules,
		Holidays:       f.holidays,
		LeaveTypes:     leaveTypes,
		Balances:       f.balances,
		BalanceService: f.balanceSvc,
		Outbox:         f.outbox,
	})
	return f
}

// --- tests ---

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("no manager routes to admin with skip reason", func(t *testing.T) {
		f := setupService(t, false)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		// 2026-03-02 .. 2026-03-06 is Mon..Fri.
		resp, err := f.service.Submit(ctx, f.employeeID.String(), SubmitLeaveRequestRequest{
			LeaveTypeID: f.leaveTypeID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-06",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(StatusPendingAdmin), resp.Status)
		if assert.NotNil(t, resp.SkipReason) {
			assert.Equal(t, SkipReasonNoManager, *resp.SkipReason)
		}
		if assert.Len(t, f.audit.entries, 1) {
			assert.Equal(t, StatusPendingAdmin, f.audit.entries[0].NewStatus)
			assert.Equal(t, f.employeeID, f.audit.entries[0].ChangedByID)
		}
		assert.Len(t, f.outbox.events, 1)
		assert.Contains(t, f.balanceSvc.seeded, f.employeeID)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("with manager routes to manager", func(t *testing.T) {
		f := setupService(t, true)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.service.Submit(ctx, f.employeeID.String(), SubmitLeaveRequestRequest{
			LeaveTypeID: f.leaveTypeID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-06",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(StatusPendingManager), resp.Status)
		assert.Nil(t, resp.SkipReason)
	})

	t.Run("insufficient balance rejects before any write", func(t *testing.T) {
		f := setupService(t, true)
		f.balances.row.Remaining = decimal.NewFromInt(2)

		_, err := f.service.Submit(ctx, f.employeeID.String(), SubmitLeaveRequestRequest{
			LeaveTypeID: f.leaveTypeID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-06",
		})

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.Empty(t, f.audit.entries)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("range without working days rejects", func(t *testing.T) {
		f := setupService(t, true)
		f.holidays.overlapping = []holiday.Holiday{{
			StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			Type:      holiday.TypeCompany,
		}}

		_, err := f.service.Submit(ctx, f.employeeID.String(), SubmitLeaveRequestRequest{
			LeaveTypeID: f.leaveTypeID.String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-04",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrNoWorkingDays)
	})

	t.Run("inverted range rejects", func(t *testing.T) {
		f := setupService(t, true)

		_, err := f.service.Submit(ctx, f.employeeID.String(), SubmitLeaveRequestRequest{
			LeaveTypeID: f.leaveTypeID.String(),
			StartDate:   "2026-03-06",
			EndDate:     "2026-03-02",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDateRange)
	})
}

func TestService_Transition(t *testing.T) {
	ctx := context.Background()

	pendingRequest := func(f *serviceFixture, status Status) *LeaveRequest {
		lr := &LeaveRequest{
			ID:          uuid.New(),
			EmployeeID:  f.employeeID,
			LeaveTypeID: f.leaveTypeID,
			StartDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			Status:      status,
		}
		f.requests.FindByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) {
			return lr, nil
		}
		return lr
	}

	t.Run("manager approves pending request", func(t *testing.T) {
		f := setupService(t, true)
		lr := pendingRequest(f, StatusPendingManager)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.service.Transition(ctx, lr.ID.String(), f.managerID.String(), domain.RoleManager, TransitionRequest{
			Status: string(StatusApprovedByManager),
		})

		assert.NoError(t, err)
		assert.Equal(t, string(StatusApprovedByManager), resp.Status)
		assert.Nil(t, f.balances.debitedWith)
		if assert.Len(t, f.audit.entries, 1) {
			assert.Equal(t, StatusPendingManager, f.audit.entries[0].PreviousStatus)
			assert.Equal(t, StatusApprovedByManager, f.audit.entries[0].NewStatus)
		}
	})

	t.Run("someone else's manager cannot approve", func(t *testing.T) {
		f := setupService(t, true)
		lr := pendingRequest(f, StatusPendingManager)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		stranger := uuid.New()
		_, err := f.service.Transition(ctx, lr.ID.String(), stranger.String(), domain.RoleManager, TransitionRequest{
			Status: string(StatusApprovedByManager),
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrForbiddenActor)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("final approval debits recomputed working days", func(t *testing.T) {
		f := setupService(t, true)
		lr := pendingRequest(f, StatusApprovedByManager)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		admin := uuid.New()
		resp, err := f.service.Transition(ctx, lr.ID.String(), admin.String(), domain.RoleAdmin, TransitionRequest{
			Status: string(StatusApprovedByAdmin),
		})

		assert.NoError(t, err)
		assert.Equal(t, string(StatusApprovedByAdmin), resp.Status)
		if assert.NotNil(t, f.balances.debitedWith) {
			assert.True(t, f.balances.debitedWith.Equal(decimal.NewFromInt(5)))
		}
		assert.Contains(t, f.balanceSvc.invalidated, f.employeeID)
	})

	t.Run("guarded debit rejection aborts the approval", func(t *testing.T) {
		f := setupService(t, true)
		lr := pendingRequest(f, StatusApprovedByManager)
		f.balances.debitOK = false
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		admin := uuid.New()
		_, err := f.service.Transition(ctx, lr.ID.String(), admin.String(), domain.RoleAdmin, TransitionRequest{
			Status: string(StatusApprovedByAdmin),
		})

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.Empty(t, f.audit.entries)
		assert.Empty(t, f.balanceSvc.invalidated)
	})

	t.Run("denial requires a reason", func(t *testing.T) {
		f := setupService(t, true)
		lr := pendingRequest(f, StatusPendingManager)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.service.Transition(ctx, lr.ID.String(), f.managerID.String(), domain.RoleManager, TransitionRequest{
			Status: string(StatusDenied),
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrReasonRequired)
	})

	t.Run("illegal transition rejects", func(t *testing.T) {
		f := setupService(t, true)
		lr := pendingRequest(f, StatusDenied)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		admin := uuid.New()
		_, err := f.service.Transition(ctx, lr.ID.String(), admin.String(), domain.RoleAdmin, TransitionRequest{
			Status: string(StatusApprovedByAdmin),
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTransition)
	})
}

func TestService_CancellationFlow(t *testing.T) {
	ctx := context.Background()

	approvedRequest := func(f *serviceFixture, status Status, snapshot *Status) *LeaveRequest {
		lr := &LeaveRequest{
			ID:                       uuid.New(),
			EmployeeID:               f.employeeID,
			LeaveTypeID:              f.leaveTypeID,
			StartDate:                time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:                  time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			Status:                   status,
			StatusBeforeCancellation: snapshot,
		}
		f.requests.FindByIDFn = func(ctx context.Context, id string) (*LeaveRequest, error) {
			return lr, nil
		}
		return lr
	}

	t.Run("employee requests cancellation of approved leave", func(t *testing.T) {
		f := setupService(t, true)
		lr := approvedRequest(f, StatusApprovedByAdmin, nil)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.service.RequestCancellation(ctx, lr.ID.String(), f.employeeID.String(), "change of plans")

		assert.NoError(t, err)
		assert.Equal(t, string(StatusCancellationPendingManager), resp.Status)
		if assert.NotNil(t, resp.StatusBeforeCancellation) {
			assert.Equal(t, string(StatusApprovedByAdmin), *resp.StatusBeforeCancellation)
		}
	})

	t.Run("only the owner may request cancellation", func(t *testing.T) {
		f := setupService(t, true)
		lr := approvedRequest(f, StatusApprovedByAdmin, nil)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.service.RequestCancellation(ctx, lr.ID.String(), uuid.New().String(), "")
		assert.ErrorIs(t, err, leaverequesterrors.ErrForbiddenActor)
	})

	t.Run("admin approval credits back the same day count", func(t *testing.T) {
		f := setupService(t, true)
		snapshot := StatusApprovedByAdmin
		lr := approvedRequest(f, StatusCancellationPendingAdmin, &snapshot)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		admin := uuid.New()
		resp, err := f.service.ResolveCancellation(ctx, lr.ID.String(), admin.String(), domain.RoleAdmin, ResolveCancellationRequest{
			Approve: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, string(StatusCancelled), resp.Status)
		if assert.NotNil(t, f.balances.creditedWith) {
			assert.True(t, f.balances.creditedWith.Equal(decimal.NewFromInt(5)))
		}
		assert.Contains(t, f.balanceSvc.invalidated, f.employeeID)
	})

	t.Run("rejection restores the snapshotted status", func(t *testing.T) {
		f := setupService(t, true)
		snapshot := StatusApprovedByAdmin
		lr := approvedRequest(f, StatusCancellationPendingAdmin, &snapshot)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		admin := uuid.New()
		resp, err := f.service.ResolveCancellation(ctx, lr.ID.String(), admin.String(), domain.RoleAdmin, ResolveCancellationRequest{
			Approve: false,
			Reason:  "dates already covered",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(StatusApprovedByAdmin), resp.Status)
		assert.Nil(t, resp.StatusBeforeCancellation)
		assert.Nil(t, f.balances.creditedWith)
	})

	t.Run("manager approval moves cancellation to admin", func(t *testing.T) {
		f := setupService(t, true)
		snapshot := StatusApprovedByAdmin
		lr := approvedRequest(f, StatusCancellationPendingManager, &snapshot)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.service.ResolveCancellation(ctx, lr.ID.String(), f.managerID.String(), domain.RoleManager, ResolveCancellationRequest{
			Approve: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, string(StatusCancellationPendingAdmin), resp.Status)
		assert.Nil(t, f.balances.creditedWith)
	})

	t.Run("cancel pending withdraws without balance impact", func(t *testing.T) {
		f := setupService(t, true)
		lr := approvedRequest(f, StatusPendingManager, nil)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.service.CancelPending(ctx, lr.ID.String(), f.employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, string(StatusCancelled), resp.Status)
		assert.Nil(t, f.balances.debitedWith)
		assert.Nil(t, f.balances.creditedWith)
		if assert.Len(t, f.audit.entries, 1) {
			assert.Equal(t, "Cancelled by employee.", f.audit.entries[0].Reason)
		}
	})

	t.Run("cancel pending refuses finally approved requests", func(t *testing.T) {
		f := setupService(t, true)
		lr := approvedRequest(f, StatusApprovedByAdmin, nil)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.service.CancelPending(ctx, lr.ID.String(), f.employeeID.String())
		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTransition)
	})
}
