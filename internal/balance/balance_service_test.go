package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	balanceerrors "leavedesk/internal/balance/errors"
	"leavedesk/internal/leavetype"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeBalanceRepo struct {
	Repository
	rows      []*LeaveBalance
	employees []uuid.UUID
	created   []*LeaveBalance
	updated   []*LeaveBalance
}

func (f *fakeBalanceRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeBalanceRepo) Create(ctx context.Context, b *LeaveBalance) error {
	f.created = append(f.created, b)
	f.rows = append(f.rows, b)
	return nil
}

func (f *fakeBalanceRepo) Update(ctx context.Context, b *LeaveBalance) error {
	f.updated = append(f.updated, b)
	return nil
}

func (f *fakeBalanceRepo) FindForPeriod(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, month *int) (*LeaveBalance, error) {
	for _, b := range f.rows {
		if b.EmployeeID != employeeID || b.LeaveTypeID != leaveTypeID || b.Year != year {
			continue
		}
		if (b.Month == nil) != (month == nil) {
			continue
		}
		if month != nil && *b.Month != *month {
			continue
		}
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepo) FindForRebase(ctx context.Context, leaveTypeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var out []LeaveBalance
	for _, b := range f.rows {
		if b.LeaveTypeID == leaveTypeID && b.Year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) ListActiveEmployeeIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.employees, nil
}

func (f *fakeBalanceRepo) FindByEmployeeYear(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var out []LeaveBalance
	for _, b := range f.rows {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeLeaveTypeRepo struct {
	leavetype.Repository
	types []leavetype.LeaveType
}

func (f *fakeLeaveTypeRepo) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	return f.types, nil
}

func (f *fakeLeaveTypeRepo) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	for i := range f.types {
		if f.types[i].ID.String() == id {
			return &f.types[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
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

func TestPeriodFor(t *testing.T) {
	d := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	t.Run("annual keys by year only", func(t *testing.T) {
		year, month := PeriodFor(leavetype.CadenceAnnual, d)
		assert.Equal(t, 2026, year)
		assert.Nil(t, month)
	})

	t.Run("monthly keys by year and month", func(t *testing.T) {
		year, month := PeriodFor(leavetype.CadenceMonthly, d)
		assert.Equal(t, 2026, year)
		if assert.NotNil(t, month) {
			assert.Equal(t, 7, *month)
		}
	})

	t.Run("debit and credit resolve the same period", func(t *testing.T) {
		y1, m1 := PeriodFor(leavetype.CadenceMonthly, d)
		y2, m2 := PeriodFor(leavetype.CadenceMonthly, d)
		assert.Equal(t, y1, y2)
		assert.Equal(t, *m1, *m2)
	})
}

func TestEnsureSeeded(t *testing.T) {
	ctx := context.Background()
	db, _ := newGormMock(t)

	annual := leavetype.LeaveType{
		ID:               uuid.New(),
		Name:             "Annual Leave",
		DefaultAllowance: decimal.NewFromInt(12),
		Cadence:          leavetype.CadenceAnnual,
	}
	monthly := leavetype.LeaveType{
		ID:               uuid.New(),
		Name:             "Comp Time",
		DefaultAllowance: decimal.RequireFromString("1.5"),
		Cadence:          leavetype.CadenceMonthly,
	}

	repo := &fakeBalanceRepo{}
	svc := NewService(db, repo, &fakeLeaveTypeRepo{types: []leavetype.LeaveType{annual, monthly}}, nil)

	employeeID := uuid.New()
	now := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, svc.EnsureSeeded(ctx, employeeID, now))
	assert.Len(t, repo.created, 2)

	annualRow, err := repo.FindForPeriod(ctx, employeeID, annual.ID, 2026, nil)
	assert.NoError(t, err)
	assert.True(t, annualRow.Total.Equal(decimal.NewFromInt(12)))
	assert.True(t, annualRow.Remaining.Equal(decimal.NewFromInt(12)))

	month := 7
	monthlyRow, err := repo.FindForPeriod(ctx, employeeID, monthly.ID, 2026, &month)
	assert.NoError(t, err)
	assert.True(t, monthlyRow.Remaining.Equal(decimal.RequireFromString("1.5")))

	// Calling again must not duplicate anything.
	assert.NoError(t, svc.EnsureSeeded(ctx, employeeID, now))
	assert.Len(t, repo.created, 2)
}

func TestManualSet(t *testing.T) {
	ctx := context.Background()

	lt := leavetype.LeaveType{
		ID:               uuid.New(),
		Name:             "Annual Leave",
		DefaultAllowance: decimal.NewFromInt(12),
		Cadence:          leavetype.CadenceAnnual,
	}
	employeeID := uuid.New()

	t.Run("existing row resets remaining and marks override", func(t *testing.T) {
		db, mock := newGormMock(t)
		repo := &fakeBalanceRepo{rows: []*LeaveBalance{{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: lt.ID,
			Year:        2026,
			Total:       decimal.NewFromInt(12),
			Remaining:   decimal.NewFromInt(3),
		}}}
		svc := NewService(db, repo, &fakeLeaveTypeRepo{types: []leavetype.LeaveType{lt}}, nil)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.ManualSet(ctx, ManualSetRequest{
			EmployeeID:  employeeID.String(),
			LeaveTypeID: lt.ID.String(),
			Year:        2026,
			Total:       "20",
		})

		assert.NoError(t, err)
		assert.Equal(t, "20", resp.Total)
		assert.Equal(t, "20", resp.Remaining)
		assert.True(t, resp.IsManualOverride)
	})

	t.Run("locked row refuses the override", func(t *testing.T) {
		db, mock := newGormMock(t)
		repo := &fakeBalanceRepo{rows: []*LeaveBalance{{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: lt.ID,
			Year:        2026,
			IsLocked:    true,
		}}}
		svc := NewService(db, repo, &fakeLeaveTypeRepo{types: []leavetype.LeaveType{lt}}, nil)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.ManualSet(ctx, ManualSetRequest{
			EmployeeID:  employeeID.String(),
			LeaveTypeID: lt.ID.String(),
			Year:        2026,
			Total:       "20",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceLocked)
	})

	t.Run("month on an annual type rejects", func(t *testing.T) {
		db, _ := newGormMock(t)
		svc := NewService(db, &fakeBalanceRepo{}, &fakeLeaveTypeRepo{types: []leavetype.LeaveType{lt}}, nil)

		month := 3
		_, err := svc.ManualSet(ctx, ManualSetRequest{
			EmployeeID:  employeeID.String(),
			LeaveTypeID: lt.ID.String(),
			Year:        2026,
			Month:       &month,
			Total:       "20",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidPeriod)
	})
}

func TestMyBalances(t *testing.T) {
	ctx := context.Background()

	lt := leavetype.LeaveType{
		ID:               uuid.New(),
		Name:             "Annual Leave",
		Unit:             "days",
		DefaultAllowance: decimal.NewFromInt(12),
		Cadence:          leavetype.CadenceAnnual,
	}
	employeeID := uuid.New()
	year := time.Now().UTC().Year()
	cacheKey := fmt.Sprintf("leavedesk:my-balances:%s:%d", employeeID, year)

	t.Run("cache hit skips the database", func(t *testing.T) {
		db, _ := newGormMock(t)
		rdb, redisMock := redismock.NewClientMock()

		cached := []MyBalanceResponse{{
			LeaveTypeID:   lt.ID.String(),
			LeaveTypeName: lt.Name,
			Unit:          lt.Unit,
			Year:          year,
			Total:         "12",
			Remaining:     "9",
		}}
		payload, _ := json.Marshal(cached)
		redisMock.ExpectGet(cacheKey).SetVal(string(payload))

		// Empty repo: any database fallthrough would return nothing.
		svc := NewService(db, &fakeBalanceRepo{}, &fakeLeaveTypeRepo{}, rdb)

		resp, err := svc.MyBalances(ctx, employeeID.String())
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "9", resp[0].Remaining)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss reads the database and fills the cache", func(t *testing.T) {
		db, _ := newGormMock(t)
		rdb, redisMock := redismock.NewClientMock()

		repo := &fakeBalanceRepo{rows: []*LeaveBalance{{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: lt.ID,
			Year:        year,
			Total:       decimal.NewFromInt(12),
			Remaining:   decimal.NewFromInt(7),
		}}}
		svc := NewService(db, repo, &fakeLeaveTypeRepo{types: []leavetype.LeaveType{lt}}, rdb)

		expected := []MyBalanceResponse{{
			LeaveTypeID:   lt.ID.String(),
			LeaveTypeName: lt.Name,
			Unit:          lt.Unit,
			Year:          year,
			Total:         "12",
			Remaining:     "7",
		}}
		payload, _ := json.Marshal(expected)
		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.ExpectSet(cacheKey, payload, 5*time.Minute).SetVal("OK")

		resp, err := svc.MyBalances(ctx, employeeID.String())
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "7", resp[0].Remaining)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("invalidate removes the cached entry", func(t *testing.T) {
		db, _ := newGormMock(t)
		rdb, redisMock := redismock.NewClientMock()
		svc := NewService(db, &fakeBalanceRepo{}, &fakeLeaveTypeRepo{}, rdb)

		redisMock.ExpectDel(cacheKey).SetVal(1)
		svc.InvalidateCache(ctx, employeeID)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestBulkRebase(t *testing.T) {
	ctx := context.Background()

	lt := leavetype.LeaveType{
		ID:               uuid.New(),
		Name:             "Annual Leave",
		DefaultAllowance: decimal.NewFromInt(12),
		Cadence:          leavetype.CadenceAnnual,
	}

	plain := uuid.New()
	manual := uuid.New()
	locked := uuid.New()
	fresh := uuid.New()

	setup := func(t *testing.T) (*fakeBalanceRepo, Service, sqlmock.Sqlmock) {
		db, mock := newGormMock(t)
		repo := &fakeBalanceRepo{
			rows: []*LeaveBalance{
				{ID: uuid.New(), EmployeeID: plain, LeaveTypeID: lt.ID, Year: 2026,
					Total: decimal.NewFromInt(12), Remaining: decimal.NewFromInt(5)},
				{ID: uuid.New(), EmployeeID: manual, LeaveTypeID: lt.ID, Year: 2026,
					Total: decimal.NewFromInt(30), Remaining: decimal.NewFromInt(30), IsManualOverride: true},
				{ID: uuid.New(), EmployeeID: locked, LeaveTypeID: lt.ID, Year: 2026,
					Total: decimal.NewFromInt(12), Remaining: decimal.NewFromInt(12), IsLocked: true},
			},
			employees: []uuid.UUID{plain, manual, locked, fresh},
		}
		svc := NewService(db, repo, &fakeLeaveTypeRepo{types: []leavetype.LeaveType{lt}}, nil)
		mock.ExpectBegin()
		mock.ExpectCommit()
		return repo, svc, mock
	}

	t.Run("protecting manual overrides skips them", func(t *testing.T) {
		repo, svc, _ := setup(t)

		resp, err := svc.BulkRebase(ctx, BulkRebaseRequest{
			LeaveTypeID:          lt.ID.String(),
			Year:                 2026,
			NewTotal:             "15",
			ProtectManualChanges: true,
		})

		assert.NoError(t, err)
		// plain updated + fresh row created; manual and locked untouched.
		assert.Equal(t, 2, resp.UpdatedCount)
		assert.Len(t, repo.updated, 1)
		assert.Equal(t, plain, repo.updated[0].EmployeeID)
		// remaining shifts by the delta, consumption preserved.
		assert.True(t, repo.updated[0].Remaining.Equal(decimal.NewFromInt(8)))
		assert.True(t, repo.updated[0].Total.Equal(decimal.NewFromInt(15)))
		assert.False(t, repo.updated[0].IsManualOverride)

		if assert.Len(t, repo.created, 1) {
			assert.Equal(t, fresh, repo.created[0].EmployeeID)
			assert.True(t, repo.created[0].Remaining.Equal(decimal.NewFromInt(15)))
		}
	})

	t.Run("unprotected rebase overrides manual rows but never locked ones", func(t *testing.T) {
		repo, svc, _ := setup(t)

		resp, err := svc.BulkRebase(ctx, BulkRebaseRequest{
			LeaveTypeID:          lt.ID.String(),
			Year:                 2026,
			NewTotal:             "15",
			ProtectManualChanges: false,
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, resp.UpdatedCount)
		assert.Len(t, repo.updated, 2)
		for _, b := range repo.updated {
			assert.NotEqual(t, locked, b.EmployeeID)
			assert.False(t, b.IsManualOverride)
		}
	})
}
