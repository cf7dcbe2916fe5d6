package leaverequest

import (
	"context"
	"errors"
	"testing"
	"time"

	"leavedesk/internal/employee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	employee.Repository
	employees  map[uuid.UUID]*employee.Employee
	managerErr error
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	e, ok := f.employees[eid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetManagerID(ctx context.Context, id string) (*uuid.UUID, error) {
	if f.managerErr != nil {
		return nil, f.managerErr
	}
	e, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.ManagerID, nil
}

type fakeRequestRepo struct {
	Repository
	CreateFn             func(ctx context.Context, lr *LeaveRequest) error
	FindByIDFn           func(ctx context.Context, id string) (*LeaveRequest, error)
	UpdateFn             func(ctx context.Context, lr *LeaveRequest) error
	HasApprovedLeaveOnFn func(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error)
}

func (f *fakeRequestRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRequestRepo) Create(ctx context.Context, lr *LeaveRequest) error {
	return f.CreateFn(ctx, lr)
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	return f.FindByIDFn(ctx, id)
}

func (f *fakeRequestRepo) Update(ctx context.Context, lr *LeaveRequest) error {
	return f.UpdateFn(ctx, lr)
}

func (f *fakeRequestRepo) HasApprovedLeaveOn(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error) {
	if f.HasApprovedLeaveOnFn == nil {
		return false, nil
	}
	return f.HasApprovedLeaveOnFn(ctx, employeeID, day)
}

func TestBypassResolver(t *testing.T) {
	ctx := context.Background()

	employeeID := uuid.New()
	managerID := uuid.New()

	t.Run("no manager assigned bypasses", func(t *testing.T) {
		employees := &fakeEmployeeRepo{employees: map[uuid.UUID]*employee.Employee{
			employeeID: {ID: employeeID},
		}}
		resolver := NewBypassResolver(employees, &fakeRequestRepo{})

		bypass, reason := resolver.Resolve(ctx, employeeID)
		assert.True(t, bypass)
		assert.Equal(t, SkipReasonNoManager, reason)
	})

	t.Run("manager on approved leave today bypasses", func(t *testing.T) {
		employees := &fakeEmployeeRepo{employees: map[uuid.UUID]*employee.Employee{
			employeeID: {ID: employeeID, ManagerID: &managerID},
		}}
		requests := &fakeRequestRepo{
			HasApprovedLeaveOnFn: func(ctx context.Context, eid uuid.UUID, day time.Time) (bool, error) {
				assert.Equal(t, managerID, eid)
				assert.Equal(t, 0, day.Hour())
				return true, nil
			},
		}
		resolver := NewBypassResolver(employees, requests)

		bypass, reason := resolver.Resolve(ctx, employeeID)
		assert.True(t, bypass)
		assert.Equal(t, SkipReasonManagerOnLeave, reason)
	})

	t.Run("manager present and available does not bypass", func(t *testing.T) {
		employees := &fakeEmployeeRepo{employees: map[uuid.UUID]*employee.Employee{
			employeeID: {ID: employeeID, ManagerID: &managerID},
		}}
		resolver := NewBypassResolver(employees, &fakeRequestRepo{})

		bypass, reason := resolver.Resolve(ctx, employeeID)
		assert.False(t, bypass)
		assert.Empty(t, reason)
	})

	t.Run("lookup failure defaults to no bypass", func(t *testing.T) {
		employees := &fakeEmployeeRepo{managerErr: errors.New("db down")}
		resolver := NewBypassResolver(employees, &fakeRequestRepo{})

		bypass, reason := resolver.Resolve(ctx, employeeID)
		assert.False(t, bypass)
		assert.Empty(t, reason)
	})

	t.Run("leave lookup failure defaults to no bypass", func(t *testing.T) {
		employees := &fakeEmployeeRepo{employees: map[uuid.UUID]*employee.Employee{
			employeeID: {ID: employeeID, ManagerID: &managerID},
		}}
		requests := &fakeRequestRepo{
			HasApprovedLeaveOnFn: func(ctx context.Context, eid uuid.UUID, day time.Time) (bool, error) {
				return false, errors.New("db down")
			},
		}
		resolver := NewBypassResolver(employees, requests)

		bypass, _ := resolver.Resolve(ctx, employeeID)
		assert.False(t, bypass)
	})
}
