package leaverequest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	Update(ctx context.Context, lr *LeaveRequest) error

	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error)
	FindByStatuses(ctx context.Context, statuses []Status) ([]LeaveRequest, error)

	// FindByStatusesForManager returns requests in the given states whose
	// employee reports to the manager.
	FindByStatusesForManager(ctx context.Context, managerID uuid.UUID, statuses []Status) ([]LeaveRequest, error)

	// FindByManager returns every request of the manager's direct reports,
	// regardless of state.
	FindByManager(ctx context.Context, managerID uuid.UUID) ([]LeaveRequest, error)

	// HasApprovedLeaveOn reports whether the employee has a finally
	// approved request covering the given day.
	HasApprovedLeaveOn(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).First(&lr, "id = ?", id).Error
	return &lr, err
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lr).Error
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByStatuses(ctx context.Context, statuses []Status) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByStatusesForManager(ctx context.Context, managerID uuid.UUID, statuses []Status) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.manager_id = ?", managerID).
		Where("leave_requests.status IN ?", statuses).
		Order("leave_requests.created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.manager_id = ?", managerID).
		Order("leave_requests.created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) HasApprovedLeaveOn(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApprovedByAdmin).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Count(&count).Error
	return count > 0, err
}
