package employee

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context, activeOnly bool) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	SetActive(ctx context.Context, id string, active bool) error

	// GetManagerID returns the manager of the given employee, nil when the
	// employee has none. Used by the cycle walk and the bypass resolver.
	GetManagerID(ctx context.Context, id string) (*uuid.UUID, error)

	// FindByManager returns the manager's direct reports.
	FindByManager(ctx context.Context, managerID string) ([]Employee, error)
	ScheduleExists(ctx context.Context, scheduleID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context, activeOnly bool) ([]Employee, error) {
	var employees []Employee
	q := r.db.WithContext(ctx).Order("first_name ASC, last_name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *repository) GetManagerID(ctx context.Context, id string) (*uuid.UUID, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Select("manager_id").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return e.ManagerID, nil
}

func (r *repository) FindByManager(ctx context.Context, managerID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("first_name ASC, last_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) ScheduleExists(ctx context.Context, scheduleID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("work_schedules").
		Where("id = ?", scheduleID).
		Count(&count).Error
	return count > 0, err
}
