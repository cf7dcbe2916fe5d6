package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, h *Holiday) error
	FindAll(ctx context.Context) ([]Holiday, error)
	FindByID(ctx context.Context, id string) (*Holiday, error)
	Update(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) error

	// FindApplicableOverlapping returns the non-recurring holidays whose
	// interval overlaps [start, end] and that apply to the employee:
	// NATIONAL/COMPANY/TEAM for everyone, EMPLOYEE only when matching.
	FindApplicableOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]Holiday, error)

	// FindWeeklyRecurring returns the employee's standing weekly days off.
	FindWeeklyRecurring(ctx context.Context, employeeID string) ([]Holiday, error)
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

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error
	return &h, err
}

func (r *repository) Update(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Holiday{}, "id = ?", id).Error
}

func (r *repository) FindApplicableOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Where("start_date <= ?", end).
		Where("end_date >= ?", start).
		Where("repeat_weekly = ?", false).
		Where("type IN (?, ?, ?) OR (type = ? AND employee_id = ?)",
			TypeNational, TypeCompany, TypeTeam, TypeEmployee, employeeID).
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindWeeklyRecurring(ctx context.Context, employeeID string) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Where("type = ?", TypeEmployee).
		Where("employee_id = ?", employeeID).
		Where("repeat_weekly = ?", true).
		Find(&holidays).Error
	return holidays, err
}
