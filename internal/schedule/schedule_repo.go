package schedule

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, s *WorkSchedule) error
	FindAll(ctx context.Context) ([]WorkSchedule, error)
	FindByID(ctx context.Context, id string) (*WorkSchedule, error)
	FindDefault(ctx context.Context) (*WorkSchedule, error)
	Update(ctx context.Context, s *WorkSchedule) error
	Delete(ctx context.Context, id string) error
	ClearDefault(ctx context.Context) error
	CountAssignedEmployees(ctx context.Context, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, s *WorkSchedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]WorkSchedule, error) {
	var schedules []WorkSchedule
	err := r.db.WithContext(ctx).
		Order("is_default DESC, name ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*WorkSchedule, error) {
	var s WorkSchedule
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindDefault(ctx context.Context) (*WorkSchedule, error) {
	var s WorkSchedule
	err := r.db.WithContext(ctx).First(&s, "is_default = ?", true).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *WorkSchedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&WorkSchedule{}, "id = ?", id).Error
}

func (r *repository) ClearDefault(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&WorkSchedule{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

func (r *repository) CountAssignedEmployees(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("work_schedule_id = ?", id).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
