package balance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByID(ctx context.Context, id string) (*LeaveBalance, error)
	FindForPeriod(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, month *int) (*LeaveBalance, error)
	FindByEmployeeYear(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveBalance, error)
	Update(ctx context.Context, b *LeaveBalance) error

	// DebitGuarded decrements remaining only when enough is left. Returns
	// false without error when the guard rejects the debit.
	DebitGuarded(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
	Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	FindForRebase(ctx context.Context, leaveTypeID uuid.UUID, year int) ([]LeaveBalance, error)
	ListActiveEmployeeIDs(ctx context.Context) ([]uuid.UUID, error)
}

type ListFilter struct {
	EmployeeID  *uuid.UUID
	LeaveTypeID *uuid.UUID
	Year        *int
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

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) FindForPeriod(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, month *int) (*LeaveBalance, error) {
	q := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year)
	if month != nil {
		q = q.Where("month = ?", *month)
	} else {
		q = q.Where("month IS NULL")
	}

	var b LeaveBalance
	err := q.First(&b).Error
	return &b, err
}

func (r *repository) FindByEmployeeYear(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type_id ASC, month ASC NULLS FIRST").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveBalance, error) {
	q := r.db.WithContext(ctx)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.LeaveTypeID != nil {
		q = q.Where("leave_type_id = ?", *filter.LeaveTypeID)
	}
	if filter.Year != nil {
		q = q.Where("year = ?", *filter.Year)
	}

	var balances []LeaveBalance
	err := q.Order("employee_id ASC, leave_type_id ASC").Find(&balances).Error
	return balances, err
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) DebitGuarded(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ? AND remaining >= ?", id, amount).
		Update("remaining", gorm.Expr("remaining - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", id).
		Update("remaining", gorm.Expr("remaining + ?", amount)).Error
}

func (r *repository) FindForRebase(ctx context.Context, leaveTypeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("leave_type_id = ? AND year = ?", leaveTypeID, year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) ListActiveEmployeeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}
