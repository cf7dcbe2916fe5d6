package balance

import (
	"time"

	"leavedesk/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_period"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_period"`

	Year int `gorm:"not null;uniqueIndex:uq_balance_period"`
	// NULL for ANNUAL leave types, 1..12 for MONTHLY.
	Month *int `gorm:"uniqueIndex:uq_balance_period"`

	Total     decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Remaining decimal.Decimal `gorm:"type:numeric(6,2);not null"`

	IsManualOverride bool `gorm:"not null;default:false"`
	IsLocked         bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PeriodFor resolves the balance period a leave request dated d draws from.
// ANNUAL types are keyed by year only, MONTHLY types additionally by month.
// Debit and credit resolve through the same function so a cancellation
// always restores the balance row the original approval debited.
func PeriodFor(cadence string, d time.Time) (int, *int) {
	year := d.Year()
	if cadence == leavetype.CadenceMonthly {
		month := int(d.Month())
		return year, &month
	}
	return year, nil
}
