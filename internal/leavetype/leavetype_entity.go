package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	UnitDays  = "DAYS"
	UnitHours = "HOURS"

	CadenceAnnual  = "ANNUAL"
	CadenceMonthly = "MONTHLY"
)

type LeaveType struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_type_name"`
	DefaultAllowance decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Unit             string          `gorm:"type:varchar(10);not null;default:'DAYS'"`
	Cadence          string          `gorm:"type:varchar(10);not null;default:'ANNUAL'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
