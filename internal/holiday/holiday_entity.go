package holiday

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeNational = "NATIONAL"
	TypeCompany  = "COMPANY"
	TypeTeam     = "TEAM"
	TypeEmployee = "EMPLOYEE"
)

type Holiday struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(150);not null"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_holidays_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_holidays_dates"`

	Type string `gorm:"type:varchar(20);not null;default:'COMPANY'"`

	// EmployeeID is set only for EMPLOYEE-type holidays.
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`

	// RepeatWeekly marks an EMPLOYEE holiday as a standing weekly day off:
	// the weekday of StartDate applies every week instead of the one-off range.
	RepeatWeekly bool `gorm:"not null;default:false"`

	IsLocked bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidType(t string) bool {
	switch t {
	case TypeNational, TypeCompany, TypeTeam, TypeEmployee:
		return true
	}
	return false
}
