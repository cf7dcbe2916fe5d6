package schedule

import (
	"time"

	"github.com/google/uuid"
)

type WorkSchedule struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(100);not null"`

	IsMonday    bool `gorm:"not null;default:true"`
	IsTuesday   bool `gorm:"not null;default:true"`
	IsWednesday bool `gorm:"not null;default:true"`
	IsThursday  bool `gorm:"not null;default:true"`
	IsFriday    bool `gorm:"not null;default:true"`
	IsSaturday  bool `gorm:"not null;default:false"`
	IsSunday    bool `gorm:"not null;default:false"`

	StartTime string `gorm:"type:varchar(5);not null;default:'09:00'"`
	EndTime   string `gorm:"type:varchar(5);not null;default:'17:00'"`

	// At most one row system-wide may have is_default = true; the service
	// unsets the previous default in the same transaction.
	IsDefault bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkingWeekdays returns the weekday mask indexed by time.Weekday
// (Sunday = 0).
func (s *WorkSchedule) WorkingWeekdays() [7]bool {
	return [7]bool{
		s.IsSunday,
		s.IsMonday,
		s.IsTuesday,
		s.IsWednesday,
		s.IsThursday,
		s.IsFriday,
		s.IsSaturday,
	}
}
