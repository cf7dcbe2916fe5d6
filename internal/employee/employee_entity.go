package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Position  string    `gorm:"type:varchar(100)"`
	StartDate *time.Time

	// Self-referential. NULL means top of the reporting chain.
	ManagerID      *uuid.UUID `gorm:"type:uuid;index"`
	WorkScheduleID *uuid.UUID `gorm:"type:uuid;index"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
