package leaverequest

import (
	"time"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`

	Status Status `gorm:"type:varchar(32);not null;index"`

	// SkipReason records why manager approval was bypassed at submission.
	SkipReason *string `gorm:"type:varchar(100)"`

	// StatusBeforeCancellation is snapshotted when the employee requests
	// cancellation, and restored verbatim when the cancellation is rejected.
	StatusBeforeCancellation *Status `gorm:"type:varchar(32)"`
	CancellationReason       *string `gorm:"type:text"`

	DenialReason *string `gorm:"type:text"`

	ApprovedByManagerID *uuid.UUID `gorm:"type:uuid"`
	ApprovedByManagerAt *time.Time
	ApprovedByAdminID   *uuid.UUID `gorm:"type:uuid"`
	ApprovedByAdminAt   *time.Time
	DeniedByID          *uuid.UUID `gorm:"type:uuid"`
	DeniedAt            *time.Time
	CancelledByID       *uuid.UUID `gorm:"type:uuid"`
	CancelledAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveRequestAudit is append-only. Rows are written in the same
// transaction as the status change they document and never touched again.
type LeaveRequestAudit struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	ChangedByID    uuid.UUID `gorm:"type:uuid;not null"`
	PreviousStatus Status    `gorm:"type:varchar(32);not null"`
	NewStatus      Status    `gorm:"type:varchar(32);not null"`
	Reason         string    `gorm:"type:text;not null"`
	CreatedAt      time.Time
}
