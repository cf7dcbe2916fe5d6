package events

import "time"

const LeaveStatusChangedTopic = "leave.status-changed"

// LeaveStatusChangedEvent dipublikasikan lewat outbox setiap kali status
// leave request berpindah.
type LeaveStatusChangedEvent struct {
	RequestID      string    `json:"request_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedByID    string    `json:"changed_by_id"`
	Reason         string    `json:"reason"`
	OccurredAt     time.Time `json:"occurred_at"`
}
