package leaverequest

type SubmitLeaveRequestRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type ResolveCancellationRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

type LeaveRequestResponse struct {
	ID                       string  `json:"id"`
	EmployeeID               string  `json:"employee_id"`
	LeaveTypeID              string  `json:"leave_type_id"`
	StartDate                string  `json:"start_date"`
	EndDate                  string  `json:"end_date"`
	Status                   string  `json:"status"`
	SkipReason               *string `json:"skip_reason"`
	StatusBeforeCancellation *string `json:"status_before_cancellation"`
	CancellationReason       *string `json:"cancellation_reason"`
	DenialReason             *string `json:"denial_reason"`
	CreatedAt                string  `json:"created_at"`
}

type AuditEntryResponse struct {
	ID             string `json:"id"`
	LeaveRequestID string `json:"leave_request_id"`
	ChangedByID    string `json:"changed_by_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Reason         string `json:"reason"`
	CreatedAt      string `json:"created_at"`
}
