package leavetype

type CreateLeaveTypeRequest struct {
	Name             string `json:"name" binding:"required"`
	DefaultAllowance string `json:"default_allowance" binding:"required"`
	Unit             string `json:"unit" binding:"required,oneof=DAYS HOURS"`
	Cadence          string `json:"cadence" binding:"required,oneof=ANNUAL MONTHLY"`
}

type UpdateLeaveTypeRequest struct {
	Name             string `json:"name" binding:"required"`
	DefaultAllowance string `json:"default_allowance" binding:"required"`
	Unit             string `json:"unit" binding:"required,oneof=DAYS HOURS"`
	Cadence          string `json:"cadence" binding:"required,oneof=ANNUAL MONTHLY"`
}

type LeaveTypeResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DefaultAllowance string `json:"default_allowance"`
	Unit             string `json:"unit"`
	Cadence          string `json:"cadence"`
}
