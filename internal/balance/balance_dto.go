package balance

type ManualSetRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	Year        int    `json:"year" binding:"required"`
	Month       *int   `json:"month"`
	Total       string `json:"total" binding:"required"`
}

type BulkRebaseRequest struct {
	LeaveTypeID          string `json:"leave_type_id" binding:"required,uuid"`
	Year                 int    `json:"year" binding:"required"`
	NewTotal             string `json:"new_total" binding:"required"`
	ProtectManualChanges bool   `json:"protect_manual_changes"`
}

type BulkRebaseResponse struct {
	UpdatedCount int `json:"updated_count"`
}

type BalanceResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	LeaveTypeID      string `json:"leave_type_id"`
	Year             int    `json:"year"`
	Month            *int   `json:"month"`
	Total            string `json:"total"`
	Remaining        string `json:"remaining"`
	IsManualOverride bool   `json:"is_manual_override"`
	IsLocked         bool   `json:"is_locked"`
}

type MyBalanceResponse struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	Unit          string `json:"unit"`
	Year          int    `json:"year"`
	Month         *int   `json:"month"`
	Total         string `json:"total"`
	Remaining     string `json:"remaining"`
}
