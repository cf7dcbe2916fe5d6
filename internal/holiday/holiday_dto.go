package holiday

type CreateHolidayRequest struct {
	Name         string  `json:"name" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	Type         string  `json:"type" binding:"required,oneof=NATIONAL COMPANY TEAM EMPLOYEE"`
	EmployeeID   *string `json:"employee_id"`
	RepeatWeekly bool    `json:"repeat_weekly"`
	IsLocked     bool    `json:"is_locked"`
}

type UpdateHolidayRequest struct {
	Name         string  `json:"name" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	Type         string  `json:"type" binding:"required,oneof=NATIONAL COMPANY TEAM EMPLOYEE"`
	EmployeeID   *string `json:"employee_id"`
	RepeatWeekly bool    `json:"repeat_weekly"`
	IsLocked     bool    `json:"is_locked"`
}

type HolidayResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Type         string  `json:"type"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	RepeatWeekly bool    `json:"repeat_weekly"`
	IsLocked     bool    `json:"is_locked"`
}
