package schedule

type CreateScheduleRequest struct {
	Name        string `json:"name" binding:"required"`
	IsMonday    bool   `json:"is_monday"`
	IsTuesday   bool   `json:"is_tuesday"`
	IsWednesday bool   `json:"is_wednesday"`
	IsThursday  bool   `json:"is_thursday"`
	IsFriday    bool   `json:"is_friday"`
	IsSaturday  bool   `json:"is_saturday"`
	IsSunday    bool   `json:"is_sunday"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsDefault   bool   `json:"is_default"`
}

type UpdateScheduleRequest struct {
	Name        string `json:"name" binding:"required"`
	IsMonday    bool   `json:"is_monday"`
	IsTuesday   bool   `json:"is_tuesday"`
	IsWednesday bool   `json:"is_wednesday"`
	IsThursday  bool   `json:"is_thursday"`
	IsFriday    bool   `json:"is_friday"`
	IsSaturday  bool   `json:"is_saturday"`
	IsSunday    bool   `json:"is_sunday"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsDefault   bool   `json:"is_default"`
}

type ScheduleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsMonday    bool   `json:"is_monday"`
	IsTuesday   bool   `json:"is_tuesday"`
	IsWednesday bool   `json:"is_wednesday"`
	IsThursday  bool   `json:"is_thursday"`
	IsFriday    bool   `json:"is_friday"`
	IsSaturday  bool   `json:"is_saturday"`
	IsSunday    bool   `json:"is_sunday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsDefault   bool   `json:"is_default"`
}
