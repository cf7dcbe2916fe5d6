package holidayerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrHolidayNotFound = apperror.New(
		apperror.CodeNotFound,
		"holiday not found",
		http.StatusNotFound,
	)
	ErrInvalidHolidayID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid holiday id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrInvalidHolidayType = apperror.New(
		apperror.CodeInvalidInput,
		"holiday type must be NATIONAL, COMPANY, TEAM or EMPLOYEE",
		http.StatusBadRequest,
	)
	ErrEmployeeIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee_id is required for EMPLOYEE-type holidays",
		http.StatusBadRequest,
	)
	ErrRepeatWeeklyEmployeeOnly = apperror.New(
		apperror.CodeInvalidInput,
		"repeat_weekly is only valid for EMPLOYEE-type holidays",
		http.StatusBadRequest,
	)
	ErrHolidayLocked = apperror.New(
		apperror.CodeConflict,
		"holiday is locked and cannot be modified",
		http.StatusConflict,
	)
)
