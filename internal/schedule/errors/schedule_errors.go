package scheduleerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"work schedule not found",
		http.StatusNotFound,
	)
	ErrInvalidScheduleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid work schedule id",
		http.StatusBadRequest,
	)
	ErrInvalidTimeOfDay = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time of day, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrScheduleInUse = apperror.New(
		apperror.CodeConflict,
		"work schedule is still assigned to employees",
		http.StatusConflict,
	)
	ErrCannotDeleteDefault = apperror.New(
		apperror.CodeConflict,
		"the default work schedule cannot be deleted",
		http.StatusConflict,
	)
	ErrNoDefaultSchedule = apperror.New(
		apperror.CodeConfigurationError,
		"no default work schedule found, please configure one",
		http.StatusInternalServerError,
	)
)
