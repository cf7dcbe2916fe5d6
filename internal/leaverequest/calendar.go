package leaverequest

import (
	"time"

	"leavedesk/internal/holiday"

	"github.com/google/uuid"
)

// WeekdayMask marks working weekdays, indexed by time.Weekday (Sunday = 0).
type WeekdayMask [7]bool

// HolidayInterval is an inclusive date range that removes days from the
// working-day count. EmployeeID narrows EMPLOYEE-type holidays to one person.
type HolidayInterval struct {
	Start      time.Time
	End        time.Time
	Type       string
	EmployeeID *uuid.UUID
}

// CountWorkingDays walks every calendar day in [start, end] inclusive and
// counts the ones that are working days for the employee: the weekday is
// marked working in the mask, the day sits in no applicable holiday
// interval, and the weekday is not a standing weekly day off. Dates are
// normalized to UTC midnight before comparison so interval membership is
// pure date math.
func CountWorkingDays(
	start, end time.Time,
	mask WeekdayMask,
	intervals []HolidayInterval,
	weeklyRecurring map[time.Weekday]bool,
	employeeID uuid.UUID,
) int {
	start = normalizeDay(start)
	end = normalizeDay(end)
	if end.Before(start) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !mask[d.Weekday()] {
			continue
		}
		if weeklyRecurring[d.Weekday()] {
			continue
		}
		if insideApplicableInterval(d, intervals, employeeID) {
			continue
		}
		count++
	}
	return count
}

func insideApplicableInterval(day time.Time, intervals []HolidayInterval, employeeID uuid.UUID) bool {
	for _, iv := range intervals {
		if iv.Type == holiday.TypeEmployee {
			if iv.EmployeeID == nil || *iv.EmployeeID != employeeID {
				continue
			}
		}
		if !day.Before(normalizeDay(iv.Start)) && !day.After(normalizeDay(iv.End)) {
			return true
		}
	}
	return false
}

func normalizeDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
