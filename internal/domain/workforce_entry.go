package domain

import "time"

// AttendanceStatus enumerates shift entry states.
type AttendanceStatus string

const (
	AttendanceStatusScheduled AttendanceStatus = "Scheduled"
	AttendanceStatusPresent   AttendanceStatus = "Present"
	AttendanceStatusLate      AttendanceStatus = "Late"
	AttendanceStatusAbsent    AttendanceStatus = "Absent"
	AttendanceStatusOnLeave   AttendanceStatus = "On Leave"
)

// Standard shift start. Check-ins strictly after this time of day are Late.
const (
	ShiftStartHour   = 8
	ShiftStartMinute = 0
)

// WorkforceEntry is one attendance record for a staff member on a calendar date.
// At most one entry exists per (staff, shift date) pair.
type WorkforceEntry struct {
	ID               int64
	StaffID          int64
	ShiftDate        time.Time // date component only
	CheckInTime      *time.Time
	CheckOutTime     *time.Time
	CheckInLocation  *string
	CheckOutLocation *string
	CheckInGPS       *string
	CheckOutGPS      *string
	Status           AttendanceStatus
	AssignedTasks    []string
	CompletedTasks   []string
	WorkLocation     *string
	WorkAreaGPS      *string
	Notes            *string
	SupervisorNotes  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ShiftStart returns the standard start time on the given day.
func ShiftStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), ShiftStartHour, ShiftStartMinute, 0, 0, day.Location())
}

// ClassifyCheckIn maps a check-in time to Present or Late. The 08:00:00
// boundary itself counts as on time.
func ClassifyCheckIn(checkIn time.Time) AttendanceStatus {
	if checkIn.After(ShiftStart(checkIn)) {
		return AttendanceStatusLate
	}
	return AttendanceStatusPresent
}

// HoursWorked derives the shift duration in hours. Overnight shifts, where
// the check-out clock time precedes check-in, get 24 hours added before
// subtracting. Returns 0 when either timestamp is missing.
func (e *WorkforceEntry) HoursWorked() float64 {
	if e.CheckInTime == nil || e.CheckOutTime == nil {
		return 0
	}
	duration := e.CheckOutTime.Sub(*e.CheckInTime)
	if duration < 0 {
		duration += 24 * time.Hour
	}
	return duration.Hours()
}
