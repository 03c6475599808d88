package dto

import (
	"time"

	"github.com/spec-kit/workforce-service/internal/domain"
)

// CreateEntryRequest payload. Times are clock times in HH:MM.
type CreateEntryRequest struct {
	StaffID         int64                    `json:"staff_id"`
	ShiftDate       string                   `json:"shift_date"`
	CheckInTime     *string                  `json:"check_in_time"`
	CheckOutTime    *string                  `json:"check_out_time"`
	Status          *domain.AttendanceStatus `json:"status"`
	AssignedTasks   []string                 `json:"assigned_tasks"`
	WorkLocation    *string                  `json:"work_location"`
	WorkAreaGPS     *string                  `json:"work_area_gps"`
	Notes           *string                  `json:"notes"`
	SupervisorNotes *string                  `json:"supervisor_notes"`
}

// UpdateEntryRequest payload. Absent fields are left untouched.
type UpdateEntryRequest struct {
	CheckInTime     *string                  `json:"check_in_time"`
	CheckOutTime    *string                  `json:"check_out_time"`
	Status          *domain.AttendanceStatus `json:"status"`
	AssignedTasks   []string                 `json:"assigned_tasks"`
	CompletedTasks  []string                 `json:"completed_tasks"`
	WorkLocation    *string                  `json:"work_location"`
	WorkAreaGPS     *string                  `json:"work_area_gps"`
	Notes           *string                  `json:"notes"`
	SupervisorNotes *string                  `json:"supervisor_notes"`
}

// CheckInRequest payload.
type CheckInRequest struct {
	Location *string `json:"location"`
	GPS      *string `json:"gps"`
}

// CheckOutRequest payload.
type CheckOutRequest struct {
	Location       *string  `json:"location"`
	GPS            *string  `json:"gps"`
	CompletedTasks []string `json:"completed_tasks"`
}

// EntryResponse is the full shift entry view.
type EntryResponse struct {
	ID               int64                   `json:"id"`
	StaffID          int64                   `json:"staff_id"`
	ShiftDate        string                  `json:"shift_date"`
	CheckInTime      *string                 `json:"check_in_time"`
	CheckOutTime     *string                 `json:"check_out_time"`
	CheckInLocation  *string                 `json:"check_in_location"`
	CheckOutLocation *string                 `json:"check_out_location"`
	Status           domain.AttendanceStatus `json:"status"`
	AssignedTasks    []string                `json:"assigned_tasks"`
	CompletedTasks   []string                `json:"completed_tasks"`
	WorkLocation     *string                 `json:"work_location"`
	Notes            *string                 `json:"notes"`
	SupervisorNotes  *string                 `json:"supervisor_notes"`
	HoursWorked      float64                 `json:"hours_worked"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// NewEntryResponse maps a domain entry. Clock times are rendered HH:MM.
func NewEntryResponse(e *domain.WorkforceEntry) EntryResponse {
	resp := EntryResponse{
		ID:               e.ID,
		StaffID:          e.StaffID,
		ShiftDate:        e.ShiftDate.Format("2006-01-02"),
		CheckInLocation:  e.CheckInLocation,
		CheckOutLocation: e.CheckOutLocation,
		Status:           e.Status,
		AssignedTasks:    e.AssignedTasks,
		CompletedTasks:   e.CompletedTasks,
		WorkLocation:     e.WorkLocation,
		Notes:            e.Notes,
		SupervisorNotes:  e.SupervisorNotes,
		HoursWorked:      e.HoursWorked(),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.CheckInTime != nil {
		checkIn := e.CheckInTime.Format("15:04")
		resp.CheckInTime = &checkIn
	}
	if e.CheckOutTime != nil {
		checkOut := e.CheckOutTime.Format("15:04")
		resp.CheckOutTime = &checkOut
	}
	return resp
}
