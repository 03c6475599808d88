package dto

import (
	"time"

	"github.com/spec-kit/workforce-service/internal/repository"
	"github.com/spec-kit/workforce-service/internal/service"
)

// GroupCount is a label/count pair in distributions.
type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DateCount is a per-day count.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardResponse is the landing-page snapshot.
type DashboardResponse struct {
	TotalComplaints        int                 `json:"total_complaints"`
	ComplaintsByStatus     map[string]int      `json:"complaints_by_status"`
	HighPriorityUnresolved int                 `json:"high_priority_unresolved"`
	ResolvedToday          int                 `json:"resolved_today"`
	ResolvedLast7Days      int                 `json:"resolved_last_7_days"`
	ResolutionTrendPct     float64             `json:"resolution_trend_pct"`
	TotalStaff             int                 `json:"total_staff"`
	PresentToday           int                 `json:"present_today"`
	AttendanceRateToday    float64             `json:"attendance_rate_today"`
	AttendanceToday        map[string]int      `json:"attendance_today"`
	RecentComplaints       []ComplaintResponse `json:"recent_complaints"`
}

// NewDashboardResponse maps the service dashboard.
func NewDashboardResponse(d *service.Dashboard) DashboardResponse {
	byStatus := make(map[string]int, len(d.ComplaintsByStatus))
	for status, count := range d.ComplaintsByStatus {
		byStatus[string(status)] = count
	}
	attendance := make(map[string]int, len(d.AttendanceToday))
	for status, count := range d.AttendanceToday {
		attendance[string(status)] = count
	}
	recent := make([]ComplaintResponse, 0, len(d.RecentComplaints))
	for i := range d.RecentComplaints {
		recent = append(recent, NewComplaintResponse(&d.RecentComplaints[i]))
	}
	return DashboardResponse{
		TotalComplaints:        d.TotalComplaints,
		ComplaintsByStatus:     byStatus,
		HighPriorityUnresolved: d.HighPriorityUnresolved,
		ResolvedToday:          d.ResolvedToday,
		ResolvedLast7Days:      d.ResolvedLast7Days,
		ResolutionTrendPct:     d.ResolutionTrendPct,
		TotalStaff:             d.TotalStaff,
		PresentToday:           d.PresentToday,
		AttendanceRateToday:    d.AttendanceRateToday,
		AttendanceToday:        attendance,
		RecentComplaints:       recent,
	}
}

// LevelCount is an escalation level/count pair.
type LevelCount struct {
	Level int `json:"level"`
	Count int `json:"count"`
}

// ComplaintSummaryResponse aggregates complaint activity over a window.
type ComplaintSummaryResponse struct {
	From               time.Time    `json:"from"`
	To                 time.Time    `json:"to"`
	ByStatus           []GroupCount `json:"by_status"`
	ByPriority         []GroupCount `json:"by_priority"`
	ByIssueType        []GroupCount `json:"by_issue_type"`
	Daily              []DateCount  `json:"daily"`
	AvgResolutionHours float64      `json:"avg_resolution_hours"`
	AvgSatisfaction    float64      `json:"avg_satisfaction"`
	FeedbackCount      int          `json:"feedback_count"`
	Escalations        []LevelCount `json:"escalations"`
}

// NewComplaintSummaryResponse maps the service summary.
func NewComplaintSummaryResponse(s *service.ComplaintSummary) ComplaintSummaryResponse {
	escalations := make([]LevelCount, 0, len(s.Escalations))
	for _, lc := range s.Escalations {
		escalations = append(escalations, LevelCount{Level: lc.Level, Count: lc.Count})
	}
	return ComplaintSummaryResponse{
		From:               s.From,
		To:                 s.To,
		ByStatus:           groupCounts(s.ByStatus),
		ByPriority:         groupCounts(s.ByPriority),
		ByIssueType:        groupCounts(s.ByIssueType),
		Daily:              dateCounts(s.Daily),
		AvgResolutionHours: s.AvgResolutionHours,
		AvgSatisfaction:    s.AvgSatisfaction,
		FeedbackCount:      s.FeedbackCount,
		Escalations:        escalations,
	}
}

// DailyAttendanceResponse is one day of attendance counts.
type DailyAttendanceResponse struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
}

// DepartmentStatsResponse is attendance per department.
type DepartmentStatsResponse struct {
	Department     string  `json:"department"`
	TotalEntries   int     `json:"total_entries"`
	Present        int     `json:"present"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// WorkforceSummaryResponse aggregates attendance over a window.
type WorkforceSummaryResponse struct {
	From            time.Time                 `json:"from"`
	To              time.Time                 `json:"to"`
	ByStatus        []GroupCount              `json:"by_status"`
	Daily           []DailyAttendanceResponse `json:"daily"`
	Departments     []DepartmentStatsResponse `json:"departments"`
	LateCount       int                       `json:"late_count"`
	CompletedShifts int                       `json:"completed_shifts"`
	AvgHoursWorked  float64                   `json:"avg_hours_worked"`
}

// NewWorkforceSummaryResponse maps the service summary.
func NewWorkforceSummaryResponse(s *service.WorkforceSummary) WorkforceSummaryResponse {
	daily := make([]DailyAttendanceResponse, 0, len(s.Daily))
	for _, row := range s.Daily {
		daily = append(daily, DailyAttendanceResponse{
			Date:    row.Date.Format("2006-01-02"),
			Total:   row.Total,
			Present: row.Present,
		})
	}
	return WorkforceSummaryResponse{
		From:            s.From,
		To:              s.To,
		ByStatus:        groupCounts(s.ByStatus),
		Daily:           daily,
		Departments:     departmentStats(s.Departments),
		LateCount:       s.LateCount,
		CompletedShifts: s.CompletedShifts,
		AvgHoursWorked:  s.AvgHoursWorked,
	}
}

// PerformanceResponse is one staff member's complaint handling record.
type PerformanceResponse struct {
	StaffID        int64   `json:"staff_id"`
	Name           string  `json:"name"`
	StaffNumber    string  `json:"staff_number"`
	Department     string  `json:"department"`
	Handled        int     `json:"handled"`
	Resolved       int     `json:"resolved"`
	ResolutionRate float64 `json:"resolution_rate"`
}

// PerformanceReportResponse is the full performance report: per-staff
// rows plus window-wide satisfaction and escalation figures.
type PerformanceReportResponse struct {
	From            time.Time             `json:"from"`
	To              time.Time             `json:"to"`
	Staff           []PerformanceResponse `json:"staff"`
	AvgSatisfaction float64               `json:"avg_satisfaction"`
	FeedbackCount   int                   `json:"feedback_count"`
	Escalations     []LevelCount          `json:"escalations"`
}

// NewPerformanceReportResponse maps the service performance report.
func NewPerformanceReportResponse(r *service.PerformanceReport) PerformanceReportResponse {
	staff := make([]PerformanceResponse, 0, len(r.Staff))
	for _, row := range r.Staff {
		staff = append(staff, PerformanceResponse{
			StaffID:        row.StaffID,
			Name:           row.Name,
			StaffNumber:    row.StaffNumber,
			Department:     row.Department,
			Handled:        row.Handled,
			Resolved:       row.Resolved,
			ResolutionRate: row.ResolutionRate,
		})
	}
	escalations := make([]LevelCount, 0, len(r.Escalations))
	for _, lc := range r.Escalations {
		escalations = append(escalations, LevelCount{Level: lc.Level, Count: lc.Count})
	}
	return PerformanceReportResponse{
		From:            r.From,
		To:              r.To,
		Staff:           staff,
		AvgSatisfaction: r.AvgSatisfaction,
		FeedbackCount:   r.FeedbackCount,
		Escalations:     escalations,
	}
}

// DailyStatsResponse summarizes attendance for one day.
type DailyStatsResponse struct {
	Date           string         `json:"date"`
	TotalEntries   int            `json:"total_entries"`
	ByStatus       map[string]int `json:"by_status"`
	TotalStaff     int            `json:"total_staff"`
	AttendanceRate float64        `json:"attendance_rate"`
	AvgHoursWorked float64        `json:"avg_hours_worked"`
}

// NewDailyStatsResponse maps the service stats.
func NewDailyStatsResponse(s *service.DailyStats) DailyStatsResponse {
	byStatus := make(map[string]int, len(s.ByStatus))
	for status, count := range s.ByStatus {
		byStatus[string(status)] = count
	}
	return DailyStatsResponse{
		Date:           s.Date.Format("2006-01-02"),
		TotalEntries:   s.TotalEntries,
		ByStatus:       byStatus,
		TotalStaff:     s.TotalStaff,
		AttendanceRate: s.AttendanceRate,
		AvgHoursWorked: s.AvgHoursWorked,
	}
}

// NewDepartmentStatsResponses maps per-department stats.
func NewDepartmentStatsResponses(rows []service.DepartmentStats) []DepartmentStatsResponse {
	return departmentStats(rows)
}

// ComplaintStatsResponse is the complaint workload snapshot.
type ComplaintStatsResponse struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"by_status"`
	HighPriorityOpen   int            `json:"high_priority_open"`
	Escalated          int            `json:"escalated"`
	TodayResolved      int            `json:"today_resolved"`
	AvgResolutionHours float64        `json:"avg_resolution_hours"`
}

// NewComplaintStatsResponse maps the service stats.
func NewComplaintStatsResponse(s *service.ComplaintStats) ComplaintStatsResponse {
	byStatus := make(map[string]int, len(s.ByStatus))
	for status, count := range s.ByStatus {
		byStatus[string(status)] = count
	}
	return ComplaintStatsResponse{
		Total:              s.Total,
		ByStatus:           byStatus,
		HighPriorityOpen:   s.HighPriorityOpen,
		Escalated:          s.Escalated,
		TodayResolved:      s.TodayResolved,
		AvgResolutionHours: s.AvgResolutionHours,
	}
}

func groupCounts(rows []repository.GroupCount) []GroupCount {
	result := make([]GroupCount, 0, len(rows))
	for _, gc := range rows {
		result = append(result, GroupCount{Label: gc.Label, Count: gc.Count})
	}
	return result
}

func dateCounts(rows []repository.DateCount) []DateCount {
	result := make([]DateCount, 0, len(rows))
	for _, dc := range rows {
		result = append(result, DateCount{Date: dc.Date.Format("2006-01-02"), Count: dc.Count})
	}
	return result
}

func departmentStats(rows []service.DepartmentStats) []DepartmentStatsResponse {
	result := make([]DepartmentStatsResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, DepartmentStatsResponse{
			Department:     row.Department,
			TotalEntries:   row.TotalEntries,
			Present:        row.Present,
			AttendanceRate: row.AttendanceRate,
		})
	}
	return result
}
