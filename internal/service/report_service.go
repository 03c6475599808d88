package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/report"
	"github.com/spec-kit/workforce-service/internal/repository"
	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

// defaultReportWindow is the trailing window used when no range is given.
const defaultReportWindow = 30 * 24 * time.Hour

// ReportService produces dashboards, summaries and exports.
type ReportService struct {
	complaints repository.ComplaintRepository
	entries    repository.WorkforceRepository
	staff      repository.StaffRepository
	clock      func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	EntryRepo     repository.WorkforceRepository
	StaffRepo     repository.StaffRepository
	Clock         func() time.Time
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ReportService{
		complaints: deps.ComplaintRepo,
		entries:    deps.EntryRepo,
		staff:      deps.StaffRepo,
		clock:      clock,
	}
}

// resolveWindow fills missing range bounds with a trailing default window.
func (s *ReportService) resolveWindow(start, end *time.Time) (time.Time, time.Time) {
	to := s.clock()
	if end != nil {
		to = *end
	}
	from := to.Add(-defaultReportWindow)
	if start != nil {
		from = *start
	}
	return from, to
}

// Dashboard is the landing-page snapshot.
type Dashboard struct {
	TotalComplaints        int
	ComplaintsByStatus     map[domain.ComplaintStatus]int
	HighPriorityUnresolved int
	ResolvedToday          int
	ResolvedLast7Days      int
	ResolutionTrendPct     float64
	TotalStaff             int
	PresentToday           int
	AttendanceRateToday    float64
	AttendanceToday        map[domain.AttendanceStatus]int
	RecentComplaints       []domain.Complaint
}

// BuildDashboard assembles today's operational overview. The resolution
// trend compares the last 7 days against the 7 before; a zero baseline
// reports a flat trend.
func (s *ReportService) BuildDashboard(ctx context.Context) (*Dashboard, error) {
	byStatus, err := s.complaints.StatusCounts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total := 0
	for _, count := range byStatus {
		total += count
	}

	highPriority, err := s.complaints.CountHighPriorityUnresolved(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.clock()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	current, err := s.complaints.CountResolvedBetween(ctx, weekAgo, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	previous, err := s.complaints.CountResolvedBetween(ctx, twoWeeksAgo, weekAgo)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	trend := 0.0
	if previous > 0 {
		trend = round1(float64(current-previous) / float64(previous) * 100)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	resolvedToday, err := s.complaints.CountResolvedBetween(ctx, today, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	attendance, err := s.entries.StatusCountsOnDate(ctx, today)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totalStaff, err := s.staff.CountActiveByRole(ctx, domain.StaffRoleStaff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	present := attendance[domain.AttendanceStatusPresent] + attendance[domain.AttendanceStatusLate]
	attendanceRate := 0.0
	if totalStaff > 0 {
		attendanceRate = round1(float64(present) / float64(totalStaff) * 100)
	}

	recent, err := s.complaints.ListWithFilter(ctx, repository.ComplaintFilter{Limit: 5})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &Dashboard{
		TotalComplaints:        total,
		ComplaintsByStatus:     byStatus,
		HighPriorityUnresolved: highPriority,
		ResolvedToday:          resolvedToday,
		ResolvedLast7Days:      current,
		ResolutionTrendPct:     trend,
		TotalStaff:             totalStaff,
		PresentToday:           present,
		AttendanceRateToday:    attendanceRate,
		AttendanceToday:        attendance,
		RecentComplaints:       recent,
	}, nil
}

// ComplaintSummary aggregates complaint activity over a window.
type ComplaintSummary struct {
	From               time.Time
	To                 time.Time
	ByStatus           []repository.GroupCount
	ByPriority         []repository.GroupCount
	ByIssueType        []repository.GroupCount
	Daily              []repository.DateCount
	AvgResolutionHours float64
	AvgSatisfaction    float64
	FeedbackCount      int
	Escalations        []repository.LevelCount
}

// BuildComplaintSummary aggregates complaint activity for the range.
func (s *ReportService) BuildComplaintSummary(ctx context.Context, start, end *time.Time) (*ComplaintSummary, error) {
	from, to := s.resolveWindow(start, end)

	byStatus, err := s.complaints.StatusDistribution(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.complaints.PriorityDistribution(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byIssueType, err := s.complaints.IssueTypeDistribution(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	daily, err := s.complaints.DailyCounts(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avgHours, err := s.complaints.AvgResolutionHours(ctx, &from, &to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avgSatisfaction, feedbackCount, err := s.complaints.SatisfactionSummary(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	escalations, err := s.complaints.EscalationHistogram(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &ComplaintSummary{
		From:               from,
		To:                 to,
		ByStatus:           byStatus,
		ByPriority:         byPriority,
		ByIssueType:        byIssueType,
		Daily:              daily,
		AvgResolutionHours: round2(avgHours),
		AvgSatisfaction:    round2(avgSatisfaction),
		FeedbackCount:      feedbackCount,
		Escalations:        escalations,
	}, nil
}

// WorkforceSummary aggregates attendance over a window.
type WorkforceSummary struct {
	From            time.Time
	To              time.Time
	ByStatus        []repository.GroupCount
	Daily           []repository.DailyAttendanceRow
	Departments     []DepartmentStats
	LateCount       int
	CompletedShifts int
	AvgHoursWorked  float64
}

// BuildWorkforceSummary aggregates attendance for the range. Average hours
// are derived from entries holding both timestamps.
func (s *ReportService) BuildWorkforceSummary(ctx context.Context, start, end *time.Time) (*WorkforceSummary, error) {
	from, to := s.resolveWindow(start, end)

	byStatus, err := s.entries.StatusDistribution(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	daily, err := s.entries.DailyAttendance(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	deptRows, err := s.entries.DepartmentAttendance(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	lateCount, err := s.entries.CountLateBetween(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	completed, err := s.entries.CompletedEntries(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	totalHours := 0.0
	for i := range completed {
		totalHours += completed[i].HoursWorked()
	}
	avgHours := 0.0
	if len(completed) > 0 {
		avgHours = round2(totalHours / float64(len(completed)))
	}

	departments := make([]DepartmentStats, 0, len(deptRows))
	for _, row := range deptRows {
		rate := 0.0
		if row.Total > 0 {
			rate = round1(float64(row.Present) / float64(row.Total) * 100)
		}
		departments = append(departments, DepartmentStats{
			Department:     row.Department,
			TotalEntries:   row.Total,
			Present:        row.Present,
			AttendanceRate: rate,
		})
	}

	return &WorkforceSummary{
		From:            from,
		To:              to,
		ByStatus:        byStatus,
		Daily:           daily,
		Departments:     departments,
		LateCount:       lateCount,
		CompletedShifts: len(completed),
		AvgHoursWorked:  avgHours,
	}, nil
}

// StaffPerformance is one staff member's complaint handling record.
type StaffPerformance struct {
	StaffID        int64
	Name           string
	StaffNumber    string
	Department     string
	Handled        int
	Resolved       int
	ResolutionRate float64
}

// PerformanceReport combines per-staff resolution rates with the window's
// satisfaction and escalation figures.
type PerformanceReport struct {
	From            time.Time
	To              time.Time
	Staff           []StaffPerformance
	AvgSatisfaction float64
	FeedbackCount   int
	Escalations     []repository.LevelCount
}

// BuildPerformance computes per-staff resolution rates for the range,
// alongside average customer satisfaction and the escalation breakdown.
// A member with no handled complaints scores zero.
func (s *ReportService) BuildPerformance(ctx context.Context, start, end *time.Time) (*PerformanceReport, error) {
	from, to := s.resolveWindow(start, end)

	rows, err := s.complaints.StaffPerformance(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	staff := make([]StaffPerformance, 0, len(rows))
	for _, row := range rows {
		rate := 0.0
		if row.Handled > 0 {
			rate = round1(float64(row.Resolved) / float64(row.Handled) * 100)
		}
		staff = append(staff, StaffPerformance{
			StaffID:        row.StaffID,
			Name:           row.Name,
			StaffNumber:    row.StaffNumber,
			Department:     row.Department,
			Handled:        row.Handled,
			Resolved:       row.Resolved,
			ResolutionRate: rate,
		})
	}

	avgSatisfaction, feedbackCount, err := s.complaints.SatisfactionSummary(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	escalations, err := s.complaints.EscalationHistogram(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &PerformanceReport{
		From:            from,
		To:              to,
		Staff:           staff,
		AvgSatisfaction: round2(avgSatisfaction),
		FeedbackCount:   feedbackCount,
		Escalations:     escalations,
	}, nil
}

// Export is a rendered download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

const exportStampLayout = "20060102_150405"

// ExportComplaints renders complaints in the range as json, csv or xlsx.
func (s *ReportService) ExportComplaints(ctx context.Context, format string, start, end *time.Time) (*Export, error) {
	complaints, err := s.complaints.ListBetween(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stamp := s.clock().Format(exportStampLayout)
	switch format {
	case "json":
		envelope := exportEnvelope[complaintExportRow]{
			Records:    complaintExportRows(complaints),
			Count:      len(complaints),
			ExportedAt: s.clock().Format(time.RFC3339),
		}
		data, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &Export{
			Filename:    fmt.Sprintf("complaints_export_%s.json", stamp),
			ContentType: "application/json",
			Data:        data,
		}, nil
	case "csv":
		data, err := complaintsCSV(complaints)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &Export{
			Filename:    fmt.Sprintf("complaints_export_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "xlsx":
		data, err := report.ComplaintsWorkbook(complaints)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &Export{
			Filename:    fmt.Sprintf("complaints_export_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, apperrors.NewValidationError("format must be json, csv or xlsx",
			map[string]any{"format": format})
	}
}

// ExportWorkforce renders shift entries in the range as json, csv or xlsx.
func (s *ReportService) ExportWorkforce(ctx context.Context, format string, start, end *time.Time) (*Export, error) {
	entries, err := s.entries.ListBetween(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stamp := s.clock().Format(exportStampLayout)
	switch format {
	case "json":
		envelope := exportEnvelope[workforceExportRow]{
			Records:    workforceExportRows(entries),
			Count:      len(entries),
			ExportedAt: s.clock().Format(time.RFC3339),
		}
		data, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &Export{
			Filename:    fmt.Sprintf("workforce_export_%s.json", stamp),
			ContentType: "application/json",
			Data:        data,
		}, nil
	case "csv":
		data, err := workforceCSV(entries)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &Export{
			Filename:    fmt.Sprintf("workforce_export_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "xlsx":
		data, err := report.WorkforceWorkbook(entries)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &Export{
			Filename:    fmt.Sprintf("workforce_export_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, apperrors.NewValidationError("format must be json, csv or xlsx",
			map[string]any{"format": format})
	}
}

type exportEnvelope[T any] struct {
	Records    []T    `json:"records"`
	Count      int    `json:"count"`
	ExportedAt string `json:"exported_at"`
}

type complaintExportRow struct {
	Code            string  `json:"code"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	IssueType       string  `json:"issue_type"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	EscalationLevel int     `json:"escalation_level"`
	CreatedAt       string  `json:"created_at"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
	Satisfaction    *int    `json:"customer_satisfaction,omitempty"`
}

func complaintExportRows(complaints []domain.Complaint) []complaintExportRow {
	rows := make([]complaintExportRow, 0, len(complaints))
	for _, c := range complaints {
		row := complaintExportRow{
			Code:            c.Code,
			CustomerName:    c.CustomerName,
			CustomerPhone:   c.CustomerPhone,
			IssueType:       c.IssueType,
			Priority:        string(c.Priority),
			Status:          string(c.Status),
			EscalationLevel: c.EscalationLevel,
			CreatedAt:       c.CreatedAt.Format(time.RFC3339),
			Satisfaction:    c.CustomerSatisfaction,
		}
		if c.ResolvedAt != nil {
			resolved := c.ResolvedAt.Format(time.RFC3339)
			row.ResolvedAt = &resolved
		}
		rows = append(rows, row)
	}
	return rows
}

func complaintsCSV(complaints []domain.Complaint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"code", "customer_name", "customer_phone", "issue_type", "priority",
		"status", "escalation_level", "created_at", "resolved_at", "customer_satisfaction"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, c := range complaints {
		resolvedAt := ""
		if c.ResolvedAt != nil {
			resolvedAt = c.ResolvedAt.Format(time.RFC3339)
		}
		satisfaction := ""
		if c.CustomerSatisfaction != nil {
			satisfaction = strconv.Itoa(*c.CustomerSatisfaction)
		}
		record := []string{
			c.Code, c.CustomerName, c.CustomerPhone, c.IssueType,
			string(c.Priority), string(c.Status), strconv.Itoa(c.EscalationLevel),
			c.CreatedAt.Format(time.RFC3339), resolvedAt, satisfaction,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type workforceExportRow struct {
	StaffID     int64   `json:"staff_id"`
	ShiftDate   string  `json:"shift_date"`
	CheckIn     *string `json:"check_in_time,omitempty"`
	CheckOut    *string `json:"check_out_time,omitempty"`
	Status      string  `json:"status"`
	HoursWorked float64 `json:"hours_worked"`
}

func workforceExportRows(entries []domain.WorkforceEntry) []workforceExportRow {
	rows := make([]workforceExportRow, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		row := workforceExportRow{
			StaffID:     e.StaffID,
			ShiftDate:   e.ShiftDate.Format(shiftDateLayout),
			Status:      string(e.Status),
			HoursWorked: round2(e.HoursWorked()),
		}
		if e.CheckInTime != nil {
			checkIn := e.CheckInTime.Format(clockLayout)
			row.CheckIn = &checkIn
		}
		if e.CheckOutTime != nil {
			checkOut := e.CheckOutTime.Format(clockLayout)
			row.CheckOut = &checkOut
		}
		rows = append(rows, row)
	}
	return rows
}

func workforceCSV(entries []domain.WorkforceEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"staff_id", "shift_date", "check_in_time", "check_out_time", "status", "hours_worked"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		checkIn, checkOut := "", ""
		if e.CheckInTime != nil {
			checkIn = e.CheckInTime.Format(clockLayout)
		}
		if e.CheckOutTime != nil {
			checkOut = e.CheckOutTime.Format(clockLayout)
		}
		record := []string{
			strconv.FormatInt(e.StaffID, 10),
			e.ShiftDate.Format(shiftDateLayout),
			checkIn, checkOut,
			string(e.Status),
			strconv.FormatFloat(round2(e.HoursWorked()), 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
