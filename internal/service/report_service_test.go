package service_test

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/repository"
	"github.com/spec-kit/workforce-service/internal/service"
)

func newReportFixture(now time.Time) (*service.ReportService, *fakeComplaintRepo, *fakeEntryRepo, *fakeStaffRepo) {
	complaints := newFakeComplaintRepo()
	entries := newFakeEntryRepo()
	staff := newFakeStaffRepo()
	svc := service.NewReportService(service.ReportDependencies{
		ComplaintRepo: complaints,
		EntryRepo:     entries,
		StaffRepo:     staff,
		Clock:         fixedClock(now),
	})
	return svc, complaints, entries, staff
}

func resolvedComplaint(code string, createdAt, resolvedAt time.Time) *domain.Complaint {
	return &domain.Complaint{
		Code:       code,
		Status:     domain.ComplaintStatusResolved,
		Priority:   domain.ComplaintPriorityMedium,
		CreatedAt:  createdAt,
		ResolvedAt: &resolvedAt,
	}
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	t.Run("zero baseline gives flat trend", func(t *testing.T) {
		svc, complaints, _, _ := newReportFixture(now)
		// resolutions only in the current week
		require.NoError(t, complaints.Create(t.Context(),
			resolvedComplaint("2025-0001", now.Add(-3*24*time.Hour), now.Add(-2*24*time.Hour))))

		dashboard, err := svc.BuildDashboard(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 1, dashboard.ResolvedLast7Days)
		assert.Zero(t, dashboard.ResolutionTrendPct)
	})

	t.Run("trend compares the two trailing weeks", func(t *testing.T) {
		svc, complaints, _, _ := newReportFixture(now)
		// previous week: 2 resolutions, current week: 3
		for i := 0; i < 2; i++ {
			require.NoError(t, complaints.Create(t.Context(),
				resolvedComplaint("prev", now.Add(-13*24*time.Hour), now.Add(-10*24*time.Hour))))
		}
		for i := 0; i < 3; i++ {
			require.NoError(t, complaints.Create(t.Context(),
				resolvedComplaint("cur", now.Add(-5*24*time.Hour), now.Add(-2*24*time.Hour))))
		}

		dashboard, err := svc.BuildDashboard(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 3, dashboard.ResolvedLast7Days)
		assert.InDelta(t, 50.0, dashboard.ResolutionTrendPct, 0.001)
	})

	t.Run("counts high priority unresolved", func(t *testing.T) {
		svc, complaints, _, _ := newReportFixture(now)
		require.NoError(t, complaints.Create(t.Context(), &domain.Complaint{
			Code: "2025-0001", Status: domain.ComplaintStatusOpen, Priority: domain.ComplaintPriorityCritical, CreatedAt: now,
		}))
		require.NoError(t, complaints.Create(t.Context(), &domain.Complaint{
			Code: "2025-0002", Status: domain.ComplaintStatusOpen, Priority: domain.ComplaintPriorityLow, CreatedAt: now,
		}))

		dashboard, err := svc.BuildDashboard(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 1, dashboard.HighPriorityUnresolved)
		assert.Equal(t, 2, dashboard.TotalComplaints)
	})

	t.Run("staffing figures for today", func(t *testing.T) {
		svc, complaints, entries, staff := newReportFixture(now)
		for i := 0; i < 4; i++ {
			staff.add(&domain.StaffMember{Name: "Member", Role: domain.StaffRoleStaff, Active: true})
		}
		today := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
		require.NoError(t, entries.Create(t.Context(), &domain.WorkforceEntry{
			StaffID: 1, ShiftDate: today, Status: domain.AttendanceStatusPresent,
		}))
		require.NoError(t, entries.Create(t.Context(), &domain.WorkforceEntry{
			StaffID: 2, ShiftDate: today, Status: domain.AttendanceStatusLate,
		}))
		require.NoError(t, entries.Create(t.Context(), &domain.WorkforceEntry{
			StaffID: 3, ShiftDate: today, Status: domain.AttendanceStatusAbsent,
		}))
		require.NoError(t, complaints.Create(t.Context(),
			resolvedComplaint("2025-0001", now.Add(-48*time.Hour), now.Add(-time.Hour))))

		dashboard, err := svc.BuildDashboard(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 1, dashboard.ResolvedToday)
		assert.Equal(t, 4, dashboard.TotalStaff)
		assert.Equal(t, 2, dashboard.PresentToday)
		assert.InDelta(t, 50.0, dashboard.AttendanceRateToday, 0.001)
	})
}

func TestBuildPerformance(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	svc, complaints, _, _ := newReportFixture(now)
	complaints.perfRows = []repository.StaffPerformanceRow{
		{StaffID: 1, Name: "Joy", StaffNumber: "EMP-001", Department: "Field", Handled: 8, Resolved: 6},
		{StaffID: 2, Name: "Sam", StaffNumber: "EMP-002", Department: "Field", Handled: 0, Resolved: 0},
	}
	for _, rating := range []int{5, 2} {
		require.NoError(t, complaints.Create(t.Context(), &domain.Complaint{
			Code: "2025-0001", Status: domain.ComplaintStatusResolved,
			CreatedAt: now.Add(-24 * time.Hour), CustomerSatisfaction: &rating,
		}))
	}
	require.NoError(t, complaints.Create(t.Context(), &domain.Complaint{
		Code: "2025-0003", Status: domain.ComplaintStatusOpen,
		CreatedAt: now.Add(-24 * time.Hour), EscalationLevel: 1,
	}))

	performanceReport, err := svc.BuildPerformance(t.Context(), nil, nil)

	require.NoError(t, err)
	require.Len(t, performanceReport.Staff, 2)
	assert.InDelta(t, 75.0, performanceReport.Staff[0].ResolutionRate, 0.001)
	// no handled complaints scores zero rather than dividing by zero
	assert.Zero(t, performanceReport.Staff[1].ResolutionRate)

	assert.InDelta(t, 3.5, performanceReport.AvgSatisfaction, 0.001)
	assert.Equal(t, 2, performanceReport.FeedbackCount)
	require.Len(t, performanceReport.Escalations, 2)
	assert.Equal(t, repository.LevelCount{Level: 0, Count: 2}, performanceReport.Escalations[0])
	assert.Equal(t, repository.LevelCount{Level: 1, Count: 1}, performanceReport.Escalations[1])
}

func TestBuildWorkforceSummary(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	svc, _, entries, _ := newReportFixture(now)

	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	in1 := day.Add(8 * time.Hour)
	out1 := day.Add(16 * time.Hour)
	in2 := day.Add(9 * time.Hour)
	out2 := day.Add(15 * time.Hour)
	require.NoError(t, entries.Create(t.Context(), &domain.WorkforceEntry{
		StaffID: 1, ShiftDate: day, CheckInTime: &in1, CheckOutTime: &out1, Status: domain.AttendanceStatusPresent,
	}))
	require.NoError(t, entries.Create(t.Context(), &domain.WorkforceEntry{
		StaffID: 2, ShiftDate: day, CheckInTime: &in2, CheckOutTime: &out2, Status: domain.AttendanceStatusLate,
	}))
	require.NoError(t, entries.Create(t.Context(), &domain.WorkforceEntry{
		StaffID: 3, ShiftDate: day, Status: domain.AttendanceStatusAbsent,
	}))

	summary, err := svc.BuildWorkforceSummary(t.Context(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.CompletedShifts)
	assert.Equal(t, 1, summary.LateCount)
	// (8h + 6h) / 2
	assert.InDelta(t, 7.0, summary.AvgHoursWorked, 0.001)
}

func TestExportComplaints(t *testing.T) {
	now := time.Date(2025, 6, 16, 14, 30, 45, 0, time.UTC)

	seed := func(t *testing.T, complaints *fakeComplaintRepo) {
		t.Helper()
		satisfaction := 4
		require.NoError(t, complaints.Create(t.Context(), &domain.Complaint{
			Code:                 "2025-0001",
			CustomerName:         "Amina Yusuf",
			CustomerPhone:        "0700123456",
			IssueType:            "Billing",
			Status:               domain.ComplaintStatusResolved,
			Priority:             domain.ComplaintPriorityHigh,
			CreatedAt:            now.Add(-48 * time.Hour),
			CustomerSatisfaction: &satisfaction,
		}))
	}

	t.Run("json", func(t *testing.T) {
		svc, complaints, _, _ := newReportFixture(now)
		seed(t, complaints)

		export, err := svc.ExportComplaints(t.Context(), "json", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "complaints_export_20250616_143045.json", export.Filename)
		assert.Equal(t, "application/json", export.ContentType)

		var envelope struct {
			Records    []map[string]any `json:"records"`
			Count      int              `json:"count"`
			ExportedAt string           `json:"exported_at"`
		}
		require.NoError(t, json.Unmarshal(export.Data, &envelope))
		require.Len(t, envelope.Records, 1)
		assert.Equal(t, 1, envelope.Count)
		assert.Equal(t, "2025-06-16T14:30:45Z", envelope.ExportedAt)
		assert.Equal(t, "2025-0001", envelope.Records[0]["code"])
	})

	t.Run("csv", func(t *testing.T) {
		svc, complaints, _, _ := newReportFixture(now)
		seed(t, complaints)

		export, err := svc.ExportComplaints(t.Context(), "csv", nil, nil)

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(export.Filename, ".csv"))

		records, err := csv.NewReader(strings.NewReader(string(export.Data))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "code", records[0][0])
		assert.Equal(t, "2025-0001", records[1][0])
	})

	t.Run("xlsx", func(t *testing.T) {
		svc, complaints, _, _ := newReportFixture(now)
		seed(t, complaints)

		export, err := svc.ExportComplaints(t.Context(), "xlsx", nil, nil)

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(export.Filename, ".xlsx"))
		assert.NotEmpty(t, export.Data)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		svc, _, _, _ := newReportFixture(now)

		_, err := svc.ExportComplaints(t.Context(), "pdf", nil, nil)

		assert.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
	})
}

func TestExportWorkforce(t *testing.T) {
	now := time.Date(2025, 6, 16, 14, 30, 45, 0, time.UTC)
	svc, _, entries, _ := newReportFixture(now)

	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	in := day.Add(8 * time.Hour)
	out := day.Add(16*time.Hour + 30*time.Minute)
	require.NoError(t, entries.Create(t.Context(), &domain.WorkforceEntry{
		StaffID: 1, ShiftDate: day, CheckInTime: &in, CheckOutTime: &out, Status: domain.AttendanceStatusPresent,
	}))

	export, err := svc.ExportWorkforce(t.Context(), "csv", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "workforce_export_20250616_143045.csv", export.Filename)

	records, err := csv.NewReader(strings.NewReader(string(export.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"1", "2025-06-10", "08:00", "16:30", "Present", "8.50"}, records[1])
}
