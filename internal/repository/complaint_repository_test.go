package repository_test

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/repository"
)

func TestComplaintRepositoryLatestCodeForYear(t *testing.T) {
	t.Parallel()

	t.Run("returns latest code", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewComplaintRepository(mock)
		mock.ExpectQuery(`SELECT code FROM complaints WHERE code LIKE \$1 ORDER BY code DESC LIMIT 1`).
			WithArgs("2025-%").
			WillReturnRows(mock.NewRows([]string{"code"}).AddRow("2025-0042"))

		code, err := repo.LatestCodeForYear(t.Context(), 2025)

		require.NoError(t, err)
		assert.Equal(t, "2025-0042", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty when year has no complaints", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewComplaintRepository(mock)
		mock.ExpectQuery(`SELECT code FROM complaints WHERE code LIKE \$1 ORDER BY code DESC LIMIT 1`).
			WithArgs("2026-%").
			WillReturnError(pgx.ErrNoRows)

		code, err := repo.LatestCodeForYear(t.Context(), 2026)

		require.NoError(t, err)
		assert.Empty(t, code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestComplaintRepositoryGetByID(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewComplaintRepository(mock)
	now := time.Now()
	attachments := `["photo.jpg","receipt.pdf"]`

	rows := mock.NewRows([]string{"id", "code", "customer_name", "customer_phone", "customer_email",
		"issue_type", "description", "status", "priority", "location", "gps_coordinates",
		"created_by_id", "assigned_to_id", "escalation_level", "escalated_at",
		"created_at", "updated_at", "resolved_at", "attachments", "customer_satisfaction", "customer_feedback"}).
		AddRow(int64(5), "2025-0001", "Amina Yusuf", "0700123456", (*string)(nil),
			"Billing", "Charged twice", domain.ComplaintStatusOpen, domain.ComplaintPriorityHigh,
			(*string)(nil), (*string)(nil), int64(1), (*int64)(nil), 0, (*time.Time)(nil),
			now, now, (*time.Time)(nil), &attachments, (*int)(nil), (*string)(nil))

	mock.ExpectQuery(`SELECT .+ FROM complaints WHERE id=\$1`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	complaint, err := repo.GetByID(t.Context(), 5)

	require.NoError(t, err)
	assert.Equal(t, "2025-0001", complaint.Code)
	assert.Equal(t, []string{"photo.jpg", "receipt.pdf"}, complaint.Attachments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkforceRepositoryGetByStaffAndDate(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewWorkforceRepository(mock)
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(8 * time.Hour)
	tasks := `["meter inspection"]`

	rows := mock.NewRows([]string{"id", "staff_id", "shift_date", "check_in_time", "check_out_time",
		"check_in_location", "check_out_location", "check_in_gps", "check_out_gps",
		"status", "assigned_tasks", "completed_tasks", "work_location", "work_area_gps",
		"notes", "supervisor_notes", "created_at", "updated_at"}).
		AddRow(int64(9), int64(2), day, &checkIn, (*time.Time)(nil),
			(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
			domain.AttendanceStatusPresent, &tasks, (*string)(nil), (*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), day, day)

	mock.ExpectQuery(`SELECT .+ FROM workforce_entries w WHERE w.staff_id=\$1 AND w.shift_date=\$2::date`).
		WithArgs(int64(2), day).
		WillReturnRows(rows)

	entry, err := repo.GetByStaffAndDate(t.Context(), 2, day)

	require.NoError(t, err)
	assert.Equal(t, int64(9), entry.ID)
	assert.Equal(t, []string{"meter inspection"}, entry.AssignedTasks)
	assert.Empty(t, entry.CompletedTasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkforceRepositoryCountLateBetween(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewWorkforceRepository(mock)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM workforce_entries`).
		WithArgs(start, end).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountLateBetween(t.Context(), start, end)

	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
