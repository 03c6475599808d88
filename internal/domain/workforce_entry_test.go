package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/workforce-service/internal/domain"
)

func entryAt(checkIn, checkOut *time.Time) *domain.WorkforceEntry {
	return &domain.WorkforceEntry{CheckInTime: checkIn, CheckOutTime: checkOut}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestClassifyCheckIn(t *testing.T) {
	t.Parallel()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("before shift start is present", func(t *testing.T) {
		t.Parallel()
		status := domain.ClassifyCheckIn(day.Add(7*time.Hour + 59*time.Minute))
		assert.Equal(t, domain.AttendanceStatusPresent, status)
	})

	t.Run("exactly at shift start is present", func(t *testing.T) {
		t.Parallel()
		status := domain.ClassifyCheckIn(day.Add(8 * time.Hour))
		assert.Equal(t, domain.AttendanceStatusPresent, status)
	})

	t.Run("one minute past shift start is late", func(t *testing.T) {
		t.Parallel()
		status := domain.ClassifyCheckIn(day.Add(8*time.Hour + 1*time.Minute))
		assert.Equal(t, domain.AttendanceStatusLate, status)
	})

	t.Run("one second past shift start is late", func(t *testing.T) {
		t.Parallel()
		status := domain.ClassifyCheckIn(day.Add(8*time.Hour + 1*time.Second))
		assert.Equal(t, domain.AttendanceStatusLate, status)
	})
}

func TestHoursWorked(t *testing.T) {
	t.Parallel()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("regular shift", func(t *testing.T) {
		t.Parallel()
		entry := entryAt(timePtr(day.Add(8*time.Hour)), timePtr(day.Add(16*time.Hour+30*time.Minute)))
		assert.InDelta(t, 8.5, entry.HoursWorked(), 0.001)
	})

	t.Run("overnight shift wraps past midnight", func(t *testing.T) {
		t.Parallel()
		entry := entryAt(timePtr(day.Add(22*time.Hour)), timePtr(day.Add(6*time.Hour)))
		assert.InDelta(t, 8.0, entry.HoursWorked(), 0.001)
	})

	t.Run("missing check out", func(t *testing.T) {
		t.Parallel()
		entry := entryAt(timePtr(day.Add(8*time.Hour)), nil)
		assert.Zero(t, entry.HoursWorked())
	})

	t.Run("missing both timestamps", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, entryAt(nil, nil).HoursWorked())
	})
}

func TestResolutionTime(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("resolved complaint", func(t *testing.T) {
		t.Parallel()
		resolved := created.Add(26 * time.Hour)
		c := &domain.Complaint{CreatedAt: created, ResolvedAt: &resolved}
		assert.Equal(t, 26*time.Hour, c.ResolutionTime())
	})

	t.Run("unresolved complaint", func(t *testing.T) {
		t.Parallel()
		c := &domain.Complaint{CreatedAt: created}
		assert.Zero(t, c.ResolutionTime())
	})
}
