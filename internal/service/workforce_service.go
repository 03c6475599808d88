package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/events"
	"github.com/spec-kit/workforce-service/internal/repository"
	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

const (
	shiftDateLayout = "2006-01-02"
	clockLayout     = "15:04"
)

// WorkforceService coordinates shift entries and attendance.
type WorkforceService struct {
	entries    repository.WorkforceRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	clock      func() time.Time
}

// WorkforceDependencies bundles collaborators for the workforce service.
type WorkforceDependencies struct {
	EntryRepo  repository.WorkforceRepository
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// NewWorkforceService constructs the service.
func NewWorkforceService(deps WorkforceDependencies) *WorkforceService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &WorkforceService{
		entries:    deps.EntryRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
		clock:      clock,
	}
}

// EntryCreateInput describes a manually created shift entry. Times are
// clock times in HH:MM, applied to the shift date.
type EntryCreateInput struct {
	StaffID         int64
	ShiftDate       string
	CheckIn         *string
	CheckOut        *string
	Status          *domain.AttendanceStatus
	AssignedTasks   []string
	WorkLocation    *string
	WorkAreaGPS     *string
	Notes           *string
	SupervisorNotes *string
}

// EntryPatch carries optional shift entry updates. Nil fields are untouched.
type EntryPatch struct {
	CheckIn         *string
	CheckOut        *string
	Status          *domain.AttendanceStatus
	AssignedTasks   []string
	CompletedTasks  []string
	WorkLocation    *string
	WorkAreaGPS     *string
	Notes           *string
	SupervisorNotes *string
}

// CheckInInput carries optional check-in metadata.
type CheckInInput struct {
	Location *string
	GPS      *string
}

// CheckOutInput carries optional check-out metadata.
type CheckOutInput struct {
	Location       *string
	GPS            *string
	CompletedTasks []string
}

// EntryPage is a page of entries with the matching total.
type EntryPage struct {
	Items []domain.WorkforceEntry
	Total int
}

var validAttendanceStatuses = map[domain.AttendanceStatus]struct{}{
	domain.AttendanceStatusScheduled: {},
	domain.AttendanceStatusPresent:   {},
	domain.AttendanceStatusLate:      {},
	domain.AttendanceStatusAbsent:    {},
	domain.AttendanceStatusOnLeave:   {},
}

func parseShiftDate(value string) (time.Time, error) {
	day, err := time.Parse(shiftDateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("shift_date must be in YYYY-MM-DD format",
			map[string]any{"shift_date": value})
	}
	return day, nil
}

// parseClockOn resolves an HH:MM string to a timestamp on the given day.
func parseClockOn(day time.Time, field, value string) (time.Time, error) {
	clock, err := time.Parse(clockLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field+" must be in HH:MM format",
			map[string]any{field: value})
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// CreateEntry registers a shift entry for a staff member. Only one entry
// may exist per staff member and date.
func (s *WorkforceService) CreateEntry(ctx context.Context, input EntryCreateInput) (*domain.WorkforceEntry, error) {
	if _, err := s.staff.GetByID(ctx, input.StaffID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"id": input.StaffID})
		}
		return nil, apperrors.MapError(err)
	}

	day, err := parseShiftDate(input.ShiftDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.entries.GetByStaffAndDate(ctx, input.StaffID, day); err == nil {
		return nil, apperrors.NewConflict("entry already exists for this staff member and date",
			map[string]any{"staff_id": input.StaffID, "shift_date": input.ShiftDate})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	entry := &domain.WorkforceEntry{
		StaffID:         input.StaffID,
		ShiftDate:       day,
		Status:          domain.AttendanceStatusScheduled,
		AssignedTasks:   input.AssignedTasks,
		WorkLocation:    input.WorkLocation,
		WorkAreaGPS:     input.WorkAreaGPS,
		Notes:           input.Notes,
		SupervisorNotes: input.SupervisorNotes,
	}

	if input.CheckIn != nil {
		checkIn, err := parseClockOn(day, "check_in_time", *input.CheckIn)
		if err != nil {
			return nil, err
		}
		entry.CheckInTime = &checkIn
		entry.Status = domain.ClassifyCheckIn(checkIn)
	}
	if input.CheckOut != nil {
		if entry.CheckInTime == nil {
			return nil, apperrors.NewValidationError("check_out_time requires check_in_time", nil)
		}
		checkOut, err := parseClockOn(day, "check_out_time", *input.CheckOut)
		if err != nil {
			return nil, err
		}
		entry.CheckOutTime = &checkOut
	}
	if input.Status != nil {
		if _, ok := validAttendanceStatuses[*input.Status]; !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*input.Status)})
		}
		entry.Status = *input.Status
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// GetEntry loads an entry by id.
func (s *WorkforceService) GetEntry(ctx context.Context, id int64) (*domain.WorkforceEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("workforce entry", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// ListEntries returns a filtered page. With no date filter the roster
// defaults to today.
func (s *WorkforceService) ListEntries(ctx context.Context, filter repository.EntryFilter) (*EntryPage, error) {
	if filter.Date == nil && filter.StaffID == nil {
		today := s.today()
		filter.Date = &today
	}
	items, err := s.entries.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.entries.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &EntryPage{Items: items, Total: total}, nil
}

// CheckIn marks the staff member present for today, creating the entry if
// no scheduled one exists. Re-invoking after a successful check-in is a
// conflict rather than a silent overwrite.
func (s *WorkforceService) CheckIn(ctx context.Context, staff *domain.StaffMember, input CheckInInput) (*domain.WorkforceEntry, error) {
	now := s.clock()
	today := s.today()

	entry, err := s.entries.GetByStaffAndDate(ctx, staff.ID, today)
	switch {
	case err == nil:
		if entry.CheckInTime != nil {
			return nil, apperrors.NewConflict("already checked in today",
				map[string]any{"check_in_time": entry.CheckInTime.Format(clockLayout)})
		}
	case errors.Is(err, pgx.ErrNoRows):
		entry = &domain.WorkforceEntry{StaffID: staff.ID, ShiftDate: today}
	default:
		return nil, apperrors.MapError(err)
	}

	entry.CheckInTime = &now
	entry.CheckInLocation = input.Location
	entry.CheckInGPS = input.GPS
	entry.Status = domain.ClassifyCheckIn(now)

	if entry.ID == 0 {
		err = s.entries.Create(ctx, entry)
	} else {
		err = s.entries.Update(ctx, entry)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEntry(ctx, events.EventStaffCheckedIn, entry.ID, staff, events.StaffCheckedInPayload{
		StaffID:   staff.ID,
		ShiftDate: today.Format(shiftDateLayout),
		Status:    entry.Status,
	})
	return entry, nil
}

// CheckOut closes today's shift. Missing entry, missing check-in and a
// repeated check-out all signal a conflict.
func (s *WorkforceService) CheckOut(ctx context.Context, staff *domain.StaffMember, input CheckOutInput) (*domain.WorkforceEntry, error) {
	now := s.clock()
	today := s.today()

	entry, err := s.entries.GetByStaffAndDate(ctx, staff.ID, today)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("no entry to check out from", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if entry.CheckInTime == nil {
		return nil, apperrors.NewConflict("cannot check out before checking in", nil)
	}
	if entry.CheckOutTime != nil {
		return nil, apperrors.NewConflict("already checked out today",
			map[string]any{"check_out_time": entry.CheckOutTime.Format(clockLayout)})
	}

	entry.CheckOutTime = &now
	entry.CheckOutLocation = input.Location
	entry.CheckOutGPS = input.GPS
	if input.CompletedTasks != nil {
		entry.CompletedTasks = input.CompletedTasks
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEntry(ctx, events.EventStaffCheckedOut, entry.ID, staff, events.StaffCheckedOutPayload{
		StaffID:     staff.ID,
		ShiftDate:   today.Format(shiftDateLayout),
		HoursWorked: round2(entry.HoursWorked()),
	})
	return entry, nil
}

// UpdateEntry applies a patch. Changing the check-in time re-derives the
// late classification unless the patch sets a status explicitly.
func (s *WorkforceService) UpdateEntry(ctx context.Context, id int64, patch EntryPatch) (*domain.WorkforceEntry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.CheckIn != nil {
		checkIn, err := parseClockOn(entry.ShiftDate, "check_in_time", *patch.CheckIn)
		if err != nil {
			return nil, err
		}
		entry.CheckInTime = &checkIn
		if entry.Status == domain.AttendanceStatusScheduled ||
			entry.Status == domain.AttendanceStatusPresent ||
			entry.Status == domain.AttendanceStatusLate {
			entry.Status = domain.ClassifyCheckIn(checkIn)
		}
	}
	if patch.CheckOut != nil {
		if entry.CheckInTime == nil {
			return nil, apperrors.NewValidationError("check_out_time requires check_in_time", nil)
		}
		checkOut, err := parseClockOn(entry.ShiftDate, "check_out_time", *patch.CheckOut)
		if err != nil {
			return nil, err
		}
		entry.CheckOutTime = &checkOut
	}
	if patch.Status != nil {
		if _, ok := validAttendanceStatuses[*patch.Status]; !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*patch.Status)})
		}
		entry.Status = *patch.Status
	}
	if patch.AssignedTasks != nil {
		entry.AssignedTasks = patch.AssignedTasks
	}
	if patch.CompletedTasks != nil {
		entry.CompletedTasks = patch.CompletedTasks
	}
	if patch.WorkLocation != nil {
		entry.WorkLocation = patch.WorkLocation
	}
	if patch.WorkAreaGPS != nil {
		entry.WorkAreaGPS = patch.WorkAreaGPS
	}
	if patch.Notes != nil {
		entry.Notes = patch.Notes
	}
	if patch.SupervisorNotes != nil {
		entry.SupervisorNotes = patch.SupervisorNotes
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// DailyStats summarizes attendance for one day.
type DailyStats struct {
	Date           time.Time
	TotalEntries   int
	ByStatus       map[domain.AttendanceStatus]int
	TotalStaff     int
	AttendanceRate float64
	AvgHoursWorked float64
}

// DailyAttendanceStats computes attendance for the given day, defaulting to
// today. The rate counts Present and Late against active staff-role members.
func (s *WorkforceService) DailyAttendanceStats(ctx context.Context, date *time.Time) (*DailyStats, error) {
	day := s.today()
	if date != nil {
		day = *date
	}

	counts, err := s.entries.StatusCountsOnDate(ctx, day)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totalStaff, err := s.staff.CountActiveByRole(ctx, domain.StaffRoleStaff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	rate := 0.0
	if totalStaff > 0 {
		attended := counts[domain.AttendanceStatusPresent] + counts[domain.AttendanceStatusLate]
		rate = round1(float64(attended) / float64(totalStaff) * 100)
	}

	completed, err := s.entries.CompletedEntries(ctx, day, day)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avgHours := 0.0
	if len(completed) > 0 {
		sum := 0.0
		for i := range completed {
			sum += completed[i].HoursWorked()
		}
		avgHours = round2(sum / float64(len(completed)))
	}

	return &DailyStats{
		Date:           day,
		TotalEntries:   total,
		ByStatus:       counts,
		TotalStaff:     totalStaff,
		AttendanceRate: rate,
		AvgHoursWorked: avgHours,
	}, nil
}

// DepartmentStats is attendance aggregated per department over a window.
type DepartmentStats struct {
	Department     string
	TotalEntries   int
	Present        int
	AttendanceRate float64
}

// DepartmentAttendanceStats aggregates attendance per department.
func (s *WorkforceService) DepartmentAttendanceStats(ctx context.Context, start, end time.Time) ([]DepartmentStats, error) {
	rows, err := s.entries.DepartmentAttendance(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats := make([]DepartmentStats, 0, len(rows))
	for _, row := range rows {
		rate := 0.0
		if row.Total > 0 {
			rate = round1(float64(row.Present) / float64(row.Total) * 100)
		}
		stats = append(stats, DepartmentStats{
			Department:     row.Department,
			TotalEntries:   row.Total,
			Present:        row.Present,
			AttendanceRate: rate,
		})
	}
	return stats, nil
}

// MySchedule lists the staff member's entries between the given bounds.
// Each bound is applied independently; when both are absent the current
// week is used, beginning on Monday.
func (s *WorkforceService) MySchedule(ctx context.Context, staffID int64, start, end *time.Time) ([]domain.WorkforceEntry, error) {
	if start == nil && end == nil {
		weekStart := s.currentWeekStart()
		weekEnd := weekStart.AddDate(0, 0, 6)
		start, end = &weekStart, &weekEnd
	}

	items, err := s.entries.ListByStaffBetween(ctx, staffID, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func (s *WorkforceService) today() time.Time {
	now := s.clock()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *WorkforceService) currentWeekStart() time.Time {
	day := s.today()
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func (s *WorkforceService) publishEntry(ctx context.Context, eventType events.EventType, entityID int64, actor *domain.StaffMember, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Actor:     events.Actor{StaffID: actor.ID, Name: actor.Name},
		Timestamp: s.clock(),
		Payload:   payload,
	})
}
