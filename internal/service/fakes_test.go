package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/repository"
)

// In-memory repositories backing the service tests.

type fakeStaffRepo struct {
	nextID  int64
	members map[int64]*domain.StaffMember
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{nextID: 1, members: make(map[int64]*domain.StaffMember)}
}

func (r *fakeStaffRepo) add(member *domain.StaffMember) *domain.StaffMember {
	_ = r.Create(context.Background(), member)
	return member
}

func (r *fakeStaffRepo) Create(_ context.Context, member *domain.StaffMember) error {
	member.ID = r.nextID
	r.nextID++
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, member *domain.StaffMember) error {
	if _, ok := r.members[member.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *member
	return &copied, nil
}

func (r *fakeStaffRepo) GetByStaffNumber(_ context.Context, staffNumber string) (*domain.StaffMember, error) {
	for _, member := range r.members {
		if member.StaffNumber == staffNumber {
			copied := *member
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, member := range r.members {
		if member.Email == email {
			copied := *member
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	var result []domain.StaffMember
	for _, member := range r.members {
		if filter.Role != nil && member.Role != *filter.Role {
			continue
		}
		if filter.Department != nil && member.Department != *filter.Department {
			continue
		}
		if filter.Active != nil && member.Active != *filter.Active {
			continue
		}
		result = append(result, *member)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeStaffRepo) FirstByRole(_ context.Context, role domain.StaffRole) (*domain.StaffMember, error) {
	var best *domain.StaffMember
	for _, member := range r.members {
		if member.Role != role || !member.Active {
			continue
		}
		if best == nil || member.ID < best.ID {
			best = member
		}
	}
	if best == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *best
	return &copied, nil
}

func (r *fakeStaffRepo) CountActiveByRole(_ context.Context, role domain.StaffRole) (int, error) {
	count := 0
	for _, member := range r.members {
		if member.Role == role && member.Active {
			count++
		}
	}
	return count, nil
}

type fakeComplaintRepo struct {
	nextID     int64
	complaints map[int64]*domain.Complaint
	perfRows   []repository.StaffPerformanceRow
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{nextID: 1, complaints: make(map[int64]*domain.Complaint)}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	complaint.ID = r.nextID
	r.nextID++
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	complaint.UpdatedAt = complaint.CreatedAt
	copied := *complaint
	r.complaints[complaint.ID] = &copied
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	if _, ok := r.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *complaint
	r.complaints[complaint.ID] = &copied
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id int64) (*domain.Complaint, error) {
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *complaint
	return &copied, nil
}

func (r *fakeComplaintRepo) GetByCode(_ context.Context, code string) (*domain.Complaint, error) {
	for _, complaint := range r.complaints {
		if complaint.Code == code {
			copied := *complaint
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeComplaintRepo) all() []domain.Complaint {
	result := make([]domain.Complaint, 0, len(r.complaints))
	for _, complaint := range r.complaints {
		result = append(result, *complaint)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, complaint := range r.all() {
		if filter.Status != nil && complaint.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && complaint.Priority != *filter.Priority {
			continue
		}
		result = append(result, complaint)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeComplaintRepo) CountWithFilter(ctx context.Context, filter repository.ComplaintFilter) (int, error) {
	filter.Limit = 0
	items, _ := r.ListWithFilter(ctx, filter)
	return len(items), nil
}

func (r *fakeComplaintRepo) LatestCodeForYear(_ context.Context, year int) (string, error) {
	latest := ""
	prefix := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006") + "-"
	for _, complaint := range r.complaints {
		if strings.HasPrefix(complaint.Code, prefix) && complaint.Code > latest {
			latest = complaint.Code
		}
	}
	return latest, nil
}

func (r *fakeComplaintRepo) ListOverdue(_ context.Context, cutoff time.Time) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, complaint := range r.all() {
		open := complaint.Status == domain.ComplaintStatusOpen || complaint.Status == domain.ComplaintStatusInProgress
		if open && complaint.EscalationLevel == 0 && complaint.CreatedAt.Before(cutoff) {
			result = append(result, complaint)
		}
	}
	return result, nil
}

func (r *fakeComplaintRepo) ListBetween(_ context.Context, start, end *time.Time) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, complaint := range r.all() {
		if start != nil && complaint.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && complaint.CreatedAt.After(*end) {
			continue
		}
		result = append(result, complaint)
	}
	return result, nil
}

func (r *fakeComplaintRepo) StatusCounts(_ context.Context) (map[domain.ComplaintStatus]int, error) {
	counts := make(map[domain.ComplaintStatus]int)
	for _, complaint := range r.complaints {
		counts[complaint.Status]++
	}
	return counts, nil
}

func (r *fakeComplaintRepo) CountResolvedBetween(_ context.Context, from, to time.Time) (int, error) {
	count := 0
	for _, complaint := range r.complaints {
		if complaint.ResolvedAt == nil {
			continue
		}
		if !complaint.ResolvedAt.Before(from) && complaint.ResolvedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) CountHighPriorityUnresolved(_ context.Context) (int, error) {
	count := 0
	for _, complaint := range r.complaints {
		high := complaint.Priority == domain.ComplaintPriorityHigh || complaint.Priority == domain.ComplaintPriorityCritical
		if high && complaint.Status != domain.ComplaintStatusResolved {
			count++
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) CountHighPriorityOpen(_ context.Context) (int, error) {
	count := 0
	for _, complaint := range r.complaints {
		high := complaint.Priority == domain.ComplaintPriorityHigh || complaint.Priority == domain.ComplaintPriorityCritical
		open := complaint.Status == domain.ComplaintStatusOpen || complaint.Status == domain.ComplaintStatusInProgress
		if high && open {
			count++
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) CountEscalated(_ context.Context) (int, error) {
	count := 0
	for _, complaint := range r.complaints {
		if complaint.EscalationLevel > 0 {
			count++
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) AvgResolutionHours(_ context.Context, _, _ *time.Time) (float64, error) {
	total, count := 0.0, 0
	for _, complaint := range r.complaints {
		if complaint.ResolvedAt != nil {
			total += complaint.ResolvedAt.Sub(complaint.CreatedAt).Hours()
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

func (r *fakeComplaintRepo) StatusDistribution(_ context.Context, _, _ time.Time) ([]repository.GroupCount, error) {
	counts := make(map[string]int)
	for _, complaint := range r.complaints {
		counts[string(complaint.Status)]++
	}
	return groupCountsFromMap(counts), nil
}

func (r *fakeComplaintRepo) PriorityDistribution(_ context.Context, _, _ time.Time) ([]repository.GroupCount, error) {
	counts := make(map[string]int)
	for _, complaint := range r.complaints {
		counts[string(complaint.Priority)]++
	}
	return groupCountsFromMap(counts), nil
}

func (r *fakeComplaintRepo) IssueTypeDistribution(_ context.Context, _, _ time.Time) ([]repository.GroupCount, error) {
	counts := make(map[string]int)
	for _, complaint := range r.complaints {
		counts[complaint.IssueType]++
	}
	return groupCountsFromMap(counts), nil
}

func (r *fakeComplaintRepo) DailyCounts(_ context.Context, _, _ time.Time) ([]repository.DateCount, error) {
	return nil, nil
}

func (r *fakeComplaintRepo) StaffPerformance(_ context.Context, _, _ time.Time) ([]repository.StaffPerformanceRow, error) {
	return r.perfRows, nil
}

func (r *fakeComplaintRepo) SatisfactionSummary(_ context.Context, _, _ time.Time) (float64, int, error) {
	total, count := 0, 0
	for _, complaint := range r.complaints {
		if complaint.CustomerSatisfaction != nil {
			total += *complaint.CustomerSatisfaction
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(total) / float64(count), count, nil
}

func (r *fakeComplaintRepo) EscalationHistogram(_ context.Context, _, _ time.Time) ([]repository.LevelCount, error) {
	counts := make(map[int]int)
	for _, complaint := range r.complaints {
		counts[complaint.EscalationLevel]++
	}
	result := make([]repository.LevelCount, 0, len(counts))
	for level, count := range counts {
		result = append(result, repository.LevelCount{Level: level, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Level < result[j].Level })
	return result, nil
}

func groupCountsFromMap(counts map[string]int) []repository.GroupCount {
	result := make([]repository.GroupCount, 0, len(counts))
	for label, count := range counts {
		result = append(result, repository.GroupCount{Label: label, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result
}

type fakeEntryRepo struct {
	nextID  int64
	entries map[int64]*domain.WorkforceEntry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{nextID: 1, entries: make(map[int64]*domain.WorkforceEntry)}
}

func (r *fakeEntryRepo) Create(_ context.Context, entry *domain.WorkforceEntry) error {
	entry.ID = r.nextID
	r.nextID++
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeEntryRepo) Update(_ context.Context, entry *domain.WorkforceEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id int64) (*domain.WorkforceEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (r *fakeEntryRepo) GetByStaffAndDate(_ context.Context, staffID int64, shiftDate time.Time) (*domain.WorkforceEntry, error) {
	for _, entry := range r.entries {
		if entry.StaffID == staffID && sameDate(entry.ShiftDate, shiftDate) {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEntryRepo) all() []domain.WorkforceEntry {
	result := make([]domain.WorkforceEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeEntryRepo) ListWithFilter(_ context.Context, filter repository.EntryFilter) ([]domain.WorkforceEntry, error) {
	var result []domain.WorkforceEntry
	for _, entry := range r.all() {
		if filter.Date != nil && !sameDate(entry.ShiftDate, *filter.Date) {
			continue
		}
		if filter.Status != nil && entry.Status != *filter.Status {
			continue
		}
		if filter.StaffID != nil && entry.StaffID != *filter.StaffID {
			continue
		}
		result = append(result, entry)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeEntryRepo) CountWithFilter(ctx context.Context, filter repository.EntryFilter) (int, error) {
	filter.Limit = 0
	items, _ := r.ListWithFilter(ctx, filter)
	return len(items), nil
}

func (r *fakeEntryRepo) ListByStaffBetween(_ context.Context, staffID int64, start, end *time.Time) ([]domain.WorkforceEntry, error) {
	var result []domain.WorkforceEntry
	for _, entry := range r.all() {
		if entry.StaffID != staffID {
			continue
		}
		if start != nil && entry.ShiftDate.Before(*start) {
			continue
		}
		if end != nil && entry.ShiftDate.After(*end) {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftDate.Before(result[j].ShiftDate) })
	return result, nil
}

func (r *fakeEntryRepo) ListBetween(_ context.Context, start, end *time.Time) ([]domain.WorkforceEntry, error) {
	var result []domain.WorkforceEntry
	for _, entry := range r.all() {
		if start != nil && entry.ShiftDate.Before(*start) {
			continue
		}
		if end != nil && entry.ShiftDate.After(*end) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (r *fakeEntryRepo) StatusCountsOnDate(_ context.Context, shiftDate time.Time) (map[domain.AttendanceStatus]int, error) {
	counts := make(map[domain.AttendanceStatus]int)
	for _, entry := range r.entries {
		if sameDate(entry.ShiftDate, shiftDate) {
			counts[entry.Status]++
		}
	}
	return counts, nil
}

func (r *fakeEntryRepo) CompletedEntries(_ context.Context, start, end time.Time) ([]domain.WorkforceEntry, error) {
	var result []domain.WorkforceEntry
	for _, entry := range r.all() {
		if entry.CheckInTime == nil || entry.CheckOutTime == nil {
			continue
		}
		if entry.ShiftDate.Before(start) || entry.ShiftDate.After(end) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (r *fakeEntryRepo) CountLateBetween(_ context.Context, start, end time.Time) (int, error) {
	count := 0
	for _, entry := range r.entries {
		if entry.Status == domain.AttendanceStatusLate &&
			!entry.ShiftDate.Before(start) && !entry.ShiftDate.After(end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeEntryRepo) StatusDistribution(_ context.Context, _, _ time.Time) ([]repository.GroupCount, error) {
	counts := make(map[string]int)
	for _, entry := range r.entries {
		counts[string(entry.Status)]++
	}
	return groupCountsFromMap(counts), nil
}

func (r *fakeEntryRepo) DailyAttendance(_ context.Context, _, _ time.Time) ([]repository.DailyAttendanceRow, error) {
	return nil, nil
}

func (r *fakeEntryRepo) DepartmentAttendance(_ context.Context, _, _ time.Time) ([]repository.DepartmentAttendanceRow, error) {
	return nil, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
