package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/domain"
)

// EntryFilter captures workforce entry list parameters.
type EntryFilter struct {
	Date    *time.Time
	Status  *domain.AttendanceStatus
	StaffID *int64
	Limit   int
	Offset  int
}

// DailyAttendanceRow is one day of attendance counts.
type DailyAttendanceRow struct {
	Date    time.Time
	Total   int
	Present int
}

// DepartmentAttendanceRow aggregates attendance per staff department.
type DepartmentAttendanceRow struct {
	Department string
	Total      int
	Present    int
}

// WorkforceRepository encapsulates shift entry persistence and aggregation.
type WorkforceRepository interface {
	Create(ctx context.Context, entry *domain.WorkforceEntry) error
	Update(ctx context.Context, entry *domain.WorkforceEntry) error
	GetByID(ctx context.Context, id int64) (*domain.WorkforceEntry, error)
	GetByStaffAndDate(ctx context.Context, staffID int64, shiftDate time.Time) (*domain.WorkforceEntry, error)
	ListWithFilter(ctx context.Context, filter EntryFilter) ([]domain.WorkforceEntry, error)
	CountWithFilter(ctx context.Context, filter EntryFilter) (int, error)
	ListByStaffBetween(ctx context.Context, staffID int64, start, end *time.Time) ([]domain.WorkforceEntry, error)
	ListBetween(ctx context.Context, start, end *time.Time) ([]domain.WorkforceEntry, error)

	StatusCountsOnDate(ctx context.Context, shiftDate time.Time) (map[domain.AttendanceStatus]int, error)
	CompletedEntries(ctx context.Context, start, end time.Time) ([]domain.WorkforceEntry, error)
	CountLateBetween(ctx context.Context, start, end time.Time) (int, error)
	StatusDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error)
	DailyAttendance(ctx context.Context, start, end time.Time) ([]DailyAttendanceRow, error)
	DepartmentAttendance(ctx context.Context, start, end time.Time) ([]DepartmentAttendanceRow, error)
}

type workforceRepository struct {
	db Database
}

// NewWorkforceRepository instantiates the repository.
func NewWorkforceRepository(db Database) WorkforceRepository {
	return &workforceRepository{db: db}
}

const entryColumns = `w.id, w.staff_id, w.shift_date, w.check_in_time, w.check_out_time,
               w.check_in_location, w.check_out_location, w.check_in_gps, w.check_out_gps,
               w.status, w.assigned_tasks, w.completed_tasks, w.work_location, w.work_area_gps,
               w.notes, w.supervisor_notes, w.created_at, w.updated_at`

func (r *workforceRepository) Create(ctx context.Context, entry *domain.WorkforceEntry) error {
	const query = `
        INSERT INTO workforce_entries (staff_id, shift_date, check_in_time, check_out_time,
                                       check_in_location, check_out_location, check_in_gps, check_out_gps,
                                       status, assigned_tasks, completed_tasks, work_location, work_area_gps,
                                       notes, supervisor_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`

	assigned, err := encodeStringList(entry.AssignedTasks)
	if err != nil {
		return err
	}
	completed, err := encodeStringList(entry.CompletedTasks)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query,
		entry.StaffID,
		entry.ShiftDate,
		entry.CheckInTime,
		entry.CheckOutTime,
		entry.CheckInLocation,
		entry.CheckOutLocation,
		entry.CheckInGPS,
		entry.CheckOutGPS,
		entry.Status,
		assigned,
		completed,
		entry.WorkLocation,
		entry.WorkAreaGPS,
		entry.Notes,
		entry.SupervisorNotes,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *workforceRepository) Update(ctx context.Context, entry *domain.WorkforceEntry) error {
	const query = `
        UPDATE workforce_entries SET check_in_time=$1, check_out_time=$2, check_in_location=$3,
            check_out_location=$4, check_in_gps=$5, check_out_gps=$6, status=$7, assigned_tasks=$8,
            completed_tasks=$9, work_location=$10, work_area_gps=$11, notes=$12, supervisor_notes=$13,
            updated_at=NOW()
        WHERE id=$14`

	assigned, err := encodeStringList(entry.AssignedTasks)
	if err != nil {
		return err
	}
	completed, err := encodeStringList(entry.CompletedTasks)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, query,
		entry.CheckInTime,
		entry.CheckOutTime,
		entry.CheckInLocation,
		entry.CheckOutLocation,
		entry.CheckInGPS,
		entry.CheckOutGPS,
		entry.Status,
		assigned,
		completed,
		entry.WorkLocation,
		entry.WorkAreaGPS,
		entry.Notes,
		entry.SupervisorNotes,
		entry.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workforceRepository) GetByID(ctx context.Context, id int64) (*domain.WorkforceEntry, error) {
	query := "SELECT " + entryColumns + " FROM workforce_entries w WHERE w.id=$1"
	return scanEntryRow(r.db.QueryRow(ctx, query, id))
}

func (r *workforceRepository) GetByStaffAndDate(ctx context.Context, staffID int64, shiftDate time.Time) (*domain.WorkforceEntry, error) {
	query := "SELECT " + entryColumns + " FROM workforce_entries w WHERE w.staff_id=$1 AND w.shift_date=$2::date"
	return scanEntryRow(r.db.QueryRow(ctx, query, staffID, shiftDate))
}

func scanEntryRow(row pgx.Row) (*domain.WorkforceEntry, error) {
	var entry domain.WorkforceEntry
	var assigned, completed *string
	if err := row.Scan(
		&entry.ID,
		&entry.StaffID,
		&entry.ShiftDate,
		&entry.CheckInTime,
		&entry.CheckOutTime,
		&entry.CheckInLocation,
		&entry.CheckOutLocation,
		&entry.CheckInGPS,
		&entry.CheckOutGPS,
		&entry.Status,
		&assigned,
		&completed,
		&entry.WorkLocation,
		&entry.WorkAreaGPS,
		&entry.Notes,
		&entry.SupervisorNotes,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if entry.AssignedTasks, err = decodeStringList(assigned); err != nil {
		return nil, err
	}
	if entry.CompletedTasks, err = decodeStringList(completed); err != nil {
		return nil, err
	}
	return &entry, nil
}

func buildEntryFilter(filter EntryFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Date != nil {
		args = append(args, *filter.Date)
		clauses = append(clauses, fmt.Sprintf("w.shift_date=$%d::date", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("w.status=$%d", len(args)))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		clauses = append(clauses, fmt.Sprintf("w.staff_id=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *workforceRepository) ListWithFilter(ctx context.Context, filter EntryFilter) ([]domain.WorkforceEntry, error) {
	where, args := buildEntryFilter(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// joined for staff-name ordering on rosters
	query := fmt.Sprintf(`SELECT %s FROM workforce_entries w
        JOIN staff_members s ON s.id = w.staff_id
        WHERE %s ORDER BY s.name LIMIT %d OFFSET %d`, entryColumns, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *workforceRepository) CountWithFilter(ctx context.Context, filter EntryFilter) (int, error) {
	where, args := buildEntryFilter(filter)
	query := "SELECT COUNT(*) FROM workforce_entries w WHERE " + where

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *workforceRepository) ListByStaffBetween(ctx context.Context, staffID int64, start, end *time.Time) ([]domain.WorkforceEntry, error) {
	clauses := []string{"w.staff_id=$1"}
	args := []any{staffID}
	if start != nil {
		args = append(args, *start)
		clauses = append(clauses, fmt.Sprintf("w.shift_date >= $%d::date", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		clauses = append(clauses, fmt.Sprintf("w.shift_date <= $%d::date", len(args)))
	}
	query := fmt.Sprintf("SELECT %s FROM workforce_entries w WHERE %s ORDER BY w.shift_date",
		entryColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *workforceRepository) ListBetween(ctx context.Context, start, end *time.Time) ([]domain.WorkforceEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if start != nil {
		args = append(args, *start)
		clauses = append(clauses, fmt.Sprintf("w.shift_date >= $%d::date", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		clauses = append(clauses, fmt.Sprintf("w.shift_date <= $%d::date", len(args)))
	}
	query := fmt.Sprintf("SELECT %s FROM workforce_entries w WHERE %s ORDER BY w.shift_date DESC",
		entryColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]domain.WorkforceEntry, error) {
	var result []domain.WorkforceEntry
	for rows.Next() {
		entry, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func (r *workforceRepository) StatusCountsOnDate(ctx context.Context, shiftDate time.Time) (map[domain.AttendanceStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM workforce_entries WHERE shift_date=$1::date GROUP BY status`

	rows, err := r.db.Query(ctx, query, shiftDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.AttendanceStatus]int)
	for rows.Next() {
		var status domain.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CompletedEntries returns entries carrying both timestamps; hours worked
// stays a derived value, so averaging happens in the caller.
func (r *workforceRepository) CompletedEntries(ctx context.Context, start, end time.Time) ([]domain.WorkforceEntry, error) {
	query := "SELECT " + entryColumns + ` FROM workforce_entries w
        WHERE w.shift_date >= $1::date AND w.shift_date <= $2::date
          AND w.check_in_time IS NOT NULL AND w.check_out_time IS NOT NULL
        ORDER BY w.shift_date`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *workforceRepository) CountLateBetween(ctx context.Context, start, end time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM workforce_entries
        WHERE shift_date >= $1::date AND shift_date <= $2::date AND status = 'Late'`

	var count int
	if err := r.db.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *workforceRepository) StatusDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error) {
	const query = `SELECT status, COUNT(*) FROM workforce_entries
        WHERE shift_date >= $1::date AND shift_date <= $2::date
        GROUP BY status`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []GroupCount
	for rows.Next() {
		var gc GroupCount
		if err := rows.Scan(&gc.Label, &gc.Count); err != nil {
			return nil, err
		}
		result = append(result, gc)
	}
	return result, rows.Err()
}

func (r *workforceRepository) DailyAttendance(ctx context.Context, start, end time.Time) ([]DailyAttendanceRow, error) {
	const query = `
        SELECT shift_date,
               COUNT(*) AS total,
               COUNT(*) FILTER (WHERE status IN ('Present','Late')) AS present
        FROM workforce_entries
        WHERE shift_date >= $1::date AND shift_date <= $2::date
        GROUP BY shift_date ORDER BY shift_date`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DailyAttendanceRow
	for rows.Next() {
		var row DailyAttendanceRow
		if err := rows.Scan(&row.Date, &row.Total, &row.Present); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *workforceRepository) DepartmentAttendance(ctx context.Context, start, end time.Time) ([]DepartmentAttendanceRow, error) {
	const query = `
        SELECT s.department,
               COUNT(w.id) AS total,
               COUNT(w.id) FILTER (WHERE w.status IN ('Present','Late')) AS present
        FROM workforce_entries w
        JOIN staff_members s ON s.id = w.staff_id
        WHERE w.shift_date >= $1::date AND w.shift_date <= $2::date
        GROUP BY s.department ORDER BY s.department`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DepartmentAttendanceRow
	for rows.Next() {
		var row DepartmentAttendanceRow
		if err := rows.Scan(&row.Department, &row.Total, &row.Present); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
