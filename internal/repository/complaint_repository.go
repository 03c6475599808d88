package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/domain"
)

// ComplaintFilter captures list/search parameters.
type ComplaintFilter struct {
	Status     *domain.ComplaintStatus
	Priority   *domain.ComplaintPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// StaffPerformanceRow aggregates complaint handling per assignee.
type StaffPerformanceRow struct {
	StaffID     int64
	Name        string
	StaffNumber string
	Department  string
	Handled     int
	Resolved    int
}

// LevelCount is one bucket of the escalation-level histogram.
type LevelCount struct {
	Level int
	Count int
}

// ComplaintRepository encapsulates complaint persistence and aggregation.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	GetByCode(ctx context.Context, code string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	CountWithFilter(ctx context.Context, filter ComplaintFilter) (int, error)
	LatestCodeForYear(ctx context.Context, year int) (string, error)
	ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Complaint, error)
	ListBetween(ctx context.Context, start, end *time.Time) ([]domain.Complaint, error)

	StatusCounts(ctx context.Context) (map[domain.ComplaintStatus]int, error)
	CountResolvedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountHighPriorityUnresolved(ctx context.Context) (int, error)
	CountHighPriorityOpen(ctx context.Context) (int, error)
	CountEscalated(ctx context.Context) (int, error)
	AvgResolutionHours(ctx context.Context, start, end *time.Time) (float64, error)
	StatusDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error)
	PriorityDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error)
	IssueTypeDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error)
	DailyCounts(ctx context.Context, start, end time.Time) ([]DateCount, error)
	StaffPerformance(ctx context.Context, start, end time.Time) ([]StaffPerformanceRow, error)
	SatisfactionSummary(ctx context.Context, start, end time.Time) (float64, int, error)
	EscalationHistogram(ctx context.Context, start, end time.Time) ([]LevelCount, error)
}

type complaintRepository struct {
	db Database
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(db Database) ComplaintRepository {
	return &complaintRepository{db: db}
}

const complaintColumns = `id, code, customer_name, customer_phone, customer_email, issue_type, description,
               status, priority, location, gps_coordinates, created_by_id, assigned_to_id,
               escalation_level, escalated_at, created_at, updated_at, resolved_at,
               attachments, customer_satisfaction, customer_feedback`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (code, customer_name, customer_phone, customer_email, issue_type, description,
                                status, priority, location, gps_coordinates, created_by_id, assigned_to_id,
                                escalation_level, attachments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	attachments, err := encodeStringList(complaint.Attachments)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query,
		complaint.Code,
		complaint.CustomerName,
		complaint.CustomerPhone,
		complaint.CustomerEmail,
		complaint.IssueType,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.Location,
		complaint.GPSCoordinates,
		complaint.CreatedByID,
		complaint.AssignedToID,
		complaint.EscalationLevel,
		attachments,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET customer_name=$1, customer_phone=$2, customer_email=$3, issue_type=$4,
            description=$5, status=$6, priority=$7, location=$8, gps_coordinates=$9, assigned_to_id=$10,
            escalation_level=$11, escalated_at=$12, resolved_at=$13, attachments=$14,
            customer_satisfaction=$15, customer_feedback=$16, updated_at=NOW()
        WHERE id=$17`

	attachments, err := encodeStringList(complaint.Attachments)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, query,
		complaint.CustomerName,
		complaint.CustomerPhone,
		complaint.CustomerEmail,
		complaint.IssueType,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.Location,
		complaint.GPSCoordinates,
		complaint.AssignedToID,
		complaint.EscalationLevel,
		complaint.EscalatedAt,
		complaint.ResolvedAt,
		attachments,
		complaint.CustomerSatisfaction,
		complaint.CustomerFeedback,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	query := "SELECT " + complaintColumns + " FROM complaints WHERE id=$1"
	row := r.db.QueryRow(ctx, query, id)
	return scanComplaintRow(row)
}

func (r *complaintRepository) GetByCode(ctx context.Context, code string) (*domain.Complaint, error) {
	query := "SELECT " + complaintColumns + " FROM complaints WHERE code=$1"
	row := r.db.QueryRow(ctx, query, code)
	return scanComplaintRow(row)
}

func scanComplaintRow(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	var attachments *string
	if err := row.Scan(
		&complaint.ID,
		&complaint.Code,
		&complaint.CustomerName,
		&complaint.CustomerPhone,
		&complaint.CustomerEmail,
		&complaint.IssueType,
		&complaint.Description,
		&complaint.Status,
		&complaint.Priority,
		&complaint.Location,
		&complaint.GPSCoordinates,
		&complaint.CreatedByID,
		&complaint.AssignedToID,
		&complaint.EscalationLevel,
		&complaint.EscalatedAt,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
		&attachments,
		&complaint.CustomerSatisfaction,
		&complaint.CustomerFeedback,
	); err != nil {
		return nil, err
	}
	decoded, err := decodeStringList(attachments)
	if err != nil {
		return nil, err
	}
	complaint.Attachments = decoded
	return &complaint, nil
}

func buildComplaintFilter(filter ComplaintFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(customer_name) LIKE %s OR LOWER(code) LIKE %s OR LOWER(description) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	where, args := buildComplaintFilter(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		complaintColumns, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) CountWithFilter(ctx context.Context, filter ComplaintFilter) (int, error) {
	where, args := buildComplaintFilter(filter)
	query := "SELECT COUNT(*) FROM complaints WHERE " + where

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// LatestCodeForYear returns the highest code issued for the year, or ""
// when the year has no complaints yet.
func (r *complaintRepository) LatestCodeForYear(ctx context.Context, year int) (string, error) {
	const query = `SELECT code FROM complaints WHERE code LIKE $1 ORDER BY code DESC LIMIT 1`

	var code string
	err := r.db.QueryRow(ctx, query, fmt.Sprintf("%d-%%", year)).Scan(&code)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (r *complaintRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Complaint, error) {
	query := "SELECT " + complaintColumns + ` FROM complaints
        WHERE created_at < $1 AND status IN ('Open','In Progress') AND escalation_level = 0
        ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListBetween(ctx context.Context, start, end *time.Time) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if start != nil {
		args = append(args, *start)
		clauses = append(clauses, fmt.Sprintf("created_at::date >= $%d::date", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		clauses = append(clauses, fmt.Sprintf("created_at::date <= $%d::date", len(args)))
	}
	query := fmt.Sprintf("SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC",
		complaintColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaintRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

func (r *complaintRepository) StatusCounts(ctx context.Context) (map[domain.ComplaintStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM complaints GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ComplaintStatus]int)
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) CountResolvedBetween(ctx context.Context, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE resolved_at >= $1 AND resolved_at < $2`
	var count int
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepository) CountHighPriorityUnresolved(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE priority IN ('High','Critical') AND status <> 'Resolved'`
	var count int
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepository) CountHighPriorityOpen(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE priority IN ('High','Critical') AND status IN ('Open','In Progress')`
	var count int
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepository) CountEscalated(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE escalation_level > 0`
	var count int
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AvgResolutionHours averages resolved_at - created_at over resolved
// complaints, optionally restricted to a creation-date window.
func (r *complaintRepository) AvgResolutionHours(ctx context.Context, start, end *time.Time) (float64, error) {
	query := `SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600), 0)
        FROM complaints WHERE resolved_at IS NOT NULL`
	args := []any{}
	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND created_at::date >= $%d::date", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND created_at::date <= $%d::date", len(args))
	}

	var avg float64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *complaintRepository) StatusDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error) {
	const query = `SELECT status, COUNT(*) FROM complaints
        WHERE created_at::date >= $1::date AND created_at::date <= $2::date
        GROUP BY status`
	return r.groupCounts(ctx, query, start, end)
}

func (r *complaintRepository) PriorityDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error) {
	const query = `SELECT priority, COUNT(*) FROM complaints
        WHERE created_at::date >= $1::date AND created_at::date <= $2::date
        GROUP BY priority`
	return r.groupCounts(ctx, query, start, end)
}

func (r *complaintRepository) IssueTypeDistribution(ctx context.Context, start, end time.Time) ([]GroupCount, error) {
	const query = `SELECT issue_type, COUNT(*) FROM complaints
        WHERE created_at::date >= $1::date AND created_at::date <= $2::date
        GROUP BY issue_type`
	return r.groupCounts(ctx, query, start, end)
}

func (r *complaintRepository) groupCounts(ctx context.Context, query string, args ...any) ([]GroupCount, error) {
	rows, err := r.db.Query(ctx, query, args...)
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

func (r *complaintRepository) DailyCounts(ctx context.Context, start, end time.Time) ([]DateCount, error) {
	const query = `SELECT created_at::date AS day, COUNT(*) FROM complaints
        WHERE created_at::date >= $1::date AND created_at::date <= $2::date
        GROUP BY day ORDER BY day`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DateCount
	for rows.Next() {
		var dc DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}

func (r *complaintRepository) StaffPerformance(ctx context.Context, start, end time.Time) ([]StaffPerformanceRow, error) {
	const query = `
        SELECT s.id, s.name, s.staff_number, s.department,
               COUNT(c.id) AS handled,
               COUNT(c.id) FILTER (WHERE c.status = 'Resolved') AS resolved
        FROM complaints c
        JOIN staff_members s ON s.id = c.assigned_to_id
        WHERE c.created_at::date >= $1::date AND c.created_at::date <= $2::date
        GROUP BY s.id, s.name, s.staff_number, s.department
        ORDER BY handled DESC`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StaffPerformanceRow
	for rows.Next() {
		var row StaffPerformanceRow
		if err := rows.Scan(&row.StaffID, &row.Name, &row.StaffNumber, &row.Department, &row.Handled, &row.Resolved); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *complaintRepository) SatisfactionSummary(ctx context.Context, start, end time.Time) (float64, int, error) {
	const query = `SELECT COALESCE(AVG(customer_satisfaction), 0), COUNT(customer_satisfaction)
        FROM complaints
        WHERE customer_satisfaction IS NOT NULL
          AND created_at::date >= $1::date AND created_at::date <= $2::date`

	var avg float64
	var count int
	if err := r.db.QueryRow(ctx, query, start, end).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

func (r *complaintRepository) EscalationHistogram(ctx context.Context, start, end time.Time) ([]LevelCount, error) {
	const query = `SELECT escalation_level, COUNT(*) FROM complaints
        WHERE created_at::date >= $1::date AND created_at::date <= $2::date
        GROUP BY escalation_level ORDER BY escalation_level`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LevelCount
	for rows.Next() {
		var lc LevelCount
		if err := rows.Scan(&lc.Level, &lc.Count); err != nil {
			return nil, err
		}
		result = append(result, lc)
	}
	return result, rows.Err()
}
