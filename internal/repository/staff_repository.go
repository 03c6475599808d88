package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/domain"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetByStaffNumber(ctx context.Context, staffNumber string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error)
	FirstByRole(ctx context.Context, role domain.StaffRole) (*domain.StaffMember, error)
	CountActiveByRole(ctx context.Context, role domain.StaffRole) (int, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Role       *domain.StaffRole
	Department *string
	Active     *bool
	Limit      int
	Offset     int
}

type staffRepository struct {
	db Database
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(db Database) StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = "id, staff_number, name, role, department, email, password_hash, active_flag, created_at, updated_at"

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (staff_number, name, role, department, email, password_hash, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		staff.StaffNumber,
		staff.Name,
		staff.Role,
		staff.Department,
		staff.Email,
		staff.PasswordHash,
		staff.Active,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET staff_number=$1, name=$2, role=$3, department=$4, email=$5, password_hash=$6, active_flag=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.db.Exec(ctx, query,
		staff.StaffNumber,
		staff.Name,
		staff.Role,
		staff.Department,
		staff.Email,
		staff.PasswordHash,
		staff.Active,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, "SELECT "+staffColumns+" FROM staff_members WHERE id=$1", id)
}

func (r *staffRepository) GetByStaffNumber(ctx context.Context, staffNumber string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, "SELECT "+staffColumns+" FROM staff_members WHERE staff_number=$1", staffNumber)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, "SELECT "+staffColumns+" FROM staff_members WHERE email=$1", email)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.StaffNumber,
		&staff.Name,
		&staff.Role,
		&staff.Department,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	query := "SELECT " + staffColumns + " FROM staff_members"
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY name"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		var staff domain.StaffMember
		if err := rows.Scan(
			&staff.ID,
			&staff.StaffNumber,
			&staff.Name,
			&staff.Role,
			&staff.Department,
			&staff.Email,
			&staff.PasswordHash,
			&staff.Active,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

// FirstByRole returns the earliest-created active staff member holding the
// role. Escalation auto-assignment relies on this first-match order.
func (r *staffRepository) FirstByRole(ctx context.Context, role domain.StaffRole) (*domain.StaffMember, error) {
	query := "SELECT " + staffColumns + " FROM staff_members WHERE role=$1 AND active_flag=TRUE ORDER BY id LIMIT 1"
	return r.fetchSingle(ctx, query, role)
}

func (r *staffRepository) CountActiveByRole(ctx context.Context, role domain.StaffRole) (int, error) {
	const query = `SELECT COUNT(*) FROM staff_members WHERE role=$1 AND active_flag=TRUE`
	var count int
	if err := r.db.QueryRow(ctx, query, role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
