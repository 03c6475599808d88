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

const staffCols = "id, staff_number, name, role, department, email, password_hash, active_flag, created_at, updated_at"

func staffRow(mock pgxmock.PgxPoolIface, id int64) *pgxmock.Rows {
	now := time.Now()
	return mock.NewRows([]string{"id", "staff_number", "name", "role", "department", "email",
		"password_hash", "active_flag", "created_at", "updated_at"}).
		AddRow(id, "EMP-001", "Amina Yusuf", domain.StaffRoleStaff, "Field", "amina@example.com",
			"$2a$10$hash", true, now, now)
}

func TestStaffRepositoryCreate(t *testing.T) {
	t.Parallel()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewStaffRepository(mock)
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO staff_members`).
			WithArgs("EMP-001", "Amina Yusuf", domain.StaffRoleStaff, "Field", "amina@example.com", "hash", true).
			WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

		member := &domain.StaffMember{
			StaffNumber:  "EMP-001",
			Name:         "Amina Yusuf",
			Role:         domain.StaffRoleStaff,
			Department:   "Field",
			Email:        "amina@example.com",
			PasswordHash: "hash",
			Active:       true,
		}
		err = repo.Create(t.Context(), member)

		require.NoError(t, err)
		assert.Equal(t, int64(7), member.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStaffRepositoryGetByStaffNumber(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewStaffRepository(mock)
		mock.ExpectQuery(`SELECT ` + staffCols + ` FROM staff_members WHERE staff_number=\$1`).
			WithArgs("EMP-001").
			WillReturnRows(staffRow(mock, 1))

		member, err := repo.GetByStaffNumber(t.Context(), "EMP-001")

		require.NoError(t, err)
		assert.Equal(t, "Amina Yusuf", member.Name)
		assert.True(t, member.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewStaffRepository(mock)
		mock.ExpectQuery(`SELECT ` + staffCols + ` FROM staff_members WHERE staff_number=\$1`).
			WithArgs("EMP-404").
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.GetByStaffNumber(t.Context(), "EMP-404")

		require.ErrorIs(t, err, pgx.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStaffRepositoryUpdate(t *testing.T) {
	t.Parallel()

	t.Run("missing row maps to no rows", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewStaffRepository(mock)
		mock.ExpectExec(`UPDATE staff_members`).
			WithArgs("EMP-001", "Amina Yusuf", domain.StaffRoleStaff, "Field", "amina@example.com", "hash", true, int64(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = repo.Update(t.Context(), &domain.StaffMember{
			ID:           99,
			StaffNumber:  "EMP-001",
			Name:         "Amina Yusuf",
			Role:         domain.StaffRoleStaff,
			Department:   "Field",
			Email:        "amina@example.com",
			PasswordHash: "hash",
			Active:       true,
		})

		require.ErrorIs(t, err, pgx.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStaffRepositoryFirstByRole(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewStaffRepository(mock)
	mock.ExpectQuery(`SELECT ` + staffCols + ` FROM staff_members WHERE role=\$1 AND active_flag=TRUE ORDER BY id LIMIT 1`).
		WithArgs(domain.StaffRoleSupervisor).
		WillReturnRows(staffRow(mock, 3))

	member, err := repo.FirstByRole(t.Context(), domain.StaffRoleSupervisor)

	require.NoError(t, err)
	assert.Equal(t, int64(3), member.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositoryCountActiveByRole(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewStaffRepository(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff_members WHERE role=\$1 AND active_flag=TRUE`).
		WithArgs(domain.StaffRoleStaff).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountActiveByRole(t.Context(), domain.StaffRoleStaff)

	require.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
