package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/auth"
	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/repository"
	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

// StaffService manages staff member accounts.
type StaffService struct {
	staff      repository.StaffRepository
	bcryptCost int
}

// StaffDependencies bundles collaborators for the staff service.
type StaffDependencies struct {
	StaffRepo  repository.StaffRepository
	BcryptCost int
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	return &StaffService{staff: deps.StaffRepo, bcryptCost: deps.BcryptCost}
}

// StaffCreateInput describes a new staff account.
type StaffCreateInput struct {
	StaffNumber string
	Name        string
	Role        domain.StaffRole
	Department  string
	Email       string
	Password    string
}

// StaffPatch carries optional account updates. Nil fields are untouched.
type StaffPatch struct {
	Name       *string
	Role       *domain.StaffRole
	Department *string
	Email      *string
	Active     *bool
}

var validRoles = map[domain.StaffRole]struct{}{
	domain.StaffRoleAdmin:      {},
	domain.StaffRoleSupervisor: {},
	domain.StaffRoleStaff:      {},
}

// CreateStaff registers a new member. Staff numbers and emails are unique.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.StaffNumber) == "" {
		details["staff_number"] = "is required"
	}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		details["email"] = "is required"
	}
	if len(input.Password) < 8 {
		details["password"] = "must be at least 8 characters"
	}
	if _, ok := validRoles[input.Role]; !ok {
		details["role"] = "must be Admin, Supervisor or Staff"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid staff payload", details)
	}

	if _, err := s.staff.GetByStaffNumber(ctx, input.StaffNumber); err == nil {
		return nil, apperrors.NewConflict("staff number already in use", map[string]any{"staff_number": input.StaffNumber})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.staff.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already in use", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	member := &domain.StaffMember{
		StaffNumber:  input.StaffNumber,
		Name:         input.Name,
		Role:         input.Role,
		Department:   input.Department,
		Email:        input.Email,
		PasswordHash: hashed,
		Active:       true,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// GetStaff loads a member by id.
func (s *StaffService) GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// UpdateStaff applies a patch to an existing member.
func (s *StaffService) UpdateStaff(ctx context.Context, id int64, patch StaffPatch) (*domain.StaffMember, error) {
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		if _, ok := validRoles[*patch.Role]; !ok {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(*patch.Role)})
		}
		member.Role = *patch.Role
	}
	if patch.Name != nil {
		member.Name = *patch.Name
	}
	if patch.Department != nil {
		member.Department = *patch.Department
	}
	if patch.Email != nil && *patch.Email != member.Email {
		if _, err := s.staff.GetByEmail(ctx, *patch.Email); err == nil {
			return nil, apperrors.NewConflict("email already in use", map[string]any{"email": *patch.Email})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		member.Email = *patch.Email
	}
	if patch.Active != nil {
		member.Active = *patch.Active
	}

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// ResetPassword sets a new password without checking the old one. Admin only.
func (s *StaffService) ResetPassword(ctx context.Context, id int64, password string) error {
	if len(password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	hashed, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	member.PasswordHash = hashed
	if err := s.staff.Update(ctx, member); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListStaff returns members matching the filter.
func (s *StaffService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	members, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}
