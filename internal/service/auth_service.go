package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/auth"
	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/repository"
	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

// AuthService handles staff authentication flows.
type AuthService struct {
	staff      repository.StaffRepository
	tokens     *auth.TokenManager
	revoked    auth.RevocationStore
	bcryptCost int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	StaffRepo  repository.StaffRepository
	Tokens     *auth.TokenManager
	Revoked    auth.RevocationStore
	BcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		staff:      deps.StaffRepo,
		tokens:     deps.Tokens,
		revoked:    deps.Revoked,
		bcryptCost: deps.BcryptCost,
	}
}

// LoginResult carries a signed token and its subject.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Staff     *domain.StaffMember
}

// LoginStaff authenticates by staff number and password. Deactivated
// accounts are rejected with the same message as bad credentials.
func (s *AuthService) LoginStaff(ctx context.Context, staffNumber, password string) (*LoginResult, error) {
	if staffNumber == "" || password == "" {
		return nil, apperrors.NewValidationError("staff_number and password are required", nil)
	}

	staff, err := s.staff.GetByStaffNumber(ctx, staffNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(staff)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Staff: staff}, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.ParseToken(rawToken)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(ctx context.Context, staff *domain.StaffMember, current, next string) error {
	if len(next) < 8 {
		return apperrors.NewValidationError("new password must be at least 8 characters", nil)
	}
	if err := auth.ComparePassword(staff.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password is incorrect")
	}

	hashed, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	staff.PasswordHash = hashed
	if err := s.staff.Update(ctx, staff); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
