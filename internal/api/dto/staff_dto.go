package dto

import (
	"time"

	"github.com/spec-kit/workforce-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	StaffNumber string `json:"staff_number"`
	Password    string `json:"password"`
}

// LoginResponse carries the signed token and its subject.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Staff     StaffResponse `json:"staff"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	StaffNumber string           `json:"staff_number"`
	Name        string           `json:"name"`
	Role        domain.StaffRole `json:"role"`
	Department  string           `json:"department"`
	Email       string           `json:"email"`
	Password    string           `json:"password"`
}

// UpdateStaffRequest payload. Absent fields are left untouched.
type UpdateStaffRequest struct {
	Name       *string           `json:"name"`
	Role       *domain.StaffRole `json:"role"`
	Department *string           `json:"department"`
	Email      *string           `json:"email"`
	Active     *bool             `json:"active"`
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// StaffResponse is the public view of a staff member.
type StaffResponse struct {
	ID          int64            `json:"id"`
	StaffNumber string           `json:"staff_number"`
	Name        string           `json:"name"`
	Role        domain.StaffRole `json:"role"`
	Department  string           `json:"department"`
	Email       string           `json:"email"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewStaffResponse maps a domain staff member.
func NewStaffResponse(member *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:          member.ID,
		StaffNumber: member.StaffNumber,
		Name:        member.Name,
		Role:        member.Role,
		Department:  member.Department,
		Email:       member.Email,
		Active:      member.Active,
		CreatedAt:   member.CreatedAt,
		UpdatedAt:   member.UpdatedAt,
	}
}
