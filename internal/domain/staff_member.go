package domain

import "time"

// StaffRole enumerates internal roles.
type StaffRole string

const (
	StaffRoleAdmin      StaffRole = "Admin"
	StaffRoleSupervisor StaffRole = "Supervisor"
	StaffRoleStaff      StaffRole = "Staff"
)

// StaffMember models a field staff member or administrator.
// Accounts are never deleted, only deactivated via the active flag.
type StaffMember struct {
	ID           int64
	StaffNumber  string
	Name         string
	Role         StaffRole
	Department   string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
