package dto

import (
	"time"

	"github.com/spec-kit/workforce-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	CustomerName   string                   `json:"customer_name"`
	CustomerPhone  string                   `json:"customer_phone"`
	CustomerEmail  *string                  `json:"customer_email"`
	IssueType      string                   `json:"issue_type"`
	Description    string                   `json:"description"`
	Priority       domain.ComplaintPriority `json:"priority"`
	Location       *string                  `json:"location"`
	GPSCoordinates *string                  `json:"gps_coordinates"`
	Attachments    []string                 `json:"attachments"`
}

// UpdateComplaintRequest payload. Absent fields are left untouched.
type UpdateComplaintRequest struct {
	Status         *domain.ComplaintStatus   `json:"status"`
	Priority       *domain.ComplaintPriority `json:"priority"`
	AssignedToID   *int64                    `json:"assigned_to_id"`
	Description    *string                   `json:"description"`
	Location       *string                   `json:"location"`
	GPSCoordinates *string                   `json:"gps_coordinates"`
	Attachments    []string                  `json:"attachments"`
}

// EscalateComplaintRequest payload.
type EscalateComplaintRequest struct {
	Reason string `json:"reason"`
}

// FeedbackRequest is the customer-facing feedback payload. Rating and
// feedback text are both optional.
type FeedbackRequest struct {
	Code         string  `json:"code"`
	Satisfaction *int    `json:"satisfaction"`
	Feedback     *string `json:"feedback"`
}

// ComplaintResponse is the full complaint view.
type ComplaintResponse struct {
	ID                   int64                    `json:"id"`
	Code                 string                   `json:"code"`
	CustomerName         string                   `json:"customer_name"`
	CustomerPhone        string                   `json:"customer_phone"`
	CustomerEmail        *string                  `json:"customer_email"`
	IssueType            string                   `json:"issue_type"`
	Description          string                   `json:"description"`
	Status               domain.ComplaintStatus   `json:"status"`
	Priority             domain.ComplaintPriority `json:"priority"`
	Location             *string                  `json:"location"`
	GPSCoordinates       *string                  `json:"gps_coordinates"`
	CreatedByID          int64                    `json:"created_by_id"`
	AssignedToID         *int64                   `json:"assigned_to_id"`
	EscalationLevel      int                      `json:"escalation_level"`
	EscalatedAt          *time.Time               `json:"escalated_at"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
	ResolvedAt           *time.Time               `json:"resolved_at"`
	Attachments          []string                 `json:"attachments"`
	CustomerSatisfaction *int                     `json:"customer_satisfaction"`
	CustomerFeedback     *string                  `json:"customer_feedback"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                   c.ID,
		Code:                 c.Code,
		CustomerName:         c.CustomerName,
		CustomerPhone:        c.CustomerPhone,
		CustomerEmail:        c.CustomerEmail,
		IssueType:            c.IssueType,
		Description:          c.Description,
		Status:               c.Status,
		Priority:             c.Priority,
		Location:             c.Location,
		GPSCoordinates:       c.GPSCoordinates,
		CreatedByID:          c.CreatedByID,
		AssignedToID:         c.AssignedToID,
		EscalationLevel:      c.EscalationLevel,
		EscalatedAt:          c.EscalatedAt,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		ResolvedAt:           c.ResolvedAt,
		Attachments:          c.Attachments,
		CustomerSatisfaction: c.CustomerSatisfaction,
		CustomerFeedback:     c.CustomerFeedback,
	}
}
