package events

import (
	"time"

	"github.com/spec-kit/workforce-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated           EventType = "complaint_created"
	EventComplaintStatusChanged     EventType = "complaint_status_changed"
	EventComplaintEscalated         EventType = "complaint_escalated"
	EventComplaintFeedbackSubmitted EventType = "complaint_feedback_submitted"
	EventStaffCheckedIn             EventType = "staff_checked_in"
	EventStaffCheckedOut            EventType = "staff_checked_out"
)

// Actor identifies who triggered an event. StaffID is zero for
// unauthenticated origins such as customer feedback.
type Actor struct {
	StaffID int64  `json:"staff_id,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  int64       `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Code         string                   `json:"code"`
	IssueType    string                   `json:"issue_type"`
	Priority     domain.ComplaintPriority `json:"priority"`
	CustomerName string                   `json:"customer_name"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	Code      string                 `json:"code"`
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintEscalatedPayload payload.
type ComplaintEscalatedPayload struct {
	Code         string `json:"code"`
	Level        int    `json:"level"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ComplaintFeedbackSubmittedPayload payload.
type ComplaintFeedbackSubmittedPayload struct {
	Code         string `json:"code"`
	Satisfaction int    `json:"satisfaction"`
}

// StaffCheckedInPayload payload.
type StaffCheckedInPayload struct {
	StaffID   int64                   `json:"staff_id"`
	ShiftDate string                  `json:"shift_date"`
	Status    domain.AttendanceStatus `json:"status"`
}

// StaffCheckedOutPayload payload.
type StaffCheckedOutPayload struct {
	StaffID     int64   `json:"staff_id"`
	ShiftDate   string  `json:"shift_date"`
	HoursWorked float64 `json:"hours_worked"`
}
