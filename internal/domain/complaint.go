package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "Open"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
	ComplaintStatusClosed     ComplaintStatus = "Closed"
)

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow      ComplaintPriority = "Low"
	ComplaintPriorityMedium   ComplaintPriority = "Medium"
	ComplaintPriorityHigh     ComplaintPriority = "High"
	ComplaintPriorityCritical ComplaintPriority = "Critical"
)

// MaxEscalationLevel is the top of the management chain: 1 = Supervisor, 2 = Admin.
const MaxEscalationLevel = 2

// Complaint is the aggregate for customer complaints.
type Complaint struct {
	ID                   int64
	Code                 string // human-readable id, e.g. 2025-0001
	CustomerName         string
	CustomerPhone        string
	CustomerEmail        *string
	IssueType            string
	Description          string
	Status               ComplaintStatus
	Priority             ComplaintPriority
	Location             *string
	GPSCoordinates       *string
	CreatedByID          int64
	AssignedToID         *int64
	EscalationLevel      int
	EscalatedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ResolvedAt           *time.Time
	Attachments          []string
	CustomerSatisfaction *int
	CustomerFeedback     *string
}

// ResolutionTime returns elapsed time between creation and resolution,
// or zero when the complaint is not resolved.
func (c *Complaint) ResolutionTime() time.Duration {
	if c.ResolvedAt == nil {
		return 0
	}
	return c.ResolvedAt.Sub(c.CreatedAt)
}
