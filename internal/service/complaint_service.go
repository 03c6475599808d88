package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/events"
	"github.com/spec-kit/workforce-service/internal/repository"
	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

// OverdueCutoff is how long an Open or In Progress complaint may sit
// unescalated before it is flagged as overdue.
const OverdueCutoff = 48 * time.Hour

// ComplaintService coordinates the complaint lifecycle.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	clock      func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	StaffRepo     repository.StaffRepository
	Dispatcher    events.Dispatcher
	Clock         func() time.Time
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
		clock:      clock,
	}
}

// ComplaintCreateInput describes a new complaint.
type ComplaintCreateInput struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  *string
	IssueType      string
	Description    string
	Priority       domain.ComplaintPriority
	Location       *string
	GPSCoordinates *string
	Attachments    []string
}

// ComplaintPatch carries optional complaint updates. Nil fields are untouched.
type ComplaintPatch struct {
	Status         *domain.ComplaintStatus
	Priority       *domain.ComplaintPriority
	AssignedToID   *int64
	Description    *string
	Location       *string
	GPSCoordinates *string
	Attachments    []string
}

// ComplaintPage is a page of complaints with the unfiltered total.
type ComplaintPage struct {
	Items []domain.Complaint
	Total int
}

var validComplaintStatuses = map[domain.ComplaintStatus]struct{}{
	domain.ComplaintStatusOpen:       {},
	domain.ComplaintStatusInProgress: {},
	domain.ComplaintStatusResolved:   {},
	domain.ComplaintStatusClosed:     {},
}

var validComplaintPriorities = map[domain.ComplaintPriority]struct{}{
	domain.ComplaintPriorityLow:      {},
	domain.ComplaintPriorityMedium:   {},
	domain.ComplaintPriorityHigh:     {},
	domain.ComplaintPriorityCritical: {},
}

// nextComplaintCode allocates the next YYYY-NNNN code for the year of now.
// Numbering restarts at 0001 each calendar year.
func (s *ComplaintService) nextComplaintCode(ctx context.Context, now time.Time) (string, error) {
	latest, err := s.complaints.LatestCodeForYear(ctx, now.Year())
	if err != nil {
		return "", err
	}
	next := 1
	if latest != "" {
		parts := strings.SplitN(latest, "-", 2)
		if len(parts) == 2 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				next = n + 1
			}
		}
	}
	return fmt.Sprintf("%d-%04d", now.Year(), next), nil
}

// CreateComplaint registers a new complaint opened by the given staff member.
func (s *ComplaintService) CreateComplaint(ctx context.Context, creator *domain.StaffMember, input ComplaintCreateInput) (*domain.Complaint, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.CustomerName) == "" {
		details["customer_name"] = "is required"
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		details["customer_phone"] = "is required"
	}
	if strings.TrimSpace(input.IssueType) == "" {
		details["issue_type"] = "is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		details["description"] = "is required"
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.ComplaintPriorityMedium
	}
	if _, ok := validComplaintPriorities[priority]; !ok {
		details["priority"] = "must be Low, Medium, High or Critical"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid complaint payload", details)
	}

	now := s.clock()
	code, err := s.nextComplaintCode(ctx, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	complaint := &domain.Complaint{
		Code:           code,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		CustomerEmail:  input.CustomerEmail,
		IssueType:      input.IssueType,
		Description:    input.Description,
		Status:         domain.ComplaintStatusOpen,
		Priority:       priority,
		Location:       input.Location,
		GPSCoordinates: input.GPSCoordinates,
		CreatedByID:    creator.ID,
		Attachments:    input.Attachments,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventComplaintCreated, complaint.ID, creator, events.ComplaintCreatedPayload{
		Code:         complaint.Code,
		IssueType:    complaint.IssueType,
		Priority:     complaint.Priority,
		CustomerName: complaint.CustomerName,
	})
	return complaint, nil
}

// GetComplaint loads a complaint by id.
func (s *ComplaintService) GetComplaint(ctx context.Context, id int64) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// ListComplaints returns a filtered page plus the matching total.
func (s *ComplaintService) ListComplaints(ctx context.Context, filter repository.ComplaintFilter) (*ComplaintPage, error) {
	items, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.complaints.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ComplaintPage{Items: items, Total: total}, nil
}

// UpdateComplaint applies a patch. Moving to Resolved stamps the
// resolution time exactly once.
func (s *ComplaintService) UpdateComplaint(ctx context.Context, actor *domain.StaffMember, id int64, patch ComplaintPatch) (*domain.Complaint, error) {
	complaint, err := s.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	if patch.Status != nil {
		if _, ok := validComplaintStatuses[*patch.Status]; !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*patch.Status)})
		}
		complaint.Status = *patch.Status
		if *patch.Status == domain.ComplaintStatusResolved && oldStatus != domain.ComplaintStatusResolved {
			resolvedAt := s.clock()
			complaint.ResolvedAt = &resolvedAt
		}
	}
	if patch.Priority != nil {
		if _, ok := validComplaintPriorities[*patch.Priority]; !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(*patch.Priority)})
		}
		complaint.Priority = *patch.Priority
	}
	if patch.AssignedToID != nil {
		if _, err := s.staff.GetByID(ctx, *patch.AssignedToID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("staff member", map[string]any{"id": *patch.AssignedToID})
			}
			return nil, apperrors.MapError(err)
		}
		complaint.AssignedToID = patch.AssignedToID
	}
	if patch.Description != nil {
		complaint.Description = *patch.Description
	}
	if patch.Location != nil {
		complaint.Location = patch.Location
	}
	if patch.GPSCoordinates != nil {
		complaint.GPSCoordinates = patch.GPSCoordinates
	}
	if patch.Attachments != nil {
		complaint.Attachments = patch.Attachments
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	if patch.Status != nil && complaint.Status != oldStatus {
		s.publish(ctx, events.EventComplaintStatusChanged, complaint.ID, actor, events.ComplaintStatusChangedPayload{
			Code:      complaint.Code,
			OldStatus: oldStatus,
			NewStatus: complaint.Status,
		})
	}
	return complaint, nil
}

// EscalateComplaint raises the escalation level by one. Level 1 routes to
// the first supervisor, level 2 to the first admin; when no member with the
// target role exists the assignment is left as is.
func (s *ComplaintService) EscalateComplaint(ctx context.Context, actor *domain.StaffMember, id int64, reason string) (*domain.Complaint, error) {
	complaint, err := s.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.EscalationLevel >= domain.MaxEscalationLevel {
		return nil, apperrors.NewConflict("complaint already at maximum escalation level",
			map[string]any{"escalation_level": complaint.EscalationLevel})
	}

	complaint.EscalationLevel++
	escalatedAt := s.clock()
	complaint.EscalatedAt = &escalatedAt

	targetRole := domain.StaffRoleSupervisor
	if complaint.EscalationLevel == domain.MaxEscalationLevel {
		targetRole = domain.StaffRoleAdmin
	}
	assignee, err := s.staff.FirstByRole(ctx, targetRole)
	switch {
	case err == nil:
		complaint.AssignedToID = &assignee.ID
	case errors.Is(err, pgx.ErrNoRows):
		// nobody in the target role: keep the current assignment
	default:
		return nil, apperrors.MapError(err)
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventComplaintEscalated, complaint.ID, actor, events.ComplaintEscalatedPayload{
		Code:         complaint.Code,
		Level:        complaint.EscalationLevel,
		AssignedToID: complaint.AssignedToID,
		Reason:       reason,
	})
	return complaint, nil
}

// SubmitFeedback records customer satisfaction and/or feedback text against
// a complaint code. The caller is not authenticated, so the lookup is by
// public code. Both fields are optional; an absent one leaves the stored
// value untouched.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, code string, satisfaction *int, feedback *string) (*domain.Complaint, error) {
	if satisfaction != nil && (*satisfaction < 1 || *satisfaction > 5) {
		return nil, apperrors.NewValidationError("satisfaction must be between 1 and 5",
			map[string]any{"satisfaction": *satisfaction})
	}
	complaint, err := s.complaints.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"code": code})
		}
		return nil, apperrors.MapError(err)
	}

	if satisfaction != nil {
		complaint.CustomerSatisfaction = satisfaction
	}
	if feedback != nil {
		complaint.CustomerFeedback = feedback
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	payload := events.ComplaintFeedbackSubmittedPayload{Code: complaint.Code}
	if satisfaction != nil {
		payload.Satisfaction = *satisfaction
	}
	s.publish(ctx, events.EventComplaintFeedbackSubmitted, complaint.ID, nil, payload)
	return complaint, nil
}

// OverdueComplaints lists unescalated Open or In Progress complaints older
// than the overdue cutoff.
func (s *ComplaintService) OverdueComplaints(ctx context.Context) ([]domain.Complaint, error) {
	cutoff := s.clock().Add(-OverdueCutoff)
	items, err := s.complaints.ListOverdue(ctx, cutoff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ComplaintStats is a quick operational snapshot.
type ComplaintStats struct {
	Total              int
	ByStatus           map[domain.ComplaintStatus]int
	HighPriorityOpen   int
	Escalated          int
	TodayResolved      int
	AvgResolutionHours float64
}

// Stats summarizes the current complaint workload.
func (s *ComplaintService) Stats(ctx context.Context) (*ComplaintStats, error) {
	byStatus, err := s.complaints.StatusCounts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total := 0
	for _, count := range byStatus {
		total += count
	}
	highOpen, err := s.complaints.CountHighPriorityOpen(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	escalated, err := s.complaints.CountEscalated(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	now := s.clock()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayResolved, err := s.complaints.CountResolvedBetween(ctx, midnight, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avgHours, err := s.complaints.AvgResolutionHours(ctx, nil, nil)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ComplaintStats{
		Total:              total,
		ByStatus:           byStatus,
		HighPriorityOpen:   highOpen,
		Escalated:          escalated,
		TodayResolved:      todayResolved,
		AvgResolutionHours: avgHours,
	}, nil
}

func (s *ComplaintService) publish(ctx context.Context, eventType events.EventType, entityID int64, actor *domain.StaffMember, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: s.clock(),
		Payload:   payload,
	}
	if actor != nil {
		event.Actor = events.Actor{StaffID: actor.ID, Name: actor.Name}
	}
	_ = s.dispatcher.Publish(ctx, event)
}
