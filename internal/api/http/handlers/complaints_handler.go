package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-service/internal/api/dto"
	"github.com/spec-kit/workforce-service/internal/auth"
	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/repository"
	"github.com/spec-kit/workforce-service/internal/service"
	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// CreateComplaint POST /complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	staff, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.CreateComplaint(c.Context(), staff, service.ComplaintCreateInput{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		IssueType:      req.IssueType,
		Description:    req.Description,
		Priority:       req.Priority,
		Location:       req.Location,
		GPSCoordinates: req.GPSCoordinates,
		Attachments:    req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListComplaints GET /complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	page, perPage := parsePagination(c, 20, 100)

	filter := repository.ComplaintFilter{Limit: perPage, Offset: (page - 1) * perPage}
	if status := c.Query("status"); status != "" {
		complaintStatus := domain.ComplaintStatus(status)
		filter.Status = &complaintStatus
	}
	if priority := c.Query("priority"); priority != "" {
		complaintPriority := domain.ComplaintPriority(priority)
		filter.Priority = &complaintPriority
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	result, err := h.service.ListComplaints(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewComplaintResponse(&result.Items[i]))
	}
	return c.JSON(paginated("complaints", items, result.Total, page, perPage))
}

// GetComplaint GET /complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	complaint, err := h.service.GetComplaint(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// UpdateComplaint PUT /complaints/:id.
func (h *ComplaintsHandler) UpdateComplaint(c *fiber.Ctx) error {
	staff, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.UpdateComplaint(c.Context(), staff, id, service.ComplaintPatch{
		Status:         req.Status,
		Priority:       req.Priority,
		AssignedToID:   req.AssignedToID,
		Description:    req.Description,
		Location:       req.Location,
		GPSCoordinates: req.GPSCoordinates,
		Attachments:    req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// EscalateComplaint POST /complaints/:id/escalate.
func (h *ComplaintsHandler) EscalateComplaint(c *fiber.Ctx) error {
	staff, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EscalateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.EscalateComplaint(c.Context(), staff, id, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// SubmitFeedback POST /complaints/feedback. Unauthenticated, customers
// reference their complaint by public code.
func (h *ComplaintsHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Code == "" {
		return apperrors.NewValidationError("code is required", nil)
	}

	complaint, err := h.service.SubmitFeedback(c.Context(), req.Code, req.Satisfaction, req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListOverdue GET /complaints/overdue.
func (h *ComplaintsHandler) ListOverdue(c *fiber.Ctx) error {
	complaints, err := h.service.OverdueComplaints(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /complaints/stats.
func (h *ComplaintsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintStatsResponse(stats)})
}
