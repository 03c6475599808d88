package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-service/internal/api/dto"
	"github.com/spec-kit/workforce-service/internal/auth"
	"github.com/spec-kit/workforce-service/internal/domain"
	"github.com/spec-kit/workforce-service/internal/repository"
	"github.com/spec-kit/workforce-service/internal/service"
	apperrors "github.com/spec-kit/workforce-service/pkg/util/errorutil"
)

// WorkforceHandler manages shift entry and attendance endpoints.
type WorkforceHandler struct {
	service *service.WorkforceService
}

// NewWorkforceHandler constructs handler.
func NewWorkforceHandler(workforceService *service.WorkforceService) *WorkforceHandler {
	return &WorkforceHandler{service: workforceService}
}

// CreateEntry POST /workforce.
func (h *WorkforceHandler) CreateEntry(c *fiber.Ctx) error {
	var req dto.CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.service.CreateEntry(c.Context(), service.EntryCreateInput{
		StaffID:         req.StaffID,
		ShiftDate:       req.ShiftDate,
		CheckIn:         req.CheckInTime,
		CheckOut:        req.CheckOutTime,
		Status:          req.Status,
		AssignedTasks:   req.AssignedTasks,
		WorkLocation:    req.WorkLocation,
		WorkAreaGPS:     req.WorkAreaGPS,
		Notes:           req.Notes,
		SupervisorNotes: req.SupervisorNotes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEntryResponse(entry)})
}

// ListEntries GET /workforce.
func (h *WorkforceHandler) ListEntries(c *fiber.Ctx) error {
	page, perPage := parsePagination(c, 20, 100)

	filter := repository.EntryFilter{Limit: perPage, Offset: (page - 1) * perPage}
	date, err := parseDateQuery(c, "date")
	if err != nil {
		return err
	}
	filter.Date = date
	if status := c.Query("status"); status != "" {
		attendanceStatus := domain.AttendanceStatus(status)
		filter.Status = &attendanceStatus
	}
	if staffID := c.QueryInt("staff_id"); staffID > 0 {
		id := int64(staffID)
		filter.StaffID = &id
	}

	result, err := h.service.ListEntries(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.EntryResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewEntryResponse(&result.Items[i]))
	}
	return c.JSON(paginated("entries", items, result.Total, page, perPage))
}

// GetEntry GET /workforce/:id.
func (h *WorkforceHandler) GetEntry(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.service.GetEntry(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEntryResponse(entry)})
}

// UpdateEntry PUT /workforce/:id.
func (h *WorkforceHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.service.UpdateEntry(c.Context(), id, service.EntryPatch{
		CheckIn:         req.CheckInTime,
		CheckOut:        req.CheckOutTime,
		Status:          req.Status,
		AssignedTasks:   req.AssignedTasks,
		CompletedTasks:  req.CompletedTasks,
		WorkLocation:    req.WorkLocation,
		WorkAreaGPS:     req.WorkAreaGPS,
		Notes:           req.Notes,
		SupervisorNotes: req.SupervisorNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEntryResponse(entry)})
}

// CheckIn POST /workforce/check-in.
func (h *WorkforceHandler) CheckIn(c *fiber.Ctx) error {
	staff, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.service.CheckIn(c.Context(), staff, service.CheckInInput{
		Location: req.Location,
		GPS:      req.GPS,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEntryResponse(entry)})
}

// CheckOut POST /workforce/check-out.
func (h *WorkforceHandler) CheckOut(c *fiber.Ctx) error {
	staff, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CheckOutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.service.CheckOut(c.Context(), staff, service.CheckOutInput{
		Location:       req.Location,
		GPS:            req.GPS,
		CompletedTasks: req.CompletedTasks,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEntryResponse(entry)})
}

// DailyStats GET /workforce/stats/daily.
func (h *WorkforceHandler) DailyStats(c *fiber.Ctx) error {
	date, err := parseDateQuery(c, "date")
	if err != nil {
		return err
	}
	stats, err := h.service.DailyAttendanceStats(c.Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDailyStatsResponse(stats)})
}

// DepartmentStats GET /workforce/stats/departments.
func (h *WorkforceHandler) DepartmentStats(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}
	to := time.Now()
	if end != nil {
		to = *end
	}
	from := to.AddDate(0, 0, -30)
	if start != nil {
		from = *start
	}

	stats, err := h.service.DepartmentAttendanceStats(c.Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentStatsResponses(stats)})
}

// MySchedule GET /workforce/my-schedule.
func (h *WorkforceHandler) MySchedule(c *fiber.Ctx) error {
	staff, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	entries, err := h.service.MySchedule(c.Context(), staff.ID, start, end)
	if err != nil {
		return err
	}
	items := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
