package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-service/internal/api/dto"
	"github.com/spec-kit/workforce-service/internal/service"
)

// ReportsHandler serves dashboards, summaries and exports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Dashboard GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.BuildDashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(dashboard)})
}

// ComplaintSummary GET /reports/complaints/summary.
func (h *ReportsHandler) ComplaintSummary(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	summary, err := h.service.BuildComplaintSummary(c.Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintSummaryResponse(summary)})
}

// WorkforceSummary GET /reports/workforce/summary.
func (h *ReportsHandler) WorkforceSummary(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	summary, err := h.service.BuildWorkforceSummary(c.Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkforceSummaryResponse(summary)})
}

// Performance GET /reports/performance.
func (h *ReportsHandler) Performance(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	performanceReport, err := h.service.BuildPerformance(c.Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPerformanceReportResponse(performanceReport)})
}

// ExportComplaints GET /reports/complaints/export.
func (h *ReportsHandler) ExportComplaints(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	export, err := h.service.ExportComplaints(c.Context(), c.Query("format", "json"), start, end)
	if err != nil {
		return err
	}
	return sendExport(c, export)
}

// ExportWorkforce GET /reports/workforce/export.
func (h *ReportsHandler) ExportWorkforce(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	export, err := h.service.ExportWorkforce(c.Context(), c.Query("format", "json"), start, end)
	if err != nil {
		return err
	}
	return sendExport(c, export)
}

func sendExport(c *fiber.Ctx, export *service.Export) error {
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Send(export.Data)
}
