package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-service/internal/api/http/handlers"
	"github.com/spec-kit/workforce-service/internal/auth"
	"github.com/spec-kit/workforce-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Complaints     *handlers.ComplaintsHandler
	Workforce      *handlers.WorkforceHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	staff := api.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	staff.Post("/", cfg.Staff.CreateStaff)
	staff.Get("/", cfg.Staff.ListStaff)
	staff.Get("/:id", cfg.Staff.GetStaff)
	staff.Put("/:id", cfg.Staff.UpdateStaff)
	staff.Post("/:id/password/reset", cfg.Staff.ResetPassword)

	complaints := api.Group("/complaints")
	// customers submit feedback without a session, addressed by complaint code
	complaints.Post("/feedback", cfg.Complaints.SubmitFeedback)

	protected := complaints.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/", cfg.Complaints.CreateComplaint)
	protected.Get("/", cfg.Complaints.ListComplaints)
	protected.Get("/stats", cfg.Complaints.Stats)
	protected.Get("/overdue", auth.RequireRole(domain.StaffRoleSupervisor, domain.StaffRoleAdmin), cfg.Complaints.ListOverdue)
	protected.Get("/:id", cfg.Complaints.GetComplaint)
	protected.Put("/:id", cfg.Complaints.UpdateComplaint)
	protected.Post("/:id/escalate", cfg.Complaints.EscalateComplaint)

	workforce := api.Group("/workforce", cfg.AuthMiddleware.Handle)
	workforce.Post("/check-in", cfg.Workforce.CheckIn)
	workforce.Post("/check-out", cfg.Workforce.CheckOut)
	workforce.Get("/my-schedule", cfg.Workforce.MySchedule)
	workforce.Get("/stats/daily", cfg.Workforce.DailyStats)

	supervised := workforce.Group("", auth.RequireRole(domain.StaffRoleSupervisor, domain.StaffRoleAdmin))
	supervised.Post("/", cfg.Workforce.CreateEntry)
	supervised.Get("/", cfg.Workforce.ListEntries)
	supervised.Get("/stats/departments", cfg.Workforce.DepartmentStats)
	supervised.Get("/:id", cfg.Workforce.GetEntry)
	supervised.Put("/:id", cfg.Workforce.UpdateEntry)

	reports := api.Group("/reports", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.StaffRoleSupervisor, domain.StaffRoleAdmin))
	reports.Get("/dashboard", cfg.Reports.Dashboard)
	reports.Get("/complaints/summary", cfg.Reports.ComplaintSummary)
	reports.Get("/complaints/export", cfg.Reports.ExportComplaints)
	reports.Get("/workforce/summary", cfg.Reports.WorkforceSummary)
	reports.Get("/workforce/export", cfg.Reports.ExportWorkforce)
	reports.Get("/performance", cfg.Reports.Performance)
}
