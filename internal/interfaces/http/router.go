package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/crm-veiculos/internal/application/analytics"
	"github.com/jhoicas/crm-veiculos/internal/application/auth"
	"github.com/jhoicas/crm-veiculos/internal/application/pipeline"
	"github.com/jhoicas/crm-veiculos/internal/application/usecase"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Pipeline      *pipeline.Service
	LeadUC        *usecase.LeadUseCase
	AppointmentUC *usecase.AppointmentUseCase
	VehicleUC     *usecase.VehicleUseCase
	SalespersonUC *usecase.SalespersonUseCase
	MemberUC      *usecase.MemberUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string

	// Opcionales: sin Metrics no se registra el middleware ni /metrics.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		gatherer := deps.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	transitions := NewTransitionHandler(deps.Pipeline)
	api.Get("/stages", transitions.Stages)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/me", authHandler.Me)
	protected.Put("/me", authHandler.UpdateProfile)

	// Leads
	leads := protected.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC, deps.AppointmentUC)
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Post("/excluir", leadHandler.DeleteMany)
	leads.Post("/follow-up", leadHandler.FollowUp)
	leads.Post("/mensagem", leadHandler.Message)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Patch("/:id", leadHandler.Update)
	leads.Delete("/:id", leadHandler.Delete)
	leads.Patch("/:id/estagio", transitions.MoveLead)
	leads.Get("/:id/historico", leadHandler.History)
	leads.Get("/:id/agendamentos", leadHandler.Appointments)
	leads.Post("/:id/resumo-comercial", leadHandler.CommercialSummary)

	// Agendamentos
	appointments := protected.Group("/agendamentos")
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	appointments.Get("/", appointmentHandler.List)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Delete("/:id", appointmentHandler.Delete)
	appointments.Patch("/:id/status", transitions.MoveAppointment)

	// Estoque
	vehicles := protected.Group("/estoque")
	vehicleHandler := NewVehicleHandler(deps.VehicleUC)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Post("/:id/vendido", vehicleHandler.MarkSold)
	vehicles.Delete("/:id", vehicleHandler.Delete)

	// Vendedores
	salespeople := protected.Group("/vendedores")
	salespersonHandler := NewSalespersonHandler(deps.SalespersonUC)
	salespeople.Get("/", salespersonHandler.List)
	salespeople.Post("/", salespersonHandler.Create)

	// Membros (solo administrador)
	members := protected.Group("/membros", RequireRole(string(entity.RoleAdmin)))
	memberHandler := NewMemberHandler(deps.MemberUC)
	members.Get("/", memberHandler.List)
	members.Post("/", memberHandler.Add)
	members.Patch("/:id/status", memberHandler.UpdateStatus)
	members.Patch("/:id/cargo", memberHandler.UpdateRole)
	members.Delete("/:id", memberHandler.Delete)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/", dashboardHandler.GetDashboard)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/report.pdf", dashboardHandler.GetReport)
}
