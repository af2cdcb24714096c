package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/crm-veiculos/internal/application/analytics"
	"github.com/jhoicas/crm-veiculos/internal/application/dto"
)

// DashboardHandler maneja los endpoints del dashboard comercial.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de leads sin filtros.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetDashboard dashboard completo.
// GET /api/dashboard?vendedor=&origem=&periodo=7d|30d|90d
//
// Un periodo desconocido equivale a 30d; sin periodo no hay límite de fecha.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	var f dto.DashboardFilter
	if err := c.QueryParser(&f); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetDashboard(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetReport PDF del dashboard con los mismos filtros.
// GET /api/dashboard/report.pdf
func (h *DashboardHandler) GetReport(c *fiber.Ctx) error {
	var f dto.DashboardFilter
	if err := c.QueryParser(&f); err != nil {
		return respondError(c, err)
	}
	pdf, err := h.uc.GetReport(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="relatorio-comercial.pdf"`)
	return c.Send(pdf)
}
