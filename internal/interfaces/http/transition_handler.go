package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/pipeline"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// TransitionHandler expone el pipeline de etapas.
type TransitionHandler struct {
	svc *pipeline.Service
}

// NewTransitionHandler construye el handler.
func NewTransitionHandler(svc *pipeline.Service) *TransitionHandler {
	return &TransitionHandler{svc: svc}
}

// Stages godoc
// @Summary      Colunas dos quadros de leads e agendamentos
// @Tags         pipeline
// @Produce      json
// @Success      200  {object}  dto.StagesResponse
// @Router       /api/stages [get]
func (h *TransitionHandler) Stages(c *fiber.Ctx) error {
	return c.JSON(dto.StagesResponse{
		Leads:        stage.Leads.Options(),
		Appointments: stage.Appointments.Options(),
	})
}

// MoveLead godoc
// @Summary      Mover lead de estágio
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID do lead"
// @Param        body  body  dto.MoveLeadRequest  true  "estagio_lead"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      404   {object}  dto.TransitionResponse
// @Failure      422   {object}  dto.TransitionResponse
// @Failure      503   {object}  dto.TransitionResponse
// @Router       /api/leads/{id}/estagio [patch]
func (h *TransitionHandler) MoveLead(c *fiber.Ctx) error {
	var in dto.MoveLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.svc.MoveLead(c.UserContext(), c.Params("id"), in.Stage)
	if err != nil {
		return respondTransitionError(c, err)
	}
	return c.JSON(toTransitionResponse(res))
}

// MoveAppointment godoc
// @Summary      Mudar status do agendamento
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "ID do agendamento"
// @Param        body  body  dto.MoveAppointmentRequest  true  "status"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      404   {object}  dto.TransitionResponse
// @Failure      422   {object}  dto.TransitionResponse
// @Failure      503   {object}  dto.TransitionResponse
// @Router       /api/agendamentos/{id}/status [patch]
func (h *TransitionHandler) MoveAppointment(c *fiber.Ctx) error {
	var in dto.MoveAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.svc.MoveAppointment(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondTransitionError(c, err)
	}
	return c.JSON(toTransitionResponse(res))
}

func toTransitionResponse(r *pipeline.Result) dto.TransitionResponse {
	at := r.UpdatedAt
	return dto.TransitionResponse{
		Success:       true,
		Kind:          string(r.Kind),
		ID:            r.EntityID,
		From:          r.From,
		To:            r.To,
		UpdatedAt:     &at,
		AppointmentID: r.AppointmentID,
	}
}
