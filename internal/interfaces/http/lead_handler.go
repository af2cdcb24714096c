package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/usecase"
)

// LeadHandler CRUD de leads y acciones manuales de automatización.
type LeadHandler struct {
	uc           *usecase.LeadUseCase
	appointments *usecase.AppointmentUseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *usecase.LeadUseCase, appointments *usecase.AppointmentUseCase) *LeadHandler {
	return &LeadHandler{uc: uc, appointments: appointments}
}

// List godoc
// @Summary      Listar leads da empresa (mais recentes primeiro)
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.LeadResponse
// @Router       /api/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do lead"
// @Success      200  {object}  dto.LeadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [get]
func (h *LeadHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Criar lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateLeadRequest  true  "nome obrigatório; estagio_lead padrão oportunidade"
// @Success      201   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar valor, observação, veículo ou e-mail do lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID do lead"
// @Param        body  body  dto.UpdateLeadRequest  true  "campos a alterar"
// @Success      200   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [patch]
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Excluir lead
// @Tags         leads
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do lead"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [delete]
func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMany godoc
// @Summary      Excluir vários leads
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BulkLeadsRequest  true  "ids"
// @Success      200   {object}  dto.BulkLeadsResponse
// @Router       /api/leads/excluir [post]
func (h *LeadHandler) DeleteMany(c *fiber.Ctx) error {
	var in dto.BulkLeadsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.uc.DeleteMany(c.UserContext(), in.IDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bulkResponse(n, len(in.IDs), "excluídos"))
}

// History godoc
// @Summary      Histórico de estágios do lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do lead"
// @Success      200  {array}  dto.StageChangeResponse
// @Router       /api/leads/{id}/historico [get]
func (h *LeadHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Appointments godoc
// @Summary      Agendamentos do lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do lead"
// @Success      200  {array}  dto.AppointmentResponse
// @Router       /api/leads/{id}/agendamentos [get]
func (h *LeadHandler) Appointments(c *fiber.Ctx) error {
	out, err := h.appointments.ListByLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CommercialSummary godoc
// @Summary      Solicitar resumo comercial à automação
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do lead"
// @Success      200  {object}  dto.ActionResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/leads/{id}/resumo-comercial [post]
func (h *LeadHandler) CommercialSummary(c *fiber.Ctx) error {
	if err := h.uc.SendCommercialSummary(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ActionResponse{Success: true, Message: "Resumo comercial solicitado com sucesso."})
}

// FollowUp godoc
// @Summary      Enviar follow-up para vários leads
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BulkLeadsRequest  true  "ids"
// @Success      200   {object}  dto.BulkLeadsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/leads/follow-up [post]
func (h *LeadHandler) FollowUp(c *fiber.Ctx) error {
	var in dto.BulkLeadsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.uc.SendFollowUp(c.UserContext(), in.IDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bulkResponse(n, len(in.IDs), "enviados para follow-up"))
}

// Message godoc
// @Summary      Enviar mensagem para vários leads
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BulkLeadsRequest  true  "ids, mensagem"
// @Success      200   {object}  dto.BulkLeadsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/leads/mensagem [post]
func (h *LeadHandler) Message(c *fiber.Ctx) error {
	var in dto.BulkLeadsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.uc.SendMessage(c.UserContext(), in.IDs, in.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bulkResponse(n, len(in.IDs), "com mensagem enviada"))
}

// bulkResponse success solo si todos se procesaron.
func bulkResponse(processed, total int, verb string) dto.BulkLeadsResponse {
	return dto.BulkLeadsResponse{
		Success:   processed == total,
		Message:   fmt.Sprintf("%d de %d leads %s.", processed, total, verb),
		Processed: processed,
		Total:     total,
	}
}
