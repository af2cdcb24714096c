package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/usecase"
)

// MemberHandler gestión de miembros de la empresa (solo administrador).
type MemberHandler struct {
	uc *usecase.MemberUseCase
}

// NewMemberHandler construye el handler.
func NewMemberHandler(uc *usecase.MemberUseCase) *MemberHandler {
	return &MemberHandler{uc: uc}
}

// List godoc
// @Summary      Listar membros
// @Tags         membros
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/membros [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Adicionar membro
// @Tags         membros
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AddMemberRequest  true  "nome_usuario, email, senha, telefone, status, cargo"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/membros [post]
func (h *MemberHandler) Add(c *fiber.Ctx) error {
	var in dto.AddMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Add(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus godoc
// @Summary      Alterar status do membro
// @Tags         membros
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                         true  "ID do membro"
// @Param        body  body  dto.UpdateMemberStatusRequest  true  "status"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/membros/{id}/status [patch]
func (h *MemberHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateMemberStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateRole godoc
// @Summary      Alterar cargo do membro
// @Tags         membros
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID do membro"
// @Param        body  body  dto.UpdateMemberRoleRequest  true  "cargo"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/membros/{id}/cargo [patch]
func (h *MemberHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.UpdateMemberRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateRole(c.UserContext(), c.Params("id"), in.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Remover membro
// @Tags         membros
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do membro"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/membros/{id} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
