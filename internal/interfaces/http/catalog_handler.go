package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/usecase"
)

// VehicleHandler estoque de vehículos.
type VehicleHandler struct {
	uc *usecase.VehicleUseCase
}

// NewVehicleHandler construye el handler.
func NewVehicleHandler(uc *usecase.VehicleUseCase) *VehicleHandler {
	return &VehicleHandler{uc: uc}
}

// List godoc
// @Summary      Listar estoque
// @Tags         estoque
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.VehicleResponse
// @Router       /api/estoque [get]
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Adicionar veículo
// @Tags         estoque
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateVehicleRequest  true  "marca, modelo, ano, cor, combustivel, quilometragem"
// @Success      201   {object}  dto.VehicleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/estoque [post]
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MarkSold godoc
// @Summary      Marcar veículo como vendido
// @Tags         estoque
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do veículo"
// @Success      200  {object}  dto.ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/estoque/{id}/vendido [post]
func (h *VehicleHandler) MarkSold(c *fiber.Ctx) error {
	if err := h.uc.MarkSold(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ActionResponse{Success: true, Message: "Veículo marcado como vendido."})
}

// Delete godoc
// @Summary      Remover veículo do estoque
// @Tags         estoque
// @Security     BearerAuth
// @Param        id   path  string  true  "ID do veículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/estoque/{id} [delete]
func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SalespersonHandler vendedores asignables a agendamientos.
type SalespersonHandler struct {
	uc *usecase.SalespersonUseCase
}

// NewSalespersonHandler construye el handler.
func NewSalespersonHandler(uc *usecase.SalespersonUseCase) *SalespersonHandler {
	return &SalespersonHandler{uc: uc}
}

// List godoc
// @Summary      Listar vendedores
// @Tags         vendedores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.SalespersonResponse
// @Router       /api/vendedores [get]
func (h *SalespersonHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Cadastrar vendedor (administrador ou gestor)
// @Tags         vendedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSalespersonRequest  true  "nome, telefone, cargo"
// @Success      201   {object}  dto.SalespersonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/vendedores [post]
func (h *SalespersonHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalespersonRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
