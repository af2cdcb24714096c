package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain"
)

// respondError traduce un error de aplicación a status + dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Msg})
	case errors.Is(err, domain.ErrInvalidStage):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_STAGE", Message: "Estágio inválido."})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Dados inválidos."})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Sessão inválida."})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "Você não tem permissão para esta ação."})
	case errors.Is(err, domain.ErrSelfDelete):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SELF_DELETE", Message: "Você não pode remover a si mesmo."})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "Este e-mail já está cadastrado."})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Registro não encontrado."})
	case errors.Is(err, domain.ErrNotification):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "NOTIFICATION_ERROR", Message: "Falha ao enviar para a automação."})
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE_ERROR", Message: "Falha ao salvar. Tente novamente."})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Erro interno."})
	}
}

// respondTransitionError variante para transiciones de etapa: el cliente
// (tablero optimista) decide si reintenta con retryable.
func respondTransitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidStage):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.TransitionResponse{Code: "INVALID_STAGE", Message: "Estágio inválido."})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.TransitionResponse{Code: "NOT_FOUND", Message: "Registro não encontrado."})
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.TransitionResponse{Code: "PERSISTENCE_ERROR", Message: "Falha ao salvar. Tente novamente.", Retryable: true})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.TransitionResponse{Code: "UNAUTHORIZED", Message: "Sessão inválida."})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.TransitionResponse{Code: "FORBIDDEN", Message: "Você não tem permissão para esta ação."})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.TransitionResponse{Code: "INTERNAL", Message: "Erro interno.", Retryable: true})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "Corpo da requisição inválido."})
}
