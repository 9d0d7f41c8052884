package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. notFound es el mensaje del 404.
func writeError(c *fiber.Ctx, err error, notFound string) error {
	var shortfall *inventory.ShortfallError
	var partial *inventory.PartialOrderError
	switch {
	case errors.As(err, &shortfall):
		return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
			Code:     "INSUFFICIENT_STOCK",
			Message:  "stock insuficiente, no se descontó nada",
			Warnings: inventory.ToWarningDTOs(shortfall.Warnings),
		})
	case errors.As(err, &partial):
		deductions := make([]dto.DeductionDTO, 0, len(partial.Committed))
		for _, r := range partial.Committed {
			deductions = append(deductions, inventory.ToDeductionDTO(r))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.PartialOrderResponse{
			Code:        "PARTIAL_ORDER",
			Message:     "el pedido quedó descontado a medias: " + partial.Err.Error(),
			OrderNumber: partial.OrderNumber,
			Deductions:  deductions,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound})
	case errors.Is(err, inventory.ErrDuplicateOrder):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ORDER", Message: "el pedido ya fue descontado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConsistencyFault):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CONSISTENCY_FAULT", Message: "el libro no se pudo escribir; la operación fallida se revirtió"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
