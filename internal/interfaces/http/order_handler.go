package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
)

// OrderHandler descuento de inventario por pedido (protegido).
type OrderHandler struct {
	uc *inventory.FulfillmentUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *inventory.FulfillmentUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Fulfill godoc
// @Summary      Descontar pedido
// @Description  Expande las recetas, suma la demanda por insumo y descuenta FIFO.
// @Description  Con política warn responde 200 con "warnings"; con block responde 409 y no descuenta nada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FulfillOrderRequest  true  "order_number (opcional), lines[menu_item_id, quantity]"
// @Success      200   {object}  dto.FulfillmentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      500   {object}  dto.PartialOrderResponse
// @Router       /api/orders/fulfill [post]
func (h *OrderHandler) Fulfill(c *fiber.Ctx) error {
	var in dto.FulfillOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.FulfillFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err, "plato o insumo no encontrado")
	}
	return c.JSON(inventory.ToFulfillmentDTO(res))
}
