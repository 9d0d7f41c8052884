package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
)

// MenuHandler disponibilidad de platos según el stock (protegido).
type MenuHandler struct {
	checker *inventory.AvailabilityChecker
}

// NewMenuHandler construye el handler.
func NewMenuHandler(checker *inventory.AvailabilityChecker) *MenuHandler {
	return &MenuHandler{checker: checker}
}

// ListAvailability godoc
// @Summary      Disponibilidad de la carta
// @Description  Cada plato con "available" para una unidad y el máximo de porciones servibles.
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MenuAvailabilityDTO
// @Router       /api/menu/availability [get]
func (h *MenuHandler) ListAvailability(c *fiber.Ctx) error {
	list, err := h.checker.ListMenu(c.Context())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(list)
}

// CheckItem godoc
// @Summary      ¿Se puede servir el plato?
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del plato"
// @Param        quantity  query  int     false  "Porciones (por defecto 1)"
// @Success      200  {object}  dto.MenuAvailabilityDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menu/items/{id}/availability [get]
func (h *MenuHandler) CheckItem(c *fiber.Ctx) error {
	quantity := c.QueryInt("quantity", 1)
	if quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser mayor que cero"})
	}
	res, err := h.checker.Check(c.Context(), c.Params("id"), quantity)
	if err != nil {
		return writeError(c, err, "plato no encontrado")
	}
	return c.JSON(res)
}
