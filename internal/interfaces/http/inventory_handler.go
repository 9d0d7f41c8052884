package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
)

// InventoryHandler lotes, niveles, descuentos manuales e historial (protegido).
type InventoryHandler struct {
	entries *inventory.StockEntryUseCase
	levels  *inventory.StockLevelUseCase
	engine  *inventory.DeductionEngine
	ledger  *inventory.LedgerUseCase
	restock *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	entries *inventory.StockEntryUseCase,
	levels *inventory.StockLevelUseCase,
	engine *inventory.DeductionEngine,
	ledger *inventory.LedgerUseCase,
	restock *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{entries: entries, levels: levels, engine: engine, ledger: ledger, restock: restock}
}

// AddPurchase godoc
// @Summary      Registrar compra (lote)
// @Description  Crea un lote con restante = contenedores × tamaño y agrega una fila "purchase" al libro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddBatchRequest  true  "ingredient_id, container_type, container_size, size_unit (g|mL opcional), container_count, container_price, purchase_date, supplier"
// @Success      201   {object}  dto.StockEntryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchases [post]
func (h *InventoryHandler) AddPurchase(c *fiber.Ctx) error {
	var in dto.AddBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.entries.AddBatchFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err, "insumo no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToEntryDTO(entry))
}

// ListEntries godoc
// @Summary      Lotes de un insumo
// @Description  Orden FIFO: fecha de compra ascendente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        ingredientId  path  string  true  "ID del insumo"
// @Success      200  {array}   dto.StockEntryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/ingredients/{ingredientId}/entries [get]
func (h *InventoryHandler) ListEntries(c *fiber.Ctx) error {
	list, err := h.entries.ListByIngredient(c.Context(), c.Params("ingredientId"))
	if err != nil {
		return writeError(c, err, "insumo no encontrado")
	}
	out := make([]dto.StockEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, inventory.ToEntryDTO(e))
	}
	return c.JSON(out)
}

// SetRemaining godoc
// @Summary      Corregir restante de un lote
// @Description  Valores negativos se llevan a cero. Agrega una fila "adjustment" si cambia.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del lote"
// @Param        body  body  dto.SetRemainingRequest  true  "remaining_quantity"
// @Success      200   {object}  dto.StockEntryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries/{id} [patch]
func (h *InventoryHandler) SetRemaining(c *fiber.Ctx) error {
	var in dto.SetRemainingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.entries.SetRemaining(c.Context(), c.Params("id"), in.RemainingQuantity)
	if err != nil {
		return writeError(c, err, "lote no encontrado")
	}
	return c.JSON(inventory.ToEntryDTO(entry))
}

// DeleteEntry godoc
// @Summary      Eliminar lote
// @Tags         inventory
// @Security     Bearer
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/entries/{id} [delete]
func (h *InventoryHandler) DeleteEntry(c *fiber.Ctx) error {
	if err := h.entries.DeleteEntry(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err, "lote no encontrado")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Deduct godoc
// @Summary      Descuento manual FIFO
// @Description  Descuenta de los lotes más antiguos primero. Un faltante no es error: viene en "shortfall".
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductRequest  true  "ingredient_id, quantity, reference, notes"
// @Success      200   {object}  dto.DeductionDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/inventory/deductions [post]
func (h *InventoryHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.engine.Deduct(c.Context(), inventory.DeductInput{
		IngredientID: in.IngredientID,
		Quantity:     in.Quantity,
		Reference:    in.Reference,
		Notes:        in.Notes,
	})
	if err != nil {
		return writeError(c, err, "insumo no encontrado")
	}
	return c.JSON(inventory.ToDeductionDTO(res))
}

// StockLevels godoc
// @Summary      Niveles de stock por categoría
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.CategoryStockDTO
// @Router       /api/inventory/stock-levels [get]
func (h *InventoryHandler) StockLevels(c *fiber.Ctx) error {
	groups, err := h.levels.ListByCategory(c.Context())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(groups)
}

// Replenishment godoc
// @Summary      Lista de compras sugerida
// @Description  Insumos agotados o bajo el umbral, con cantidad sugerida y prioridad según el consumo de la última semana.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.restock.GenerateList(c.Context())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(list)
}

// StockLevel godoc
// @Summary      Nivel de stock de un insumo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        ingredientId  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.StockLevelDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-levels/{ingredientId} [get]
func (h *InventoryHandler) StockLevel(c *fiber.Ctx) error {
	level, err := h.levels.Totals(c.Context(), c.Params("ingredientId"))
	if err != nil {
		return writeError(c, err, "insumo no encontrado")
	}
	return c.JSON(level)
}

// Report godoc
// @Summary      Reporte PDF de valorización
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.levels.Report(c.Context())
	if err != nil {
		return writeError(c, err, "reporte no disponible")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario.pdf"`)
	return c.Send(pdf)
}

// ListTransactions godoc
// @Summary      Historial del libro
// @Description  Más reciente primero. Filtros opcionales por insumo, tipo y referencia.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        ingredient_id  query  string  false  "ID del insumo"
// @Param        type           query  string  false  "purchase | deduction | adjustment"
// @Param        reference      query  string  false  "Número de pedido"
// @Param        limit          query  int     false  "Máx 100"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionPageDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var q dto.TransactionQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page, err := h.ledger.ListTransactions(c.Context(), q)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(page)
}

// VerifyLedger godoc
// @Summary      Verificar libro de un insumo
// @Description  Reproduce las filas del libro y compara con la suma de restantes de los lotes.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        ingredientId  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.LedgerVerificationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/ingredients/{ingredientId}/ledger/verify [get]
func (h *InventoryHandler) VerifyLedger(c *fiber.Ctx) error {
	v, err := h.ledger.Verify(c.Context(), c.Params("ingredientId"))
	if err != nil {
		return writeError(c, err, "insumo no encontrado")
	}
	return c.JSON(v)
}
