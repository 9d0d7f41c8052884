package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Entries     *inventory.StockEntryUseCase
	Levels      *inventory.StockLevelUseCase
	Engine      *inventory.DeductionEngine
	Ledger      *inventory.LedgerUseCase
	Restock     *inventory.ReplenishmentUseCase
	Checker     *inventory.AvailabilityChecker
	Fulfillment *inventory.FulfillmentUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole())

	// Inventario
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Entries, deps.Levels, deps.Engine, deps.Ledger, deps.Restock)
	inv.Get("/stock-levels", invHandler.StockLevels)
	inv.Get("/stock-levels/:ingredientId", invHandler.StockLevel)
	inv.Get("/ingredients/:ingredientId/entries", invHandler.ListEntries)
	inv.Get("/ingredients/:ingredientId/ledger/verify", invHandler.VerifyLedger)
	inv.Get("/transactions", invHandler.ListTransactions)
	inv.Get("/report.pdf", invHandler.Report)
	inv.Get("/replenishment", RequireRole(jwt.RoleAdmin, jwt.RoleCocina), invHandler.Replenishment)
	inv.Post("/purchases", RequireRole(jwt.RoleAdmin, jwt.RoleCocina), invHandler.AddPurchase)
	inv.Post("/deductions", RequireRole(jwt.RoleAdmin, jwt.RoleCocina), invHandler.Deduct)
	inv.Patch("/entries/:id", RequireRole(jwt.RoleAdmin), invHandler.SetRemaining)
	inv.Delete("/entries/:id", RequireRole(jwt.RoleAdmin), invHandler.DeleteEntry)

	// Carta
	menu := api.Group("/menu")
	menuHandler := NewMenuHandler(deps.Checker)
	menu.Get("/availability", menuHandler.ListAvailability)
	menu.Get("/items/:id/availability", menuHandler.CheckItem)

	// Pedidos
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Fulfillment)
	orders.Post("/fulfill", RequireRole(jwt.RoleAdmin, jwt.RoleCajero), orderHandler.Fulfill)
}
