package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/lock"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Restaurante-api/internal/interfaces/http"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
)

const (
	pollo  = "ing-pollo"
	tinola = "menu-tinola"
)

// buildAPI arma la API completa sobre el almacén en memoria: un insumo y un plato
// que usa 0.5 kg por porción.
func buildAPI(t *testing.T, policy inventory.ShortfallPolicy) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	s.AddCategory(entity.Category{ID: "cat-carnes", Name: "Carnes"})
	s.AddIngredient(entity.Ingredient{ID: pollo, Name: "Pollo", Unit: entity.UnitKilogram, CategoryID: "cat-carnes"})
	s.AddMenuItem(entity.MenuItem{ID: tinola, Name: "Tinola", IsAvailable: true},
		entity.RecipeLine{IngredientID: pollo, QuantityNeeded: decimal.RequireFromString("0.5")},
	)

	ingRepo, entryRepo, txRepo, recipeRepo := s.Repositories()
	runner := memory.NewTxRunner(s)
	log := logger.Nop()
	engine := inventory.NewDeductionEngine(runner, log)
	checker := inventory.NewAvailabilityChecker(recipeRepo, ingRepo, entryRepo)

	levels := inventory.NewStockLevelUseCase(ingRepo, entryRepo, nil, decimal.NewFromInt(5))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Entries: inventory.NewStockEntryUseCase(runner, ingRepo, entryRepo, log),
		Levels:  levels,
		Engine:  engine,
		Ledger:  inventory.NewLedgerUseCase(runner, ingRepo, txRepo, 10),
		Restock: inventory.NewReplenishmentUseCase(levels, txRepo),
		Checker: checker,
		Fulfillment: inventory.NewFulfillmentUseCase(runner, recipeRepo, txRepo, engine, checker,
			lock.NewKeyedMutex(), inventory.FulfillmentOptions{Policy: policy, FanOut: 2}, log),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func comprar(t *testing.T, app *fiber.App, count, fecha string) dto.StockEntryDTO {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/inventory/purchases", "cocina", map[string]any{
		"ingredient_id":   pollo,
		"container_type":  "bolsa",
		"container_size":  "1",
		"container_count": count,
		"container_price": "12000",
		"purchase_date":   fecha,
		"supplier":        "Avícola",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var e dto.StockEntryDTO
	decode(t, resp, &e)
	return e
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	resp := call(t, app, http.MethodGet, "/api/inventory/stock-levels", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_CajeroNoRegistraCompras(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	resp := call(t, app, http.MethodPost, "/api/inventory/purchases", "cajero", map[string]any{"ingredient_id": pollo})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_CompraYNivel(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	e := comprar(t, app, "3", "2024-03-01")
	assert.Equal(t, "2024-03-01", e.PurchaseDate)
	assert.True(t, e.RemainingQuantity.Equal(decimal.NewFromInt(3)))

	resp := call(t, app, http.MethodGet, "/api/inventory/stock-levels/"+pollo, "cajero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var level dto.StockLevelDTO
	decode(t, resp, &level)
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, entity.StockStatusLow, level.Status)

	resp = call(t, app, http.MethodGet, "/api/inventory/stock-levels/no-existe", "cajero", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CompraInvalida(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	resp := call(t, app, http.MethodPost, "/api/inventory/purchases", "admin", map[string]any{
		"ingredient_id":   pollo,
		"container_type":  "bolsa",
		"container_size":  "0",
		"container_count": "1",
		"container_price": "1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DescuentoManualConFaltante(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	comprar(t, app, "1", "2024-03-01")

	resp := call(t, app, http.MethodPost, "/api/inventory/deductions", "cocina", map[string]any{
		"ingredient_id": pollo,
		"quantity":      "1.5",
		"reference":     "merma",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d dto.DeductionDTO
	decode(t, resp, &d)
	assert.True(t, d.TotalDeducted.Equal(decimal.NewFromInt(1)))
	assert.True(t, d.Shortfall.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, d.QuantityAfter.IsZero())
}

func TestAPI_PedidoWarnDevuelveAdvertencias(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	comprar(t, app, "1", "2024-03-01")

	resp := call(t, app, http.MethodPost, "/api/orders/fulfill", "cajero", dto.FulfillOrderRequest{
		OrderNumber: "ORD-1",
		Lines:       []dto.OrderLineRequest{{MenuItemID: tinola, Quantity: 3}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var f dto.FulfillmentDTO
	decode(t, resp, &f)
	assert.Equal(t, "ORD-1", f.OrderNumber)
	require.Len(t, f.Warnings, 1)
	assert.True(t, f.Warnings[0].Shortfall.Equal(decimal.RequireFromString("0.5")))

	resp = call(t, app, http.MethodPost, "/api/orders/fulfill", "cajero", dto.FulfillOrderRequest{
		OrderNumber: "ORD-1",
		Lines:       []dto.OrderLineRequest{{MenuItemID: tinola, Quantity: 1}},
	})
	var e dto.ErrorResponse
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	decode(t, resp, &e)
	assert.Equal(t, "DUPLICATE_ORDER", e.Code)
}

func TestAPI_PedidoBlockRetorna409SinDescontar(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallBlock)
	comprar(t, app, "1", "2024-03-01")

	resp := call(t, app, http.MethodPost, "/api/orders/fulfill", "admin", dto.FulfillOrderRequest{
		Lines: []dto.OrderLineRequest{{MenuItemID: tinola, Quantity: 3}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body dto.InsufficientStockResponse
	decode(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.Len(t, body.Warnings, 1)

	resp = call(t, app, http.MethodGet, "/api/inventory/stock-levels/"+pollo, "admin", nil)
	var level dto.StockLevelDTO
	decode(t, resp, &level)
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(1)))
}

func TestAPI_PedidoSinLineas(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	resp := call(t, app, http.MethodPost, "/api/orders/fulfill", "cajero", dto.FulfillOrderRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DisponibilidadDelMenu(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	comprar(t, app, "2", "2024-03-01")

	resp := call(t, app, http.MethodGet, "/api/menu/availability", "cajero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.MenuAvailabilityDTO
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].Available)
	require.NotNil(t, list[0].MaxServings)
	assert.Equal(t, int64(4), *list[0].MaxServings)

	resp = call(t, app, http.MethodGet, "/api/menu/items/"+tinola+"/availability?quantity=5", "cajero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var one dto.MenuAvailabilityDTO
	decode(t, resp, &one)
	assert.False(t, one.Available)

	resp = call(t, app, http.MethodGet, "/api/menu/items/"+tinola+"/availability?quantity=0", "cajero", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CorreccionYBorradoDeLote(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	e := comprar(t, app, "4", "2024-03-01")

	resp := call(t, app, http.MethodPatch, "/api/inventory/entries/"+e.ID, "cocina", dto.SetRemainingRequest{RemainingQuantity: decimal.NewFromInt(1)})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, "/api/inventory/entries/"+e.ID, "admin", dto.SetRemainingRequest{RemainingQuantity: decimal.NewFromInt(1)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var upd dto.StockEntryDTO
	decode(t, resp, &upd)
	assert.True(t, upd.RemainingQuantity.Equal(decimal.NewFromInt(1)))

	resp = call(t, app, http.MethodDelete, "/api/inventory/entries/"+e.ID, "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/inventory/entries/"+e.ID, "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/ingredients/"+pollo+"/ledger/verify", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v dto.LedgerVerificationDTO
	decode(t, resp, &v)
	assert.True(t, v.Consistent)
	assert.Equal(t, 3, v.Transactions)
	assert.True(t, v.CurrentTotal.IsZero())
}

func TestAPI_HistorialFiltradoYPaginado(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	comprar(t, app, "5", "2024-03-01")
	for i := 0; i < 3; i++ {
		resp := call(t, app, http.MethodPost, "/api/inventory/deductions", "admin", map[string]any{
			"ingredient_id": pollo, "quantity": "1",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := call(t, app, http.MethodGet, "/api/inventory/transactions?type=deduction&limit=2", "cajero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.TransactionPageDTO
	decode(t, resp, &page)
	assert.Equal(t, 3, page.Page.Total)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].QuantityAfter.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "Pollo", page.Items[0].IngredientName)

	resp = call(t, app, http.MethodGet, "/api/inventory/transactions?type=venta", "cajero", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ReporteSinGeneradorRetorna404(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	resp := call(t, app, http.MethodGet, "/api/inventory/report.pdf", "admin", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ListaDeReposicion(t *testing.T) {
	app := buildAPI(t, inventory.ShortfallWarn)
	comprar(t, app, "2", "2024-03-01")
	resp := call(t, app, http.MethodPost, "/api/orders/fulfill", "cajero", dto.FulfillOrderRequest{
		OrderNumber: "ORD-7",
		Lines:       []dto.OrderLineRequest{{MenuItemID: tinola, Quantity: 2}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/inventory/replenishment", "cajero", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/replenishment", "cocina", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ReplenishmentSuggestionDTO
	decode(t, resp, &list)
	require.Len(t, list, 1)
	s := list[0]
	assert.Equal(t, pollo, s.IngredientID)
	assert.Equal(t, entity.StockStatusLow, s.Status)
	assert.True(t, s.CurrentStock.Equal(decimal.NewFromInt(1)))
	assert.True(t, s.SuggestedQuantity.Equal(decimal.RequireFromString("6.5")), s.SuggestedQuantity.String())
	assert.True(t, s.ConsumedLastWeek.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 1, s.Priority)
}
