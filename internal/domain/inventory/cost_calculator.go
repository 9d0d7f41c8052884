package inventory

import (
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Aggregate calcula el nivel actual de un insumo a partir de sus lotes (servicio de dominio).
// Cantidad = Σ restante; PrecioPromedio = Σ(restante_i × precioUnit_i) / Σ restante_i
// sobre lotes con restante > 0. Si el total es cero, el promedio es la media simple de los
// precios unitarios almacenados (cero si no hay lotes).
func Aggregate(ingredientID string, entries []*entity.StockEntry) entity.StockLevel {
	level := entity.StockLevel{IngredientID: ingredientID}
	weighted := decimal.Zero
	priceSum := decimal.Zero
	for _, e := range entries {
		priceSum = priceSum.Add(e.UnitPrice())
		if !e.RemainingQuantity.IsPositive() {
			continue
		}
		level.Quantity = level.Quantity.Add(e.RemainingQuantity)
		weighted = weighted.Add(e.RemainingQuantity.Mul(e.UnitPrice()))
		level.EntryCount++
	}
	switch {
	case level.Quantity.IsPositive():
		level.AvgUnitPrice = weighted.Div(level.Quantity)
	case len(entries) > 0:
		level.AvgUnitPrice = priceSum.Div(decimal.NewFromInt(int64(len(entries))))
	default:
		level.AvgUnitPrice = decimal.Zero
	}
	return level
}

// Total suma la cantidad restante de los lotes.
func Total(entries []*entity.StockEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.RemainingQuantity.IsPositive() {
			total = total.Add(e.RemainingQuantity)
		}
	}
	return total
}
