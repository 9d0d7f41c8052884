package entity

import "github.com/shopspring/decimal"

// Estados de stock mostrados en las pantallas de inventario.
const (
	StockStatusOut = "out_of_stock"
	StockStatusLow = "low_stock"
	StockStatusIn  = "in_stock"
)

// StockLevel es el nivel actual de un insumo. Derivado de los lotes; no se persiste.
type StockLevel struct {
	IngredientID string
	Quantity     decimal.Decimal
	AvgUnitPrice decimal.Decimal
	EntryCount   int
}

// TotalValue valor del stock al precio promedio ponderado.
func (l StockLevel) TotalValue() decimal.Decimal {
	return l.Quantity.Mul(l.AvgUnitPrice)
}

// Status clasifica el nivel contra el umbral de stock bajo.
func (l StockLevel) Status(lowThreshold decimal.Decimal) string {
	switch {
	case !l.Quantity.IsPositive():
		return StockStatusOut
	case l.Quantity.LessThan(lowThreshold):
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
