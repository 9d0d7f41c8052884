package entity

import "github.com/shopspring/decimal"

// MenuItem plato de la carta. Solo se lee desde el libro.
type MenuItem struct {
	ID          string
	Name        string
	IsAvailable bool
}

// RecipeLine cantidad de un insumo necesaria para una unidad del plato.
type RecipeLine struct {
	MenuItemID     string
	IngredientID   string
	QuantityNeeded decimal.Decimal
}
