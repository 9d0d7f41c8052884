package entity

// Unidades de medida soportadas por el libro (masa y volumen).
const (
	UnitKilogram = "kg"
	UnitLiter    = "L"
)

// Ingredient representa un insumo de cocina. Es dato de referencia: el libro no lo modifica.
type Ingredient struct {
	ID           string
	Name         string
	Unit         string // kg o L
	CategoryID   string
	CategoryName string
}

// ValidUnit indica si la unidad es una de las que maneja el libro.
func ValidUnit(unit string) bool {
	return unit == UnitKilogram || unit == UnitLiter
}
