package inventory

import (
	"strings"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// NormalizeSize convierte el tamaño de contenedor a la unidad del insumo.
// Acepta g → kg y mL → L; vacío o la misma unidad no convierten.
func NormalizeSize(size decimal.Decimal, sizeUnit, ingredientUnit string) (decimal.Decimal, error) {
	switch {
	case sizeUnit == "" || sizeUnit == ingredientUnit:
		return size, nil
	case strings.EqualFold(sizeUnit, "g") && ingredientUnit == entity.UnitKilogram:
		return size.Div(thousand), nil
	case strings.EqualFold(sizeUnit, "ml") && ingredientUnit == entity.UnitLiter:
		return size.Div(thousand), nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}
