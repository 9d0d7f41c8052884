package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

func TestGenerateStockReport(t *testing.T) {
	report := inventory.StockReport{
		Title:       "Valorización de inventario",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Categories: []dto.CategoryStockDTO{{
			CategoryName: "Carnes",
			TotalValue:   decimal.RequireFromString("140"),
			Items: []dto.StockLevelDTO{{
				IngredientName: "Cerdo",
				Unit:           entity.UnitKilogram,
				Quantity:       decimal.RequireFromString("8"),
				AvgUnitPrice:   decimal.RequireFromString("17.5"),
				TotalValue:     decimal.RequireFromString("140"),
				Status:         entity.StockStatusIn,
			}},
		}},
		TotalValue: decimal.RequireFromString("140"),
	}

	out, err := NewMarotoPDFGenerator().GenerateStockReport(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockReport_SinCategorias(t *testing.T) {
	out, err := NewMarotoPDFGenerator().GenerateStockReport(inventory.StockReport{Title: "Vacío"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1.234,50", money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0,00", money(decimal.Zero))
	assert.Equal(t, "-$1.000.000,00", money(decimal.RequireFromString("-1000000")))
}
