package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reporteFalso struct {
	got inventory.StockReport
}

func (r *reporteFalso) GenerateStockReport(report inventory.StockReport) ([]byte, error) {
	r.got = report
	return []byte("%PDF-falso"), nil
}

func TestTotals_PromedioPonderadoYEstado(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	f.compra(t, cerdo, 1, "2", "10")
	f.compra(t, cerdo, 2, "6", "20")

	level, err := f.levels.Totals(ctx, cerdo)
	require.NoError(t, err)
	assert.True(t, level.Quantity.Equal(dec("8")))
	assert.True(t, level.AvgUnitPrice.Equal(dec("17.5")))
	assert.True(t, level.TotalValue.Equal(dec("140")))
	assert.Equal(t, 2, level.EntryCount)
	assert.Equal(t, entity.StockStatusIn, level.Status)

	_, err = f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: cerdo, Quantity: dec("4")})
	require.NoError(t, err)
	level, err = f.levels.Totals(ctx, cerdo)
	require.NoError(t, err)
	assert.True(t, level.Quantity.Equal(dec("4")))
	assert.True(t, level.AvgUnitPrice.Equal(dec("20")))
	assert.Equal(t, 1, level.EntryCount)
	assert.Equal(t, entity.StockStatusLow, level.Status)

	_, err = f.levels.Totals(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTotals_SinStockUsaMediaSimple(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	f.compra(t, ajo, 1, "1", "4")
	f.compra(t, ajo, 2, "1", "6")
	_, err := f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: ajo, Quantity: dec("2")})
	require.NoError(t, err)

	level, err := f.levels.Totals(ctx, ajo)
	require.NoError(t, err)
	assert.True(t, level.Quantity.IsZero())
	assert.True(t, level.AvgUnitPrice.Equal(dec("5")))
	assert.Equal(t, entity.StockStatusOut, level.Status)
}

func TestListByCategory_OrdenAlfabetico(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	f.store.AddIngredient(entity.Ingredient{ID: "ing-res", Name: "Res", Unit: entity.UnitKilogram, CategoryID: "cat-carnes"})
	f.store.AddIngredient(entity.Ingredient{ID: "ing-anis", Name: "anís", Unit: entity.UnitKilogram})
	f.compra(t, cerdo, 1, "2", "10")

	groups, err := f.levels.ListByCategory(context.Background())
	require.NoError(t, err)
	var nombres []string
	for _, g := range groups {
		nombres = append(nombres, g.CategoryName)
	}
	assert.Equal(t, []string{"Aceites", "Carnes", "Sin categoría", "Verduras"}, nombres)

	carnes := groups[1]
	require.Len(t, carnes.Items, 2)
	assert.Equal(t, "Cerdo", carnes.Items[0].IngredientName)
	assert.Equal(t, "Res", carnes.Items[1].IngredientName)
	assert.True(t, carnes.TotalValue.Equal(dec("20")))
}

func TestReport_EntregaDatosAlGenerador(t *testing.T) {
	s := memory.NewStore()
	s.AddIngredient(entity.Ingredient{ID: "i1", Name: "Cerdo", Unit: entity.UnitKilogram, CategoryName: "Carnes"})
	ingRepo, entryRepo, _, _ := s.Repositories()
	gen := &reporteFalso{}
	uc := inventory.NewStockLevelUseCase(ingRepo, entryRepo, gen, decimal.NewFromInt(5))

	pdf, err := uc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-falso", string(pdf))
	require.Len(t, gen.got.Categories, 1)
	assert.True(t, gen.got.TotalValue.IsZero())
}

func TestReport_SinGenerador(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	_, err := f.levels.Report(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
