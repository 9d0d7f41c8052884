package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanFulfill(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	f.compra(t, cerdo, 1, "1", "10")
	f.compra(t, ajo, 1, "0.2", "4")

	ok, err := f.checker.CanFulfill(ctx, adobo, 4) // 0.8 cerdo, 0.2 ajo
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.checker.CanFulfill(ctx, adobo, 5) // 1.0 cerdo, 0.25 ajo
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.checker.CanFulfill(ctx, lumpia, 1) // sin aceite
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanFulfill_PlatoSinRecetaSiempreDisponible(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ok, err := f.checker.CanFulfill(context.Background(), arroz, 100)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanFulfill_Errores(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()

	_, err := f.checker.CanFulfill(ctx, adobo, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.checker.CanFulfill(ctx, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheck_DetallePorInsumo(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	f.compra(t, cerdo, 1, "1", "10")

	rep, err := f.checker.Check(context.Background(), adobo, 2)
	require.NoError(t, err)
	assert.False(t, rep.Available)
	require.Len(t, rep.Requirements, 2)
	for _, r := range rep.Requirements {
		switch r.IngredientID {
		case cerdo:
			assert.True(t, r.Required.Equal(dec("0.4")))
			assert.True(t, r.Sufficient)
			assert.Equal(t, "Cerdo", r.IngredientName)
		case ajo:
			assert.True(t, r.Available.IsZero())
			assert.False(t, r.Sufficient)
		}
	}
}

func TestListMenu_PorcionesMaximas(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	f.compra(t, cerdo, 1, "1", "10")
	f.compra(t, ajo, 1, "0.12", "4")
	f.compra(t, aceite, 1, "1", "20")

	menu, err := f.checker.ListMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 3)

	porPlato := map[string]int{}
	for i, m := range menu {
		porPlato[m.MenuItemID] = i
	}
	a := menu[porPlato[adobo]]
	require.NotNil(t, a.MaxServings)
	assert.Equal(t, int64(2), *a.MaxServings) // ajo 0.12 / 0.05
	assert.True(t, a.Available)

	l := menu[porPlato[lumpia]]
	require.NotNil(t, l.MaxServings)
	assert.Equal(t, int64(3), *l.MaxServings) // cerdo 1 / 0.3

	r := menu[porPlato[arroz]]
	assert.Nil(t, r.MaxServings)
	assert.True(t, r.Available)
}
