package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduct_ConsumeLotesDelMasAntiguoAlMasReciente(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	nuevo := f.compra(t, cerdo, 5, "10", "12")
	viejo := f.compra(t, cerdo, 1, "10", "10")

	res, err := f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: cerdo, Quantity: dec("15"), Reference: "ORD-1"})
	require.NoError(t, err)
	assert.True(t, res.TotalDeducted.Equal(dec("15")))
	assert.True(t, res.Shortfall.IsZero())
	require.Len(t, res.Allocations, 2)
	assert.Equal(t, viejo.ID, res.Allocations[0].EntryID)
	assert.True(t, res.Allocations[0].Taken.Equal(dec("10")))
	assert.Equal(t, nuevo.ID, res.Allocations[1].EntryID)
	assert.True(t, res.Allocations[1].Taken.Equal(dec("5")))

	entries, err := f.entries.ListByIngredient(ctx, cerdo)
	require.NoError(t, err)
	assert.True(t, entries[0].RemainingQuantity.IsZero())
	assert.True(t, entries[1].RemainingQuantity.Equal(dec("5")))

	// Una sola fila de descuento, sin lote, con before/after del insumo
	rows := f.filas(t, repository.TransactionFilter{IngredientID: cerdo, Type: entity.TransactionTypeDeduction})
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].StockEntryID)
	assert.Equal(t, "ORD-1", rows[0].Reference)
	assert.True(t, rows[0].QuantityChange.Equal(dec("-15")))
	assert.True(t, rows[0].QuantityBefore.Equal(dec("20")))
	assert.True(t, rows[0].QuantityAfter.Equal(dec("5")))
	f.requireConsistente(t, cerdo)
}

func TestDeduct_FaltanteNoDejaLotesNegativos(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	f.compra(t, cerdo, 1, "10", "10")

	res, err := f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: cerdo, Quantity: dec("15")})
	require.NoError(t, err)
	assert.True(t, res.TotalDeducted.Equal(dec("10")))
	assert.True(t, res.Shortfall.Equal(dec("5")))
	assert.True(t, res.HasShortfall())
	assert.True(t, f.total(t, cerdo).IsZero())

	rows := f.filas(t, repository.TransactionFilter{IngredientID: cerdo, Type: entity.TransactionTypeDeduction})
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Notes, "faltante 5")
	f.requireConsistente(t, cerdo)
}

func TestDeduct_SinStockRegistraFilaEnCero(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	res, err := f.engine.Deduct(context.Background(), inventory.DeductInput{IngredientID: ajo, Quantity: dec("3")})
	require.NoError(t, err)
	assert.True(t, res.TotalDeducted.IsZero())
	assert.True(t, res.Shortfall.Equal(dec("3")))

	rows := f.filas(t, repository.TransactionFilter{IngredientID: ajo})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].QuantityChange.IsZero())
}

func TestDeduct_EntradaInvalidaYInsumoInexistente(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()

	_, err := f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: cerdo, Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: cerdo, Quantity: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: "no-existe", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeduct_FallaDelLibroRevierteLotes(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	f.compra(t, cerdo, 1, "10", "10")

	faulty := buildFixture(f.store, runnerConLedgerCaido{inner: f.runner}, inventory.ShortfallWarn)
	_, err := faulty.engine.Deduct(ctx, inventory.DeductInput{IngredientID: cerdo, Quantity: dec("4")})
	require.ErrorIs(t, err, domain.ErrConsistencyFault)
	assert.Contains(t, err.Error(), errDiscoLleno.Error())

	// Nada quedó aplicado: el lote conserva su restante y el libro no tiene descuentos
	assert.True(t, f.total(t, cerdo).Equal(dec("10")))
	assert.Empty(t, f.filas(t, repository.TransactionFilter{Type: entity.TransactionTypeDeduction}))
	f.requireConsistente(t, cerdo)
}

func TestDeduct_ConcurrenteNuncaDescuentaDeMas(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	f.compra(t, cerdo, 1, "1", "10")
	f.compra(t, cerdo, 2, "2", "11")

	const n = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		deducted  = decimal.Zero
		shortfall = decimal.Zero
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: cerdo, Quantity: dec("0.1")})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			deducted = deducted.Add(res.TotalDeducted)
			shortfall = shortfall.Add(res.Shortfall)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// 50 × 0.1 = 5 pedidos contra 3 disponibles
	assert.True(t, deducted.Equal(dec("3")), "descontado %s", deducted)
	assert.True(t, shortfall.Equal(dec("2")), "faltante %s", shortfall)
	assert.True(t, f.total(t, cerdo).IsZero())
	assert.Len(t, f.filas(t, repository.TransactionFilter{Type: entity.TransactionTypeDeduction}), n)
	f.requireConsistente(t, cerdo)
}

func TestConservacion_ComprasMenosDescuentosIgualTotal(t *testing.T) {
	f := newFixture(t, inventory.ShortfallWarn)
	ctx := context.Background()
	f.compra(t, aceite, 1, "3", "20")
	f.compra(t, aceite, 3, "2.5", "22")
	for _, q := range []string{"0.4", "1.1", "2", "0.75"} {
		_, err := f.engine.Deduct(ctx, inventory.DeductInput{IngredientID: aceite, Quantity: dec(q)})
		require.NoError(t, err)
	}

	compras, descuentos := decimal.Zero, decimal.Zero
	for _, r := range f.filas(t, repository.TransactionFilter{IngredientID: aceite}) {
		switch r.Type {
		case entity.TransactionTypePurchase:
			compras = compras.Add(r.QuantityChange)
		case entity.TransactionTypeDeduction:
			descuentos = descuentos.Add(r.QuantityChange.Neg())
		}
	}
	assert.True(t, compras.Sub(descuentos).Equal(f.total(t, aceite)))
	assert.True(t, f.total(t, aceite).Equal(dec("1.25")))
	f.requireConsistente(t, aceite)
}
