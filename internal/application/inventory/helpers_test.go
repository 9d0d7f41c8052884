package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/lock"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/memory"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	cerdo  = "ing-cerdo"
	ajo    = "ing-ajo"
	aceite = "ing-aceite"

	adobo  = "menu-adobo"
	lumpia = "menu-lumpia"
	arroz  = "menu-arroz"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dia(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	store   *memory.Store
	runner  inventory.TxRunner
	entries *inventory.StockEntryUseCase
	levels  *inventory.StockLevelUseCase
	ledger  *inventory.LedgerUseCase
	engine  *inventory.DeductionEngine
	checker *inventory.AvailabilityChecker
	orders  *inventory.FulfillmentUseCase
	txRepo  repository.StockTransactionRepository
}

// newFixture arma el libro completo sobre el almacén en memoria con un menú pequeño.
func newFixture(t *testing.T, policy inventory.ShortfallPolicy) *fixture {
	t.Helper()
	s := memory.NewStore()
	s.AddCategory(entity.Category{ID: "cat-carnes", Name: "Carnes"})
	s.AddCategory(entity.Category{ID: "cat-verduras", Name: "Verduras"})
	s.AddCategory(entity.Category{ID: "cat-aceites", Name: "Aceites"})
	s.AddIngredient(entity.Ingredient{ID: cerdo, Name: "Cerdo", Unit: entity.UnitKilogram, CategoryID: "cat-carnes"})
	s.AddIngredient(entity.Ingredient{ID: ajo, Name: "Ajo", Unit: entity.UnitKilogram, CategoryID: "cat-verduras"})
	s.AddIngredient(entity.Ingredient{ID: aceite, Name: "Aceite de cocina", Unit: entity.UnitLiter, CategoryID: "cat-aceites"})
	s.AddMenuItem(entity.MenuItem{ID: adobo, Name: "Adobo", IsAvailable: true},
		entity.RecipeLine{IngredientID: cerdo, QuantityNeeded: dec("0.2")},
		entity.RecipeLine{IngredientID: ajo, QuantityNeeded: dec("0.05")},
	)
	s.AddMenuItem(entity.MenuItem{ID: lumpia, Name: "Lumpia", IsAvailable: true},
		entity.RecipeLine{IngredientID: cerdo, QuantityNeeded: dec("0.3")},
		entity.RecipeLine{IngredientID: aceite, QuantityNeeded: dec("0.1")},
	)
	s.AddMenuItem(entity.MenuItem{ID: arroz, Name: "Arroz blanco", IsAvailable: true})

	return buildFixture(s, memory.NewTxRunner(s), policy)
}

func buildFixture(s *memory.Store, runner inventory.TxRunner, policy inventory.ShortfallPolicy) *fixture {
	ingRepo, entryRepo, txRepo, recipeRepo := s.Repositories()
	log := logger.Nop()
	engine := inventory.NewDeductionEngine(runner, log)
	checker := inventory.NewAvailabilityChecker(recipeRepo, ingRepo, entryRepo)
	return &fixture{
		store:   s,
		runner:  runner,
		entries: inventory.NewStockEntryUseCase(runner, ingRepo, entryRepo, log),
		levels:  inventory.NewStockLevelUseCase(ingRepo, entryRepo, nil, decimal.NewFromInt(5)),
		ledger:  inventory.NewLedgerUseCase(runner, ingRepo, txRepo, 10),
		engine:  engine,
		checker: checker,
		orders: inventory.NewFulfillmentUseCase(runner, recipeRepo, txRepo, engine, checker,
			lock.NewKeyedMutex(), inventory.FulfillmentOptions{Policy: policy, FanOut: 2}, log),
		txRepo: txRepo,
	}
}

// compra registra un lote de cantidad × 1 unidad a precio por unidad.
func (f *fixture) compra(t *testing.T, ingredientID string, d int, cantidad, precio string) *entity.StockEntry {
	t.Helper()
	e, err := f.entries.AddBatch(context.Background(), inventory.AddBatchInput{
		IngredientID:   ingredientID,
		ContainerType:  "kg",
		ContainerSize:  decimal.NewFromInt(1),
		ContainerCount: dec(cantidad),
		ContainerPrice: dec(precio),
		PurchaseDate:   dia(d),
		Supplier:       "Mercado central",
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) total(t *testing.T, ingredientID string) decimal.Decimal {
	t.Helper()
	level, err := f.levels.Totals(context.Background(), ingredientID)
	require.NoError(t, err)
	return level.Quantity
}

func (f *fixture) filas(t *testing.T, filter repository.TransactionFilter) []*entity.StockTransaction {
	t.Helper()
	rows, err := f.txRepo.List(context.Background(), filter)
	require.NoError(t, err)
	return rows
}

func (f *fixture) requireConsistente(t *testing.T, ingredientID string) {
	t.Helper()
	v, err := f.ledger.Verify(context.Background(), ingredientID)
	require.NoError(t, err)
	require.True(t, v.Consistent, "libro inconsistente: replay=%s actual=%s cortes=%v", v.ReplayedTotal, v.CurrentTotal, v.Breaks)
}

// ledgerCaido simula que la escritura del libro falla después de mutar los lotes.
type ledgerCaido struct {
	repository.StockTransactionRepository
}

var errDiscoLleno = errors.New("disco lleno")

func (ledgerCaido) Create(context.Context, *entity.StockTransaction) error { return errDiscoLleno }

type runnerConLedgerCaido struct {
	inner inventory.TxRunner
}

func (r runnerConLedgerCaido) Run(ctx context.Context, fn func(
	ingredientRepo repository.IngredientRepository,
	entryRepo repository.StockEntryRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	return r.inner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		return fn(ingredientRepo, entryRepo, ledgerCaido{txRepo})
	})
}

// runnerConLedgerCaidoPara falla la escritura del libro solo para un insumo.
type runnerConLedgerCaidoPara struct {
	inner        inventory.TxRunner
	ingredientID string
}

type ledgerCaidoPara struct {
	repository.StockTransactionRepository
	ingredientID string
}

func (l ledgerCaidoPara) Create(ctx context.Context, row *entity.StockTransaction) error {
	if row.IngredientID == l.ingredientID {
		return errDiscoLleno
	}
	return l.StockTransactionRepository.Create(ctx, row)
}

func (r runnerConLedgerCaidoPara) Run(ctx context.Context, fn func(
	ingredientRepo repository.IngredientRepository,
	entryRepo repository.StockEntryRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	return r.inner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		return fn(ingredientRepo, entryRepo, ledgerCaidoPara{txRepo, r.ingredientID})
	})
}
