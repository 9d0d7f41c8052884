// Package memory implementa los repositorios del libro de inventario en memoria.
// Lo usan los tests y LEDGER_STORE=memory; replica la semántica de PostgreSQL:
// bloqueo por insumo durante la transacción y cambios visibles solo al confirmar.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/lock"
	"github.com/shopspring/decimal"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// Store estado confirmado. mu protege los mapas; locks serializa las transacciones por insumo.
type Store struct {
	mu          sync.RWMutex
	categories  map[string]*entity.Category
	ingredients map[string]*entity.Ingredient
	entries     map[string]*entity.StockEntry
	txs         []*entity.StockTransaction
	menuItems   map[string]*entity.MenuItem
	recipes     map[string][]entity.RecipeLine

	entrySeq int64
	txSeq    int64
	locks    *lock.KeyedMutex
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		categories:  make(map[string]*entity.Category),
		ingredients: make(map[string]*entity.Ingredient),
		entries:     make(map[string]*entity.StockEntry),
		menuItems:   make(map[string]*entity.MenuItem),
		recipes:     make(map[string][]entity.RecipeLine),
		locks:       lock.NewKeyedMutex(),
	}
}

// AddCategory registra una categoría (dato de referencia).
func (s *Store) AddCategory(c entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = &c
}

// AddIngredient registra un insumo (dato de referencia). Si trae CategoryID conocido
// se completa el nombre de la categoría.
func (s *Store) AddIngredient(ing entity.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.categories[ing.CategoryID]; ok && ing.CategoryName == "" {
		ing.CategoryName = c.Name
	}
	s.ingredients[ing.ID] = &ing
}

// AddMenuItem registra un plato con sus líneas de receta.
func (s *Store) AddMenuItem(item entity.MenuItem, lines ...entity.RecipeLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuItems[item.ID] = &item
	for _, l := range lines {
		l.MenuItemID = item.ID
		s.upsertLineLocked(l)
	}
}

// Repositories devuelve los repositorios fuera de transacción (lecturas confirmadas, escrituras autocommit).
func (s *Store) Repositories() (*IngredientRepo, *StockEntryRepo, *TransactionRepo, *RecipeRepo) {
	return &IngredientRepo{s: s}, &StockEntryRepo{s: s}, &TransactionRepo{s: s}, &RecipeRepo{s: s}
}

func (s *Store) upsertLineLocked(l entity.RecipeLine) {
	lines := s.recipes[l.MenuItemID]
	for i := range lines {
		if lines[i].IngredientID == l.IngredientID {
			lines[i].QuantityNeeded = l.QuantityNeeded
			return
		}
	}
	s.recipes[l.MenuItemID] = append(lines, l)
}

// txState cambios pendientes de una transacción. Solo la usa la goroutine dueña.
type txState struct {
	locked   map[string]bool
	releases []func()
	created  map[string]*entity.StockEntry
	updates  map[string]decimal.Decimal
	deleted  map[string]bool
	rows     []*entity.StockTransaction
}

func newTxState() *txState {
	return &txState{
		locked:  make(map[string]bool),
		created: make(map[string]*entity.StockEntry),
		updates: make(map[string]decimal.Decimal),
		deleted: make(map[string]bool),
	}
}

func (t *txState) releaseAll() {
	for i := len(t.releases) - 1; i >= 0; i-- {
		t.releases[i]()
	}
	t.releases = nil
}

// commit aplica la transacción de una vez; los lectores nunca ven un descuento a medias.
func (s *Store) commit(t *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range t.created {
		if t.deleted[id] {
			continue
		}
		if q, ok := t.updates[id]; ok {
			e.RemainingQuantity = q
		}
		s.entries[id] = e
	}
	for id, q := range t.updates {
		if _, isNew := t.created[id]; isNew {
			continue
		}
		if e, ok := s.entries[id]; ok {
			e.RemainingQuantity = q
		}
	}
	for id := range t.deleted {
		delete(s.entries, id)
	}
	for _, r := range t.rows {
		r.Seq = atomic.AddInt64(&s.txSeq, 1)
		s.txs = append(s.txs, r)
	}
}

// write aplica fn sobre la transacción o, fuera de ella, en una transacción de una sola operación.
func (s *Store) write(t *txState, fn func(t *txState) error) error {
	if t != nil {
		return fn(t)
	}
	st := newTxState()
	if err := fn(st); err != nil {
		return err
	}
	s.commit(st)
	return nil
}

// TxRunner transacciones en memoria: bloqueo por insumo y cambios en staging hasta confirmar.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repositorios atados a la transacción. Error = se descarta todo.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ingredientRepo repository.IngredientRepository,
	entryRepo repository.StockEntryRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	t := newTxState()
	defer t.releaseAll()

	if err := fn(
		&IngredientRepo{s: r.s, tx: t},
		&StockEntryRepo{s: r.s, tx: t},
		&TransactionRepo{s: r.s, tx: t},
	); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.commit(t)
	return nil
}
