package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.IngredientRepository       = (*IngredientRepo)(nil)
	_ repository.StockEntryRepository       = (*StockEntryRepo)(nil)
	_ repository.StockTransactionRepository = (*TransactionRepo)(nil)
	_ repository.RecipeRepository           = (*RecipeRepo)(nil)
)

// IngredientRepo insumos en memoria.
type IngredientRepo struct {
	s  *Store
	tx *txState
}

func (r *IngredientRepo) GetByID(_ context.Context, id string) (*entity.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if ing, ok := r.s.ingredients[id]; ok {
		c := *ing
		return &c, nil
	}
	return nil, nil
}

func (r *IngredientRepo) GetByName(_ context.Context, name string) (*entity.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ing := range r.s.ingredients {
		if strings.EqualFold(ing.Name, name) {
			c := *ing
			return &c, nil
		}
	}
	return nil, nil
}

func (r *IngredientRepo) List(_ context.Context) ([]*entity.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Ingredient, 0, len(r.s.ingredients))
	for _, ing := range r.s.ingredients {
		c := *ing
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// LockForUpdate toma el mutex del insumo hasta el fin de la transacción. Fuera de
// transacción equivale a GetByID.
func (r *IngredientRepo) LockForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	ing, err := r.GetByID(ctx, id)
	if err != nil || ing == nil || r.tx == nil {
		return ing, err
	}
	if r.tx.locked[id] {
		return ing, nil
	}
	release, err := r.s.locks.Obtain(ctx, "ingredient:"+id)
	if err != nil {
		return nil, fmt.Errorf("lock insumo %s: %w", id, err)
	}
	r.tx.locked[id] = true
	r.tx.releases = append(r.tx.releases, release)
	return ing, nil
}

// StockEntryRepo lotes en memoria. Dentro de una transacción las lecturas ven sus propios cambios.
type StockEntryRepo struct {
	s  *Store
	tx *txState
}

func (r *StockEntryRepo) Create(_ context.Context, entry *entity.StockEntry) error {
	if entry == nil || entry.ID == "" {
		return domain.ErrInvalidInput
	}
	return r.s.write(r.tx, func(t *txState) error {
		e := entry.Clone()
		e.Seq = atomic.AddInt64(&r.s.entrySeq, 1)
		entry.Seq = e.Seq
		t.created[e.ID] = e
		return nil
	})
}

func (r *StockEntryRepo) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	found := r.view(func(e *entity.StockEntry) bool { return e.ID == id })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *StockEntryRepo) ListByIngredient(_ context.Context, ingredientID string) ([]*entity.StockEntry, error) {
	out := r.view(func(e *entity.StockEntry) bool { return e.IngredientID == ingredientID })
	inventory.SortFIFO(out)
	return out, nil
}

func (r *StockEntryRepo) ListAll(_ context.Context) ([]*entity.StockEntry, error) {
	out := r.view(func(*entity.StockEntry) bool { return true })
	inventory.SortFIFO(out)
	return out, nil
}

func (r *StockEntryRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	if remaining.IsNegative() {
		return fmt.Errorf("restante negativo en lote %s: %w", id, domain.ErrInvalidInput)
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return r.s.write(r.tx, func(t *txState) error {
		t.updates[id] = remaining
		return nil
	})
}

func (r *StockEntryRepo) Delete(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return r.s.write(r.tx, func(t *txState) error {
		t.deleted[id] = true
		return nil
	})
}

// view copia los lotes confirmados y aplica encima lo pendiente de la transacción.
func (r *StockEntryRepo) view(keep func(*entity.StockEntry) bool) []*entity.StockEntry {
	r.s.mu.RLock()
	out := make([]*entity.StockEntry, 0)
	for _, e := range r.s.entries {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	r.s.mu.RUnlock()

	t := r.tx
	if t == nil {
		return out
	}
	for _, e := range t.created {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	filtered := out[:0]
	for _, e := range out {
		if t.deleted[e.ID] {
			continue
		}
		if q, ok := t.updates[e.ID]; ok {
			e.RemainingQuantity = q
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// TransactionRepo libro en memoria (solo inserción).
type TransactionRepo struct {
	s  *Store
	tx *txState
}

func (r *TransactionRepo) Create(_ context.Context, row *entity.StockTransaction) error {
	if row == nil || row.ID == "" || !entity.ValidTransactionType(row.Type) {
		return domain.ErrInvalidInput
	}
	return r.s.write(r.tx, func(t *txState) error {
		c := *row
		t.rows = append(t.rows, &c)
		return nil
	})
}

// List del más reciente al más antiguo.
func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	rows := r.filtered(f)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq > rows[j].Seq })
	if f.Offset > 0 {
		if f.Offset >= len(rows) {
			return []*entity.StockTransaction{}, nil
		}
		rows = rows[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(rows) {
		rows = rows[:f.Limit]
	}
	return rows, nil
}

func (r *TransactionRepo) Count(_ context.Context, f repository.TransactionFilter) (int, error) {
	return len(r.filtered(f)), nil
}

func (r *TransactionRepo) ListByIngredientAsc(_ context.Context, ingredientID string) ([]*entity.StockTransaction, error) {
	rows := r.filtered(repository.TransactionFilter{IngredientID: ingredientID})
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })
	return rows, nil
}

// filtered copia las filas que cumplen el filtro. Las pendientes de la transacción
// reciben Seq provisional después de las confirmadas.
func (r *TransactionRepo) filtered(f repository.TransactionFilter) []*entity.StockTransaction {
	match := func(t *entity.StockTransaction) bool {
		return (f.IngredientID == "" || t.IngredientID == f.IngredientID) &&
			(f.Type == "" || t.Type == f.Type) &&
			(f.Reference == "" || t.Reference == f.Reference)
	}
	r.s.mu.RLock()
	out := make([]*entity.StockTransaction, 0)
	last := r.s.txSeq
	for _, t := range r.s.txs {
		if match(t) {
			c := *t
			out = append(out, &c)
		}
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for i, t := range r.tx.rows {
			if match(t) {
				c := *t
				c.Seq = last + int64(i) + 1
				out = append(out, &c)
			}
		}
	}
	return out
}

// RecipeRepo platos y recetas en memoria.
type RecipeRepo struct {
	s *Store
}

func (r *RecipeRepo) GetMenuItem(_ context.Context, id string) (*entity.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if it, ok := r.s.menuItems[id]; ok {
		c := *it
		return &c, nil
	}
	return nil, nil
}

func (r *RecipeRepo) GetMenuItemByName(_ context.Context, name string) (*entity.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.menuItems {
		if strings.EqualFold(it.Name, name) {
			c := *it
			return &c, nil
		}
	}
	return nil, nil
}

func (r *RecipeRepo) ListMenuItems(_ context.Context) ([]*entity.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.MenuItem, 0, len(r.s.menuItems))
	for _, it := range r.s.menuItems {
		c := *it
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RecipeRepo) ListByMenuItem(_ context.Context, menuItemID string) ([]entity.RecipeLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]entity.RecipeLine(nil), r.s.recipes[menuItemID]...), nil
}

func (r *RecipeRepo) ListByMenuItems(_ context.Context, menuItemIDs []string) (map[string][]entity.RecipeLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string][]entity.RecipeLine, len(menuItemIDs))
	for _, id := range menuItemIDs {
		if lines, ok := r.s.recipes[id]; ok {
			out[id] = append([]entity.RecipeLine(nil), lines...)
		}
	}
	return out, nil
}

func (r *RecipeRepo) UpsertLine(_ context.Context, line entity.RecipeLine) error {
	if line.MenuItemID == "" || line.IngredientID == "" || !line.QuantityNeeded.IsPositive() {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menuItems[line.MenuItemID]; !ok {
		return fmt.Errorf("plato %s: %w", line.MenuItemID, domain.ErrNotFound)
	}
	if _, ok := r.s.ingredients[line.IngredientID]; !ok {
		return fmt.Errorf("insumo %s: %w", line.IngredientID, domain.ErrNotFound)
	}
	r.s.upsertLineLocked(line)
	return nil
}
