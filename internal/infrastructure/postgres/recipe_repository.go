package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo platos (menu_items) y recetas (menu_ingredients).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// GetMenuItem obtiene un plato. (nil, nil) si no existe.
func (r *RecipeRepo) GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.getMenuItem(ctx, `SELECT id, name, is_available FROM menu_items WHERE id = $1`, id)
}

// GetMenuItemByName búsqueda sin distinguir mayúsculas.
func (r *RecipeRepo) GetMenuItemByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	return r.getMenuItem(ctx, `SELECT id, name, is_available FROM menu_items WHERE lower(name) = lower($1) LIMIT 1`, name)
}

func (r *RecipeRepo) getMenuItem(ctx context.Context, query string, arg string) (*entity.MenuItem, error) {
	var it entity.MenuItem
	if err := r.q.QueryRow(ctx, query, arg).Scan(&it.ID, &it.Name, &it.IsAvailable); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &it, nil
}

func (r *RecipeRepo) ListMenuItems(ctx context.Context) ([]*entity.MenuItem, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, is_available FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var list []*entity.MenuItem
	for rows.Next() {
		var it entity.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *RecipeRepo) ListByMenuItem(ctx context.Context, menuItemID string) ([]entity.RecipeLine, error) {
	byItem, err := r.ListByMenuItems(ctx, []string{menuItemID})
	if err != nil {
		return nil, err
	}
	return byItem[menuItemID], nil
}

// ListByMenuItems una sola consulta para todos los platos pedidos.
func (r *RecipeRepo) ListByMenuItems(ctx context.Context, menuItemIDs []string) (map[string][]entity.RecipeLine, error) {
	out := make(map[string][]entity.RecipeLine, len(menuItemIDs))
	if len(menuItemIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT menu_item_id, ingredient_id, quantity_needed
		FROM menu_ingredients
		WHERE menu_item_id = ANY($1)
		ORDER BY menu_item_id, ingredient_id`
	rows, err := r.q.Query(ctx, query, menuItemIDs)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.MenuItemID, &l.IngredientID, &l.QuantityNeeded); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		out[l.MenuItemID] = append(out[l.MenuItemID], l)
	}
	return out, rows.Err()
}

// UpsertLine crea o reemplaza la cantidad de un insumo en la receta.
func (r *RecipeRepo) UpsertLine(ctx context.Context, line entity.RecipeLine) error {
	if line.MenuItemID == "" || line.IngredientID == "" || !line.QuantityNeeded.IsPositive() {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO menu_ingredients (menu_item_id, ingredient_id, quantity_needed)
		VALUES ($1, $2, $3)
		ON CONFLICT (menu_item_id, ingredient_id) DO UPDATE SET quantity_needed = EXCLUDED.quantity_needed`
	if _, err := r.q.Exec(ctx, query, line.MenuItemID, line.IngredientID, line.QuantityNeeded); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("plato %s o insumo %s: %w", line.MenuItemID, line.IngredientID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert recipe line: %w", err)
	}
	return nil
}
