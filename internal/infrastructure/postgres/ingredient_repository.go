package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

const ingredientColumns = `
	i.id, i.name, i.unit, COALESCE(i.category_id::text, ''), COALESCE(c.name, '')`

// IngredientRepo insumos sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

// GetByID obtiene un insumo con el nombre de su categoría. (nil, nil) si no existe.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	query := `SELECT` + ingredientColumns + `
		FROM ingredients i LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.id = $1`
	ing, err := scanIngredient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// GetByName búsqueda sin distinguir mayúsculas (como ilike del script de recetas).
func (r *IngredientRepo) GetByName(ctx context.Context, name string) (*entity.Ingredient, error) {
	query := `SELECT` + ingredientColumns + `
		FROM ingredients i LEFT JOIN categories c ON c.id = i.category_id
		WHERE lower(i.name) = lower($1)
		LIMIT 1`
	ing, err := scanIngredient(r.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("get ingredient by name: %w", err)
	}
	return ing, nil
}

// List devuelve todos los insumos ordenados por nombre.
func (r *IngredientRepo) List(ctx context.Context) ([]*entity.Ingredient, error) {
	query := `SELECT` + ingredientColumns + `
		FROM ingredients i LEFT JOIN categories c ON c.id = i.category_id
		ORDER BY i.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Ingredient
	for rows.Next() {
		var ing entity.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.CategoryID, &ing.CategoryName); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, &ing)
	}
	return list, rows.Err()
}

// LockForUpdate bloquea la fila del insumo (SELECT FOR UPDATE) hasta el fin de la tx.
// Todas las mutaciones de lotes y libro de ese insumo pasan por este bloqueo.
func (r *IngredientRepo) LockForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	query := `SELECT` + ingredientColumns + `
		FROM ingredients i LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.id = $1
		FOR UPDATE OF i`
	ing, err := scanIngredient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("lock ingredient: %w", err)
	}
	return ing, nil
}

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var ing entity.Ingredient
	err := row.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.CategoryID, &ing.CategoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ing, nil
}
