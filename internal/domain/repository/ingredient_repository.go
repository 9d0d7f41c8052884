package repository

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// IngredientRepository define el puerto de lectura de insumos (DIP).
// GetByID devuelve (nil, nil) si no existe.
type IngredientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	GetByName(ctx context.Context, name string) (*entity.Ingredient, error)
	List(ctx context.Context) ([]*entity.Ingredient, error)
	// LockForUpdate bloquea el insumo hasta el fin de la transacción (SELECT FOR UPDATE).
	// Serializa todas las mutaciones de lotes y libro de ese insumo.
	LockForUpdate(ctx context.Context, id string) (*entity.Ingredient, error)
}
