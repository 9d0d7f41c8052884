package repository

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// RecipeRepository define el puerto de lectura de platos y recetas (DIP).
type RecipeRepository interface {
	GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error)
	GetMenuItemByName(ctx context.Context, name string) (*entity.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]*entity.MenuItem, error)
	ListByMenuItem(ctx context.Context, menuItemID string) ([]entity.RecipeLine, error)
	// ListByMenuItems agrupa las líneas de receta por plato.
	ListByMenuItems(ctx context.Context, menuItemIDs []string) (map[string][]entity.RecipeLine, error)
	UpsertLine(ctx context.Context, line entity.RecipeLine) error
}
