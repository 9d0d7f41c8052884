// seed_recipes carga las recetas de la carta (menu_ingredients) desde un JSON
// con platos e insumos por nombre. Los nombres se buscan sin distinguir mayúsculas;
// lo que no existe se omite y se reporta.
//
// Uso: go run ./cmd/seed_recipes [ruta/recipes.json]
// Por defecto lee cmd/seed_recipes/recipes.json. La conexión sale de la misma
// configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Restaurante-api/pkg/config"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
)

type recipeItem struct {
	Ingredient string          `json:"ingredient"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// seedReport conteo del resultado.
type seedReport struct {
	Upserted           int
	MissingMenus       []string
	MissingIngredients []string
	InvalidQuantities  []string
}

func main() {
	path := "cmd/seed_recipes/recipes.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer recetas: %v\n", err)
		os.Exit(1)
	}
	var recipes map[string][]recipeItem
	if err := json.Unmarshal(raw, &recipes); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar recetas: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.Ledger.FanOut)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rep, err := seedRecipes(ctx, postgres.NewIngredientRepository(pool), postgres.NewRecipeRepository(pool), recipes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar recetas")
	}
	log.Info().
		Int("lineas", rep.Upserted).
		Strs("platos_faltantes", rep.MissingMenus).
		Strs("insumos_faltantes", rep.MissingIngredients).
		Strs("cantidades_invalidas", rep.InvalidQuantities).
		Msg("recetas cargadas")
}

// seedRecipes hace upsert de cada línea; platos e insumos desconocidos se omiten.
// Los platos se recorren en orden alfabético para que la salida sea estable.
func seedRecipes(
	ctx context.Context,
	ingredientRepo repository.IngredientRepository,
	recipeRepo repository.RecipeRepository,
	recipes map[string][]recipeItem,
	log *logger.Logger,
) (*seedReport, error) {
	menus := make([]string, 0, len(recipes))
	for name := range recipes {
		menus = append(menus, name)
	}
	sort.Strings(menus)

	rep := &seedReport{}
	for _, menuName := range menus {
		item, err := recipeRepo.GetMenuItemByName(ctx, menuName)
		if err != nil {
			return nil, err
		}
		if item == nil {
			log.Warn().Str("plato", menuName).Msg("plato no encontrado, se omite")
			rep.MissingMenus = append(rep.MissingMenus, menuName)
			continue
		}
		for _, ri := range recipes[menuName] {
			ing, err := ingredientRepo.GetByName(ctx, ri.Ingredient)
			if err != nil {
				return nil, err
			}
			if ing == nil {
				log.Warn().Str("plato", menuName).Str("insumo", ri.Ingredient).Msg("insumo no encontrado, se omite")
				rep.MissingIngredients = append(rep.MissingIngredients, ri.Ingredient)
				continue
			}
			if !ri.Quantity.IsPositive() {
				rep.InvalidQuantities = append(rep.InvalidQuantities, menuName+"/"+ri.Ingredient)
				continue
			}
			err = recipeRepo.UpsertLine(ctx, entity.RecipeLine{
				MenuItemID:     item.ID,
				IngredientID:   ing.ID,
				QuantityNeeded: ri.Quantity,
			})
			if err != nil {
				return nil, fmt.Errorf("%s / %s: %w", menuName, ri.Ingredient, err)
			}
			log.Debug().Str("plato", menuName).Str("insumo", ing.Name).Str("cantidad", ri.Quantity.String()+" "+ing.Unit).Msg("línea de receta")
			rep.Upserted++
		}
	}
	return rep, nil
}
