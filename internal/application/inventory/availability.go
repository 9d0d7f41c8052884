package inventory

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AvailabilityChecker indica si el stock actual alcanza para servir platos.
// Es una lectura consultiva: no bloquea ni reserva.
type AvailabilityChecker struct {
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	entryRepo      repository.StockEntryRepository
}

// NewAvailabilityChecker construye el verificador.
func NewAvailabilityChecker(
	recipeRepo repository.RecipeRepository,
	ingredientRepo repository.IngredientRepository,
	entryRepo repository.StockEntryRepository,
) *AvailabilityChecker {
	return &AvailabilityChecker{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		entryRepo:      entryRepo,
	}
}

// CanFulfill true si cada insumo de la receta tiene al menos cantidad × necesario.
// Un plato sin receta siempre se puede servir.
func (c *AvailabilityChecker) CanFulfill(ctx context.Context, menuItemID string, quantity int) (bool, error) {
	rep, err := c.Check(ctx, menuItemID, quantity)
	if err != nil {
		return false, err
	}
	return rep.Available, nil
}

// Check devuelve el detalle por insumo de la disponibilidad de un plato.
func (c *AvailabilityChecker) Check(ctx context.Context, menuItemID string, quantity int) (*dto.MenuAvailabilityDTO, error) {
	if menuItemID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := c.recipeRepo.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := c.recipeRepo.ListByMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal, len(lines))
	ingredients := make(map[string]*entity.Ingredient, len(lines))
	for _, l := range lines {
		ing, err := c.ingredientRepo.GetByID(ctx, l.IngredientID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, domain.ErrNotFound
		}
		entries, err := c.entryRepo.ListByIngredient(ctx, l.IngredientID)
		if err != nil {
			return nil, err
		}
		ingredients[ing.ID] = ing
		totals[ing.ID] = inventory.Total(entries)
	}
	rep := buildAvailability(item, lines, quantity, totals, ingredients)
	return &rep, nil
}

// ListMenu devuelve todos los platos con su disponibilidad para una unidad y las
// porciones máximas que permite el stock actual.
func (c *AvailabilityChecker) ListMenu(ctx context.Context) ([]dto.MenuAvailabilityDTO, error) {
	items, err := c.recipeRepo.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	recipes, err := c.recipeRepo.ListByMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	totals, ingredients, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MenuAvailabilityDTO, 0, len(items))
	for _, it := range items {
		out = append(out, buildAvailability(it, recipes[it.ID], 1, totals, ingredients))
	}
	return out, nil
}

// Shortfalls estima qué insumos de una demanda no alcanzan con el stock actual.
func (c *AvailabilityChecker) Shortfalls(ctx context.Context, demand []IngredientDemand) ([]ShortfallWarning, error) {
	totals, ingredients, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var out []ShortfallWarning
	for _, d := range demand {
		available := totals[d.IngredientID]
		if available.GreaterThanOrEqual(d.Quantity) {
			continue
		}
		w := ShortfallWarning{
			IngredientID: d.IngredientID,
			Requested:    d.Quantity,
			Deducted:     available,
			Shortfall:    d.Quantity.Sub(available),
		}
		if ing := ingredients[d.IngredientID]; ing != nil {
			w.Unit = ing.Unit
		}
		out = append(out, w)
	}
	return out, nil
}

func (c *AvailabilityChecker) snapshot(ctx context.Context) (map[string]decimal.Decimal, map[string]*entity.Ingredient, error) {
	list, err := c.ingredientRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	entries, err := c.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	ingredients := make(map[string]*entity.Ingredient, len(list))
	for _, ing := range list {
		ingredients[ing.ID] = ing
	}
	totals := make(map[string]decimal.Decimal, len(list))
	for _, e := range entries {
		if e.RemainingQuantity.IsPositive() {
			totals[e.IngredientID] = totals[e.IngredientID].Add(e.RemainingQuantity)
		}
	}
	return totals, ingredients, nil
}

func buildAvailability(
	item *entity.MenuItem,
	lines []entity.RecipeLine,
	quantity int,
	totals map[string]decimal.Decimal,
	ingredients map[string]*entity.Ingredient,
) dto.MenuAvailabilityDTO {
	out := dto.MenuAvailabilityDTO{
		MenuItemID:   item.ID,
		MenuItemName: item.Name,
		Quantity:     quantity,
		Available:    true,
		Requirements: make([]dto.IngredientRequirementDTO, 0, len(lines)),
	}
	qty := decimal.NewFromInt(int64(quantity))
	for _, l := range lines {
		available := totals[l.IngredientID]
		required := l.QuantityNeeded.Mul(qty)
		req := dto.IngredientRequirementDTO{
			IngredientID: l.IngredientID,
			Required:     required,
			Available:    available,
			Sufficient:   available.GreaterThanOrEqual(required),
		}
		if ing := ingredients[l.IngredientID]; ing != nil {
			req.IngredientName = ing.Name
			req.Unit = ing.Unit
		}
		if !req.Sufficient {
			out.Available = false
		}
		out.Requirements = append(out.Requirements, req)

		if !l.QuantityNeeded.IsPositive() {
			continue
		}
		servings := available.Div(l.QuantityNeeded).Floor().IntPart()
		if out.MaxServings == nil || servings < *out.MaxServings {
			s := servings
			out.MaxServings = &s
		}
	}
	return out
}
