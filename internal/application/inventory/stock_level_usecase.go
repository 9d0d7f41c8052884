package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const uncategorized = "Sin categoría"

// StockReport datos del PDF de valorización.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Categories  []dto.CategoryStockDTO
	TotalValue  decimal.Decimal
}

// StockLevelUseCase calcula niveles actuales a partir de los lotes (vista current_stock_levels).
type StockLevelUseCase struct {
	ingredientRepo repository.IngredientRepository
	entryRepo      repository.StockEntryRepository
	reportGen      StockReportGenerator
	lowThreshold   decimal.Decimal
}

// NewStockLevelUseCase construye el caso de uso. reportGen puede ser nil si no se expone el PDF.
func NewStockLevelUseCase(
	ingredientRepo repository.IngredientRepository,
	entryRepo repository.StockEntryRepository,
	reportGen StockReportGenerator,
	lowThreshold decimal.Decimal,
) *StockLevelUseCase {
	return &StockLevelUseCase{
		ingredientRepo: ingredientRepo,
		entryRepo:      entryRepo,
		reportGen:      reportGen,
		lowThreshold:   lowThreshold,
	}
}

// Totals devuelve cantidad, precio promedio ponderado y lotes con restante de un insumo.
// Se calcula sobre una sola lectura de los lotes.
func (uc *StockLevelUseCase) Totals(ctx context.Context, ingredientID string) (*dto.StockLevelDTO, error) {
	ing, err := uc.ingredientRepo.GetByID(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.entryRepo.ListByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	level := uc.toLevelDTO(ing, inventory.Aggregate(ing.ID, entries))
	return &level, nil
}

// ListByCategory devuelve todos los insumos agrupados por categoría, en orden alfabético español.
func (uc *StockLevelUseCase) ListByCategory(ctx context.Context) ([]dto.CategoryStockDTO, error) {
	ingredients, err := uc.ingredientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byIngredient := make(map[string][]*entity.StockEntry, len(ingredients))
	for _, e := range entries {
		byIngredient[e.IngredientID] = append(byIngredient[e.IngredientID], e)
	}

	groups := make(map[string]*dto.CategoryStockDTO)
	for _, ing := range ingredients {
		name := ing.CategoryName
		if name == "" {
			name = uncategorized
		}
		g, ok := groups[name]
		if !ok {
			g = &dto.CategoryStockDTO{CategoryName: name, TotalValue: decimal.Zero}
			groups[name] = g
		}
		level := uc.toLevelDTO(ing, inventory.Aggregate(ing.ID, byIngredient[ing.ID]))
		g.Items = append(g.Items, level)
		g.TotalValue = g.TotalValue.Add(level.TotalValue)
	}

	cl := collate.New(language.Spanish, collate.IgnoreCase)
	out := make([]dto.CategoryStockDTO, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Items, func(i, j int) bool {
			return cl.CompareString(g.Items[i].IngredientName, g.Items[j].IngredientName) < 0
		})
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return cl.CompareString(out[i].CategoryName, out[j].CategoryName) < 0
	})
	return out, nil
}

// Report genera el PDF de valorización de stock.
func (uc *StockLevelUseCase) Report(ctx context.Context) ([]byte, error) {
	if uc.reportGen == nil {
		return nil, domain.ErrNotFound
	}
	categories, err := uc.ListByCategory(ctx)
	if err != nil {
		return nil, err
	}
	report := StockReport{
		Title:       "Valorización de inventario",
		GeneratedAt: time.Now(),
		Categories:  categories,
		TotalValue:  decimal.Zero,
	}
	for _, c := range categories {
		report.TotalValue = report.TotalValue.Add(c.TotalValue)
	}
	return uc.reportGen.GenerateStockReport(report)
}

func (uc *StockLevelUseCase) toLevelDTO(ing *entity.Ingredient, level entity.StockLevel) dto.StockLevelDTO {
	return dto.StockLevelDTO{
		IngredientID:   ing.ID,
		IngredientName: ing.Name,
		Unit:           ing.Unit,
		CategoryName:   ing.CategoryName,
		Quantity:       level.Quantity,
		AvgUnitPrice:   level.AvgUnitPrice.Round(4),
		TotalValue:     level.TotalValue().Round(2),
		EntryCount:     level.EntryCount,
		Status:         level.Status(uc.lowThreshold),
	}
}
