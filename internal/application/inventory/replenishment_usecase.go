package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de compras semanal para la cocina.
// Combina el nivel actual de cada insumo con lo consumido en los últimos días según el libro.
type ReplenishmentUseCase struct {
	levels *StockLevelUseCase
	txRepo repository.StockTransactionRepository
	window time.Duration
	now    func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(levels *StockLevelUseCase, txRepo repository.StockTransactionRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		levels: levels,
		txRepo: txRepo,
		window: 7 * 24 * time.Hour,
		now:    time.Now,
	}
}

// GenerateList devuelve los insumos agotados o bajo el umbral con la cantidad sugerida
// de compra (hasta 1.5 × umbral) y una prioridad basada en el consumo de la última semana.
func (uc *ReplenishmentUseCase) GenerateList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	categories, err := uc.levels.ListByCategory(ctx)
	if err != nil {
		return nil, err
	}

	idealStock := uc.levels.lowThreshold.Mul(decimal.NewFromFloat(1.5))
	since := uc.now().Add(-uc.window)

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, c := range categories {
		for _, level := range c.Items {
			if level.Status == entity.StockStatusIn {
				continue
			}
			consumed, err := uc.consumedSince(ctx, level.IngredientID, since)
			if err != nil {
				return nil, err
			}
			suggested := idealStock.Sub(level.Quantity)
			if suggested.IsNegative() {
				suggested = decimal.Zero
			}
			suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
				IngredientID:      level.IngredientID,
				IngredientName:    level.IngredientName,
				Unit:              level.Unit,
				CategoryName:      c.CategoryName,
				CurrentStock:      level.Quantity,
				Status:            level.Status,
				IdealStock:        idealStock,
				SuggestedQuantity: suggested,
				AvgUnitPrice:      level.AvgUnitPrice,
				EstimatedCost:     suggested.Mul(level.AvgUnitPrice).Round(2),
				ConsumedLastWeek:  consumed,
			})
		}
	}

	// Primero lo agotado, luego lo que más se consumió, luego el mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		aOut, bOut := a.Status == entity.StockStatusOut, b.Status == entity.StockStatusOut
		if aOut != bOut {
			return aOut
		}
		if !a.ConsumedLastWeek.Equal(b.ConsumedLastWeek) {
			return a.ConsumedLastWeek.GreaterThan(b.ConsumedLastWeek)
		}
		return a.SuggestedQuantity.GreaterThan(b.SuggestedQuantity)
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// consumedSince suma los descuentos del insumo desde since (valor positivo).
func (uc *ReplenishmentUseCase) consumedSince(ctx context.Context, ingredientID string, since time.Time) (decimal.Decimal, error) {
	rows, err := uc.txRepo.List(ctx, repository.TransactionFilter{
		IngredientID: ingredientID,
		Type:         entity.TransactionTypeDeduction,
	})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		if r.CreatedAt.Before(since) {
			continue
		}
		total = total.Add(r.QuantityChange.Abs())
	}
	return total, nil
}
