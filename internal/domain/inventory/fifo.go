package inventory

import (
	"sort"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation es lo que el descuento toma de un lote.
type Allocation struct {
	EntryID         string
	Taken           decimal.Decimal
	RemainingBefore decimal.Decimal
	RemainingAfter  decimal.Decimal
}

// Plan resultado de recorrer los lotes para cubrir una demanda.
type Plan struct {
	Allocations   []Allocation
	TotalDeducted decimal.Decimal
	Shortfall     decimal.Decimal
}

// SortFIFO ordena los lotes por fecha de compra y, a igual fecha, por orden de inserción.
func SortFIFO(entries []*entity.StockEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		return a.Seq < b.Seq
	})
}

// PlanFIFO recorre los lotes del más antiguo al más reciente tomando min(restante, necesidad)
// de cada uno. No modifica los lotes. Lo que no alcanza a cubrirse queda como Shortfall;
// nunca se deja un lote en negativo.
func PlanFIFO(entries []*entity.StockEntry, needed decimal.Decimal) Plan {
	plan := Plan{TotalDeducted: decimal.Zero, Shortfall: decimal.Zero}
	if !needed.IsPositive() {
		return plan
	}
	ordered := make([]*entity.StockEntry, len(entries))
	copy(ordered, entries)
	SortFIFO(ordered)

	remainingNeed := needed
	for _, e := range ordered {
		if !remainingNeed.IsPositive() {
			break
		}
		if !e.RemainingQuantity.IsPositive() {
			continue
		}
		take := decimal.Min(e.RemainingQuantity, remainingNeed)
		plan.Allocations = append(plan.Allocations, Allocation{
			EntryID:         e.ID,
			Taken:           take,
			RemainingBefore: e.RemainingQuantity,
			RemainingAfter:  e.RemainingQuantity.Sub(take),
		})
		plan.TotalDeducted = plan.TotalDeducted.Add(take)
		remainingNeed = remainingNeed.Sub(take)
	}
	if remainingNeed.IsPositive() {
		plan.Shortfall = remainingNeed
	}
	return plan
}
