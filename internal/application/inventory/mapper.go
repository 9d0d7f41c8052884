package inventory

import (
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// ToEntryDTO convierte un lote a su representación HTTP.
func ToEntryDTO(e *entity.StockEntry) dto.StockEntryDTO {
	return dto.StockEntryDTO{
		ID:                  e.ID,
		IngredientID:        e.IngredientID,
		ContainerType:       e.ContainerType,
		ContainerSize:       e.ContainerSize,
		ContainerCount:      e.ContainerCount,
		ContainersRemaining: e.ContainersRemaining().Round(4),
		ContainerPrice:      e.ContainerPrice,
		UnitPrice:           e.UnitPrice().Round(4),
		PurchasedQuantity:   e.PurchasedQuantity(),
		RemainingQuantity:   e.RemainingQuantity,
		PurchaseDate:        e.PurchaseDate.Format(dateLayout),
		Supplier:            e.Supplier,
		CreatedAt:           e.CreatedAt,
	}
}

// ToTransactionDTO convierte una fila del libro.
func ToTransactionDTO(t *entity.StockTransaction) dto.StockTransactionDTO {
	return dto.StockTransactionDTO{
		ID:             t.ID,
		IngredientID:   t.IngredientID,
		StockEntryID:   t.StockEntryID,
		Type:           t.Type,
		QuantityChange: t.QuantityChange,
		QuantityBefore: t.QuantityBefore,
		QuantityAfter:  t.QuantityAfter,
		Unit:           t.Unit,
		Reference:      t.Reference,
		Notes:          t.Notes,
		CreatedAt:      t.CreatedAt,
	}
}

// ToDeductionDTO convierte el resultado de un descuento.
func ToDeductionDTO(r *DeductionResult) dto.DeductionDTO {
	out := dto.DeductionDTO{
		IngredientID:   r.IngredientID,
		Unit:           r.Unit,
		Requested:      r.Requested,
		TotalDeducted:  r.TotalDeducted,
		Shortfall:      r.Shortfall,
		QuantityBefore: r.QuantityBefore,
		QuantityAfter:  r.QuantityAfter,
		TransactionID:  r.TransactionID,
		Allocations:    make([]dto.AllocationDTO, 0, len(r.Allocations)),
	}
	for _, a := range r.Allocations {
		out.Allocations = append(out.Allocations, dto.AllocationDTO{
			StockEntryID:    a.EntryID,
			Taken:           a.Taken,
			RemainingBefore: a.RemainingBefore,
			RemainingAfter:  a.RemainingAfter,
		})
	}
	return out
}

// ToWarningDTOs convierte las advertencias de faltante.
func ToWarningDTOs(ws []ShortfallWarning) []dto.ShortfallWarningDTO {
	out := make([]dto.ShortfallWarningDTO, 0, len(ws))
	for _, w := range ws {
		out = append(out, dto.ShortfallWarningDTO{
			IngredientID: w.IngredientID,
			Unit:         w.Unit,
			Requested:    w.Requested,
			Deducted:     w.Deducted,
			Shortfall:    w.Shortfall,
		})
	}
	return out
}

// ToFulfillmentDTO convierte el resultado de un pedido.
func ToFulfillmentDTO(r *FulfillmentResult) dto.FulfillmentDTO {
	out := dto.FulfillmentDTO{
		OrderNumber: r.OrderNumber,
		Deductions:  make([]dto.DeductionDTO, 0, len(r.Deductions)),
		Warnings:    ToWarningDTOs(r.Warnings),
	}
	for _, d := range r.Deductions {
		out.Deductions = append(out.Deductions, ToDeductionDTO(d))
	}
	return out
}
