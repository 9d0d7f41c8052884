package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// DeductInput entrada para descontar un insumo.
type DeductInput struct {
	IngredientID string
	Quantity     decimal.Decimal
	Reference    string // número de pedido
	Notes        string
}

// DeductionResult resultado de un descuento FIFO ya confirmado.
type DeductionResult struct {
	IngredientID   string
	Unit           string
	Requested      decimal.Decimal
	TotalDeducted  decimal.Decimal
	Shortfall      decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	TransactionID  string
	Allocations    []inventory.Allocation
}

// HasShortfall indica que el stock no alcanzó a cubrir lo pedido.
func (r *DeductionResult) HasShortfall() bool { return r.Shortfall.IsPositive() }

// DeductionEngine descuenta insumos recorriendo los lotes del más antiguo al más reciente.
type DeductionEngine struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewDeductionEngine construye el motor de descuento.
func NewDeductionEngine(txRunner TxRunner, log *logger.Logger) *DeductionEngine {
	return &DeductionEngine{txRunner: txRunner, log: log, now: time.Now}
}

// Deduct bloquea el insumo, recorre sus lotes en FIFO, actualiza los restantes y agrega
// una sola fila "deduction" (sin lote) al libro, todo en una transacción.
// El faltante se devuelve en el resultado; no es un error.
func (e *DeductionEngine) Deduct(ctx context.Context, input DeductInput) (*DeductionResult, error) {
	if input.IngredientID == "" || !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var res *DeductionResult
	err := e.txRunner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		r, err := e.deductLocked(ctx, ingredientRepo, entryRepo, txRepo, input)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConsistencyFault) {
			e.log.Error().Err(err).Str("ingredient_id", input.IngredientID).Msg("descuento revertido")
		}
		return nil, err
	}
	if res.HasShortfall() {
		e.log.Warn().
			Str("ingredient_id", res.IngredientID).
			Str("reference", input.Reference).
			Str("requested", res.Requested.String()).
			Str("shortfall", res.Shortfall.String()).
			Msg("stock insuficiente, descuento parcial")
	}
	return res, nil
}

// deductLocked hace el descuento con los repositorios de una transacción ya abierta.
// El bloqueo del insumo se mantiene hasta el fin de esa transacción.
func (e *DeductionEngine) deductLocked(
	ctx context.Context,
	ingredientRepo repository.IngredientRepository,
	entryRepo repository.StockEntryRepository,
	txRepo repository.StockTransactionRepository,
	input DeductInput,
) (*DeductionResult, error) {
	ing, err := ingredientRepo.LockForUpdate(ctx, input.IngredientID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := entryRepo.ListByIngredient(ctx, ing.ID)
	if err != nil {
		return nil, err
	}
	before := inventory.Total(entries)
	plan := inventory.PlanFIFO(entries, input.Quantity)

	for _, a := range plan.Allocations {
		if err := entryRepo.UpdateRemaining(ctx, a.EntryID, a.RemainingAfter); err != nil {
			return nil, consistencyFault(err)
		}
	}

	row := newLedgerRow(ing, entity.TransactionTypeDeduction, before, plan.TotalDeducted.Neg(), e.now())
	row.Reference = input.Reference
	row.Notes = input.Notes
	if plan.Shortfall.IsPositive() && row.Notes == "" {
		row.Notes = "faltante " + plan.Shortfall.String() + " " + ing.Unit
	}
	if err := txRepo.Create(ctx, row); err != nil {
		return nil, consistencyFault(err)
	}

	return &DeductionResult{
		IngredientID:   ing.ID,
		Unit:           ing.Unit,
		Requested:      input.Quantity,
		TotalDeducted:  plan.TotalDeducted,
		Shortfall:      plan.Shortfall,
		QuantityBefore: row.QuantityBefore,
		QuantityAfter:  row.QuantityAfter,
		TransactionID:  row.ID,
		Allocations:    plan.Allocations,
	}, nil
}
