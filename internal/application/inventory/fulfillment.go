package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ShortfallPolicy qué hacer cuando un pedido consume más de lo que hay.
type ShortfallPolicy string

const (
	// ShortfallWarn descuenta lo que haya y reporta el faltante (comportamiento por defecto).
	ShortfallWarn ShortfallPolicy = "warn"
	// ShortfallBlock descuenta todo el pedido en una transacción y la revierte si algo falta.
	ShortfallBlock ShortfallPolicy = "block"
)

// ErrDuplicateOrder el número de pedido ya tiene descuentos en el libro.
var ErrDuplicateOrder = fmt.Errorf("pedido ya descontado: %w", domain.ErrConflict)

// ParseShortfallPolicy valida el valor de configuración.
func ParseShortfallPolicy(s string) (ShortfallPolicy, error) {
	switch ShortfallPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ShortfallWarn:
		return ShortfallWarn, nil
	case ShortfallBlock:
		return ShortfallBlock, nil
	}
	return "", fmt.Errorf("política de faltantes %q: %w", s, domain.ErrInvalidInput)
}

// OrderLine plato y cantidad de un pedido.
type OrderLine struct {
	MenuItemID string
	Quantity   int
}

// FulfillInput pedido a descontar.
type FulfillInput struct {
	OrderNumber string
	Lines       []OrderLine
}

// IngredientDemand demanda total de un insumo después de sumar todas las líneas del pedido.
type IngredientDemand struct {
	IngredientID string
	Quantity     decimal.Decimal
}

// ShortfallWarning insumo del pedido que no se cubrió completo.
type ShortfallWarning struct {
	IngredientID string
	Unit         string
	Requested    decimal.Decimal
	Deducted     decimal.Decimal
	Shortfall    decimal.Decimal
}

// FulfillmentResult resultado del descuento de un pedido, un descuento por insumo.
type FulfillmentResult struct {
	OrderNumber string
	Deductions  []*DeductionResult
	Warnings    []ShortfallWarning
}

// ShortfallError se devuelve con la política block; no se confirmó ningún descuento.
type ShortfallError struct {
	OrderNumber string
	Warnings    []ShortfallWarning
}

func (e *ShortfallError) Error() string {
	ids := make([]string, 0, len(e.Warnings))
	for _, w := range e.Warnings {
		ids = append(ids, w.IngredientID)
	}
	return fmt.Sprintf("pedido %s: stock insuficiente para %s", e.OrderNumber, strings.Join(ids, ", "))
}

func (e *ShortfallError) Unwrap() error { return domain.ErrInsufficientStock }

// PartialOrderError con la política warn: falló el descuento de un insumo después de
// confirmar otros. Committed son los descuentos que quedaron en el libro.
type PartialOrderError struct {
	OrderNumber string
	Committed   []*DeductionResult
	Err         error
}

func (e *PartialOrderError) Error() string {
	return fmt.Sprintf("pedido %s descontado a medias (%d insumos confirmados): %v", e.OrderNumber, len(e.Committed), e.Err)
}

func (e *PartialOrderError) Unwrap() error { return e.Err }

// FulfillmentOptions parámetros del orquestador.
type FulfillmentOptions struct {
	Policy ShortfallPolicy
	FanOut int // descuentos por insumo en paralelo (política warn)
}

// FulfillmentUseCase traduce un pedido en descuentos FIFO por insumo.
type FulfillmentUseCase struct {
	txRunner   TxRunner
	recipeRepo repository.RecipeRepository
	txRepo     repository.StockTransactionRepository
	engine     *DeductionEngine
	checker    *AvailabilityChecker
	locker     Locker
	opts       FulfillmentOptions
	log        *logger.Logger
}

// NewFulfillmentUseCase construye el orquestador de pedidos.
func NewFulfillmentUseCase(
	txRunner TxRunner,
	recipeRepo repository.RecipeRepository,
	txRepo repository.StockTransactionRepository,
	engine *DeductionEngine,
	checker *AvailabilityChecker,
	locker Locker,
	opts FulfillmentOptions,
	log *logger.Logger,
) *FulfillmentUseCase {
	if opts.Policy == "" {
		opts.Policy = ShortfallWarn
	}
	if opts.FanOut <= 0 {
		opts.FanOut = 4
	}
	return &FulfillmentUseCase{
		txRunner:   txRunner,
		recipeRepo: recipeRepo,
		txRepo:     txRepo,
		engine:     engine,
		checker:    checker,
		locker:     locker,
		opts:       opts,
		log:        log,
	}
}

// FulfillFromRequest adapta el request HTTP a Fulfill.
func (uc *FulfillmentUseCase) FulfillFromRequest(ctx context.Context, in dto.FulfillOrderRequest) (*FulfillmentResult, error) {
	input := FulfillInput{OrderNumber: in.OrderNumber, Lines: make([]OrderLine, 0, len(in.Lines))}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, OrderLine{MenuItemID: l.MenuItemID, Quantity: l.Quantity})
	}
	return uc.Fulfill(ctx, input)
}

// Fulfill suma la demanda de cada insumo sobre todas las líneas y hace un solo descuento
// por insumo con el número de pedido como referencia. Un número de pedido ya descontado
// se rechaza con domain.ErrConflict.
func (uc *FulfillmentUseCase) Fulfill(ctx context.Context, input FulfillInput) (*FulfillmentResult, error) {
	if len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range input.Lines {
		if l.MenuItemID == "" || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	orderNumber := strings.TrimSpace(input.OrderNumber)
	if orderNumber == "" {
		orderNumber = "ORD-" + uuid.NewString()
	}

	release, err := uc.locker.Obtain(ctx, "order:"+orderNumber)
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := uc.txRepo.Count(ctx, repository.TransactionFilter{
		Reference: orderNumber,
		Type:      entity.TransactionTypeDeduction,
	})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("pedido %s: %w", orderNumber, ErrDuplicateOrder)
	}

	demand, err := uc.ExpandOrder(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	result := &FulfillmentResult{OrderNumber: orderNumber}
	if len(demand) == 0 {
		return result, nil
	}

	predicted, err := uc.checker.Shortfalls(ctx, demand)
	if err != nil {
		return nil, err
	}
	if len(predicted) > 0 {
		if uc.opts.Policy == ShortfallBlock {
			return nil, &ShortfallError{OrderNumber: orderNumber, Warnings: predicted}
		}
		uc.log.Info().
			Str("order_number", orderNumber).
			Int("ingredients", len(predicted)).
			Msg("pedido con faltante previsto")
	}

	var deductions []*DeductionResult
	if uc.opts.Policy == ShortfallBlock {
		deductions, err = uc.deductAtomic(ctx, orderNumber, demand)
	} else {
		deductions, err = uc.deductFanOut(ctx, orderNumber, demand)
	}
	if err != nil {
		var se *ShortfallError
		if !errors.As(err, &se) {
			uc.log.Error().Err(err).Str("order_number", orderNumber).Int("committed", len(deductions)).Msg("descuento de pedido fallido")
		}
		if len(deductions) > 0 {
			return nil, &PartialOrderError{OrderNumber: orderNumber, Committed: deductions, Err: err}
		}
		return nil, err
	}

	result.Deductions = deductions
	result.Warnings = warningsOf(deductions)
	uc.log.Info().
		Str("order_number", orderNumber).
		Int("ingredients", len(deductions)).
		Int("warnings", len(result.Warnings)).
		Msg("pedido descontado")
	return result, nil
}

// ExpandOrder convierte las líneas del pedido en demanda por insumo, ordenada por id.
// Un insumo usado por varios platos se suma en una sola demanda.
func (uc *FulfillmentUseCase) ExpandOrder(ctx context.Context, lines []OrderLine) ([]IngredientDemand, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if seen[l.MenuItemID] {
			continue
		}
		seen[l.MenuItemID] = true
		item, err := uc.recipeRepo.GetMenuItem(ctx, l.MenuItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("plato %s: %w", l.MenuItemID, domain.ErrNotFound)
		}
		ids = append(ids, l.MenuItemID)
	}
	recipes, err := uc.recipeRepo.ListByMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		for _, r := range recipes[l.MenuItemID] {
			if !r.QuantityNeeded.IsPositive() {
				continue
			}
			totals[r.IngredientID] = totals[r.IngredientID].Add(r.QuantityNeeded.Mul(qty))
		}
	}
	demand := make([]IngredientDemand, 0, len(totals))
	for id, q := range totals {
		demand = append(demand, IngredientDemand{IngredientID: id, Quantity: q})
	}
	sort.Slice(demand, func(i, j int) bool { return demand[i].IngredientID < demand[j].IngredientID })
	return demand, nil
}

// deductFanOut un descuento (y una transacción) por insumo, en paralelo acotado.
// Si alguno falla devuelve, junto con el error, los descuentos que sí se confirmaron.
func (uc *FulfillmentUseCase) deductFanOut(ctx context.Context, orderNumber string, demand []IngredientDemand) ([]*DeductionResult, error) {
	results := make([]*DeductionResult, len(demand))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.FanOut)
	for i, d := range demand {
		i, d := i, d
		g.Go(func() error {
			r, err := uc.engine.Deduct(gctx, DeductInput{
				IngredientID: d.IngredientID,
				Quantity:     d.Quantity,
				Reference:    orderNumber,
			})
			if err != nil {
				return fmt.Errorf("insumo %s: %w", d.IngredientID, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		committed := make([]*DeductionResult, 0, len(results))
		for _, r := range results {
			if r != nil {
				committed = append(committed, r)
			}
		}
		return committed, err
	}
	return results, nil
}

// deductAtomic descuenta todo el pedido en una transacción. Los insumos se bloquean en
// orden de id para que dos pedidos concurrentes no se crucen.
func (uc *FulfillmentUseCase) deductAtomic(ctx context.Context, orderNumber string, demand []IngredientDemand) ([]*DeductionResult, error) {
	var results []*DeductionResult
	err := uc.txRunner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		results = make([]*DeductionResult, 0, len(demand))
		for _, d := range demand {
			r, err := uc.engine.deductLocked(ctx, ingredientRepo, entryRepo, txRepo, DeductInput{
				IngredientID: d.IngredientID,
				Quantity:     d.Quantity,
				Reference:    orderNumber,
			})
			if err != nil {
				return fmt.Errorf("insumo %s: %w", d.IngredientID, err)
			}
			results = append(results, r)
		}
		if ws := warningsOf(results); len(ws) > 0 {
			return &ShortfallError{OrderNumber: orderNumber, Warnings: ws}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func warningsOf(results []*DeductionResult) []ShortfallWarning {
	var out []ShortfallWarning
	for _, r := range results {
		if !r.HasShortfall() {
			continue
		}
		out = append(out, ShortfallWarning{
			IngredientID: r.IngredientID,
			Unit:         r.Unit,
			Requested:    r.Requested,
			Deducted:     r.TotalDeducted,
			Shortfall:    r.Shortfall,
		})
	}
	return out
}
