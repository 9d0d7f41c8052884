package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// StockEntryUseCase registra compras y corrige lotes. Cada mutación bloquea el insumo
// (SELECT FOR UPDATE) y deja su fila en el libro dentro de la misma transacción.
type StockEntryUseCase struct {
	txRunner       TxRunner
	ingredientRepo repository.IngredientRepository
	entryRepo      repository.StockEntryRepository
	log            *logger.Logger
	now            func() time.Time
}

// NewStockEntryUseCase construye el caso de uso.
func NewStockEntryUseCase(
	txRunner TxRunner,
	ingredientRepo repository.IngredientRepository,
	entryRepo repository.StockEntryRepository,
	log *logger.Logger,
) *StockEntryUseCase {
	return &StockEntryUseCase{
		txRunner:       txRunner,
		ingredientRepo: ingredientRepo,
		entryRepo:      entryRepo,
		log:            log,
		now:            time.Now,
	}
}

// AddBatchInput entrada para registrar un lote comprado.
type AddBatchInput struct {
	IngredientID   string
	ContainerType  string
	ContainerSize  decimal.Decimal
	SizeUnit       string // g / mL se normalizan a kg / L
	ContainerCount decimal.Decimal
	ContainerPrice decimal.Decimal
	PurchaseDate   time.Time // cero = hoy
	Supplier       string
}

// AddBatchFromRequest adapta el request HTTP a AddBatch.
func (uc *StockEntryUseCase) AddBatchFromRequest(ctx context.Context, in dto.AddBatchRequest) (*entity.StockEntry, error) {
	input := AddBatchInput{
		IngredientID:   in.IngredientID,
		ContainerType:  in.ContainerType,
		ContainerSize:  in.ContainerSize,
		SizeUnit:       in.SizeUnit,
		ContainerCount: in.ContainerCount,
		ContainerPrice: in.ContainerPrice,
		Supplier:       in.Supplier,
	}
	if in.PurchaseDate != "" {
		d, err := time.Parse(dateLayout, in.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("fecha de compra %q: %w", in.PurchaseDate, domain.ErrInvalidInput)
		}
		input.PurchaseDate = d
	}
	return uc.AddBatch(ctx, input)
}

// AddBatch crea el lote con restante = contenedores × tamaño y registra la fila "purchase".
func (uc *StockEntryUseCase) AddBatch(ctx context.Context, input AddBatchInput) (*entity.StockEntry, error) {
	if input.IngredientID == "" || strings.TrimSpace(input.ContainerType) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.ContainerSize.IsPositive() || input.ContainerCount.IsNegative() || input.ContainerPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	purchaseDate := input.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = now
	}

	var created *entity.StockEntry
	err := uc.txRunner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		ing, err := ingredientRepo.LockForUpdate(ctx, input.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			return domain.ErrNotFound
		}
		size, err := inventory.NormalizeSize(input.ContainerSize, input.SizeUnit, ing.Unit)
		if err != nil {
			return err
		}
		entries, err := entryRepo.ListByIngredient(ctx, ing.ID)
		if err != nil {
			return err
		}
		before := inventory.Total(entries)

		entry := &entity.StockEntry{
			ID:             uuid.New().String(),
			IngredientID:   ing.ID,
			ContainerType:  strings.TrimSpace(input.ContainerType),
			ContainerSize:  size,
			ContainerCount: input.ContainerCount,
			ContainerPrice: input.ContainerPrice,
			PurchaseDate:   dateOnly(purchaseDate),
			Supplier:       strings.TrimSpace(input.Supplier),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		entry.RemainingQuantity = entry.PurchasedQuantity()
		if err := entryRepo.Create(ctx, entry); err != nil {
			return err
		}

		row := newLedgerRow(ing, entity.TransactionTypePurchase, before, entry.RemainingQuantity, now)
		row.StockEntryID = &entry.ID
		row.Notes = strings.TrimSpace("compra " + entry.Supplier)
		if err := txRepo.Create(ctx, row); err != nil {
			return consistencyFault(err)
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("ingredient_id", created.IngredientID).
		Str("entry_id", created.ID).
		Str("quantity", created.RemainingQuantity.String()).
		Msg("lote registrado")
	return created, nil
}

// ListByIngredient devuelve los lotes del insumo en orden FIFO.
func (uc *StockEntryUseCase) ListByIngredient(ctx context.Context, ingredientID string) ([]*entity.StockEntry, error) {
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
	inventory.SortFIFO(entries)
	return entries, nil
}

// SetRemaining fija el restante de un lote (corrección de operador). Un valor negativo
// queda en cero. Sin cambio no se escribe fila en el libro.
func (uc *StockEntryUseCase) SetRemaining(ctx context.Context, entryID string, remaining decimal.Decimal) (*entity.StockEntry, error) {
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	var updated *entity.StockEntry
	err := uc.withLockedEntry(ctx, entryID, func(
		ing *entity.Ingredient,
		entry *entity.StockEntry,
		before decimal.Decimal,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		if entry.RemainingQuantity.Equal(remaining) {
			updated = entry
			return nil
		}
		change := remaining.Sub(entry.RemainingQuantity)
		if err := entryRepo.UpdateRemaining(ctx, entry.ID, remaining); err != nil {
			return consistencyFault(err)
		}
		row := newLedgerRow(ing, entity.TransactionTypeAdjustment, before, change, uc.now())
		row.StockEntryID = &entry.ID
		row.Notes = "corrección manual del restante"
		if err := txRepo.Create(ctx, row); err != nil {
			return consistencyFault(err)
		}
		entry.RemainingQuantity = remaining
		entry.UpdatedAt = row.CreatedAt
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEntry elimina un lote sin condiciones. Si aún tenía restante, el libro
// registra el ajuste negativo para que el replay siga cuadrando.
func (uc *StockEntryUseCase) DeleteEntry(ctx context.Context, entryID string) error {
	return uc.withLockedEntry(ctx, entryID, func(
		ing *entity.Ingredient,
		entry *entity.StockEntry,
		before decimal.Decimal,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		if err := entryRepo.Delete(ctx, entry.ID); err != nil {
			return err
		}
		if !entry.RemainingQuantity.IsPositive() {
			return nil
		}
		row := newLedgerRow(ing, entity.TransactionTypeAdjustment, before, entry.RemainingQuantity.Neg(), uc.now())
		row.StockEntryID = &entry.ID
		row.Notes = "lote eliminado"
		if err := txRepo.Create(ctx, row); err != nil {
			return consistencyFault(err)
		}
		uc.log.Warn().
			Str("ingredient_id", ing.ID).
			Str("entry_id", entry.ID).
			Str("remaining", entry.RemainingQuantity.String()).
			Msg("lote eliminado con restante")
		return nil
	})
}

type lockedEntryFn func(
	ing *entity.Ingredient,
	entry *entity.StockEntry,
	before decimal.Decimal,
	entryRepo repository.StockEntryRepository,
	txRepo repository.StockTransactionRepository,
) error

// withLockedEntry resuelve el insumo del lote, lo bloquea y vuelve a leer el lote ya bajo bloqueo.
func (uc *StockEntryUseCase) withLockedEntry(ctx context.Context, entryID string, fn lockedEntryFn) error {
	if entryID == "" {
		return domain.ErrInvalidInput
	}
	unlocked, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if unlocked == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		ing, err := ingredientRepo.LockForUpdate(ctx, unlocked.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			return domain.ErrNotFound
		}
		entry, err := entryRepo.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		entries, err := entryRepo.ListByIngredient(ctx, ing.ID)
		if err != nil {
			return err
		}
		return fn(ing, entry, inventory.Total(entries), entryRepo, txRepo)
	})
}

// newLedgerRow arma una fila del libro con before/after a nivel de insumo.
func newLedgerRow(ing *entity.Ingredient, txType string, before, change decimal.Decimal, now time.Time) *entity.StockTransaction {
	return &entity.StockTransaction{
		ID:             uuid.New().String(),
		IngredientID:   ing.ID,
		Type:           txType,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  before.Add(change),
		Unit:           ing.Unit,
		CreatedAt:      now,
	}
}

// consistencyFault marca un error de escritura ocurrido después de mutar lotes.
func consistencyFault(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrConsistencyFault, err)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
