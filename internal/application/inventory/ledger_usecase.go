package inventory

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

const maxHistoryPage = 100

// LedgerUseCase consulta y verifica el libro de inventario.
type LedgerUseCase struct {
	txRunner       TxRunner
	ingredientRepo repository.IngredientRepository
	txRepo         repository.StockTransactionRepository
	pageSize       int
}

// NewLedgerUseCase construye el caso de uso. pageSize es el tamaño de página por defecto.
func NewLedgerUseCase(
	txRunner TxRunner,
	ingredientRepo repository.IngredientRepository,
	txRepo repository.StockTransactionRepository,
	pageSize int,
) *LedgerUseCase {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &LedgerUseCase{
		txRunner:       txRunner,
		ingredientRepo: ingredientRepo,
		txRepo:         txRepo,
		pageSize:       pageSize,
	}
}

// ListTransactions devuelve el historial del más reciente al más antiguo, paginado.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, q dto.TransactionQuery) (*dto.TransactionPageDTO, error) {
	if q.Type != "" && !entity.ValidTransactionType(q.Type) {
		return nil, domain.ErrInvalidInput
	}
	q.PageRequest = q.PageRequest.Normalize(uc.pageSize, maxHistoryPage)
	filter := repository.TransactionFilter{
		IngredientID: q.IngredientID,
		Type:         q.Type,
		Reference:    q.Reference,
		Limit:        q.Limit,
		Offset:       q.Offset,
	}
	rows, err := uc.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	ingredients, err := uc.ingredientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ingredients))
	for _, ing := range ingredients {
		names[ing.ID] = ing.Name
	}

	items := make([]dto.StockTransactionDTO, 0, len(rows))
	for _, t := range rows {
		item := ToTransactionDTO(t)
		item.IngredientName = names[t.IngredientID]
		items = append(items, item)
	}
	return &dto.TransactionPageDTO{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Verify reproduce el libro del insumo desde cero y lo compara con el total de los lotes.
// Se hace con el insumo bloqueado para no leer un descuento a medias.
func (uc *LedgerUseCase) Verify(ctx context.Context, ingredientID string) (*dto.LedgerVerificationDTO, error) {
	var out *dto.LedgerVerificationDTO
	err := uc.txRunner.Run(ctx, func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		ing, err := ingredientRepo.LockForUpdate(ctx, ingredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			return domain.ErrNotFound
		}
		rows, err := txRepo.ListByIngredientAsc(ctx, ing.ID)
		if err != nil {
			return err
		}
		entries, err := entryRepo.ListByIngredient(ctx, ing.ID)
		if err != nil {
			return err
		}
		replay := inventory.Replay(rows)
		current := inventory.Total(entries)

		out = &dto.LedgerVerificationDTO{
			IngredientID:  ing.ID,
			Transactions:  replay.Count,
			ReplayedTotal: replay.Total,
			CurrentTotal:  current,
			Consistent:    replay.Consistent() && replay.Total.Equal(current),
		}
		for _, b := range replay.Breaks {
			out.Breaks = append(out.Breaks, dto.LedgerBreakDTO{
				Index:         b.Index,
				TransactionID: b.TransactionID,
				Expected:      b.ExpectedBefore,
				Actual:        b.ActualBefore,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
