package repository

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// TransactionFilter filtros del historial; campos vacíos no filtran.
type TransactionFilter struct {
	IngredientID string
	Type         string
	Reference    string
	Limit        int
	Offset       int
}

// StockTransactionRepository define el puerto del libro de inventario (solo inserción).
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	// List devuelve el historial del más reciente al más antiguo.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.StockTransaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int, error)
	// ListByIngredientAsc devuelve todas las filas del insumo en orden de creación (para replay).
	ListByIngredientAsc(ctx context.Context, ingredientID string) ([]*entity.StockTransaction, error)
}
