package repository

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockEntryRepository define el puerto de persistencia de lotes (DIP).
type StockEntryRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	// ListByIngredient devuelve los lotes en orden FIFO: fecha de compra ascendente, luego Seq.
	ListByIngredient(ctx context.Context, ingredientID string) ([]*entity.StockEntry, error)
	// ListAll devuelve todos los lotes en una sola lectura (snapshot consistente).
	ListAll(ctx context.Context) ([]*entity.StockEntry, error)
	UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}
