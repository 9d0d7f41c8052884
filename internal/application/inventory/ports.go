package inventory

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ingredientRepo repository.IngredientRepository,
		entryRepo repository.StockEntryRepository,
		txRepo repository.StockTransactionRepository,
	) error) error
}

// Locker bloqueo por clave (número de pedido). release nunca es nil cuando err == nil.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// StockReportGenerator genera el PDF de valorización de stock.
type StockReportGenerator interface {
	GenerateStockReport(report StockReport) ([]byte, error)
}
