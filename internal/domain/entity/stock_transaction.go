package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro.
const (
	TransactionTypePurchase   = "purchase"
	TransactionTypeDeduction  = "deduction"
	TransactionTypeAdjustment = "adjustment"
)

// StockTransaction es una fila del libro de inventario (solo inserción).
// QuantityBefore y QuantityAfter son totales del insumo, no del lote.
// StockEntryID es nil cuando la fila resume un descuento sobre varios lotes.
type StockTransaction struct {
	ID             string
	IngredientID   string
	StockEntryID   *string
	Type           string
	QuantityChange decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Unit           string
	Reference      string // número de pedido u otra referencia
	Notes          string
	CreatedAt      time.Time
	Seq            int64
}

// ValidTransactionType indica si t es un tipo de transacción conocido.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeDeduction, TransactionTypeAdjustment:
		return true
	}
	return false
}
