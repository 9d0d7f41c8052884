package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry representa un lote comprado de un insumo.
// RemainingQuantity es la única columna mutable: la decrementa el descuento FIFO
// o la corrige un operador; nunca es negativa.
type StockEntry struct {
	ID                string
	IngredientID      string
	ContainerType     string          // botella, saco, caja, kg...
	ContainerSize     decimal.Decimal // en la unidad del insumo, > 0
	ContainerCount    decimal.Decimal // contenedores comprados
	ContainerPrice    decimal.Decimal // precio por contenedor
	PurchaseDate      time.Time
	Supplier          string
	Seq               int64 // orden de inserción, desempata FIFO
	RemainingQuantity decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PurchasedQuantity cantidad comprada originalmente (contenedores × tamaño).
func (e *StockEntry) PurchasedQuantity() decimal.Decimal {
	return e.ContainerCount.Mul(e.ContainerSize)
}

// ContainersRemaining contenedores equivalentes a la cantidad restante.
func (e *StockEntry) ContainersRemaining() decimal.Decimal {
	if !e.ContainerSize.IsPositive() {
		return decimal.Zero
	}
	return e.RemainingQuantity.Div(e.ContainerSize)
}

// UnitPrice precio por kg o L.
func (e *StockEntry) UnitPrice() decimal.Decimal {
	if !e.ContainerSize.IsPositive() {
		return decimal.Zero
	}
	return e.ContainerPrice.Div(e.ContainerSize)
}

// Clone copia el lote para que el llamador no comparta estado mutable.
func (e *StockEntry) Clone() *StockEntry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
