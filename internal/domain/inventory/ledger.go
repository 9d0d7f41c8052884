package inventory

import (
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ChainBreak fila del libro cuyo saldo anterior no coincide con el saldo acumulado.
type ChainBreak struct {
	Index          int
	TransactionID  string
	ExpectedBefore decimal.Decimal
	ActualBefore   decimal.Decimal
}

// ReplayResult resultado de reproducir el libro de un insumo.
type ReplayResult struct {
	Count  int
	Total  decimal.Decimal
	Breaks []ChainBreak
}

// Consistent indica que la cadena before/after no tiene cortes.
func (r ReplayResult) Consistent() bool { return len(r.Breaks) == 0 }

// Replay reproduce las transacciones (en orden de creación) partiendo de cero.
// Cada fila debe cumplir before == saldo acumulado y after == before + change.
func Replay(txs []*entity.StockTransaction) ReplayResult {
	res := ReplayResult{Total: decimal.Zero}
	running := decimal.Zero
	for i, t := range txs {
		if !t.QuantityBefore.Equal(running) {
			res.Breaks = append(res.Breaks, ChainBreak{
				Index:          i,
				TransactionID:  t.ID,
				ExpectedBefore: running,
				ActualBefore:   t.QuantityBefore,
			})
		}
		running = running.Add(t.QuantityChange)
		if !t.QuantityAfter.Equal(t.QuantityBefore.Add(t.QuantityChange)) {
			res.Breaks = append(res.Breaks, ChainBreak{
				Index:          i,
				TransactionID:  t.ID,
				ExpectedBefore: t.QuantityBefore.Add(t.QuantityChange),
				ActualBefore:   t.QuantityAfter,
			})
		}
		res.Count++
	}
	res.Total = running
	return res
}
