package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `
	id, ingredient_id, stock_entry_id, type, quantity_change, quantity_before, quantity_after,
	unit, reference, notes, created_at, seq`

// StockTransactionRepo libro de inventario sobre PostgreSQL. Solo INSERT y SELECT.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create agrega una fila al libro; seq viene de la secuencia.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	if !entity.ValidTransactionType(t.Type) {
		return fmt.Errorf("tipo %q: %w", t.Type, domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO stock_transactions (id, ingredient_id, stock_entry_id, type, quantity_change,
			quantity_before, quantity_after, unit, reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.IngredientID, t.StockEntryID, t.Type, t.QuantityChange,
		t.QuantityBefore, t.QuantityAfter, t.Unit, nullable(t.Reference), nullable(t.Notes), t.CreatedAt,
	).Scan(&t.Seq)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// List historial del más reciente al más antiguo, con paginación.
func (r *StockTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	where, args := transactionWhere(f)
	query := `SELECT` + transactionColumns + ` FROM stock_transactions` + where + ` ORDER BY seq DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.list(ctx, query, args...)
}

// Count total de filas que cumplen el filtro (ignora Limit y Offset).
func (r *StockTransactionRepo) Count(ctx context.Context, f repository.TransactionFilter) (int, error) {
	where, args := transactionWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_transactions`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock transactions: %w", err)
	}
	return n, nil
}

// ListByIngredientAsc filas del insumo en orden de inserción.
func (r *StockTransactionRepo) ListByIngredientAsc(ctx context.Context, ingredientID string) ([]*entity.StockTransaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM stock_transactions
		WHERE ingredient_id = $1
		ORDER BY seq`
	return r.list(ctx, query, ingredientID)
}

func (r *StockTransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransaction
	for rows.Next() {
		var (
			t                entity.StockTransaction
			reference, notes *string
		)
		if err := rows.Scan(
			&t.ID, &t.IngredientID, &t.StockEntryID, &t.Type, &t.QuantityChange,
			&t.QuantityBefore, &t.QuantityAfter, &t.Unit, &reference, &notes, &t.CreatedAt, &t.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		if reference != nil {
			t.Reference = *reference
		}
		if notes != nil {
			t.Notes = *notes
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// transactionWhere arma el WHERE con placeholders numerados; filtros vacíos se omiten.
func transactionWhere(f repository.TransactionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("ingredient_id", f.IngredientID)
	add("type", f.Type)
	add("reference", f.Reference)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
