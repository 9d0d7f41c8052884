package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

const entryColumns = `
	id, ingredient_id, container_type, container_size, container_count, container_price,
	purchase_date, supplier, seq, remaining_quantity, created_at, updated_at`

// StockEntryRepo lotes sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create inserta el lote; seq lo asigna la secuencia y se devuelve en entry.Seq.
func (r *StockEntryRepo) Create(ctx context.Context, entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (id, ingredient_id, container_type, container_size, container_count,
			container_price, purchase_date, supplier, remaining_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		entry.ID, entry.IngredientID, entry.ContainerType, entry.ContainerSize, entry.ContainerCount,
		entry.ContainerPrice, entry.PurchaseDate, entry.Supplier, entry.RemainingQuantity,
		entry.CreatedAt, entry.UpdatedAt,
	).Scan(&entry.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create stock entry %s: %w", entry.ID, domain.ErrConflict)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("create stock entry: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("create stock entry: %w", err)
	}
	return nil
}

// GetByID obtiene un lote. (nil, nil) si no existe.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	query := `SELECT` + entryColumns + ` FROM stock_entries WHERE id = $1`
	var e entity.StockEntry
	err := r.q.QueryRow(ctx, query, id).Scan(entryFields(&e)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return &e, nil
}

// ListByIngredient lotes del insumo en orden FIFO.
func (r *StockEntryRepo) ListByIngredient(ctx context.Context, ingredientID string) ([]*entity.StockEntry, error) {
	query := `SELECT` + entryColumns + `
		FROM stock_entries
		WHERE ingredient_id = $1
		ORDER BY purchase_date, seq`
	return r.list(ctx, query, ingredientID)
}

// ListAll todos los lotes en una sola consulta.
func (r *StockEntryRepo) ListAll(ctx context.Context) ([]*entity.StockEntry, error) {
	query := `SELECT` + entryColumns + `
		FROM stock_entries
		ORDER BY purchase_date, seq`
	return r.list(ctx, query)
}

// UpdateRemaining fija la cantidad restante del lote.
func (r *StockEntryRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	if remaining.IsNegative() {
		return fmt.Errorf("restante negativo en lote %s: %w", id, domain.ErrInvalidInput)
	}
	query := `UPDATE stock_entries SET remaining_quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, remaining)
	if err != nil {
		return fmt.Errorf("update stock entry remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete borra el lote. Las filas del libro que lo citan se conservan.
func (r *StockEntryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *StockEntryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(entryFields(&e)...); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func entryFields(e *entity.StockEntry) []any {
	return []any{
		&e.ID, &e.IngredientID, &e.ContainerType, &e.ContainerSize, &e.ContainerCount, &e.ContainerPrice,
		&e.PurchaseDate, &e.Supplier, &e.Seq, &e.RemainingQuantity, &e.CreatedAt, &e.UpdatedAt,
	}
}
