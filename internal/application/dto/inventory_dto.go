package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddBatchRequest body para POST /api/inventory/purchases.
// SizeUnit acepta "g" o "mL" además de la unidad del insumo; vacío = unidad del insumo.
type AddBatchRequest struct {
	IngredientID   string          `json:"ingredient_id"`
	ContainerType  string          `json:"container_type"`
	ContainerSize  decimal.Decimal `json:"container_size"`
	SizeUnit       string          `json:"size_unit,omitempty"`
	ContainerCount decimal.Decimal `json:"container_count"`
	ContainerPrice decimal.Decimal `json:"container_price"`
	PurchaseDate   string          `json:"purchase_date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Supplier       string          `json:"supplier,omitempty"`
}

// SetRemainingRequest body para PATCH /api/inventory/entries/:id.
type SetRemainingRequest struct {
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
}

// DeductRequest body para POST /api/inventory/deductions.
type DeductRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    string          `json:"reference,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// StockEntryDTO lote de un insumo.
type StockEntryDTO struct {
	ID                  string          `json:"id"`
	IngredientID        string          `json:"ingredient_id"`
	ContainerType       string          `json:"container_type"`
	ContainerSize       decimal.Decimal `json:"container_size"`
	ContainerCount      decimal.Decimal `json:"container_count"`
	ContainersRemaining decimal.Decimal `json:"containers_remaining"`
	ContainerPrice      decimal.Decimal `json:"container_price"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	PurchasedQuantity   decimal.Decimal `json:"purchased_quantity"`
	RemainingQuantity   decimal.Decimal `json:"remaining_quantity"`
	PurchaseDate        string          `json:"purchase_date"`
	Supplier            string          `json:"supplier,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// StockLevelDTO nivel actual de un insumo (derivado de sus lotes).
type StockLevelDTO struct {
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	CategoryName   string          `json:"category_name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	AvgUnitPrice   decimal.Decimal `json:"avg_unit_price"`
	TotalValue     decimal.Decimal `json:"total_value"`
	EntryCount     int             `json:"entry_count"`
	Status         string          `json:"status"` // out_of_stock | low_stock | in_stock
}

// CategoryStockDTO niveles agrupados por categoría.
type CategoryStockDTO struct {
	CategoryName string          `json:"category_name"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Items        []StockLevelDTO `json:"items"`
}

// TransactionQuery filtros de GET /api/inventory/transactions.
type TransactionQuery struct {
	IngredientID string `query:"ingredient_id"`
	Type         string `query:"type"`
	Reference    string `query:"reference"`
	PageRequest
}

// StockTransactionDTO fila del libro de inventario.
type StockTransactionDTO struct {
	ID             string          `json:"id"`
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name,omitempty"`
	StockEntryID   *string         `json:"stock_entry_id"`
	Type           string          `json:"transaction_type"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Unit           string          `json:"unit"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransactionPageDTO página del historial (más reciente primero).
type TransactionPageDTO struct {
	Items []StockTransactionDTO `json:"items"`
	Page  PageResponse          `json:"page"`
}

// LedgerBreakDTO fila donde la cadena before/after se corta.
type LedgerBreakDTO struct {
	Index         int             `json:"index"`
	TransactionID string          `json:"transaction_id"`
	Expected      decimal.Decimal `json:"expected"`
	Actual        decimal.Decimal `json:"actual"`
}

// LedgerVerificationDTO resultado de reproducir el libro de un insumo.
type LedgerVerificationDTO struct {
	IngredientID  string           `json:"ingredient_id"`
	Transactions  int              `json:"transactions"`
	ReplayedTotal decimal.Decimal  `json:"replayed_total"`
	CurrentTotal  decimal.Decimal  `json:"current_total"`
	Consistent    bool             `json:"consistent"`
	Breaks        []LedgerBreakDTO `json:"breaks,omitempty"`
}

// AllocationDTO lo que un descuento tomó de un lote.
type AllocationDTO struct {
	StockEntryID    string          `json:"stock_entry_id"`
	Taken           decimal.Decimal `json:"taken"`
	RemainingBefore decimal.Decimal `json:"remaining_before"`
	RemainingAfter  decimal.Decimal `json:"remaining_after"`
}

// DeductionDTO resultado de un descuento FIFO.
type DeductionDTO struct {
	IngredientID   string          `json:"ingredient_id"`
	Unit           string          `json:"unit"`
	Requested      decimal.Decimal `json:"requested"`
	TotalDeducted  decimal.Decimal `json:"total_deducted"`
	Shortfall      decimal.Decimal `json:"shortfall"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	TransactionID  string          `json:"transaction_id"`
	Allocations    []AllocationDTO `json:"allocations"`
}

// ReplenishmentSuggestionDTO insumo sugerido para la lista de compras.
type ReplenishmentSuggestionDTO struct {
	IngredientID      string          `json:"ingredient_id"`
	IngredientName    string          `json:"ingredient_name"`
	Unit              string          `json:"unit"`
	CategoryName      string          `json:"category_name"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	Status            string          `json:"status"`
	IdealStock        decimal.Decimal `json:"ideal_stock"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	AvgUnitPrice      decimal.Decimal `json:"avg_unit_price"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	ConsumedLastWeek  decimal.Decimal `json:"consumed_last_week"`
	Priority          int             `json:"priority"` // 1 = más urgente
}
