package dto

import "github.com/shopspring/decimal"

// OrderLineRequest línea de pedido: plato y cantidad.
type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// FulfillOrderRequest body para POST /api/orders/fulfill.
// OrderNumber vacío genera ORD-<uuid>.
type FulfillOrderRequest struct {
	OrderNumber string             `json:"order_number,omitempty"`
	Lines       []OrderLineRequest `json:"lines"`
}

// ShortfallWarningDTO insumo que no alcanzó a cubrirse.
type ShortfallWarningDTO struct {
	IngredientID string          `json:"ingredient_id"`
	Unit         string          `json:"unit"`
	Requested    decimal.Decimal `json:"requested"`
	Deducted     decimal.Decimal `json:"deducted"`
	Shortfall    decimal.Decimal `json:"shortfall"`
}

// FulfillmentDTO respuesta del descuento de un pedido.
type FulfillmentDTO struct {
	OrderNumber string                `json:"order_number"`
	Deductions  []DeductionDTO        `json:"deductions"`
	Warnings    []ShortfallWarningDTO `json:"warnings"`
}

// InsufficientStockResponse cuerpo 409 cuando la política de faltantes bloquea el pedido.
type InsufficientStockResponse struct {
	Code     string                `json:"code"`
	Message  string                `json:"message"`
	Warnings []ShortfallWarningDTO `json:"warnings"`
}

// PartialOrderResponse cuerpo 500 cuando un pedido quedó descontado a medias.
// Deductions son los insumos que sí quedaron en el libro.
type PartialOrderResponse struct {
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	OrderNumber string         `json:"order_number"`
	Deductions  []DeductionDTO `json:"deductions"`
}

// IngredientRequirementDTO requerimiento de un insumo para servir un plato.
type IngredientRequirementDTO struct {
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Required       decimal.Decimal `json:"required"`
	Available      decimal.Decimal `json:"available"`
	Sufficient     bool            `json:"sufficient"`
}

// MenuAvailabilityDTO disponibilidad de un plato según el stock actual.
// MaxServings es nil cuando el plato no tiene receta (no consume insumos).
type MenuAvailabilityDTO struct {
	MenuItemID   string                     `json:"menu_item_id"`
	MenuItemName string                     `json:"menu_item_name"`
	Quantity     int                        `json:"quantity"`
	Available    bool                       `json:"available"`
	MaxServings  *int64                     `json:"max_servings"`
	Requirements []IngredientRequirementDTO `json:"requirements"`
}
