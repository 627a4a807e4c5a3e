package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de pedido: cantidad en piezas (UN) o m² (M2).
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest body para POST /api/orders (nace como cotización).
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Notes      string             `json:"notes,omitempty"`
	Items      []OrderItemRequest `json:"items"`
}

// OrderItemResponse línea de pedido en respuestas.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse pedido en respuestas.
type OrderResponse struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	CustomerID string              `json:"customer_id"`
	Status     string              `json:"status"`
	Notes      string              `json:"notes,omitempty"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ItemAvailabilityDTO resultado de chequear stock para una línea de pedido.
// SuggestedToProduce es editable por el usuario antes de generar las órdenes.
type ItemAvailabilityDTO struct {
	OrderItemID        string `json:"order_item_id"`
	ProductID          string `json:"product_id"`
	ProductName        string `json:"product_name"`
	QuantityPieces     int64  `json:"quantity_pieces"`
	AvailableStock     int64  `json:"available_stock"`
	ReservedByOthers   int64  `json:"reserved_by_others"`
	AvailableForOrder  int64  `json:"available_for_order"`
	SuggestedToProduce int64  `json:"suggested_to_produce"`
}

// CheckStockResponse respuesta de GET /api/orders/:id/check-stock.
type CheckStockResponse struct {
	OrderID string                `json:"order_id"`
	Items   []ItemAvailabilityDTO `json:"items"`
}

// GenerateProductionOrderItem compromiso final por línea (puede diferir de la
// sugerencia, pero 0 <= to_produce <= quantity_pieces).
type GenerateProductionOrderItem struct {
	OrderItemID     string `json:"order_item_id"`
	ToProducePieces int64  `json:"to_produce_pieces"`
}

// GenerateProductionOrdersRequest body para POST /api/orders/:id/production-orders.
type GenerateProductionOrdersRequest struct {
	Items []GenerateProductionOrderItem `json:"items"`
}

// ProductionOrderResponse orden de producción en respuestas.
type ProductionOrderResponse struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"order_id"`
	OrderItemID     string    `json:"order_item_id"`
	ProductID       string    `json:"product_id"`
	QuantityPieces  int64     `json:"quantity_pieces"`
	StockAtCreation int64     `json:"stock_at_creation"`
	ToProducePieces int64     `json:"to_produce_pieces"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
