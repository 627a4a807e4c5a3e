package dto

import "time"

// DeliveryItemRequest piezas a despachar contra un ítem de pedido.
type DeliveryItemRequest struct {
	OrderItemID string `json:"order_item_id"`
	Pieces      int64  `json:"pieces"`
}

// RecordDeliveryRequest body para POST /api/orders/:id/deliveries.
type RecordDeliveryRequest struct {
	Date  string                `json:"date,omitempty"` // 2006-01-02, hoy si vacío
	Notes string                `json:"notes,omitempty"`
	Items []DeliveryItemRequest `json:"items"`
}

// DeliveryAvailabilityDTO saldo entregable de una línea de pedido.
type DeliveryAvailabilityDTO struct {
	OrderItemID     string `json:"order_item_id"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	OrderedPieces   int64  `json:"ordered_pieces"`
	DeliveredPieces int64  `json:"delivered_pieces"`
	RemainingPieces int64  `json:"remaining_pieces"`
	AvailableStock  int64  `json:"available_stock"`
	DeliverableCap  int64  `json:"deliverable_cap"` // min(remaining, available)
}

// DeliveryAvailabilityResponse respuesta de GET /api/orders/:id/delivery-availability.
type DeliveryAvailabilityResponse struct {
	OrderID string                    `json:"order_id"`
	Items   []DeliveryAvailabilityDTO `json:"items"`
}

// DeliveryItemResponse ítem de entrega en respuestas.
type DeliveryItemResponse struct {
	ID          string `json:"id"`
	OrderItemID string `json:"order_item_id"`
	ProductID   string `json:"product_id"`
	Pieces      int64  `json:"pieces"`
	MovementID  string `json:"movement_id"`
}

// DeliveryResponse entrega en respuestas.
type DeliveryResponse struct {
	ID        string                 `json:"id"`
	Number    string                 `json:"number"`
	OrderID   string                 `json:"order_id"`
	Date      string                 `json:"date"`
	Status    string                 `json:"status"`
	Notes     string                 `json:"notes,omitempty"`
	Items     []DeliveryItemResponse `json:"items"`
	CreatedAt time.Time              `json:"created_at"`
}
