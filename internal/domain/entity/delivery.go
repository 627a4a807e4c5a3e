package entity

import "time"

// Estados de la entrega.
const (
	DeliveryStatusRegistered = "REGISTERED"
	DeliveryStatusCancelled  = "CANCELLED"
)

// Delivery es una remisión de despacho contra un pedido. Cada ítem consume
// saldo del ítem de pedido y genera un movimiento OUT en el libro.
type Delivery struct {
	ID        string
	Number    string // consecutivo legible: "REM-2026-0107"
	OrderID   string
	Date      time.Time
	Status    string
	Notes     string
	Items     []DeliveryItem
	CreatedBy string
	CreatedAt time.Time
}

// DeliveryItem despacha piezas de un ítem de pedido.
type DeliveryItem struct {
	ID          string
	DeliveryID  string
	OrderItemID string
	ProductID   string
	Pieces      int64
	MovementID  string // movimiento OUT generado
	CreatedAt   time.Time
}
