package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
const (
	OrderStatusQuote        = "QUOTE"         // cotización
	OrderStatusConfirmed    = "CONFIRMED"     // confirmado por el cliente
	OrderStatusInProduction = "IN_PRODUCTION" // órdenes de producción generadas
	OrderStatusReady        = "READY"         // stock completo, listo para entregar
	OrderStatusDelivered    = "DELIVERED"     // entregado en su totalidad
	OrderStatusCancelled    = "CANCELLED"
)

// Unidades de cantidad de un ítem de pedido.
const (
	UnitPieces = "UN" // piezas
	UnitM2     = "M2" // metros cuadrados (convertible vía receta)
)

// Order es un pedido de cliente. Nace como cotización y avanza por el flujo
// QUOTE → CONFIRMED → IN_PRODUCTION → READY → DELIVERED.
type Order struct {
	ID         string
	Number     string // consecutivo legible: "PED-2026-0042"
	CustomerID string
	Status     string
	Notes      string
	Items      []OrderItem
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem es una línea de pedido. Quantity se expresa en Unit; la cantidad en
// piezas se deriva vía receta al consultar disponibilidad.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	Unit      string
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// orderTransitions define las transiciones válidas del pedido.
var orderTransitions = map[string][]string{
	OrderStatusQuote:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:    {OrderStatusInProduction, OrderStatusReady, OrderStatusCancelled},
	OrderStatusInProduction: {OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusReady:        {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition indica si el pedido puede pasar al estado destino.
func (o *Order) CanTransition(to string) bool {
	for _, s := range orderTransitions[o.Status] {
		if s == to {
			return true
		}
	}
	return false
}
