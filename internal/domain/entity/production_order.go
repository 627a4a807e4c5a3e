package entity

import "time"

// Estados de la orden de producción.
const (
	ProductionOrderPending    = "PENDING"
	ProductionOrderInProgress = "IN_PROGRESS"
	ProductionOrderCompleted  = "COMPLETED"
	ProductionOrderCancelled  = "CANCELLED"
)

// ProductionOrder es la orden de trabajo derivada de un ítem de pedido.
// Mientras esté PENDING o IN_PROGRESS, ToProducePieces es una reserva: otros
// pedidos deben descontarla del stock disponible. Al pasar a COMPLETED la
// reserva se convierte en stock físico en el libro; CANCELLED la libera.
type ProductionOrder struct {
	ID              string
	OrderItemID     string
	OrderID         string
	ProductID       string
	QuantityPieces  int64 // demanda total del ítem en piezas
	StockAtCreation int64 // snapshot del stock disponible al generar la orden
	ToProducePieces int64 // faltante a producir (0..QuantityPieces)
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reserving indica si la orden aún reclama piezas del stock compartido.
func (po *ProductionOrder) Reserving() bool {
	return po.Status == ProductionOrderPending || po.Status == ProductionOrderInProgress
}

// productionOrderTransitions define las transiciones válidas.
var productionOrderTransitions = map[string][]string{
	ProductionOrderPending:    {ProductionOrderInProgress, ProductionOrderCompleted, ProductionOrderCancelled},
	ProductionOrderInProgress: {ProductionOrderCompleted, ProductionOrderCancelled},
}

// CanTransition indica si la orden puede pasar al estado destino.
func (po *ProductionOrder) CanTransition(to string) bool {
	for _, s := range productionOrderTransitions[po.Status] {
		if s == to {
			return true
		}
	}
	return false
}
