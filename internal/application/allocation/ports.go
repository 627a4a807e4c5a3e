package allocation

import (
	"context"

	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del motor de asignación atados a esa tx. La reserva
// (chequear stock → crear órdenes de producción) y la entrega (chequear saldo
// → OUT) son atómicas: dos pedidos concurrentes no pueden contar dos veces el
// mismo stock porque ambos bloquean la fila del producto.
type TxRunner interface {
	RunAllocation(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		poRepo repository.ProductionOrderRepository,
		deliveryRepo repository.DeliveryRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
