package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// ProductionOrderRepository define el puerto de persistencia para órdenes de
// producción y el cálculo de reservas sobre el stock compartido.
type ProductionOrderRepository interface {
	Create(po *entity.ProductionOrder) error
	GetByID(id string) (*entity.ProductionOrder, error)
	UpdateStatus(id, status string) error
	ListByOrder(orderID string) ([]*entity.ProductionOrder, error)
	List(status string, limit, offset int) ([]*entity.ProductionOrder, error)
	// ReservedPieces suma ToProducePieces de las órdenes PENDING/IN_PROGRESS
	// del producto, excluyendo las del pedido indicado (excludeOrderID puede
	// ser vacío para contar todas). Se recalcula en cada lectura, no hay contador.
	ReservedPieces(productID, excludeOrderID string) (int64, error)
}
