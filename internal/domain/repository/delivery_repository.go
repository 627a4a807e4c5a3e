package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para entregas.
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	CreateItem(item *entity.DeliveryItem) error
	GetByID(id string) (*entity.Delivery, error)
	ListByOrder(orderID string) ([]*entity.Delivery, error)
	// DeliveredPieces suma las piezas ya entregadas contra un ítem de pedido
	// (entregas no canceladas).
	DeliveredPieces(orderItemID string) (int64, error)
}
