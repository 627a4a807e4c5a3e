package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos y sus ítems.
// GetByID carga el pedido con sus ítems.
type OrderRepository interface {
	Create(order *entity.Order) error
	UpdateStatus(id, status string) error
	GetByID(id string) (*entity.Order, error)
	List(status string, limit, offset int) ([]*entity.Order, error)
	GetItem(itemID string) (*entity.OrderItem, error)
}
