package repository

import (
	"time"

	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// PalletizationRepository define el puerto de persistencia para empaletizados.
// La unicidad (producto, fecha) la garantiza la base de datos; Create debe
// traducir la violación a domain.ErrDuplicate.
type PalletizationRepository interface {
	Create(p *entity.Palletization) error
	Delete(id string) error
	GetByID(id string) (*entity.Palletization, error)
	GetByProductAndDate(productID string, date time.Time) (*entity.Palletization, error)
	// GetLatestByProduct devuelve el empaletizado más reciente del producto
	// (por fecha de creación), o nil si no hay ninguno.
	GetLatestByProduct(productID string) (*entity.Palletization, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.Palletization, error)
}
