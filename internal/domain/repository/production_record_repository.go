package repository

import (
	"time"

	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// ProductionRecordRepository define el puerto de persistencia para los
// registros de producción (ciclos por máquina/día/producto).
type ProductionRecordRepository interface {
	Create(record *entity.ProductionRecord) error
	Update(record *entity.ProductionRecord) error
	Delete(id string) error
	GetByID(id string) (*entity.ProductionRecord, error)
	ListByDate(date time.Time) ([]*entity.ProductionRecord, error)
	ListByProductAndDate(productID string, date time.Time) ([]*entity.ProductionRecord, error)
	// ListUnreconciledBefore devuelve los registros con fecha estrictamente
	// anterior a `before` cuyo (producto, fecha) no tiene empaletizado ni está
	// cubierto por un movimiento legado (IN diario con back-reference al registro).
	ListUnreconciledBefore(before time.Time) ([]*entity.ProductionRecord, error)
	// ListUnreconciledBeforeByProduct es la misma consulta restringida a un
	// producto (piezas en curado de ese producto).
	ListUnreconciledBeforeByProduct(productID string, before time.Time) ([]*entity.ProductionRecord, error)
}
