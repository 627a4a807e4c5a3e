package repository

import (
	"time"

	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia del libro de
// movimientos. El libro es append-only: Delete existe solo para revertir un
// movimiento a través de su registro de origen o eliminar un ajuste manual.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	Delete(id string) error
	GetByID(id string) (*entity.InventoryMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	// AvailablePieces recomputa Σ IN − Σ OUT desde todo el historial del
	// producto. Nunca se confía en un saldo materializado.
	AvailablePieces(productID string) (int64, error)
	// HasLegacyIN indica si existe un IN legado (con back-reference a un
	// registro de producción) para el (producto, fecha); esos días ya están
	// contados y no son elegibles para empaletizar.
	HasLegacyIN(productID string, date time.Time) (bool, error)
}
