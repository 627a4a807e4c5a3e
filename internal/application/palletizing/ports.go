package palletizing

import (
	"context"

	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad del motor de empaletizado:
// empaletizado + movimiento IN + saldo de sueltas se escriben juntos o no se
// escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		recordRepo repository.ProductionRecordRepository,
		palletRepo repository.PalletizationRepository,
		looseRepo repository.LooseBalanceRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
