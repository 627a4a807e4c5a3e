package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// LooseBalanceRepository define el puerto para el saldo vigente de piezas
// sueltas por producto. Get devuelve saldo cero si el producto no tiene fila.
type LooseBalanceRepository interface {
	Get(productID string) (*entity.LoosePiecesBalance, error)
	// GetForUpdate bloquea la fila del saldo (SELECT FOR UPDATE) dentro de la
	// transacción que lo va a modificar.
	GetForUpdate(productID string) (*entity.LoosePiecesBalance, error)
	Upsert(balance *entity.LoosePiecesBalance) error
}
