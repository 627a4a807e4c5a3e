package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeIN  = "IN"  // entrada (solo generada por el sistema)
	MovementTypeOUT = "OUT" // salida (entrega o ajuste manual)
)

// InventoryMovement es una entrada del libro de movimientos (append-only).
// Las entradas IN nacen siempre de un empaletizado o de consolidar sueltas;
// las OUT nacen de entregas o de ajustes manuales (merma, venta de patio).
// Pallets y M2 son equivalencias derivadas al momento del registro, solo para
// visualización; las piezas son la verdad.
type InventoryMovement struct {
	ID                 string
	ProductID          string
	Type               string
	Pieces             int64
	Pallets            decimal.Decimal // equivalencia en estibas (1 decimal)
	M2                 decimal.Decimal // equivalencia en m² (1 decimal)
	Date               time.Time
	PalletizationID    *string // empaletizado que generó la entrada (IN)
	ProductionRecordID *string // enlace legado: IN diario anterior al empaletizado
	DeliveryItemID     *string // ítem de entrega que generó la salida (OUT)
	Note               string
	CreatedBy          string
	CreatedAt          time.Time
}

// SystemGenerated indica si el movimiento fue creado por el sistema (y por lo
// tanto solo puede eliminarse a través de su registro de origen).
func (m *InventoryMovement) SystemGenerated() bool {
	return m.PalletizationID != nil || m.ProductionRecordID != nil || m.DeliveryItemID != nil
}
