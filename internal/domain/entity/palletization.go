package entity

import "time"

// Palletization concilia toda la producción de un (producto, fecha) en
// inventario discreto. Única por (producto, fecha). Todos los valores quedan
// congelados al momento de conciliar: un cambio posterior de receta no altera
// la historia.
//
// Invariante de conservación:
//
//	RealPieces + LoosePiecesAfter + LossPieces == TheoreticalPieces + LoosePiecesBefore
//	LossPieces >= 0
type Palletization struct {
	ID                string
	ProductID         string
	Date              time.Time // fecha de producción conciliada
	TheoreticalPieces int64     // Σ ciclos × piezas por ciclo
	LoosePiecesBefore int64     // saldo de sueltas arrastrado al conciliar
	CompletePallets   int64     // estibas completas confirmadas por el operario
	LoosePiecesAfter  int64     // sueltas restantes confirmadas
	PiecesPerPallet   int64     // snapshot de la receta al conciliar
	RealPieces        int64     // CompletePallets × PiecesPerPallet
	LossPieces        int64     // pérdida/rotura del día
	Approximated      bool      // piezas teóricas derivadas de ciclos crudos (sin receta por ciclo)
	Notes             string
	MovementID        string // movimiento IN generado por esta conciliación
	CreatedBy         string
	CreatedAt         time.Time
}

// LoosePiecesBalance es el saldo vigente de piezas sueltas (que no completan
// estiba) por producto. Se actualiza solo dentro de la misma transacción que el
// empaletizado o la consolidación que lo cambia; nunca se recalcula de la historia.
type LoosePiecesBalance struct {
	ProductID string
	Pieces    int64
	UpdatedAt time.Time
}
