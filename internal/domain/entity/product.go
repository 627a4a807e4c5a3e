package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto de la planta.
const (
	CategoryAdoquin = "ADOQUIN" // adoquines / pavers
	CategoryBloque  = "BLOQUE"  // bloques de mampostería
	CategoryOtro    = "OTRO"
)

// Product representa un producto terminado de la planta (adoquín, bloque).
// La receta es opcional: sin receta no hay conversión a estibas/m² y los
// ciclos crudos se usan como piezas (aproximación).
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Category    string
	Description string
	Recipe      *Recipe // nil si el producto aún no tiene receta
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recipe son las constantes de conversión y costo de un producto.
// PiecesPerPallet y M2PerPallet son alternativos: los productos que se estiban
// por área definen M2PerPallet (+ PiecesPerM2) en lugar de piezas directas.
type Recipe struct {
	ProductID      string
	PiecesPerCycle int64           // piezas por ciclo de máquina
	CyclesPerBatch int64           // ciclos por bachada de mezcla
	PiecesPerM2    decimal.Decimal // piezas por m² (0 si no aplica)
	PiecesPerPallet int64          // piezas por estiba (0 = usar M2PerPallet)
	M2PerPallet    decimal.Decimal // m² por estiba (0 = usar PiecesPerPallet)
	CostPerBatch   decimal.Decimal // costo de materiales por bachada
	UpdatedAt      time.Time
}

// CostPerPiece deriva el costo unitario de materiales desde la bachada.
// Cero si la receta no alcanza a definir piezas por bachada.
func (r *Recipe) CostPerPiece() decimal.Decimal {
	if r == nil || r.PiecesPerCycle <= 0 || r.CyclesPerBatch <= 0 {
		return decimal.Zero
	}
	piecesPerBatch := decimal.NewFromInt(r.PiecesPerCycle * r.CyclesPerBatch)
	if piecesPerBatch.IsZero() {
		return decimal.Zero
	}
	return r.CostPerBatch.Div(piecesPerBatch)
}
