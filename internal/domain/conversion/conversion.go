// Package conversion implementa los servicios de dominio puros de conversión
// entre ciclos, piezas, estibas y m², y la aritmética de pérdida del
// empaletizado. No toca persistencia: todo es calculable y testeable en frío.
package conversion

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// PiecesPerPallet resuelve cuántas piezas caben en una estiba según la receta.
// Si la receta define PiecesPerPallet se usa directo; si el producto se estiba
// por área, se deriva de M2PerPallet × PiecesPerM2 redondeado al entero más
// cercano. Sin receta utilizable retorna ErrMissingRecipe (nunca un default).
func PiecesPerPallet(r *entity.Recipe) (int64, error) {
	if r == nil {
		return 0, domain.ErrMissingRecipe
	}
	if r.PiecesPerPallet > 0 {
		return r.PiecesPerPallet, nil
	}
	if r.M2PerPallet.GreaterThan(decimal.Zero) && r.PiecesPerM2.GreaterThan(decimal.Zero) {
		return r.M2PerPallet.Mul(r.PiecesPerM2).Round(0).IntPart(), nil
	}
	return 0, domain.ErrMissingRecipe
}

// TheoreticalPieces convierte ciclos producidos a piezas esperadas.
// Sin receta (o sin piezas por ciclo) degrada a los ciclos crudos como piezas;
// approximated=true para que el caso de uso lo registre como aproximación.
func TheoreticalPieces(r *entity.Recipe, cycles int64) (pieces int64, approximated bool) {
	if r == nil || r.PiecesPerCycle <= 0 {
		return cycles, true
	}
	return cycles * r.PiecesPerCycle, false
}

// LossPieces calcula la pérdida del empaletizado:
//
//	pérdida = teóricas + sueltas antes − reales − sueltas después
//
// El caso de uso rechaza valores negativos; aquí solo se calcula.
func LossPieces(theoretical, looseBefore, real, looseAfter int64) int64 {
	return theoretical + looseBefore - real - looseAfter
}

// PalletEquivalent expresa piezas en estibas, a un decimal, solo para mostrar.
func PalletEquivalent(pieces, piecesPerPallet int64) decimal.Decimal {
	if piecesPerPallet <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(pieces).Div(decimal.NewFromInt(piecesPerPallet)).Round(1)
}

// M2Equivalent expresa piezas en m², a un decimal, solo para mostrar.
func M2Equivalent(pieces int64, piecesPerM2 decimal.Decimal) decimal.Decimal {
	if piecesPerM2.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return decimal.NewFromInt(pieces).Div(piecesPerM2).Round(1)
}

// OrderItemPieces convierte la cantidad de un ítem de pedido a piezas según su
// unidad. Para m² requiere PiecesPerM2 en la receta; piezas fraccionarias se
// redondean hacia arriba (nunca se entrega menos de lo pedido).
func OrderItemPieces(r *entity.Recipe, quantity decimal.Decimal, unit string) (int64, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return 0, domain.ErrInvalidInput
	}
	switch unit {
	case entity.UnitPieces:
		return quantity.Ceil().IntPart(), nil
	case entity.UnitM2:
		if r == nil || r.PiecesPerM2.LessThanOrEqual(decimal.Zero) {
			return 0, domain.ErrMissingRecipe
		}
		return quantity.Mul(r.PiecesPerM2).Ceil().IntPart(), nil
	default:
		return 0, domain.ErrInvalidInput
	}
}
