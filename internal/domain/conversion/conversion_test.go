package conversion_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/conversion"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// PiecesPerPallet — resolución de piezas por estiba desde la receta
// ──────────────────────────────────────────────────────────────────────────────

func TestPiecesPerPallet_Directo(t *testing.T) {
	r := &entity.Recipe{PiecesPerPallet: 100}
	ppp, err := conversion.PiecesPerPallet(r)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ppp, "con PiecesPerPallet definido se usa directo")
}

func TestPiecesPerPallet_DerivadoDeM2(t *testing.T) {
	// Adoquín estibado por área: 10.8 m²/estiba × 38.5 piezas/m² = 415.8 → 416
	r := &entity.Recipe{
		M2PerPallet: decimal.NewFromFloat(10.8),
		PiecesPerM2: decimal.NewFromFloat(38.5),
	}
	ppp, err := conversion.PiecesPerPallet(r)
	require.NoError(t, err)
	assert.Equal(t, int64(416), ppp, "la derivación por área redondea al entero más cercano")
}

func TestPiecesPerPallet_SinReceta(t *testing.T) {
	_, err := conversion.PiecesPerPallet(nil)
	assert.ErrorIs(t, err, domain.ErrMissingRecipe, "sin receta no hay conversión, nunca un default")
}

func TestPiecesPerPallet_RecetaInutilizable(t *testing.T) {
	// Receta sin piezas por estiba ni par (m²/estiba, piezas/m²).
	r := &entity.Recipe{PiecesPerCycle: 4}
	_, err := conversion.PiecesPerPallet(r)
	assert.ErrorIs(t, err, domain.ErrMissingRecipe)
}

// ──────────────────────────────────────────────────────────────────────────────
// TheoreticalPieces — ciclos → piezas esperadas
// ──────────────────────────────────────────────────────────────────────────────

func TestTheoreticalPieces_ConReceta(t *testing.T) {
	r := &entity.Recipe{PiecesPerCycle: 50}
	pieces, approx := conversion.TheoreticalPieces(r, 19)
	assert.Equal(t, int64(950), pieces)
	assert.False(t, approx, "con receta completa no hay aproximación")
}

func TestTheoreticalPieces_SinRecetaDegradaACiclos(t *testing.T) {
	pieces, approx := conversion.TheoreticalPieces(nil, 120)
	assert.Equal(t, int64(120), pieces, "sin receta los ciclos crudos cuentan como piezas")
	assert.True(t, approx, "la degradación debe marcarse como aproximada")
}

// ──────────────────────────────────────────────────────────────────────────────
// LossPieces — aritmética de pérdida del empaletizado
//
//	pérdida = teóricas + sueltas antes − reales − sueltas después
// ──────────────────────────────────────────────────────────────────────────────

func TestLossPieces_CasoTipico(t *testing.T) {
	// 19 ciclos × 50 = 950 teóricas, 30 sueltas arrastradas.
	// El operario confirma 9 estibas de 100 y 50 sueltas → pérdida 30.
	loss := conversion.LossPieces(950, 30, 900, 50)
	assert.Equal(t, int64(30), loss)
}

func TestLossPieces_SinPerdida(t *testing.T) {
	loss := conversion.LossPieces(1000, 0, 1000, 0)
	assert.Zero(t, loss)
}

func TestLossPieces_NegativaSeCalculaIgual(t *testing.T) {
	// 10 estibas confirmadas exceden lo producido: el cálculo da negativo y es
	// el caso de uso quien rechaza; aquí solo se verifica la aritmética.
	loss := conversion.LossPieces(950, 30, 1000, 50)
	assert.Equal(t, int64(-70), loss)
}

// ──────────────────────────────────────────────────────────────────────────────
// Equivalencias de visualización
// ──────────────────────────────────────────────────────────────────────────────

func TestPalletEquivalent(t *testing.T) {
	assert.True(t, decimal.NewFromFloat(9.5).Equal(conversion.PalletEquivalent(950, 100)),
		"950 piezas a 100/estiba son 9.5 estibas")
	assert.True(t, decimal.Zero.Equal(conversion.PalletEquivalent(950, 0)),
		"sin piezas por estiba la equivalencia es cero")
}

func TestM2Equivalent(t *testing.T) {
	got := conversion.M2Equivalent(770, decimal.NewFromFloat(38.5))
	assert.True(t, decimal.NewFromInt(20).Equal(got), "770 piezas a 38.5/m² son 20 m², obtuvo %s", got)
	assert.True(t, decimal.Zero.Equal(conversion.M2Equivalent(770, decimal.Zero)))
}

// ──────────────────────────────────────────────────────────────────────────────
// OrderItemPieces — cantidad de pedido → piezas
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderItemPieces_EnPiezas(t *testing.T) {
	pieces, err := conversion.OrderItemPieces(nil, decimal.NewFromInt(500), entity.UnitPieces)
	require.NoError(t, err)
	assert.Equal(t, int64(500), pieces, "pedir en piezas no requiere receta")
}

func TestOrderItemPieces_EnM2RedondeaHaciaArriba(t *testing.T) {
	// 13 m² × 38.5 piezas/m² = 500.5 → 501: nunca se entrega menos de lo pedido.
	r := &entity.Recipe{PiecesPerM2: decimal.NewFromFloat(38.5)}
	pieces, err := conversion.OrderItemPieces(r, decimal.NewFromInt(13), entity.UnitM2)
	require.NoError(t, err)
	assert.Equal(t, int64(501), pieces)
}

func TestOrderItemPieces_M2SinReceta(t *testing.T) {
	_, err := conversion.OrderItemPieces(nil, decimal.NewFromInt(13), entity.UnitM2)
	assert.ErrorIs(t, err, domain.ErrMissingRecipe)
}

func TestOrderItemPieces_CantidadInvalida(t *testing.T) {
	_, err := conversion.OrderItemPieces(nil, decimal.Zero, entity.UnitPieces)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = conversion.OrderItemPieces(nil, decimal.NewFromInt(10), "KG")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unidad desconocida debe rechazarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recipe.CostPerPiece — costo unitario desde la bachada
// ──────────────────────────────────────────────────────────────────────────────

func TestCostPerPiece(t *testing.T) {
	r := &entity.Recipe{
		PiecesPerCycle: 4,
		CyclesPerBatch: 50,
		CostPerBatch:   decimal.NewFromInt(120_000),
	}
	// 120.000 / (4 × 50) = 600 por pieza
	assert.True(t, decimal.NewFromInt(600).Equal(r.CostPerPiece()))
}

func TestCostPerPiece_RecetaIncompleta(t *testing.T) {
	r := &entity.Recipe{CostPerBatch: decimal.NewFromInt(120_000)}
	assert.True(t, decimal.Zero.Equal(r.CostPerPiece()), "sin piezas por bachada el costo unitario es cero")
}
