package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductionByDayRow es la producción agregada de un día.
type ProductionByDayRow struct {
	Date        time.Time
	ProductID   string
	ProductName string
	Cycles      int64
}

// LossByProductRow agrega pérdida vs. producción teórica por producto.
type LossByProductRow struct {
	ProductID         string
	ProductName       string
	TheoreticalPieces int64
	RealPieces        int64
	LossPieces        int64
	LossPct           decimal.Decimal
}

// StockSummaryRow es una fila de la vista de stock por producto.
type StockSummaryRow struct {
	ProductID       string
	ProductName     string
	AvailablePieces int64
}

// ReportRepository define el puerto de proyecciones de solo lectura sobre
// producción y libro de movimientos (dashboards).
type ReportRepository interface {
	ProductionByDay(ctx context.Context, from, to time.Time) ([]ProductionByDayRow, error)
	LossByProduct(ctx context.Context, from, to time.Time) ([]LossByProductRow, error)
	StockSummary(ctx context.Context) ([]StockSummaryRow, error)
}
