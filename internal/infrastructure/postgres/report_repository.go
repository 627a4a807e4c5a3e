package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Planta-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo proyecciones de solo lectura para dashboards. Siempre se consulta
// contra el pool, nunca dentro de una transacción de escritura.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ProductionByDay agrega los ciclos producidos por día y producto en el rango.
func (r *ReportRepo) ProductionByDay(ctx context.Context, from, to time.Time) ([]repository.ProductionByDayRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT pr.date, pr.product_id, p.name, SUM(pr.cycles)
		FROM production_records pr
		JOIN products p ON p.id = pr.product_id
		WHERE pr.date >= $1 AND pr.date <= $2
		GROUP BY pr.date, pr.product_id, p.name
		ORDER BY pr.date, p.name`, from, to)
	if err != nil {
		return nil, fmt.Errorf("production by day: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductionByDayRow
	for rows.Next() {
		var row repository.ProductionByDayRow
		if err := rows.Scan(&row.Date, &row.ProductID, &row.ProductName, &row.Cycles); err != nil {
			return nil, fmt.Errorf("scan production by day: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// LossByProduct agrega pérdida contra producción teórica por producto, desde
// los empaletizados del rango.
func (r *ReportRepo) LossByProduct(ctx context.Context, from, to time.Time) ([]repository.LossByProductRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT pa.product_id, p.name,
		       SUM(pa.theoretical_pieces), SUM(pa.real_pieces), SUM(pa.loss_pieces)
		FROM palletizations pa
		JOIN products p ON p.id = pa.product_id
		WHERE pa.date >= $1 AND pa.date <= $2
		GROUP BY pa.product_id, p.name
		ORDER BY SUM(pa.loss_pieces) DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("loss by product: %w", err)
	}
	defer rows.Close()
	var list []repository.LossByProductRow
	for rows.Next() {
		var row repository.LossByProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.TheoreticalPieces,
			&row.RealPieces, &row.LossPieces); err != nil {
			return nil, fmt.Errorf("scan loss by product: %w", err)
		}
		if row.TheoreticalPieces > 0 {
			row.LossPct = decimal.NewFromInt(row.LossPieces).
				Div(decimal.NewFromInt(row.TheoreticalPieces)).
				Mul(decimal.NewFromInt(100)).Round(1)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// StockSummary devuelve el disponible por producto desde el libro de movimientos.
func (r *ReportRepo) StockSummary(ctx context.Context) ([]repository.StockSummaryRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name,
		       COALESCE(SUM(CASE WHEN im.type = 'IN' THEN im.pieces ELSE -im.pieces END), 0)
		FROM products p
		LEFT JOIN inventory_movements im ON im.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	defer rows.Close()
	var list []repository.StockSummaryRow
	for rows.Next() {
		var row repository.StockSummaryRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.AvailablePieces); err != nil {
			return nil, fmt.Errorf("scan stock summary: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
