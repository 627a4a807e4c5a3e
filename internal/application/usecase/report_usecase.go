package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// ReportUseCase proyecciones de solo lectura para tableros: producción por
// día, pérdida por producto y stock disponible. No escribe nada.
type ReportUseCase struct {
	repo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// ProductionByDay producción agregada por día/producto en una ventana.
func (uc *ReportUseCase) ProductionByDay(ctx context.Context, from, to time.Time) ([]dto.ProductionByDayDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.repo.ProductionByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionByDayDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductionByDayDTO{
			Date:        r.Date.Format("2006-01-02"),
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Cycles:      r.Cycles,
		})
	}
	return out, nil
}

// StockSummary disponible por producto para el tablero, desde el libro de
// movimientos. Incluye productos sin movimientos (disponible cero).
func (uc *ReportUseCase) StockSummary(ctx context.Context) ([]dto.StockSummaryDTO, error) {
	rows, err := uc.repo.StockSummary(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockSummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockSummaryDTO{
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			AvailablePieces: r.AvailablePieces,
		})
	}
	return out, nil
}

// LossByProduct pérdida acumulada de los empaletizados por producto en una ventana.
func (uc *ReportUseCase) LossByProduct(ctx context.Context, from, to time.Time) ([]dto.LossByProductDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.repo.LossByProduct(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LossByProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LossByProductDTO{
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			TheoreticalPieces: r.TheoreticalPieces,
			RealPieces:        r.RealPieces,
			LossPieces:        r.LossPieces,
			LossPct:           r.LossPct,
		})
	}
	return out, nil
}
