package dto

import "github.com/shopspring/decimal"

// ProductionByDayDTO producción agregada de un día/producto.
type ProductionByDayDTO struct {
	Date        string `json:"date"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Cycles      int64  `json:"cycles"`
}

// StockSummaryDTO disponible por producto, recalculado desde el libro.
type StockSummaryDTO struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	AvailablePieces int64  `json:"available_pieces"`
}

// LossByProductDTO pérdida acumulada por producto en una ventana.
type LossByProductDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	TheoreticalPieces int64           `json:"theoretical_pieces"`
	RealPieces        int64           `json:"real_pieces"`
	LossPieces        int64           `json:"loss_pieces"`
	LossPct           decimal.Decimal `json:"loss_pct"`
}
