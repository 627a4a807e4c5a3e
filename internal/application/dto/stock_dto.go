package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockResponse vista de stock de un producto: disponible (libro), en curado
// (producido sin conciliar) y sueltas, con equivalencias derivadas.
type StockResponse struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	AvailablePieces  int64           `json:"available_pieces"`
	AvailablePallets decimal.Decimal `json:"available_pallets"`
	AvailableM2      decimal.Decimal `json:"available_m2"`
	CuringPieces     int64           `json:"curing_pieces"`
	LoosePieces      int64           `json:"loose_pieces"`
}

// RegisterOutMovementRequest body para POST /api/stock/movements (salida
// manual: merma, ajuste, venta de patio).
type RegisterOutMovementRequest struct {
	ProductID string `json:"product_id"`
	Pieces    int64  `json:"pieces"`
	Date      string `json:"date,omitempty"` // 2006-01-02, hoy si vacío
	Note      string `json:"note"`
}

// MovementResponse movimiento del libro en respuestas.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Pieces    int64           `json:"pieces"`
	Pallets   decimal.Decimal `json:"pallets"`
	M2        decimal.Decimal `json:"m2"`
	Date      string          `json:"date"`
	Note      string          `json:"note,omitempty"`
	System    bool            `json:"system_generated"`
	CreatedAt time.Time       `json:"created_at"`
}
