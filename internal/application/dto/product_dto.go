package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RecipeRequest body para PUT /api/products/:id/recipe.
// PiecesPerPallet y M2PerPallet son alternativos; al menos uno debe permitir
// derivar piezas por estiba.
type RecipeRequest struct {
	PiecesPerCycle  int64           `json:"pieces_per_cycle"`
	CyclesPerBatch  int64           `json:"cycles_per_batch"`
	PiecesPerM2     decimal.Decimal `json:"pieces_per_m2"`
	PiecesPerPallet int64           `json:"pieces_per_pallet"`
	M2PerPallet     decimal.Decimal `json:"m2_per_pallet"`
	CostPerBatch    decimal.Decimal `json:"cost_per_batch"`
}

// RecipeResponse receta del producto.
type RecipeResponse struct {
	PiecesPerCycle  int64           `json:"pieces_per_cycle"`
	CyclesPerBatch  int64           `json:"cycles_per_batch"`
	PiecesPerM2     decimal.Decimal `json:"pieces_per_m2"`
	PiecesPerPallet int64           `json:"pieces_per_pallet"`
	M2PerPallet     decimal.Decimal `json:"m2_per_pallet"`
	CostPerBatch    decimal.Decimal `json:"cost_per_batch"`
	CostPerPiece    decimal.Decimal `json:"cost_per_piece"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Recipe      *RecipeResponse `json:"recipe,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Page     PageResponse      `json:"page"`
}
