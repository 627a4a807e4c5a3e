package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconcileRequest body para POST /api/palletizing/reconcile.
// El operario confirma estibas completas y piezas sueltas restantes de un
// (producto, fecha) pendiente.
type ReconcileRequest struct {
	ProductID       string `json:"product_id"`
	Date            string `json:"date"` // 2006-01-02
	CompletePallets int64  `json:"complete_pallets"`
	LoosePiecesAfter int64 `json:"loose_pieces_after"`
	Notes           string `json:"notes,omitempty"`
}

// PalletizationResponse empaletizado en respuestas.
type PalletizationResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	Date              string    `json:"date"`
	TheoreticalPieces int64     `json:"theoretical_pieces"`
	LoosePiecesBefore int64     `json:"loose_pieces_before"`
	CompletePallets   int64     `json:"complete_pallets"`
	LoosePiecesAfter  int64     `json:"loose_pieces_after"`
	PiecesPerPallet   int64     `json:"pieces_per_pallet"`
	RealPieces        int64     `json:"real_pieces"`
	LossPieces        int64     `json:"loss_pieces"`
	Approximated      bool      `json:"approximated,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	MovementID        string    `json:"movement_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// PendingGroupDTO es un (producto, fecha) por conciliar, con sus piezas
// teóricas ya calculadas y el saldo de sueltas que arrastraría.
type PendingGroupDTO struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	Date              string `json:"date"`
	Cycles            int64  `json:"cycles"`
	TheoreticalPieces int64  `json:"theoretical_pieces"`
	LoosePiecesBefore int64  `json:"loose_pieces_before"`
	PiecesPerPallet   int64  `json:"pieces_per_pallet"`
	Approximated      bool   `json:"approximated,omitempty"`
}

// MissingRecipeDTO es un (producto, fecha) excluido de la cola por falta de
// receta utilizable; se reporta aparte, nunca se asume un default.
type MissingRecipeDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Date        string `json:"date"`
	Cycles      int64  `json:"cycles"`
}

// PendingListResponse respuesta de GET /api/palletizing/pending.
type PendingListResponse struct {
	Pending       []PendingGroupDTO  `json:"pending"`
	MissingRecipe []MissingRecipeDTO `json:"missing_recipe"`
}

// FormPalletResponse respuesta de POST /api/palletizing/form-pallet.
type FormPalletResponse struct {
	ProductID       string          `json:"product_id"`
	PiecesPerPallet int64           `json:"pieces_per_pallet"`
	LoosePiecesLeft int64           `json:"loose_pieces_left"`
	PalletsFormed   decimal.Decimal `json:"pallets_formed"`
	MovementID      string          `json:"movement_id"`
}
