package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.PalletizationRepository = (*PalletizationRepo)(nil)

// PalletizationRepo implementación de PalletizationRepository sobre PostgreSQL.
type PalletizationRepo struct {
	q Querier
}

// NewPalletizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPalletizationRepository(q Querier) *PalletizationRepo {
	return &PalletizationRepo{q: q}
}

const palletizationSelect = `
	SELECT id, product_id, date, theoretical_pieces, loose_pieces_before, complete_pallets,
	       loose_pieces_after, pieces_per_pallet, real_pieces, loss_pieces, approximated,
	       notes, movement_id, created_by, created_at
	FROM palletizations`

func scanPalletization(row pgx.Row) (*entity.Palletization, error) {
	var p entity.Palletization
	err := row.Scan(&p.ID, &p.ProductID, &p.Date, &p.TheoreticalPieces, &p.LoosePiecesBefore,
		&p.CompletePallets, &p.LoosePiecesAfter, &p.PiecesPerPallet, &p.RealPieces,
		&p.LossPieces, &p.Approximated, &p.Notes, &p.MovementID, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un empaletizado. La unicidad (producto, fecha) la garantiza
// la base de datos; la violación se traduce a ErrDuplicate.
func (r *PalletizationRepo) Create(p *entity.Palletization) error {
	query := `
		INSERT INTO palletizations (id, product_id, date, theoretical_pieces, loose_pieces_before,
		                            complete_pallets, loose_pieces_after, pieces_per_pallet,
		                            real_pieces, loss_pieces, approximated, notes, movement_id,
		                            created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ProductID, p.Date, p.TheoreticalPieces, p.LoosePiecesBefore,
		p.CompletePallets, p.LoosePiecesAfter, p.PiecesPerPallet,
		p.RealPieces, p.LossPieces, p.Approximated, p.Notes, p.MovementID,
		p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert palletization: %w", err)
	}
	return nil
}

// Delete elimina un empaletizado (solo usado al revertir el más reciente).
func (r *PalletizationRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM palletizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete palletization: %w", err)
	}
	return nil
}

// GetByID obtiene un empaletizado por ID.
func (r *PalletizationRepo) GetByID(id string) (*entity.Palletization, error) {
	p, err := scanPalletization(r.q.QueryRow(context.Background(),
		palletizationSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get palletization: %w", err)
	}
	return p, nil
}

// GetByProductAndDate obtiene el empaletizado de un (producto, fecha), o nil.
func (r *PalletizationRepo) GetByProductAndDate(productID string, date time.Time) (*entity.Palletization, error) {
	p, err := scanPalletization(r.q.QueryRow(context.Background(),
		palletizationSelect+` WHERE product_id = $1 AND date = $2`, productID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get palletization by product/date: %w", err)
	}
	return p, nil
}

// GetLatestByProduct devuelve el empaletizado más reciente del producto, o nil.
func (r *PalletizationRepo) GetLatestByProduct(productID string) (*entity.Palletization, error) {
	p, err := scanPalletization(r.q.QueryRow(context.Background(),
		palletizationSelect+` WHERE product_id = $1 ORDER BY created_at DESC LIMIT 1`, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest palletization: %w", err)
	}
	return p, nil
}

// ListByProduct lista empaletizados del producto, más recientes primero.
func (r *PalletizationRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Palletization, error) {
	rows, err := r.q.Query(context.Background(),
		palletizationSelect+` WHERE product_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list palletizations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Palletization
	for rows.Next() {
		p, err := scanPalletization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan palletization: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
