package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.LooseBalanceRepository = (*LooseBalanceRepo)(nil)

// LooseBalanceRepo implementación de LooseBalanceRepository sobre PostgreSQL.
type LooseBalanceRepo struct {
	q Querier
}

// NewLooseBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLooseBalanceRepository(q Querier) *LooseBalanceRepo {
	return &LooseBalanceRepo{q: q}
}

// Get obtiene el saldo de sueltas del producto. Saldo cero si no hay fila.
func (r *LooseBalanceRepo) Get(productID string) (*entity.LoosePiecesBalance, error) {
	var b entity.LoosePiecesBalance
	err := r.q.QueryRow(context.Background(),
		`SELECT product_id, pieces, updated_at FROM loose_balances WHERE product_id = $1`,
		productID,
	).Scan(&b.ProductID, &b.Pieces, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LoosePiecesBalance{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get loose balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo bloqueando la fila (SELECT FOR UPDATE).
// Saldo cero si no hay fila; en ese caso no hay fila que bloquear y la
// serialización la da el lock sobre la fila del producto.
func (r *LooseBalanceRepo) GetForUpdate(productID string) (*entity.LoosePiecesBalance, error) {
	var b entity.LoosePiecesBalance
	err := r.q.QueryRow(context.Background(),
		`SELECT product_id, pieces, updated_at FROM loose_balances WHERE product_id = $1 FOR UPDATE`,
		productID,
	).Scan(&b.ProductID, &b.Pieces, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LoosePiecesBalance{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get loose balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo de sueltas del producto.
func (r *LooseBalanceRepo) Upsert(balance *entity.LoosePiecesBalance) error {
	query := `
		INSERT INTO loose_balances (product_id, pieces, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET pieces = EXCLUDED.pieces, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.ProductID, balance.Pieces)
	if err != nil {
		return fmt.Errorf("upsert loose balance: %w", err)
	}
	return nil
}
