package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL del libro de movimientos.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementSelect = `
	SELECT id, product_id, type, pieces, pallets, m2, date, palletization_id,
	       production_record_id, delivery_item_id, note, created_by, created_at
	FROM inventory_movements`

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Pieces, &m.Pallets, &m.M2, &m.Date,
		&m.PalletizationID, &m.ProductionRecordID, &m.DeliveryItemID, &m.Note,
		&m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create agrega un movimiento al libro.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, product_id, type, pieces, pallets, m2, date,
		                                 palletization_id, production_record_id, delivery_item_id,
		                                 note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Pieces, movement.Pallets,
		movement.M2, movement.Date, movement.PalletizationID, movement.ProductionRecordID,
		movement.DeliveryItemID, movement.Note, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// Delete elimina un movimiento. Solo se usa al revertir un empaletizado o al
// eliminar un ajuste manual; el caso de uso valida la procedencia antes.
func (r *InventoryMovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(context.Background(), movementSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista los movimientos de un producto, con rango de fechas opcional.
func (r *InventoryMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := movementSelect + ` WHERE product_id = $1`
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// AvailablePieces recomputa el disponible del producto desde todo el historial:
// Σ IN − Σ OUT. No hay contador materializado que pueda divergir del libro.
func (r *InventoryMovementRepo) AvailablePieces(productID string) (int64, error) {
	var available int64
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(CASE WHEN type = 'IN' THEN pieces ELSE -pieces END), 0)
		FROM inventory_movements WHERE product_id = $1`, productID,
	).Scan(&available)
	if err != nil {
		return 0, fmt.Errorf("available pieces: %w", err)
	}
	return available, nil
}

// HasLegacyIN indica si existe un IN legado (con back-reference a un registro
// de producción) para el (producto, fecha).
func (r *InventoryMovementRepo) HasLegacyIN(productID string, date time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM inventory_movements im
			JOIN production_records pr ON pr.id = im.production_record_id
			WHERE pr.product_id = $1 AND pr.date = $2
		)`, productID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has legacy in: %w", err)
	}
	return exists, nil
}
