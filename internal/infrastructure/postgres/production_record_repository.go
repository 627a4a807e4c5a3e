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

var _ repository.ProductionRecordRepository = (*ProductionRecordRepo)(nil)

// ProductionRecordRepo implementación de ProductionRecordRepository sobre PostgreSQL.
type ProductionRecordRepo struct {
	q Querier
}

// NewProductionRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRecordRepository(q Querier) *ProductionRecordRepo {
	return &ProductionRecordRepo{q: q}
}

const recordSelect = `
	SELECT id, machine_id, product_id, date, cycles, created_by, created_at, updated_at
	FROM production_records`

func scanRecord(row pgx.Row) (*entity.ProductionRecord, error) {
	var rec entity.ProductionRecord
	err := row.Scan(&rec.ID, &rec.MachineID, &rec.ProductID, &rec.Date, &rec.Cycles,
		&rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create persiste un registro de producción. Único por (máquina, fecha, producto).
func (r *ProductionRecordRepo) Create(record *entity.ProductionRecord) error {
	query := `
		INSERT INTO production_records (id, machine_id, product_id, date, cycles, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.MachineID, record.ProductID, record.Date, record.Cycles,
		record.CreatedBy, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert production record: %w", err)
	}
	return nil
}

// Update actualiza los ciclos de un registro.
func (r *ProductionRecordRepo) Update(record *entity.ProductionRecord) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE production_records SET cycles = $2, updated_at = $3 WHERE id = $1`,
		record.ID, record.Cycles, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production record: %w", err)
	}
	return nil
}

// Delete elimina un registro de producción.
func (r *ProductionRecordRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM production_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete production record: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID.
func (r *ProductionRecordRepo) GetByID(id string) (*entity.ProductionRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(context.Background(), recordSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production record: %w", err)
	}
	return rec, nil
}

// ListByDate lista los registros de un día (todas las máquinas y productos).
func (r *ProductionRecordRepo) ListByDate(date time.Time) ([]*entity.ProductionRecord, error) {
	rows, err := r.q.Query(context.Background(),
		recordSelect+` WHERE date = $1 ORDER BY machine_id`, date)
	if err != nil {
		return nil, fmt.Errorf("list production records: %w", err)
	}
	return collectRecords(rows)
}

// ListByProductAndDate lista los registros de un (producto, fecha).
func (r *ProductionRecordRepo) ListByProductAndDate(productID string, date time.Time) ([]*entity.ProductionRecord, error) {
	rows, err := r.q.Query(context.Background(),
		recordSelect+` WHERE product_id = $1 AND date = $2 ORDER BY machine_id`, productID, date)
	if err != nil {
		return nil, fmt.Errorf("list production records by product: %w", err)
	}
	return collectRecords(rows)
}

// unreconciledFilter excluye los (producto, fecha) ya conciliados por un
// empaletizado y los días legados cubiertos por un IN diario con back-reference.
const unreconciledFilter = `
	NOT EXISTS (
		SELECT 1 FROM palletizations pa
		WHERE pa.product_id = pr.product_id AND pa.date = pr.date
	)
	AND NOT EXISTS (
		SELECT 1 FROM inventory_movements im
		WHERE im.production_record_id = pr.id
	)`

// ListUnreconciledBefore devuelve los registros con fecha anterior a before que
// aún no están conciliados.
func (r *ProductionRecordRepo) ListUnreconciledBefore(before time.Time) ([]*entity.ProductionRecord, error) {
	query := `
		SELECT pr.id, pr.machine_id, pr.product_id, pr.date, pr.cycles, pr.created_by, pr.created_at, pr.updated_at
		FROM production_records pr
		WHERE pr.date < $1 AND ` + unreconciledFilter + `
		ORDER BY pr.date, pr.product_id`
	rows, err := r.q.Query(context.Background(), query, before)
	if err != nil {
		return nil, fmt.Errorf("list unreconciled records: %w", err)
	}
	return collectRecords(rows)
}

// ListUnreconciledBeforeByProduct es la misma consulta restringida a un producto.
func (r *ProductionRecordRepo) ListUnreconciledBeforeByProduct(productID string, before time.Time) ([]*entity.ProductionRecord, error) {
	query := `
		SELECT pr.id, pr.machine_id, pr.product_id, pr.date, pr.cycles, pr.created_by, pr.created_at, pr.updated_at
		FROM production_records pr
		WHERE pr.product_id = $1 AND pr.date < $2 AND ` + unreconciledFilter + `
		ORDER BY pr.date`
	rows, err := r.q.Query(context.Background(), query, productID, before)
	if err != nil {
		return nil, fmt.Errorf("list unreconciled records by product: %w", err)
	}
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]*entity.ProductionRecord, error) {
	defer rows.Close()
	var list []*entity.ProductionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
