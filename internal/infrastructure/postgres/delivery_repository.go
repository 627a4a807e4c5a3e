package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste la entrega y le asigna el consecutivo legible (REM-YYYY-NNNN).
// Los ítems se persisten con CreateItem, dentro de la misma transacción.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	var seq int64
	if err := r.q.QueryRow(context.Background(),
		`SELECT nextval('delivery_number_seq')`).Scan(&seq); err != nil {
		return fmt.Errorf("next delivery number: %w", err)
	}
	delivery.Number = fmt.Sprintf("REM-%d-%04d", delivery.CreatedAt.Year(), seq)

	query := `
		INSERT INTO deliveries (id, number, order_id, date, status, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.Number, delivery.OrderID, delivery.Date, delivery.Status,
		delivery.Notes, delivery.CreatedBy, delivery.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// CreateItem persiste un ítem de entrega.
func (r *DeliveryRepo) CreateItem(item *entity.DeliveryItem) error {
	query := `
		INSERT INTO delivery_items (id, delivery_id, order_item_id, product_id, pieces, movement_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.DeliveryID, item.OrderItemID, item.ProductID, item.Pieces,
		item.MovementID, item.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert delivery item: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega con sus ítems.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	var d entity.Delivery
	err := r.q.QueryRow(context.Background(), `
		SELECT id, number, order_id, date, status, notes, created_by, created_at
		FROM deliveries WHERE id = $1`, id,
	).Scan(&d.ID, &d.Number, &d.OrderID, &d.Date, &d.Status, &d.Notes, &d.CreatedBy, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if err := r.loadItems(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByOrder lista las entregas de un pedido con sus ítems.
func (r *DeliveryRepo) ListByOrder(orderID string) ([]*entity.Delivery, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, number, order_id, date, status, notes, created_by, created_at
		FROM deliveries WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(&d.ID, &d.Number, &d.OrderID, &d.Date, &d.Status, &d.Notes,
			&d.CreatedBy, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range list {
		if err := r.loadItems(d); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// DeliveredPieces suma las piezas entregadas contra un ítem de pedido
// (entregas no canceladas).
func (r *DeliveryRepo) DeliveredPieces(orderItemID string) (int64, error) {
	var delivered int64
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(di.pieces), 0)
		FROM delivery_items di
		JOIN deliveries d ON d.id = di.delivery_id
		WHERE di.order_item_id = $1 AND d.status <> 'CANCELLED'`, orderItemID,
	).Scan(&delivered)
	if err != nil {
		return 0, fmt.Errorf("delivered pieces: %w", err)
	}
	return delivered, nil
}

func (r *DeliveryRepo) loadItems(d *entity.Delivery) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, delivery_id, order_item_id, product_id, pieces, movement_id, created_at
		FROM delivery_items WHERE delivery_id = $1 ORDER BY created_at`, d.ID)
	if err != nil {
		return fmt.Errorf("list delivery items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.DeliveryItem
		if err := rows.Scan(&item.ID, &item.DeliveryID, &item.OrderItemID, &item.ProductID,
			&item.Pieces, &item.MovementID, &item.CreatedAt); err != nil {
			return fmt.Errorf("scan delivery item: %w", err)
		}
		d.Items = append(d.Items, item)
	}
	return rows.Err()
}
