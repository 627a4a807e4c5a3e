package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

// ProductionOrderRepo implementación de ProductionOrderRepository sobre PostgreSQL.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

const productionOrderSelect = `
	SELECT id, order_item_id, order_id, product_id, quantity_pieces, stock_at_creation,
	       to_produce_pieces, status, created_at, updated_at
	FROM production_orders`

func scanProductionOrder(row pgx.Row) (*entity.ProductionOrder, error) {
	var po entity.ProductionOrder
	err := row.Scan(&po.ID, &po.OrderItemID, &po.OrderID, &po.ProductID, &po.QuantityPieces,
		&po.StockAtCreation, &po.ToProducePieces, &po.Status, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// Create persiste una orden de producción.
func (r *ProductionOrderRepo) Create(po *entity.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (id, order_item_id, order_id, product_id, quantity_pieces,
		                               stock_at_creation, to_produce_pieces, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.OrderItemID, po.OrderID, po.ProductID, po.QuantityPieces,
		po.StockAtCreation, po.ToProducePieces, po.Status, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de producción por ID.
func (r *ProductionOrderRepo) GetByID(id string) (*entity.ProductionOrder, error) {
	po, err := scanProductionOrder(r.q.QueryRow(context.Background(),
		productionOrderSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	return po, nil
}

// UpdateStatus actualiza el estado de la orden.
func (r *ProductionOrderRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE production_orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update production order status: %w", err)
	}
	return nil
}

// ListByOrder lista las órdenes de producción de un pedido.
func (r *ProductionOrderRepo) ListByOrder(orderID string) ([]*entity.ProductionOrder, error) {
	rows, err := r.q.Query(context.Background(),
		productionOrderSelect+` WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list production orders by order: %w", err)
	}
	return collectProductionOrders(rows)
}

// List lista órdenes de producción con filtro opcional por estado.
func (r *ProductionOrderRepo) List(status string, limit, offset int) ([]*entity.ProductionOrder, error) {
	query := productionOrderSelect
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	return collectProductionOrders(rows)
}

// ReservedPieces suma las reservas vivas (PENDING/IN_PROGRESS) del producto,
// excluyendo las del pedido indicado.
func (r *ProductionOrderRepo) ReservedPieces(productID, excludeOrderID string) (int64, error) {
	var reserved int64
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(to_produce_pieces), 0)
		FROM production_orders
		WHERE product_id = $1
		  AND status IN ('PENDING', 'IN_PROGRESS')
		  AND ($2 = '' OR order_id <> $2)`, productID, excludeOrderID,
	).Scan(&reserved)
	if err != nil {
		return 0, fmt.Errorf("reserved pieces: %w", err)
	}
	return reserved, nil
}

func collectProductionOrders(rows pgx.Rows) ([]*entity.ProductionOrder, error) {
	defer rows.Close()
	var list []*entity.ProductionOrder
	for rows.Next() {
		po, err := scanProductionOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}
