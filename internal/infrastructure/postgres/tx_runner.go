package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Planta-api/internal/application/allocation"
	"github.com/jhoicas/Planta-api/internal/application/palletizing"
	"github.com/jhoicas/Planta-api/internal/application/stock"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// Ensure TxRunner implements the transactional ports of each engine.
var _ palletizing.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)
var _ allocation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del motor de
// empaletizado atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	recordRepo repository.ProductionRecordRepository,
	palletRepo repository.PalletizationRepository,
	looseRepo repository.LooseBalanceRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	recordRepo := NewProductionRecordRepository(tx)
	palletRepo := NewPalletizationRepository(tx)
	looseRepo := NewLooseBalanceRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)

	if err := fn(productRepo, recordRepo, palletRepo, looseRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAllocation inicia una transacción con los repos del motor de asignación
// (reservas de producción y entregas contra pedidos).
func (r *TxRunner) RunAllocation(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	poRepo repository.ProductionOrderRepository,
	deliveryRepo repository.DeliveryRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	orderRepo := NewOrderRepository(tx)
	poRepo := NewProductionOrderRepository(tx)
	deliveryRepo := NewDeliveryRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)

	if err := fn(productRepo, orderRepo, poRepo, deliveryRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
