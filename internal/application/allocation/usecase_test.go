package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products      map[string]*entity.Product
	orders        map[string]*entity.Order
	pos           []*entity.ProductionOrder
	deliveries    []*entity.Delivery
	deliveryItems []*entity.DeliveryItem
	movements     []*entity.InventoryMovement
	deliverySeq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*entity.Product{},
		orders:   map[string]*entity.Order{},
	}
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error                  { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                  { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error)      { return r.s.products[id], nil }
func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error)        { return nil, nil }
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r *fakeProductRepo) UpsertRecipe(*entity.Recipe) error               { return nil }
func (r *fakeProductRepo) List(int, int) ([]*entity.Product, error)        { return nil, nil }

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(o *entity.Order) error { r.s.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
	}
	return nil
}
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) { return r.s.orders[id], nil }
func (r *fakeOrderRepo) List(string, int, int) ([]*entity.Order, error) {
	return nil, nil
}
func (r *fakeOrderRepo) GetItem(itemID string) (*entity.OrderItem, error) {
	for _, o := range r.s.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				return &o.Items[i], nil
			}
		}
	}
	return nil, nil
}

type fakePORepo struct{ s *fakeStore }

func (r *fakePORepo) Create(po *entity.ProductionOrder) error { r.s.pos = append(r.s.pos, po); return nil }
func (r *fakePORepo) GetByID(id string) (*entity.ProductionOrder, error) {
	for _, po := range r.s.pos {
		if po.ID == id {
			return po, nil
		}
	}
	return nil, nil
}
func (r *fakePORepo) UpdateStatus(id, status string) error {
	for _, po := range r.s.pos {
		if po.ID == id {
			po.Status = status
		}
	}
	return nil
}
func (r *fakePORepo) ListByOrder(orderID string) ([]*entity.ProductionOrder, error) {
	var out []*entity.ProductionOrder
	for _, po := range r.s.pos {
		if po.OrderID == orderID {
			out = append(out, po)
		}
	}
	return out, nil
}
func (r *fakePORepo) List(status string, limit, offset int) ([]*entity.ProductionOrder, error) {
	var out []*entity.ProductionOrder
	for _, po := range r.s.pos {
		if status == "" || po.Status == status {
			out = append(out, po)
		}
	}
	return out, nil
}
func (r *fakePORepo) ReservedPieces(productID, excludeOrderID string) (int64, error) {
	var total int64
	for _, po := range r.s.pos {
		if po.ProductID == productID && po.Reserving() && po.OrderID != excludeOrderID {
			total += po.ToProducePieces
		}
	}
	return total, nil
}

type fakeDeliveryRepo struct{ s *fakeStore }

func (r *fakeDeliveryRepo) Create(d *entity.Delivery) error {
	r.s.deliverySeq++
	d.Number = "REM-2026-000" + string(rune('0'+r.s.deliverySeq))
	r.s.deliveries = append(r.s.deliveries, d)
	return nil
}
func (r *fakeDeliveryRepo) CreateItem(item *entity.DeliveryItem) error {
	r.s.deliveryItems = append(r.s.deliveryItems, item)
	return nil
}
func (r *fakeDeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	for _, d := range r.s.deliveries {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}
func (r *fakeDeliveryRepo) ListByOrder(orderID string) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	for _, d := range r.s.deliveries {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *fakeDeliveryRepo) DeliveredPieces(orderItemID string) (int64, error) {
	var total int64
	for _, item := range r.s.deliveryItems {
		if item.OrderItemID != orderItemID {
			continue
		}
		cancelled := false
		for _, d := range r.s.deliveries {
			if d.ID == item.DeliveryID && d.Status == entity.DeliveryStatusCancelled {
				cancelled = true
			}
		}
		if !cancelled {
			total += item.Pieces
		}
	}
	return total, nil
}

type fakeMovRepo struct{ s *fakeStore }

func (r *fakeMovRepo) Create(m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *fakeMovRepo) Delete(string) error { return nil }
func (r *fakeMovRepo) GetByID(string) (*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *fakeMovRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *fakeMovRepo) AvailablePieces(productID string) (int64, error) {
	var total int64
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			continue
		}
		if m.Type == entity.MovementTypeIN {
			total += m.Pieces
		} else {
			total -= m.Pieces
		}
	}
	return total, nil
}
func (r *fakeMovRepo) HasLegacyIN(string, time.Time) (bool, error) { return false, nil }

type fakeTxRunner struct{ s *fakeStore }

func (tx *fakeTxRunner) RunAllocation(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	poRepo repository.ProductionOrderRepository,
	deliveryRepo repository.DeliveryRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return fn(
		&fakeProductRepo{s: tx.s},
		&fakeOrderRepo{s: tx.s},
		&fakePORepo{s: tx.s},
		&fakeDeliveryRepo{s: tx.s},
		&fakeMovRepo{s: tx.s},
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: un adoquín con 300 piezas en patio y un pedido confirmado de 500.
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)

const (
	productID = "prod-adoquin-01"
	orderID   = "order-1"
	itemID    = "item-1"
)

func newTestUseCase(s *fakeStore) *UseCase {
	uc := NewUseCase(
		&fakeTxRunner{s: s},
		&fakeProductRepo{s: s},
		&fakeOrderRepo{s: s},
		&fakePORepo{s: s},
		&fakeDeliveryRepo{s: s},
		&fakeMovRepo{s: s},
	)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func seedOrder(s *fakeStore, status string, quantity int64) {
	s.products[productID] = &entity.Product{
		ID:   productID,
		SKU:  "ADQ-001",
		Name: "Adoquín peatonal 6cm",
		Recipe: &entity.Recipe{
			ProductID:       productID,
			PiecesPerCycle:  50,
			PiecesPerPallet: 100,
			PiecesPerM2:     decimal.NewFromFloat(38.5),
		},
	}
	s.orders[orderID] = &entity.Order{
		ID:         orderID,
		Number:     "PED-2026-0001",
		CustomerID: "cust-1",
		Status:     status,
		Items: []entity.OrderItem{{
			ID:        itemID,
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  decimal.NewFromInt(quantity),
			Unit:      entity.UnitPieces,
		}},
	}
	s.movements = append(s.movements, &entity.InventoryMovement{
		ID: "in-1", ProductID: productID, Type: entity.MovementTypeIN, Pieces: 300,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckStock
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckStock_SugerenciaDescuentaReservasAjenas(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusConfirmed, 500)
	// Otro pedido ya reserva 100 piezas del mismo patio.
	s.pos = append(s.pos, &entity.ProductionOrder{
		ID: "po-ajena", OrderID: "order-otro", ProductID: productID,
		ToProducePieces: 100, Status: entity.ProductionOrderPending,
	})
	uc := newTestUseCase(s)

	resp, err := uc.CheckStock(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	item := resp.Items[0]
	assert.Equal(t, int64(500), item.QuantityPieces)
	assert.Equal(t, int64(300), item.AvailableStock)
	assert.Equal(t, int64(100), item.ReservedByOthers)
	assert.Equal(t, int64(200), item.AvailableForOrder, "300 en patio − 100 reservadas por otros")
	assert.Equal(t, int64(300), item.SuggestedToProduce, "faltan 300 para cubrir las 500 pedidas")
}

func TestCheckStock_ConStockDeSobra(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusConfirmed, 200)
	uc := newTestUseCase(s)

	resp, err := uc.CheckStock(context.Background(), orderID)
	require.NoError(t, err)
	assert.Zero(t, resp.Items[0].SuggestedToProduce, "con stock suficiente no se sugiere producir")
}

func TestCheckStock_ReservasExcedenElPatio(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusConfirmed, 500)
	s.pos = append(s.pos, &entity.ProductionOrder{
		ID: "po-ajena", OrderID: "order-otro", ProductID: productID,
		ToProducePieces: 400, Status: entity.ProductionOrderInProgress,
	})
	uc := newTestUseCase(s)

	resp, err := uc.CheckStock(context.Background(), orderID)
	require.NoError(t, err)
	assert.Zero(t, resp.Items[0].AvailableForOrder, "el disponible nunca es negativo")
	assert.Equal(t, int64(500), resp.Items[0].SuggestedToProduce)
}

func TestCheckStock_PedidoInexistente(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s)
	_, err := uc.CheckStock(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateProductionOrders
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateProductionOrders_CreaReservaYAvanzaElPedido(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusConfirmed, 500)
	uc := newTestUseCase(s)

	out, err := uc.GenerateProductionOrders(context.Background(), orderID, dto.GenerateProductionOrdersRequest{
		Items: []dto.GenerateProductionOrderItem{{OrderItemID: itemID, ToProducePieces: 300}},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	po := out[0]
	assert.Equal(t, int64(500), po.QuantityPieces)
	assert.Equal(t, int64(300), po.StockAtCreation, "snapshot del patio al reservar")
	assert.Equal(t, int64(300), po.ToProducePieces)
	assert.Equal(t, entity.ProductionOrderPending, po.Status)
	assert.Equal(t, entity.OrderStatusInProduction, s.orders[orderID].Status)

	// Desde ya, la reserva descuenta del disponible de los demás pedidos.
	reserved, _ := (&fakePORepo{s: s}).ReservedPieces(productID, "otro-pedido")
	assert.Equal(t, int64(300), reserved)
}

func TestGenerateProductionOrders_CompromisoExcedeLaDemanda(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusConfirmed, 500)
	uc := newTestUseCase(s)

	_, err := uc.GenerateProductionOrders(context.Background(), orderID, dto.GenerateProductionOrdersRequest{
		Items: []dto.GenerateProductionOrderItem{{OrderItemID: itemID, ToProducePieces: 600}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"no se puede comprometer más producción que la demanda del ítem")
}

func TestGenerateProductionOrders_SegundaVezRechazada(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusConfirmed, 500)
	uc := newTestUseCase(s)

	req := dto.GenerateProductionOrdersRequest{
		Items: []dto.GenerateProductionOrderItem{{OrderItemID: itemID, ToProducePieces: 200}},
	}
	_, err := uc.GenerateProductionOrders(context.Background(), orderID, req)
	require.NoError(t, err)

	// El pedido quedó IN_PRODUCTION y ya tiene órdenes: ambas condiciones lo vetan.
	_, err = uc.GenerateProductionOrders(context.Background(), orderID, req)
	assert.Error(t, err)
}

func TestGenerateProductionOrders_PedidoEnCotizacion(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusQuote, 500)
	uc := newTestUseCase(s)

	_, err := uc.GenerateProductionOrders(context.Background(), orderID, dto.GenerateProductionOrdersRequest{
		Items: []dto.GenerateProductionOrderItem{{OrderItemID: itemID, ToProducePieces: 200}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "una cotización no pasa directo a producción")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateProductionOrderStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProductionOrderStatus_CompletarLiberaLaReserva(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusInProduction, 500)
	s.pos = append(s.pos, &entity.ProductionOrder{
		ID: "po-1", OrderID: orderID, OrderItemID: itemID, ProductID: productID,
		ToProducePieces: 300, Status: entity.ProductionOrderPending,
	})
	uc := newTestUseCase(s)

	resp, err := uc.UpdateProductionOrderStatus(context.Background(), "po-1", entity.ProductionOrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionOrderCompleted, resp.Status)

	reserved, _ := (&fakePORepo{s: s}).ReservedPieces(productID, "")
	assert.Zero(t, reserved, "una orden completada deja de reclamar piezas del patio")
}

func TestUpdateProductionOrderStatus_TransicionInvalida(t *testing.T) {
	s := newFakeStore()
	s.pos = append(s.pos, &entity.ProductionOrder{
		ID: "po-1", ProductID: productID, Status: entity.ProductionOrderCompleted,
	})
	uc := newTestUseCase(s)

	_, err := uc.UpdateProductionOrderStatus(context.Background(), "po-1", entity.ProductionOrderPending)
	assert.ErrorIs(t, err, domain.ErrConflict, "una orden completada no vuelve atrás")
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckDeliveryAvailability / RecordDelivery
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckDeliveryAvailability_TopeEsElMinimo(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusReady, 500)
	uc := newTestUseCase(s)

	resp, err := uc.CheckDeliveryAvailability(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	item := resp.Items[0]
	assert.Equal(t, int64(500), item.RemainingPieces)
	assert.Equal(t, int64(300), item.AvailableStock)
	assert.Equal(t, int64(300), item.DeliverableCap, "min(pendiente, stock en patio)")
}

func TestRecordDelivery_GeneraOUTYConsumeSaldo(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusReady, 500)
	uc := newTestUseCase(s)

	resp, err := uc.RecordDelivery(context.Background(), "user-1", orderID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveryItemRequest{{OrderItemID: itemID, Pieces: 200}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(200), resp.Items[0].Pieces)
	assert.NotEmpty(t, resp.Number, "toda remisión lleva consecutivo")

	// El OUT queda en el libro y referenciado por el ítem de entrega.
	var outs []*entity.InventoryMovement
	for _, m := range s.movements {
		if m.Type == entity.MovementTypeOUT {
			outs = append(outs, m)
		}
	}
	require.Len(t, outs, 1)
	assert.Equal(t, int64(200), outs[0].Pieces)
	require.NotNil(t, outs[0].DeliveryItemID)

	// Quedan 100 en patio y 300 pendientes del pedido.
	avail, _ := (&fakeMovRepo{s: s}).AvailablePieces(productID)
	assert.Equal(t, int64(100), avail)
	assert.Equal(t, entity.OrderStatusReady, s.orders[orderID].Status,
		"una entrega parcial no cierra el pedido")
}

func TestRecordDelivery_ExcedeElSaldoPendiente(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusReady, 250)
	uc := newTestUseCase(s)

	_, err := uc.RecordDelivery(context.Background(), "user-1", orderID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveryItemRequest{{OrderItemID: itemID, Pieces: 300}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"no se entrega más de lo pedido, aunque haya stock")
}

func TestRecordDelivery_ExcedeElStock(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusReady, 500)
	uc := newTestUseCase(s)

	_, err := uc.RecordDelivery(context.Background(), "user-1", orderID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveryItemRequest{{OrderItemID: itemID, Pieces: 400}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"solo hay 300 en patio: se rechaza, nunca se recorta")
}

func TestRecordDelivery_EntregaTotalCierraElPedido(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusReady, 300)
	uc := newTestUseCase(s)

	_, err := uc.RecordDelivery(context.Background(), "user-1", orderID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveryItemRequest{{OrderItemID: itemID, Pieces: 300}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, s.orders[orderID].Status,
		"servido el último saldo, el pedido pasa a DELIVERED")
}

func TestRecordDelivery_PedidoEnEstadoInvalido(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, entity.OrderStatusQuote, 500)
	uc := newTestUseCase(s)

	_, err := uc.RecordDelivery(context.Background(), "user-1", orderID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveryItemRequest{{OrderItemID: itemID, Pieces: 100}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "una cotización no admite entregas")
}
