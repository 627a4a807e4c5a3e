package orders

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
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	customers map[string]*entity.Customer
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	orderSeq  int
	pos       []*entity.ProductionOrder
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[string]*entity.Customer{},
		products:  map[string]*entity.Product{},
		orders:    map[string]*entity.Order{},
	}
}

type fakeCustomerRepo struct{ s *fakeStore }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.s.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) Update(c *entity.Customer) error { r.s.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.s.customers[id], nil
}
func (r *fakeCustomerRepo) List(int, int) ([]*entity.Customer, error) { return nil, nil }

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error                  { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                  { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error)      { return r.s.products[id], nil }
func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error)        { return nil, nil }
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r *fakeProductRepo) UpsertRecipe(*entity.Recipe) error               { return nil }
func (r *fakeProductRepo) List(int, int) ([]*entity.Product, error)        { return nil, nil }

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	r.s.orderSeq++
	o.Number = "PED-2026-000" + string(rune('0'+r.s.orderSeq))
	r.s.orders[o.ID] = o
	return nil
}
func (r *fakeOrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
	}
	return nil
}
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) { return r.s.orders[id], nil }
func (r *fakeOrderRepo) List(status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *fakeOrderRepo) GetItem(string) (*entity.OrderItem, error) { return nil, nil }

type fakePORepo struct{ s *fakeStore }

func (r *fakePORepo) Create(po *entity.ProductionOrder) error { r.s.pos = append(r.s.pos, po); return nil }
func (r *fakePORepo) GetByID(string) (*entity.ProductionOrder, error) {
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
func (r *fakePORepo) List(string, int, int) ([]*entity.ProductionOrder, error) {
	return nil, nil
}
func (r *fakePORepo) ReservedPieces(string, string) (int64, error) { return 0, nil }

// ──────────────────────────────────────────────────────────────────────────────

const (
	customerID = "cust-1"
	productID  = "prod-adoquin-01"
)

func newTestUseCase(s *fakeStore) *UseCase {
	uc := NewUseCase(
		&fakeOrderRepo{s: s},
		&fakeCustomerRepo{s: s},
		&fakeProductRepo{s: s},
		&fakePORepo{s: s},
	)
	uc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) }
	return uc
}

func seedCatalog(s *fakeStore) {
	s.customers[customerID] = &entity.Customer{ID: customerID, Name: "Constructora El Prado"}
	s.products[productID] = &entity.Product{
		ID:   productID,
		SKU:  "ADQ-001",
		Name: "Adoquín peatonal 6cm",
		Recipe: &entity.Recipe{
			ProductID:   productID,
			PiecesPerM2: decimal.NewFromFloat(38.5),
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NaceComoCotizacion(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newTestUseCase(s)

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: customerID,
		Items: []dto.OrderItemRequest{{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(500),
			Unit:      entity.UnitPieces,
			UnitPrice: decimal.NewFromInt(1200),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusQuote, resp.Status)
	assert.NotEmpty(t, resp.Number, "todo pedido recibe consecutivo al crearse")
	require.Len(t, resp.Items, 1)
}

func TestCreate_EnM2ExigeReceta(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	s.products[productID].Recipe = nil
	uc := newTestUseCase(s)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: customerID,
		Items: []dto.OrderItemRequest{{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(13),
			Unit:      entity.UnitM2,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrMissingRecipe,
		"se valida al cotizar, no recién al chequear stock")
}

func TestCreate_UnidadDesconocida(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newTestUseCase(s)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: customerID,
		Items: []dto.OrderItemRequest{{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(10),
			Unit:      "KG",
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newTestUseCase(s)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: "no-existe",
		Items: []dto.OrderItemRequest{{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(10),
			Unit:      entity.UnitPieces,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_SinItems(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newTestUseCase(s)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{CustomerID: customerID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_FlujoFeliz(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	s.orders["o1"] = &entity.Order{ID: "o1", Status: entity.OrderStatusQuote}
	uc := newTestUseCase(s)

	resp, err := uc.Transition(context.Background(), "o1", entity.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, resp.Status)
}

func TestTransition_SaltoInvalido(t *testing.T) {
	s := newFakeStore()
	s.orders["o1"] = &entity.Order{ID: "o1", Status: entity.OrderStatusQuote}
	uc := newTestUseCase(s)

	_, err := uc.Transition(context.Background(), "o1", entity.OrderStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrConflict, "una cotización no puede saltar directo a entregado")
}

func TestTransition_EntregadoEsTerminal(t *testing.T) {
	s := newFakeStore()
	s.orders["o1"] = &entity.Order{ID: "o1", Status: entity.OrderStatusDelivered}
	uc := newTestUseCase(s)

	_, err := uc.Transition(context.Background(), "o1", entity.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransition_CancelarLiberaLasReservas(t *testing.T) {
	s := newFakeStore()
	s.orders["o1"] = &entity.Order{ID: "o1", Status: entity.OrderStatusInProduction}
	s.pos = append(s.pos,
		&entity.ProductionOrder{ID: "po-1", OrderID: "o1", Status: entity.ProductionOrderPending},
		&entity.ProductionOrder{ID: "po-2", OrderID: "o1", Status: entity.ProductionOrderCompleted},
	)
	uc := newTestUseCase(s)

	_, err := uc.Transition(context.Background(), "o1", entity.OrderStatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, entity.ProductionOrderCancelled, s.pos[0].Status,
		"la orden pendiente se cancela y libera su reserva")
	assert.Equal(t, entity.ProductionOrderCompleted, s.pos[1].Status,
		"la orden completada ya es stock físico y no se toca")
}

func TestTransition_PedidoInexistente(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s)
	_, err := uc.Transition(context.Background(), "no-existe", entity.OrderStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
