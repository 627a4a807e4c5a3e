// Package orders implementa el flujo de pedidos: cotización → confirmación →
// producción → entrega. Es una máquina de estados sencilla; la lógica dura de
// stock y reservas vive en el motor de asignación.
package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// UseCase flujo de pedidos.
type UseCase struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	poRepo       repository.ProductionOrderRepository
	now          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	poRepo repository.ProductionOrderRepository,
) *UseCase {
	return &UseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		poRepo:       poRepo,
		now:          time.Now,
	}
}

// Create crea un pedido en estado QUOTE con sus líneas.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	order := &entity.Order{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Status:     entity.OrderStatusQuote,
		Notes:      in.Notes,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.Unit != entity.UnitPieces && item.Unit != entity.UnitM2 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		// Pedir en m² exige receta con piezas por m²; se valida al cotizar
		// para no descubrirlo recién al chequear stock.
		if item.Unit == entity.UnitM2 && (product.Recipe == nil || product.Recipe.PiecesPerM2.LessThanOrEqual(decimal.Zero)) {
			return nil, domain.ErrMissingRecipe
		}
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			CreatedAt: now,
		})
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID obtiene un pedido con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List lista pedidos, opcionalmente filtrados por estado.
func (uc *UseCase) List(ctx context.Context, status string, limit, offset int) ([]dto.OrderResponse, error) {
	list, err := uc.orderRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out, nil
}

// Transition avanza el pedido por su máquina de estados. Cancelar un pedido
// IN_PRODUCTION cancela también sus órdenes de producción pendientes, lo que
// libera las reservas de stock.
func (uc *UseCase) Transition(ctx context.Context, id, to string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.CanTransition(to) {
		return nil, domain.ErrConflict
	}
	if err := uc.orderRepo.UpdateStatus(id, to); err != nil {
		return nil, err
	}
	if to == entity.OrderStatusCancelled {
		pos, err := uc.poRepo.ListByOrder(id)
		if err != nil {
			return nil, err
		}
		for _, po := range pos {
			if po.Reserving() {
				if err := uc.poRepo.UpdateStatus(po.ID, entity.ProductionOrderCancelled); err != nil {
					return nil, err
				}
			}
		}
	}
	order.Status = to
	order.UpdatedAt = uc.now()
	return toOrderResponse(order), nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:         o.ID,
		Number:     o.Number,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Notes:      o.Notes,
		Items:      []dto.OrderItemResponse{},
		CreatedAt:  o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
		})
	}
	return resp
}
