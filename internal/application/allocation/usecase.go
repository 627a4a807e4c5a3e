// Package allocation implementa el motor de asignación de demanda: cruza la
// demanda de los pedidos contra el stock disponible y las reservas pendientes
// de otros pedidos, decide cuánto hay que producir y controla que dos pedidos
// no se satisfagan con las mismas piezas físicas.
package allocation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/conversion"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// DateLayout formato de fecha en la API.
const DateLayout = "2006-01-02"

// UseCase es el motor de asignación/reserva.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	poRepo       repository.ProductionOrderRepository
	deliveryRepo repository.DeliveryRepository
	movRepo      repository.InventoryMovementRepository
	now          func() time.Time
}

// NewUseCase construye el motor de asignación.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	poRepo repository.ProductionOrderRepository,
	deliveryRepo repository.DeliveryRepository,
	movRepo repository.InventoryMovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		poRepo:       poRepo,
		deliveryRepo: deliveryRepo,
		movRepo:      movRepo,
		now:          time.Now,
	}
}

// CheckStock calcula, por cada ítem del pedido, el stock disponible neto de
// las reservas de otros pedidos y la sugerencia de producción. El resultado es
// una sugerencia editable; el compromiso final se valida al generar las
// órdenes de producción.
func (uc *UseCase) CheckStock(ctx context.Context, orderID string) (*dto.CheckStockResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	resp := &dto.CheckStockResponse{OrderID: orderID, Items: []dto.ItemAvailabilityDTO{}}
	for _, item := range order.Items {
		avail, err := uc.itemAvailability(order.ID, item, uc.productRepo, uc.poRepo, uc.movRepo)
		if err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, *avail)
	}
	return resp, nil
}

// itemAvailability resuelve la disponibilidad de una línea con los
// repositorios indicados (pool para consulta, tx para reserva).
func (uc *UseCase) itemAvailability(
	orderID string,
	item entity.OrderItem,
	productRepo repository.ProductRepository,
	poRepo repository.ProductionOrderRepository,
	movRepo repository.InventoryMovementRepository,
) (*dto.ItemAvailabilityDTO, error) {
	product, err := productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	quantityPieces, err := conversion.OrderItemPieces(product.Recipe, item.Quantity, item.Unit)
	if err != nil {
		return nil, err
	}
	available, err := movRepo.AvailablePieces(item.ProductID)
	if err != nil {
		return nil, err
	}
	// Reservas de otros pedidos: órdenes PENDING/IN_PROGRESS que aún reclaman
	// piezas del mismo patio, recalculadas en cada lectura.
	reserved, err := poRepo.ReservedPieces(item.ProductID, orderID)
	if err != nil {
		return nil, err
	}
	availableForOrder := available - reserved
	if availableForOrder < 0 {
		availableForOrder = 0
	}
	suggested := quantityPieces - availableForOrder
	if suggested < 0 {
		suggested = 0
	}
	return &dto.ItemAvailabilityDTO{
		OrderItemID:        item.ID,
		ProductID:          product.ID,
		ProductName:        product.Name,
		QuantityPieces:     quantityPieces,
		AvailableStock:     available,
		ReservedByOthers:   reserved,
		AvailableForOrder:  availableForOrder,
		SuggestedToProduce: suggested,
	}, nil
}

// GenerateProductionOrders crea una orden de producción por ítem con el
// snapshot de stock al instante de la reserva, y pasa el pedido a
// IN_PRODUCTION. Desde ese momento ToProducePieces cuenta como reserva para
// los demás pedidos. El compromiso puede diferir de la sugerencia pero nunca
// ser negativo ni exceder la demanda del ítem.
func (uc *UseCase) GenerateProductionOrders(ctx context.Context, orderID string, in dto.GenerateProductionOrdersRequest) ([]dto.ProductionOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var out []dto.ProductionOrderResponse
	err := uc.txRunner.RunAllocation(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		poRepo repository.ProductionOrderRepository,
		_ repository.DeliveryRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransition(entity.OrderStatusInProduction) {
			return domain.ErrConflict
		}
		existing, err := poRepo.ListByOrder(orderID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.ErrDuplicate
		}

		itemsByID := make(map[string]entity.OrderItem, len(order.Items))
		for _, item := range order.Items {
			itemsByID[item.ID] = item
		}
		// Todas las líneas del pedido deben quedar cubiertas (con stock o con OP).
		if len(in.Items) != len(order.Items) {
			return domain.ErrInvalidInput
		}

		// Bloquea las filas de producto en orden estable para serializar
		// reservas concurrentes sin interbloqueos.
		productIDs := make([]string, 0, len(order.Items))
		seen := make(map[string]bool)
		for _, item := range order.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				productIDs = append(productIDs, item.ProductID)
			}
		}
		sort.Strings(productIDs)
		for _, pid := range productIDs {
			if _, err := productRepo.GetForUpdate(pid); err != nil {
				return err
			}
		}

		now := uc.now()
		for _, req := range in.Items {
			item, ok := itemsByID[req.OrderItemID]
			if !ok {
				return domain.ErrInvalidInput
			}
			avail, err := uc.itemAvailability(orderID, item, productRepo, poRepo, movRepo)
			if err != nil {
				return err
			}
			if req.ToProducePieces < 0 || req.ToProducePieces > avail.QuantityPieces {
				return domain.ErrInvalidInput
			}
			po := &entity.ProductionOrder{
				ID:              uuid.New().String(),
				OrderItemID:     item.ID,
				OrderID:         orderID,
				ProductID:       item.ProductID,
				QuantityPieces:  avail.QuantityPieces,
				StockAtCreation: avail.AvailableStock,
				ToProducePieces: req.ToProducePieces,
				Status:          entity.ProductionOrderPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := poRepo.Create(po); err != nil {
				return err
			}
			out = append(out, *toProductionOrderResponse(po))
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusInProduction)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProductionOrderStatus avanza una orden de producción. COMPLETED y
// CANCELLED liberan la reserva: el reclamo deja de descontar del disponible de
// los demás pedidos (COMPLETED porque las piezas ya entraron al libro vía
// empaletizado; CANCELLED porque el reclamo desaparece).
func (uc *UseCase) UpdateProductionOrderStatus(ctx context.Context, id, status string) (*dto.ProductionOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if !po.CanTransition(status) {
		return nil, domain.ErrConflict
	}
	if err := uc.poRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	po.Status = status
	po.UpdatedAt = uc.now()
	return toProductionOrderResponse(po), nil
}

// ListProductionOrders lista órdenes de producción por estado.
func (uc *UseCase) ListProductionOrders(ctx context.Context, status string, limit, offset int) ([]dto.ProductionOrderResponse, error) {
	list, err := uc.poRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, *toProductionOrderResponse(po))
	}
	return out, nil
}

// CheckDeliveryAvailability calcula por línea el saldo pendiente del pedido y
// el tope entregable: min(pendiente, stock disponible).
func (uc *UseCase) CheckDeliveryAvailability(ctx context.Context, orderID string) (*dto.DeliveryAvailabilityResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	resp := &dto.DeliveryAvailabilityResponse{OrderID: orderID, Items: []dto.DeliveryAvailabilityDTO{}}
	for _, item := range order.Items {
		row, err := uc.deliveryAvailability(item, uc.productRepo, uc.deliveryRepo, uc.movRepo)
		if err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, *row)
	}
	return resp, nil
}

func (uc *UseCase) deliveryAvailability(
	item entity.OrderItem,
	productRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryRepository,
	movRepo repository.InventoryMovementRepository,
) (*dto.DeliveryAvailabilityDTO, error) {
	product, err := productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	ordered, err := conversion.OrderItemPieces(product.Recipe, item.Quantity, item.Unit)
	if err != nil {
		return nil, err
	}
	delivered, err := deliveryRepo.DeliveredPieces(item.ID)
	if err != nil {
		return nil, err
	}
	available, err := movRepo.AvailablePieces(item.ProductID)
	if err != nil {
		return nil, err
	}
	remaining := ordered - delivered
	if remaining < 0 {
		remaining = 0
	}
	deliverable := remaining
	if available < deliverable {
		deliverable = available
	}
	return &dto.DeliveryAvailabilityDTO{
		OrderItemID:     item.ID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		OrderedPieces:   ordered,
		DeliveredPieces: delivered,
		RemainingPieces: remaining,
		AvailableStock:  available,
		DeliverableCap:  deliverable,
	}, nil
}

// RecordDelivery registra una entrega contra el pedido: valida por línea que
// las piezas no excedan ni el saldo pendiente ni el stock disponible (se
// rechaza, nunca se recorta en silencio) y escribe entrega + ítems +
// movimientos OUT en una sola transacción. Si el pedido queda completamente
// servido pasa a DELIVERED.
func (uc *UseCase) RecordDelivery(ctx context.Context, userID, orderID string, in dto.RecordDeliveryRequest) (*dto.DeliveryResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	date := uc.todayDate()
	if in.Date != "" {
		parsed, err := time.ParseInLocation(DateLayout, in.Date, uc.now().Location())
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}

	var out *dto.DeliveryResponse
	err := uc.txRunner.RunAllocation(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		_ repository.ProductionOrderRepository,
		deliveryRepo repository.DeliveryRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		switch order.Status {
		case entity.OrderStatusConfirmed, entity.OrderStatusInProduction, entity.OrderStatusReady:
		default:
			return domain.ErrConflict
		}

		itemsByID := make(map[string]entity.OrderItem, len(order.Items))
		for _, item := range order.Items {
			itemsByID[item.ID] = item
		}

		productIDs := make([]string, 0, len(in.Items))
		seen := make(map[string]bool)
		for _, req := range in.Items {
			item, ok := itemsByID[req.OrderItemID]
			if !ok || req.Pieces <= 0 {
				return domain.ErrInvalidInput
			}
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				productIDs = append(productIDs, item.ProductID)
			}
		}
		sort.Strings(productIDs)
		products := make(map[string]*entity.Product, len(productIDs))
		for _, pid := range productIDs {
			product, err := productRepo.GetForUpdate(pid)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			products[pid] = product
		}

		now := uc.now()
		delivery := &entity.Delivery{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Date:      date,
			Status:    entity.DeliveryStatusRegistered,
			Notes:     in.Notes,
			CreatedBy: userID,
			CreatedAt: now,
		}
		if err := deliveryRepo.Create(delivery); err != nil {
			return err
		}

		fullyDelivered := true
		for _, req := range in.Items {
			item := itemsByID[req.OrderItemID]
			product := products[item.ProductID]
			row, err := uc.deliveryAvailability(item, productRepo, deliveryRepo, movRepo)
			if err != nil {
				return err
			}
			if req.Pieces > row.RemainingPieces || req.Pieces > row.AvailableStock {
				return domain.ErrInsufficientStock
			}

			deliveryItemID := uuid.New().String()
			movementID := uuid.New().String()
			mov := &entity.InventoryMovement{
				ID:             movementID,
				ProductID:      item.ProductID,
				Type:           entity.MovementTypeOUT,
				Pieces:         req.Pieces,
				Date:           date,
				DeliveryItemID: &deliveryItemID,
				Note:           "entrega pedido " + order.Number,
				CreatedBy:      userID,
				CreatedAt:      now,
			}
			if ppp, err := conversion.PiecesPerPallet(product.Recipe); err == nil {
				mov.Pallets = conversion.PalletEquivalent(req.Pieces, ppp)
			}
			if product.Recipe != nil {
				mov.M2 = conversion.M2Equivalent(req.Pieces, product.Recipe.PiecesPerM2)
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}

			deliveryItem := &entity.DeliveryItem{
				ID:          deliveryItemID,
				DeliveryID:  delivery.ID,
				OrderItemID: item.ID,
				ProductID:   item.ProductID,
				Pieces:      req.Pieces,
				MovementID:  movementID,
				CreatedAt:   now,
			}
			if err := deliveryRepo.CreateItem(deliveryItem); err != nil {
				return err
			}
			delivery.Items = append(delivery.Items, *deliveryItem)
		}

		// ¿Quedó el pedido completamente servido?
		for _, item := range order.Items {
			row, err := uc.deliveryAvailability(item, productRepo, deliveryRepo, movRepo)
			if err != nil {
				return err
			}
			if row.RemainingPieces > 0 {
				fullyDelivered = false
				break
			}
		}
		if fullyDelivered && order.CanTransition(entity.OrderStatusDelivered) {
			if err := orderRepo.UpdateStatus(orderID, entity.OrderStatusDelivered); err != nil {
				return err
			}
		}

		out = toDeliveryResponse(delivery)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetDelivery obtiene una entrega con sus ítems.
func (uc *UseCase) GetDelivery(ctx context.Context, id string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return toDeliveryResponse(d), nil
}

// ListDeliveriesByOrder lista las entregas de un pedido.
func (uc *UseCase) ListDeliveriesByOrder(ctx context.Context, orderID string) ([]dto.DeliveryResponse, error) {
	list, err := uc.deliveryRepo.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDeliveryResponse(d))
	}
	return out, nil
}

func (uc *UseCase) todayDate() time.Time {
	n := uc.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func toProductionOrderResponse(po *entity.ProductionOrder) *dto.ProductionOrderResponse {
	return &dto.ProductionOrderResponse{
		ID:              po.ID,
		OrderID:         po.OrderID,
		OrderItemID:     po.OrderItemID,
		ProductID:       po.ProductID,
		QuantityPieces:  po.QuantityPieces,
		StockAtCreation: po.StockAtCreation,
		ToProducePieces: po.ToProducePieces,
		Status:          po.Status,
		CreatedAt:       po.CreatedAt,
	}
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	resp := &dto.DeliveryResponse{
		ID:        d.ID,
		Number:    d.Number,
		OrderID:   d.OrderID,
		Date:      d.Date.Format(DateLayout),
		Status:    d.Status,
		Notes:     d.Notes,
		Items:     []dto.DeliveryItemResponse{},
		CreatedAt: d.CreatedAt,
	}
	for _, item := range d.Items {
		resp.Items = append(resp.Items, dto.DeliveryItemResponse{
			ID:          item.ID,
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			Pieces:      item.Pieces,
			MovementID:  item.MovementID,
		})
	}
	return resp
}
