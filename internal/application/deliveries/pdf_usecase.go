// Package deliveries arma la remisión (nota de entrega) imprimible de un
// despacho. La lógica de stock ya ocurrió en el motor de asignación; aquí solo
// se recolectan los datos y se delega al generador PDF.
package deliveries

import (
	"context"

	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// DeliveryNoteLine línea de la remisión con el producto resuelto.
type DeliveryNoteLine struct {
	ProductSKU  string
	ProductName string
	Pieces      int64
}

// DeliveryNotePDFGenerator es el puerto del generador PDF de remisiones.
type DeliveryNotePDFGenerator interface {
	GenerateDeliveryNotePDF(ctx context.Context, delivery *entity.Delivery, order *entity.Order, customer *entity.Customer, lines []DeliveryNoteLine) ([]byte, error)
}

// PDFUseCase genera la remisión PDF de una entrega.
type PDFUseCase struct {
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	generator    DeliveryNotePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	generator DeliveryNotePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// Generate arma los datos de la remisión y devuelve los bytes del PDF.
func (uc *PDFUseCase) Generate(ctx context.Context, deliveryID string) ([]byte, error) {
	delivery, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.ErrNotFound
	}
	order, err := uc.orderRepo.GetByID(delivery.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(order.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]DeliveryNoteLine, 0, len(delivery.Items))
	for _, item := range delivery.Items {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		lines = append(lines, DeliveryNoteLine{
			ProductSKU:  product.SKU,
			ProductName: product.Name,
			Pieces:      item.Pieces,
		})
	}
	return uc.generator.GenerateDeliveryNotePDF(ctx, delivery, order, customer, lines)
}
