// Package stock expone las proyecciones de solo lectura sobre el libro de
// movimientos (disponible, en curado, sueltas) y la salida manual por ajuste.
// El disponible se recalcula siempre desde el historial completo: el libro es
// la única fuente de verdad, no hay saldo materializado.
package stock

import (
	"context"
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

// TxRunner es el mismo contrato transaccional del motor de empaletizado; la
// salida manual chequea disponibilidad y escribe el OUT en una transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		recordRepo repository.ProductionRecordRepository,
		palletRepo repository.PalletizationRepository,
		looseRepo repository.LooseBalanceRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}

// UseCase proyecciones de stock y movimientos manuales.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	recordRepo  repository.ProductionRecordRepository
	looseRepo   repository.LooseBalanceRepository
	movRepo     repository.InventoryMovementRepository
	now         func() time.Time
}

// NewUseCase construye las proyecciones de stock.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	recordRepo repository.ProductionRecordRepository,
	looseRepo repository.LooseBalanceRepository,
	movRepo repository.InventoryMovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		recordRepo:  recordRepo,
		looseRepo:   looseRepo,
		movRepo:     movRepo,
		now:         time.Now,
	}
}

func (uc *UseCase) today() time.Time {
	n := uc.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// Available recalcula el stock disponible del producto: Σ IN − Σ OUT.
func (uc *UseCase) Available(ctx context.Context, productID string) (int64, error) {
	return uc.movRepo.AvailablePieces(productID)
}

// Curing suma las piezas teóricas de la producción aún no conciliada del
// producto (días anteriores a hoy sin empaletizado ni IN legado), con el mismo
// fallback de ciclos crudos del motor de empaletizado.
func (uc *UseCase) Curing(ctx context.Context, productID string) (int64, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	records, err := uc.recordRepo.ListUnreconciledBeforeByProduct(productID, uc.today())
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range records {
		pieces, _ := conversion.TheoreticalPieces(product.Recipe, r.Cycles)
		total += pieces
	}
	return total, nil
}

// Loose devuelve el saldo vigente de piezas sueltas del producto.
func (uc *UseCase) Loose(ctx context.Context, productID string) (int64, error) {
	balance, err := uc.looseRepo.Get(productID)
	if err != nil {
		return 0, err
	}
	return balance.Pieces, nil
}

// Get arma la vista de stock de un producto con equivalencias derivadas.
func (uc *UseCase) Get(ctx context.Context, productID string) (*dto.StockResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.buildResponse(ctx, product)
}

// Summary arma la vista de stock de todos los productos.
func (uc *UseCase) Summary(ctx context.Context) ([]dto.StockResponse, error) {
	products, err := uc.productRepo.List(500, 0)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(products))
	for _, p := range products {
		row, err := uc.buildResponse(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, nil
}

func (uc *UseCase) buildResponse(ctx context.Context, product *entity.Product) (*dto.StockResponse, error) {
	available, err := uc.movRepo.AvailablePieces(product.ID)
	if err != nil {
		return nil, err
	}
	curing, err := uc.Curing(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	loose, err := uc.Loose(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockResponse{
		ProductID:       product.ID,
		ProductName:     product.Name,
		AvailablePieces: available,
		CuringPieces:    curing,
		LoosePieces:     loose,
	}
	if ppp, err := conversion.PiecesPerPallet(product.Recipe); err == nil {
		resp.AvailablePallets = conversion.PalletEquivalent(available, ppp)
	}
	if product.Recipe != nil {
		resp.AvailableM2 = conversion.M2Equivalent(available, product.Recipe.PiecesPerM2)
	}
	return resp, nil
}

// RegisterOut registra una salida manual (merma, ajuste, venta de patio) con
// chequeo de disponibilidad dentro de la transacción. Se rechaza, no se
// recorta, si las piezas exceden el disponible.
func (uc *UseCase) RegisterOut(ctx context.Context, userID string, in dto.RegisterOutMovementRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.Pieces <= 0 || in.Note == "" {
		return nil, domain.ErrInvalidInput
	}
	date := uc.today()
	if in.Date != "" {
		parsed, err := time.ParseInLocation(DateLayout, in.Date, uc.now().Location())
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}

	var out *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ProductionRecordRepository,
		_ repository.PalletizationRepository,
		_ repository.LooseBalanceRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		available, err := movRepo.AvailablePieces(in.ProductID)
		if err != nil {
			return err
		}
		if in.Pieces > available {
			return domain.ErrInsufficientStock
		}

		mov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Type:      entity.MovementTypeOUT,
			Pieces:    in.Pieces,
			Date:      date,
			Note:      in.Note,
			CreatedBy: userID,
			CreatedAt: uc.now(),
		}
		if ppp, err := conversion.PiecesPerPallet(product.Recipe); err == nil {
			mov.Pallets = conversion.PalletEquivalent(in.Pieces, ppp)
		}
		if product.Recipe != nil {
			mov.M2 = conversion.M2Equivalent(in.Pieces, product.Recipe.PiecesPerM2)
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		out = toMovementResponse(mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMovement elimina un movimiento manual. Los movimientos generados por
// el sistema (empaletizado, entregas, INs legados) solo se revierten a través
// de su registro de origen.
func (uc *UseCase) DeleteMovement(ctx context.Context, id string) error {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return err
	}
	if mov == nil {
		return domain.ErrNotFound
	}
	if mov.SystemGenerated() || mov.Type == entity.MovementTypeIN {
		return domain.ErrForbidden
	}
	return uc.movRepo.Delete(id)
}

// Movements lista los movimientos de un producto en un rango de fechas.
func (uc *UseCase) Movements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	list, err := uc.movRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Pieces:    m.Pieces,
		Pallets:   m.Pallets,
		M2:        m.M2,
		Date:      m.Date.Format(DateLayout),
		Note:      m.Note,
		System:    m.SystemGenerated(),
		CreatedAt: m.CreatedAt,
	}
}
