package palletizing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/conversion"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// DateLayout formato de fecha de producción en la API.
const DateLayout = "2006-01-02"

// UseCase es el motor de empaletizado: convierte producción pendiente en
// inventario discreto (estibas), contabiliza pérdida y arrastra el saldo de
// piezas sueltas entre jornadas.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	recordRepo  repository.ProductionRecordRepository
	palletRepo  repository.PalletizationRepository
	looseRepo   repository.LooseBalanceRepository
	now         func() time.Time
}

// NewUseCase construye el motor. Los repositorios recibidos van atados al pool
// (lecturas); las escrituras pasan siempre por el TxRunner.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	recordRepo repository.ProductionRecordRepository,
	palletRepo repository.PalletizationRepository,
	looseRepo repository.LooseBalanceRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		recordRepo:  recordRepo,
		palletRepo:  palletRepo,
		looseRepo:   looseRepo,
		now:         time.Now,
	}
}

// today devuelve la fecha de hoy truncada a día. La producción del día en
// curso sigue en curado y no es elegible para empaletizar.
func (uc *UseCase) today() time.Time {
	n := uc.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// Pending lista los (producto, fecha) por conciliar: días anteriores a hoy sin
// empaletizado ni IN legado. Los productos sin receta utilizable se reportan
// aparte como "sin receta" y quedan fuera de la cola.
func (uc *UseCase) Pending(ctx context.Context) (*dto.PendingListResponse, error) {
	records, err := uc.recordRepo.ListUnreconciledBefore(uc.today())
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		productID string
		date      string
	}
	groups := make(map[groupKey]int64)
	for _, r := range records {
		k := groupKey{productID: r.ProductID, date: r.Date.Format(DateLayout)}
		groups[k] += r.Cycles
	}

	products := make(map[string]*entity.Product)
	resp := &dto.PendingListResponse{
		Pending:       []dto.PendingGroupDTO{},
		MissingRecipe: []dto.MissingRecipeDTO{},
	}
	for k, cycles := range groups {
		product, ok := products[k.productID]
		if !ok {
			product, err = uc.productRepo.GetByID(k.productID)
			if err != nil {
				return nil, err
			}
			if product == nil {
				continue
			}
			products[k.productID] = product
		}

		ppp, err := conversion.PiecesPerPallet(recipeOf(product))
		if err != nil {
			resp.MissingRecipe = append(resp.MissingRecipe, dto.MissingRecipeDTO{
				ProductID:   product.ID,
				ProductName: product.Name,
				Date:        k.date,
				Cycles:      cycles,
			})
			continue
		}

		theoretical, approx := conversion.TheoreticalPieces(recipeOf(product), cycles)
		balance, err := uc.looseRepo.Get(product.ID)
		if err != nil {
			return nil, err
		}
		resp.Pending = append(resp.Pending, dto.PendingGroupDTO{
			ProductID:         product.ID,
			ProductName:       product.Name,
			Date:              k.date,
			Cycles:            cycles,
			TheoreticalPieces: theoretical,
			LoosePiecesBefore: balance.Pieces,
			PiecesPerPallet:   ppp,
			Approximated:      approx,
		})
	}

	sort.Slice(resp.Pending, func(i, j int) bool {
		if resp.Pending[i].Date != resp.Pending[j].Date {
			return resp.Pending[i].Date < resp.Pending[j].Date
		}
		return resp.Pending[i].ProductName < resp.Pending[j].ProductName
	})
	sort.Slice(resp.MissingRecipe, func(i, j int) bool {
		return resp.MissingRecipe[i].Date < resp.MissingRecipe[j].Date
	})
	return resp, nil
}

// Reconcile concilia toda la producción de un (producto, fecha): congela las
// constantes de la receta, calcula la pérdida y escribe empaletizado +
// movimiento IN + nuevo saldo de sueltas en una sola transacción.
// Rechaza con ErrNegativeLoss si lo confirmado excede lo producido.
func (uc *UseCase) Reconcile(ctx context.Context, userID string, in dto.ReconcileRequest) (*dto.PalletizationResponse, error) {
	if in.ProductID == "" || in.CompletePallets < 0 || in.LoosePiecesAfter < 0 {
		return nil, domain.ErrInvalidInput
	}
	date, err := time.ParseInLocation(DateLayout, in.Date, uc.now().Location())
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !date.Before(uc.today()) {
		// Producción de hoy (o futura) sigue en curado.
		return nil, domain.ErrConflict
	}

	var out *dto.PalletizationResponse
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		recordRepo repository.ProductionRecordRepository,
		palletRepo repository.PalletizationRepository,
		looseRepo repository.LooseBalanceRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		// Serializa todo el motor por producto: bloquea la fila del producto.
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		recipe := recipeOf(product)
		ppp, err := conversion.PiecesPerPallet(recipe)
		if err != nil {
			return err
		}

		if existing, err := palletRepo.GetByProductAndDate(product.ID, date); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrDuplicate
		}
		if legacy, err := movRepo.HasLegacyIN(product.ID, date); err != nil {
			return err
		} else if legacy {
			return domain.ErrConflict
		}

		records, err := recordRepo.ListByProductAndDate(product.ID, date)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return domain.ErrNotFound
		}

		var theoretical int64
		approximated := false
		for _, r := range records {
			pieces, approx := conversion.TheoreticalPieces(recipe, r.Cycles)
			theoretical += pieces
			approximated = approximated || approx
		}
		if approximated {
			log.Warn().
				Str("product_id", product.ID).
				Str("date", in.Date).
				Msg("empaletizado: piezas teóricas aproximadas desde ciclos crudos (receta sin piezas por ciclo)")
		}

		balance, err := looseRepo.GetForUpdate(product.ID)
		if err != nil {
			return err
		}

		realPieces := in.CompletePallets * ppp
		loss := conversion.LossPieces(theoretical, balance.Pieces, realPieces, in.LoosePiecesAfter)
		if loss < 0 {
			return domain.ErrNegativeLoss
		}

		now := uc.now()
		palletizationID := uuid.New().String()
		movementID := uuid.New().String()

		p := &entity.Palletization{
			ID:                palletizationID,
			ProductID:         product.ID,
			Date:              date,
			TheoreticalPieces: theoretical,
			LoosePiecesBefore: balance.Pieces,
			CompletePallets:   in.CompletePallets,
			LoosePiecesAfter:  in.LoosePiecesAfter,
			PiecesPerPallet:   ppp,
			RealPieces:        realPieces,
			LossPieces:        loss,
			Approximated:      approximated,
			Notes:             in.Notes,
			MovementID:        movementID,
			CreatedBy:         userID,
			CreatedAt:         now,
		}
		if err := palletRepo.Create(p); err != nil {
			return err
		}

		mov := &entity.InventoryMovement{
			ID:              movementID,
			ProductID:       product.ID,
			Type:            entity.MovementTypeIN,
			Pieces:          realPieces,
			Pallets:         conversion.PalletEquivalent(realPieces, ppp),
			Date:            date,
			PalletizationID: &palletizationID,
			Note:            in.Notes,
			CreatedBy:       userID,
			CreatedAt:       now,
		}
		if recipe != nil {
			mov.M2 = conversion.M2Equivalent(realPieces, recipe.PiecesPerM2)
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		balance.Pieces = in.LoosePiecesAfter
		balance.UpdatedAt = now
		if err := looseRepo.Upsert(balance); err != nil {
			return err
		}

		out = toPalletizationResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete revierte un empaletizado: elimina el movimiento IN, el registro y
// restaura el saldo de sueltas al valor previo al evento (no a cero). Solo se
// admite el empaletizado más reciente del producto; eliminar uno anterior
// dejaría inconsistente la cadena de saldos posteriores.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ProductionRecordRepository,
		palletRepo repository.PalletizationRepository,
		looseRepo repository.LooseBalanceRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		p, err := palletRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if _, err := productRepo.GetForUpdate(p.ProductID); err != nil {
			return err
		}
		latest, err := palletRepo.GetLatestByProduct(p.ProductID)
		if err != nil {
			return err
		}
		if latest == nil || latest.ID != p.ID {
			return domain.ErrNotLatestPalletization
		}

		if err := movRepo.Delete(p.MovementID); err != nil {
			return err
		}
		if err := palletRepo.Delete(p.ID); err != nil {
			return err
		}
		balance, err := looseRepo.GetForUpdate(p.ProductID)
		if err != nil {
			return err
		}
		balance.Pieces = p.LoosePiecesBefore
		balance.UpdatedAt = uc.now()
		return looseRepo.Upsert(balance)
	})
}

// FormPalletFromLoose consolida piezas sueltas ya contadas en una estiba
// completa: resta una estiba del saldo y registra un IN ad-hoc. No hay fila de
// empaletizado ni pérdida: consolidar piezas ya contadas no pierde nada.
func (uc *UseCase) FormPalletFromLoose(ctx context.Context, userID, productID string) (*dto.FormPalletResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.FormPalletResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ProductionRecordRepository,
		_ repository.PalletizationRepository,
		looseRepo repository.LooseBalanceRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		recipe := recipeOf(product)
		ppp, err := conversion.PiecesPerPallet(recipe)
		if err != nil {
			return err
		}
		balance, err := looseRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if balance.Pieces < ppp {
			return domain.ErrInsufficientStock
		}

		now := uc.now()
		movementID := uuid.New().String()
		mov := &entity.InventoryMovement{
			ID:        movementID,
			ProductID: productID,
			Type:      entity.MovementTypeIN,
			Pieces:    ppp,
			Pallets:   conversion.PalletEquivalent(ppp, ppp),
			M2:        conversion.M2Equivalent(ppp, recipe.PiecesPerM2),
			Date:      uc.today(),
			Note:      "estiba formada desde piezas sueltas",
			CreatedBy: userID,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		balance.Pieces -= ppp
		balance.UpdatedAt = now
		if err := looseRepo.Upsert(balance); err != nil {
			return err
		}

		out = &dto.FormPalletResponse{
			ProductID:       productID,
			PiecesPerPallet: ppp,
			LoosePiecesLeft: balance.Pieces,
			PalletsFormed:   conversion.PalletEquivalent(ppp, ppp),
			MovementID:      movementID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un empaletizado para consulta.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.PalletizationResponse, error) {
	p, err := uc.palletRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return toPalletizationResponse(p), nil
}

// ListByProduct lista los empaletizados de un producto, más reciente primero.
func (uc *UseCase) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]dto.PalletizationResponse, error) {
	list, err := uc.palletRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PalletizationResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPalletizationResponse(p))
	}
	return out, nil
}

func recipeOf(p *entity.Product) *entity.Recipe {
	if p == nil {
		return nil
	}
	return p.Recipe
}

func toPalletizationResponse(p *entity.Palletization) *dto.PalletizationResponse {
	return &dto.PalletizationResponse{
		ID:                p.ID,
		ProductID:         p.ProductID,
		Date:              p.Date.Format(DateLayout),
		TheoreticalPieces: p.TheoreticalPieces,
		LoosePiecesBefore: p.LoosePiecesBefore,
		CompletePallets:   p.CompletePallets,
		LoosePiecesAfter:  p.LoosePiecesAfter,
		PiecesPerPallet:   p.PiecesPerPallet,
		RealPieces:        p.RealPieces,
		LossPieces:        p.LossPieces,
		Approximated:      p.Approximated,
		Notes:             p.Notes,
		MovementID:        p.MovementID,
		CreatedAt:         p.CreatedAt,
	}
}
