package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y sus recetas de conversión.
// El stock no se toca aquí: se maneja vía producción/empaletizado/movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto nuevo, sin receta (se define aparte).
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	switch in.Category {
	case entity.CategoryAdoquin, entity.CategoryBloque, entity.CategoryOtro:
	case "":
		in.Category = entity.CategoryOtro
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto (con receta si tiene) por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos descriptivos del producto.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		switch *in.Category {
		case entity.CategoryAdoquin, entity.CategoryBloque, entity.CategoryOtro:
			product.Category = *in.Category
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos paginados.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	products, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Products: out,
		Page:     dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// UpsertRecipe define o reemplaza la receta de conversión del producto.
// Los empaletizados y órdenes históricos no cambian: guardan su snapshot.
func (uc *ProductUseCase) UpsertRecipe(productID string, in dto.RecipeRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.PiecesPerCycle < 0 || in.CyclesPerBatch < 0 || in.PiecesPerPallet < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PiecesPerM2.LessThan(decimal.Zero) || in.M2PerPallet.LessThan(decimal.Zero) || in.CostPerBatch.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	// La receta debe permitir derivar piezas por estiba por alguna de las dos vías.
	if in.PiecesPerPallet == 0 && (in.M2PerPallet.LessThanOrEqual(decimal.Zero) || in.PiecesPerM2.LessThanOrEqual(decimal.Zero)) {
		return nil, domain.ErrInvalidInput
	}
	recipe := &entity.Recipe{
		ProductID:       productID,
		PiecesPerCycle:  in.PiecesPerCycle,
		CyclesPerBatch:  in.CyclesPerBatch,
		PiecesPerM2:     in.PiecesPerM2,
		PiecesPerPallet: in.PiecesPerPallet,
		M2PerPallet:     in.M2PerPallet,
		CostPerBatch:    in.CostPerBatch,
		UpdatedAt:       time.Now(),
	}
	if err := uc.repo.UpsertRecipe(recipe); err != nil {
		return nil, err
	}
	product.Recipe = recipe
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Recipe != nil {
		resp.Recipe = &dto.RecipeResponse{
			PiecesPerCycle:  p.Recipe.PiecesPerCycle,
			CyclesPerBatch:  p.Recipe.CyclesPerBatch,
			PiecesPerM2:     p.Recipe.PiecesPerM2,
			PiecesPerPallet: p.Recipe.PiecesPerPallet,
			M2PerPallet:     p.Recipe.M2PerPallet,
			CostPerBatch:    p.Recipe.CostPerBatch,
			CostPerPiece:    p.Recipe.CostPerPiece(),
		}
	}
	return resp
}
