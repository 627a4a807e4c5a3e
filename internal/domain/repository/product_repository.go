package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos y recetas.
// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE): es el punto de
// serialización por producto de empaletizados, reservas y entregas concurrentes.
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	// UpsertRecipe crea o reemplaza la receta del producto. Los registros
	// históricos no se ven afectados: guardan su propio snapshot.
	UpsertRecipe(recipe *entity.Recipe) error
}
