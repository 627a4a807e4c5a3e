package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// Los productos se cargan con su receta (LEFT JOIN recipes).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id, p.sku, p.name, p.category, p.description, p.created_at, p.updated_at,
	       r.product_id, r.pieces_per_cycle, r.cycles_per_batch, r.pieces_per_m2,
	       r.pieces_per_pallet, r.m2_per_pallet, r.cost_per_batch, r.updated_at
	FROM products p
	LEFT JOIN recipes r ON r.product_id = p.id`

// scanProduct escanea una fila de productSelect con la receta opcional.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var rec entity.Recipe
	var recProductID *string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Description, &p.CreatedAt, &p.UpdatedAt,
		&recProductID, &rec.PiecesPerCycle, &rec.CyclesPerBatch, &rec.PiecesPerM2,
		&rec.PiecesPerPallet, &rec.M2PerPallet, &rec.CostPerBatch, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if recProductID != nil {
		rec.ProductID = *recProductID
		p.Recipe = &rec
	}
	return &p, nil
}

// Create persiste un nuevo producto (sin receta; la receta se define aparte).
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, category, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Category, product.Description,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update actualiza los datos descriptivos del producto. La receta no se toca aquí.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, description = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Category, product.Description, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con su receta.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(), productSelect+` WHERE p.id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(), productSelect+` WHERE p.sku = $1`, sku)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE).
// Es el punto de serialización por producto: empaletizados, reservas y
// entregas concurrentes del mismo producto se ejecutan en serie.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	// El LEFT JOIN no admite FOR UPDATE sobre la tabla externa; se bloquea
	// primero la fila del producto y luego se carga la receta.
	var exists string
	err := r.q.QueryRow(context.Background(),
		`SELECT id FROM products WHERE id = $1 FOR UPDATE`, id,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return r.GetByID(id)
}

// List lista productos con paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		productSelect+` ORDER BY p.name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpsertRecipe crea o reemplaza la receta del producto. Los empaletizados
// históricos no cambian: guardan su propio snapshot de piezas por estiba.
func (r *ProductRepo) UpsertRecipe(recipe *entity.Recipe) error {
	query := `
		INSERT INTO recipes (product_id, pieces_per_cycle, cycles_per_batch, pieces_per_m2,
		                     pieces_per_pallet, m2_per_pallet, cost_per_batch, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (product_id)
		DO UPDATE SET pieces_per_cycle = EXCLUDED.pieces_per_cycle,
		              cycles_per_batch = EXCLUDED.cycles_per_batch,
		              pieces_per_m2 = EXCLUDED.pieces_per_m2,
		              pieces_per_pallet = EXCLUDED.pieces_per_pallet,
		              m2_per_pallet = EXCLUDED.m2_per_pallet,
		              cost_per_batch = EXCLUDED.cost_per_batch,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		recipe.ProductID, recipe.PiecesPerCycle, recipe.CyclesPerBatch, recipe.PiecesPerM2,
		recipe.PiecesPerPallet, recipe.M2PerPallet, recipe.CostPerBatch,
	)
	if err != nil {
		return fmt.Errorf("upsert recipe: %w", err)
	}
	return nil
}
