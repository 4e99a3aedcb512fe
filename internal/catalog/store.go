package catalog

import (
	"context"

	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// Store is the persistence contract the workflow runs against. Lookups by
// natural key return ErrNotFound on a miss; creates and updates return
// ErrConflict when a unique constraint rejects them.
type Store interface {
	// Transaction runs fn against a transactional view of the store.
	// Everything fn does commits together or not at all.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	GetCategoryByTitle(ctx context.Context, title string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error

	GetBrandByName(ctx context.Context, name string) (*models.Brand, error)
	CreateBrand(ctx context.Context, brand *models.Brand) error
	UpdateBrand(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	GetColorByName(ctx context.Context, name string) (*models.Color, error)
	CreateColor(ctx context.Context, color *models.Color) error
	UpdateColor(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	ProductExistsByNameAndBrand(ctx context.Context, name string, brandID uuid.UUID) (bool, error)
	ProductExistsBySKUAndBrand(ctx context.Context, sku string, brandID uuid.UUID) (bool, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error)
	ListProducts(ctx context.Context, search, sortBy string) ([]models.Product, error)

	PurgeCatalog(ctx context.Context) (*models.PurgeResult, error)
}
