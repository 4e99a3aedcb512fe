package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute // Single product cache
	ProductListCacheTTL = 2 * time.Minute // Product list cache (shorter due to frequent changes)
)

const productListKeyPrefix = "catalog:products:list:"

// CatalogRepository implements catalog.Store on PostgreSQL via gorm, with an
// optional Redis read-through cache for product reads. The gorm connection
// must be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogRepository(db *gorm.DB, redis *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, redis: redis}
}

var _ catalog.Store = (*CatalogRepository)(nil)

// translateError maps gorm sentinel errors onto the catalog sentinels the
// service layer matches on.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return catalog.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return catalog.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// A foreign key violation means the referenced row does not exist.
		return catalog.ErrNotFound
	default:
		return err
	}
}

// listOrder builds the ORDER BY clause for product listings. Newest
// products come first unless the caller picked an explicit sort column.
func listOrder(sortBy string) string {
	if sortBy == "" {
		return "products.created_at DESC"
	}
	return fmt.Sprintf("products.%s ASC", sortBy)
}

// Transaction runs fn against a repository bound to a database transaction.
// The transactional view skips the cache; invalidation happens once on
// commit.
func (r *CatalogRepository) Transaction(ctx context.Context, fn func(tx catalog.Store) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CatalogRepository{db: tx})
	})
	if err != nil {
		return err
	}
	r.invalidateProductCaches(ctx)
	return nil
}

// generateListCacheKey creates a deterministic cache key for list queries
func generateListCacheKey(search, sortBy string) string {
	data, _ := json.Marshal([]string{search, sortBy})
	hash := md5.Sum(data)
	return productListKeyPrefix + hex.EncodeToString(hash[:])
}

// invalidateProductCaches drops the single-product and list caches after a
// write. Cache misses are cheap; cache errors are ignored.
func (r *CatalogRepository) invalidateProductCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	iter := r.redis.Scan(ctx, 0, productListKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		r.redis.Del(ctx, iter.Val())
	}
	iter = r.redis.Scan(ctx, 0, "catalog:product:*", 100).Iterator()
	for iter.Next(ctx) {
		r.redis.Del(ctx, iter.Val())
	}
}

// Category Operations

func (r *CatalogRepository) GetCategoryByTitle(ctx context.Context, title string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("LOWER(title) = LOWER(?)", title).First(&category).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(category).Error)
}

// Brand Operations

func (r *CatalogRepository) GetBrandByName(ctx context.Context, name string) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&brand).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &brand, nil
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	brand.CreatedAt = time.Now()
	brand.UpdatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(brand).Error)
}

func (r *CatalogRepository) UpdateBrand(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Color Operations

func (r *CatalogRepository) GetColorByName(ctx context.Context, name string) (*models.Color, error) {
	var color models.Color
	err := r.db.WithContext(ctx).Where("LOWER(color) = LOWER(?)", name).First(&color).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &color, nil
}

func (r *CatalogRepository) CreateColor(ctx context.Context, color *models.Color) error {
	color.CreatedAt = time.Now()
	color.UpdatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Create(color).Error)
}

func (r *CatalogRepository) UpdateColor(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Color{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Product Operations

func (r *CatalogRepository) ProductExistsByNameAndBrand(ctx context.Context, name string, brandID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(name) = LOWER(?) AND brand_id = ?", name, brandID).
		Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) ProductExistsBySKUAndBrand(ctx context.Context, sku string, brandID uuid.UUID) (bool, error) {
	if sku == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("sku = ? AND brand_id = ?", sku, brandID).
		Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("sku = ?", sku).
		Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(product).Error
	if err != nil {
		return translateError(err)
	}
	r.invalidateProductCaches(ctx)
	return nil
}

// GetProductByID retrieves a product with its related entities, with caching
func (r *CatalogRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	cacheKey := fmt.Sprintf("catalog:product:%s", id.String())

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Color").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}

	if r.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}

	return &product, nil
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	r.invalidateProductCaches(ctx)
	return nil
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		r.invalidateProductCaches(ctx)
	}
	return result.RowsAffected, nil
}

// ListProducts filters by a case-insensitive substring match against product
// name or brand name and applies the validated sort column. sortBy arrives
// pre-whitelisted by the service; an empty value means insertion order by
// creation time.
func (r *CatalogRepository) ListProducts(ctx context.Context, search, sortBy string) ([]models.Product, error) {
	cacheKey := generateListCacheKey(search, sortBy)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var products []models.Product
			if err := json.Unmarshal([]byte(val), &products); err == nil {
				return products, nil
			}
		}
	}

	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Preload("Category").
		Preload("Brand").
		Preload("Color")

	if search != "" {
		query = query.
			Joins("JOIN brands ON brands.id = products.brand_id").
			Where("products.name ILIKE ? OR brands.name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	query = query.Order(listOrder(sortBy))

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(products); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductListCacheTTL)
		}
	}

	return products, nil
}

// PurgeCatalog removes every product, then the now-unreferenced categories,
// brands and colors, in one transaction. Deletion order matters: products
// hold the foreign keys.
func (r *CatalogRepository) PurgeCatalog(ctx context.Context) (*models.PurgeResult, error) {
	result := &models.PurgeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&models.Product{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete products: %w", res.Error)
		}
		result.ProductsDeleted = res.RowsAffected

		res = tx.Where("1 = 1").Delete(&models.Category{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete categories: %w", res.Error)
		}
		result.CategoriesDeleted = res.RowsAffected

		res = tx.Where("1 = 1").Delete(&models.Brand{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete brands: %w", res.Error)
		}
		result.BrandsDeleted = res.RowsAffected

		res = tx.Where("1 = 1").Delete(&models.Color{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete colors: %w", res.Error)
		}
		result.ColorsDeleted = res.RowsAffected

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateProductCaches(ctx)
	return result, nil
}
