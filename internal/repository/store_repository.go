package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// StoreRepository persists store depots, their countries and per-store
// inventory records.
type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// GetOrCreateCountryByCode finds a country by its dialing code or creates
// it. Returns the country and whether it was newly created. Runs in a
// transaction to handle concurrent creation.
func (r *StoreRepository) GetOrCreateCountryByCode(ctx context.Context, name, code string) (*models.Country, bool, error) {
	var country models.Country
	var created bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("code = ?", code).First(&country).Error
		if err == nil {
			created = false
			return nil
		}
		if !errorsIsNotFound(err) {
			return fmt.Errorf("failed to lookup country: %w", err)
		}

		country = models.Country{
			ID:        uuid.New(),
			Name:      name,
			Code:      code,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := tx.Create(&country).Error; err != nil {
			// Concurrent request may have created it first.
			if translateError(err) == catalog.ErrConflict {
				if findErr := tx.Where("code = ?", code).First(&country).Error; findErr == nil {
					created = false
					return nil
				}
			}
			return fmt.Errorf("failed to create country '%s': %w", code, err)
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &country, created, nil
}

func errorsIsNotFound(err error) bool {
	return translateError(err) == catalog.ErrNotFound
}

// Store Operations

func (r *StoreRepository) CreateStore(ctx context.Context, store *models.Store) error {
	store.CreatedAt = time.Now()
	store.UpdatedAt = time.Now()
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	return translateError(r.db.WithContext(ctx).Create(store).Error)
}

func (r *StoreRepository) GetStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Preload("Country").First(&store, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &store, nil
}

func (r *StoreRepository) GetStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).Preload("Country").Order("created_at ASC").Find(&stores).Error
	return stores, err
}

// DeleteStore removes a store and, via the cascade constraint, its
// inventory records.
func (r *StoreRepository) DeleteStore(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Store{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// Inventory Operations

// UpsertInventory sets quantity and availability for one (product, store)
// pair, inserting the record on first write. The two fields are independent:
// availability is whatever the caller declares, regardless of quantity.
// Unknown store or product ids surface as catalog.ErrNotFound.
func (r *StoreRepository) UpsertInventory(ctx context.Context, record *models.InventoryRecord) error {
	record.UpdatedAt = time.Now()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
		record.CreatedAt = record.UpdatedAt
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Store{}).Where("id = ?", record.StoreID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return catalog.ErrNotFound
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", record.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return catalog.ErrNotFound
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "store_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":     record.Quantity,
				"is_available": record.IsAvailable,
				"updated_at":   record.UpdatedAt,
			}),
		}).Create(record).Error
	})
	return translateError(err)
}

func (r *StoreRepository) GetInventoryByStore(ctx context.Context, storeID uuid.UUID) ([]models.InventoryRecord, error) {
	// Verify the store exists so an unknown id is a 404, not an empty list.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", storeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, catalog.ErrNotFound
	}

	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Brand").
		Where("store_id = ?", storeID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}
