// Package catalog implements the product write workflow: find-or-create
// resolution of category/brand/color, SKU generation, and atomic
// create/update/delete of products.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/sku"
)

const (
	brandCreatedMessage = "New brand created."
	brandReusedMessage  = "Brand already exists."
)

// sortableFields whitelists sort_by values and maps them to columns. The
// original behavior passed arbitrary strings into ORDER BY; rejecting
// unknown fields is a deliberate hardening.
var sortableFields = map[string]string{
	"name":        "name",
	"sku":         "sku",
	"sku_number":  "sku",
	"description": "description",
	"review":      "review",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

// Service orchestrates catalog writes and reads over a Store.
type Service struct {
	store  Store
	skuGen *sku.Generator
	log    *logrus.Entry
}

// Deps carries the service dependencies. Store is required; SKUGen and
// Logger default when nil.
type Deps struct {
	Store  Store
	SKUGen *sku.Generator
	Logger *logrus.Logger
}

// NewService validates deps and returns a Service.
func NewService(deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	gen := deps.SKUGen
	if gen == nil {
		gen = sku.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		store:  deps.Store,
		skuGen: gen,
		log:    logger.WithField("component", "catalog"),
	}, nil
}

// CreateProduct runs the full creation workflow in one transaction:
// resolve-or-create category and brand, reject duplicates under the brand,
// resolve-or-create the color, generate a unique SKU, and persist the
// product. Either every row commits or none do.
func (s *Service) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.CreateProductResponse, error) {
	var resp *models.CreateProductResponse

	err := s.store.Transaction(ctx, func(tx Store) error {
		category, _, err := s.resolveCategory(ctx, tx, req.Category)
		if err != nil {
			return err
		}

		brand, brandCreated, err := s.resolveBrand(ctx, tx, req.Brand)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(req.Product.Name)
		if name == "" {
			return &ValidationError{Field: "product.name", Message: "name is required"}
		}

		// The pairwise check mirrors the original: name+brand, then the
		// caller-supplied sku_number+brand. For a fresh product the second
		// arm only fires when the caller echoes an existing SKU.
		nameTaken, err := tx.ProductExistsByNameAndBrand(ctx, name, brand.ID)
		if err != nil {
			return err
		}
		skuTaken := false
		if !nameTaken {
			skuTaken, err = tx.ProductExistsBySKUAndBrand(ctx, req.Product.SKUNumber, brand.ID)
			if err != nil {
				return err
			}
		}
		if nameTaken || skuTaken {
			return &DuplicateError{Message: "Product with the same name or SKU already exists under this brand."}
		}

		color, _, err := s.resolveColor(ctx, tx, req.Product.Color)
		if err != nil {
			return err
		}

		generated, err := s.skuGen.Generate(name, color.Color, func(candidate string) (bool, error) {
			return tx.SKUExists(ctx, candidate)
		})
		if err != nil {
			return err
		}

		product := &models.Product{
			ID:          uuid.New(),
			Name:        name,
			CategoryID:  category.ID,
			BrandID:     brand.ID,
			ColorID:     color.ID,
			SKU:         generated,
			Description: req.Product.Description,
			Review:      req.Product.Review,
		}
		if err := tx.CreateProduct(ctx, product); err != nil {
			if errors.Is(err, ErrConflict) {
				// A concurrent writer won the unique index race.
				return &DuplicateError{Message: "Product with the same name or SKU already exists under this brand."}
			}
			return err
		}

		brandMessage := brandReusedMessage
		if brandCreated {
			brandMessage = brandCreatedMessage
		}
		resp = &models.CreateProductResponse{
			Message:      "Product created successfully.",
			BrandMessage: brandMessage,
			ProductData: models.ProductData{
				ID:            product.ID,
				Name:          product.Name,
				Description:   product.Description,
				Review:        product.Review,
				SKU:           product.SKU,
				BrandID:       brand.ID,
				BrandName:     brand.Name,
				CategoryID:    category.ID,
				CategoryTitle: category.Title,
				ColorID:       color.ID,
				ColorName:     color.Color,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"productId": resp.ProductData.ID,
		"sku":       resp.ProductData.SKU,
		"brand":     resp.ProductData.BrandName,
	}).Info("product created")

	return resp, nil
}

// UpdateProduct applies a partial update. Nested brand/color payloads
// mutate the product's linked brand/color rows in place; because those rows
// are shared, the change is visible to every product referencing them.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, upd models.ProductUpdate) (*models.Product, error) {
	var updated *models.Product

	err := s.store.Transaction(ctx, func(tx Store) error {
		product, err := tx.GetProductByID(ctx, id)
		if err != nil {
			return err
		}

		if upd.Brand != nil {
			fields, err := brandUpdateFields(upd.Brand)
			if err != nil {
				return err
			}
			if len(fields) > 0 {
				if err := tx.UpdateBrand(ctx, product.BrandID, fields); err != nil {
					if errors.Is(err, ErrConflict) {
						return &DuplicateError{Message: "A brand with that name already exists."}
					}
					return err
				}
			}
		}

		if upd.Color != nil {
			fields, err := colorUpdateFields(upd.Color)
			if err != nil {
				return err
			}
			if len(fields) > 0 {
				if err := tx.UpdateColor(ctx, product.ColorID, fields); err != nil {
					if errors.Is(err, ErrConflict) {
						return &DuplicateError{Message: "A color with that name already exists."}
					}
					return err
				}
			}
		}

		fields, err := productUpdateFields(&upd)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.UpdateProduct(ctx, id, fields); err != nil {
				if errors.Is(err, ErrConflict) {
					return &DuplicateError{Message: "Product with the same name already exists under this brand."}
				}
				return err
			}
		}

		updated, err = tx.GetProductByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("productId", id).Info("product updated")
	return updated, nil
}

// GetProduct fetches one product with its related entities.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// ListProducts returns products filtered by a case-insensitive substring
// match against product name or brand name, optionally sorted.
func (s *Service) ListProducts(ctx context.Context, search, sortBy string) ([]models.Product, error) {
	column := ""
	if sortBy != "" {
		col, ok := sortableFields[sortBy]
		if !ok {
			return nil, &InvalidSortFieldError{Field: sortBy}
		}
		column = col
	}
	return s.store.ListProducts(ctx, strings.TrimSpace(search), column)
}

// DeleteProduct removes one product. Unknown ids are an error, not a
// silent no-op.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	rows, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	s.log.WithField("productId", id).Info("product deleted")
	return nil
}

// PurgeCatalog wipes products, categories, brands and colors. This is the
// full reset inherited from the original design: the dependent entities go
// too, even though they are shared.
func (s *Service) PurgeCatalog(ctx context.Context) (*models.PurgeResult, error) {
	result, err := s.store.PurgeCatalog(ctx)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"products":   result.ProductsDeleted,
		"categories": result.CategoriesDeleted,
		"brands":     result.BrandsDeleted,
		"colors":     result.ColorsDeleted,
	}).Warn("catalog purged")
	return result, nil
}

// resolveCategory finds a category by title or creates it. A conflict on
// create means a concurrent writer got there first; the lookup is retried
// instead of surfacing the conflict.
func (s *Service) resolveCategory(ctx context.Context, tx Store, in models.CategoryInput) (*models.Category, bool, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, false, &ValidationError{Field: "category.title", Message: "title is required"}
	}

	existing, err := tx.GetCategoryByTitle(ctx, title)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	category := &models.Category{ID: uuid.New(), Title: title, Description: in.Description}
	if err := tx.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, ErrConflict) {
			if existing, ferr := tx.GetCategoryByTitle(ctx, title); ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("create category %q: %w", title, err)
	}
	return category, true, nil
}

func (s *Service) resolveBrand(ctx context.Context, tx Store, in models.BrandInput) (*models.Brand, bool, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, false, &ValidationError{Field: "brand.name", Message: "name is required"}
	}

	existing, err := tx.GetBrandByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	brand := &models.Brand{ID: uuid.New(), Name: name, Description: in.Description}
	if err := tx.CreateBrand(ctx, brand); err != nil {
		if errors.Is(err, ErrConflict) {
			if existing, ferr := tx.GetBrandByName(ctx, name); ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("create brand %q: %w", name, err)
	}
	return brand, true, nil
}

func (s *Service) resolveColor(ctx context.Context, tx Store, colorName string) (*models.Color, bool, error) {
	name := strings.TrimSpace(colorName)
	if name == "" {
		return nil, false, &ValidationError{Field: "product.color", Message: "color is required"}
	}

	existing, err := tx.GetColorByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	color := &models.Color{ID: uuid.New(), Color: name}
	if err := tx.CreateColor(ctx, color); err != nil {
		if errors.Is(err, ErrConflict) {
			if existing, ferr := tx.GetColorByName(ctx, name); ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("create color %q: %w", name, err)
	}
	return color, true, nil
}

func brandUpdateFields(upd *models.BrandUpdate) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, &ValidationError{Field: "product.brand.name", Message: "name must not be empty"}
		}
		fields["name"] = name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	return fields, nil
}

func colorUpdateFields(upd *models.ColorUpdate) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if upd.Color != nil {
		name := strings.TrimSpace(*upd.Color)
		if name == "" {
			return nil, &ValidationError{Field: "product.color.color", Message: "color must not be empty"}
		}
		fields["color"] = name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	return fields, nil
}

func productUpdateFields(upd *models.ProductUpdate) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, &ValidationError{Field: "product.name", Message: "name must not be empty"}
		}
		fields["name"] = name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Review != nil {
		fields["review"] = *upd.Review
	}
	return fields, nil
}
