package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products under a unique title.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null;uniqueIndex"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Brand is shared across products; updating it through a product's nested
// payload mutates it for every product that references it.
type Brand struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Color is a shared color variant entity keyed by its color string.
type Color struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Color       string    `json:"color" gorm:"not null;uniqueIndex"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product represents a catalog product.
// Uniqueness: SKU is globally unique, and no two products may share
// (name, brand_id) or (sku, brand_id). The composite indexes are the
// authoritative guard against concurrent writers.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name        string    `json:"name" gorm:"not null;index;uniqueIndex:idx_products_name_brand"`
	CategoryID  uuid.UUID `json:"categoryId" gorm:"type:uuid;not null;index"`
	BrandID     uuid.UUID `json:"brandId" gorm:"type:uuid;not null;index;uniqueIndex:idx_products_name_brand;uniqueIndex:idx_products_sku_brand"`
	ColorID     uuid.UUID `json:"colorId" gorm:"type:uuid;not null;index"`
	SKU         string    `json:"sku_number" gorm:"column:sku;not null;uniqueIndex;uniqueIndex:idx_products_sku_brand"`
	Description *string   `json:"description,omitempty"`
	Review      *string   `json:"review,omitempty"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Brand       *Brand    `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Color       *Color    `json:"color,omitempty" gorm:"foreignKey:ColorID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// TableName returns the table name for the Brand model
func (Brand) TableName() string {
	return "brands"
}

// TableName returns the table name for the Color model
func (Color) TableName() string {
	return "colors"
}

// CategoryInput carries the category natural key for create requests.
type CategoryInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// BrandInput carries the brand natural key for create requests.
type BrandInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ProductInput is the product section of a create request. Color is the
// color name; it is resolved to a Color entity and removed from the
// persisted payload. SKUNumber, when supplied, only participates in the
// duplicate check - the stored SKU is always generated.
type ProductInput struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description,omitempty"`
	Review      *string `json:"review,omitempty"`
	SKUNumber   string  `json:"sku_number,omitempty"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Category CategoryInput `json:"category"`
	Brand    BrandInput    `json:"brand"`
	Product  ProductInput  `json:"product"`
}

// BrandUpdate is a partial in-place update of the product's linked brand.
type BrandUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ColorUpdate is a partial in-place update of the product's linked color.
type ColorUpdate struct {
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ProductUpdate holds the partial product fields plus the optional nested
// brand/color updates.
type ProductUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Review      *string      `json:"review,omitempty"`
	Brand       *BrandUpdate `json:"brand,omitempty"`
	Color       *ColorUpdate `json:"color,omitempty"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Product ProductUpdate `json:"product"`
}

// ProductData echoes the submitted product fields back to the caller,
// augmented with the resolved entity ids and names.
type ProductData struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Review        *string   `json:"review,omitempty"`
	SKU           string    `json:"sku_number"`
	BrandID       uuid.UUID `json:"brand"`
	BrandName     string    `json:"brand_name"`
	CategoryID    uuid.UUID `json:"category_id"`
	CategoryTitle string    `json:"category_title"`
	ColorID       uuid.UUID `json:"color_code"`
	ColorName     string    `json:"color_name"`
}

// CreateProductResponse is the 201 payload for product creation.
type CreateProductResponse struct {
	Message      string      `json:"message"`
	BrandMessage string      `json:"brand_message"`
	ProductData  ProductData `json:"product_data"`
}

// ProductListResponse wraps the list endpoint payload.
type ProductListResponse struct {
	Data []Product `json:"data"`
}

// PurgeResult reports how many rows the full catalog reset removed.
type PurgeResult struct {
	ProductsDeleted   int64 `json:"productsDeleted"`
	CategoriesDeleted int64 `json:"categoriesDeleted"`
	BrandsDeleted     int64 `json:"brandsDeleted"`
	ColorsDeleted     int64 `json:"colorsDeleted"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}
