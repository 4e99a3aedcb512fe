package models

import (
	"time"

	"github.com/google/uuid"
)

// Country is a lookup entity referenced by stores, resolved-or-created by
// its dialing code.
type Country struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	Code      string    `json:"code" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store represents a physical store depot holding inventory.
type Store struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Address     *string   `json:"address,omitempty"`
	Email       string    `json:"email" gorm:"not null;uniqueIndex"`
	CountryID   uuid.UUID `json:"countryId" gorm:"type:uuid;not null;index"`
	Country     *Country  `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	Phone       string    `json:"phone"`
	OpeningTime string    `json:"openingTime"`
	ClosingTime string    `json:"closingTime"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InventoryRecord tracks the quantity of one product at one store.
// Quantity is non-negative. IsAvailable is caller-declared and deliberately
// not derived from quantity.
type InventoryRecord struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID   uuid.UUID `json:"productId" gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_store;constraint:OnDelete:CASCADE"`
	StoreID     uuid.UUID `json:"storeId" gorm:"type:uuid;not null;index;uniqueIndex:idx_inventory_product_store"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	IsAvailable bool      `json:"isAvailable" gorm:"not null;default:true"`
	Product     *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Store       *Store    `json:"store,omitempty" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the table name for the Country model
func (Country) TableName() string {
	return "countries"
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}

// TableName returns the table name for the InventoryRecord model
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// CountryInput carries the country reference for store creation. Code is
// the natural key; Name is used only when the country has to be created.
type CountryInput struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CreateStoreRequest represents a request to create a store depot.
type CreateStoreRequest struct {
	Name        string       `json:"name"`
	Address     *string      `json:"address,omitempty"`
	Email       string       `json:"email"`
	Country     CountryInput `json:"country"`
	Phone       string       `json:"phone"`
	OpeningTime string       `json:"openingTime"`
	ClosingTime string       `json:"closingTime"`
}

// UpsertInventoryRequest sets the quantity and availability flag for one
// (product, store) pair.
type UpsertInventoryRequest struct {
	Quantity    *int  `json:"quantity" binding:"required"`
	IsAvailable *bool `json:"isAvailable,omitempty"`
}

// StoreResponse wraps a single store payload.
type StoreResponse struct {
	Success bool    `json:"success"`
	Data    *Store  `json:"data"`
	Message *string `json:"message,omitempty"`
}

// StoreListResponse wraps the store list payload.
type StoreListResponse struct {
	Data []Store `json:"data"`
}

// InventoryListResponse wraps the per-store inventory payload.
type InventoryListResponse struct {
	Data []InventoryRecord `json:"data"`
}
