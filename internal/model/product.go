package model

import (
	"time"
)

type Product struct {
	ID         int64     `gorm:"primaryKey" json:"id"` // mesmo ID do VTEX
	Name       string    `gorm:"size:500;not null" json:"name"`
	RefID      string    `gorm:"size:100;index" json:"ref_id,omitempty"`
	BrandID    *int64    `gorm:"index" json:"brand_id,omitempty"`
	CategoryID *int64    `gorm:"index" json:"category_id,omitempty"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

type Sku struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"size:500" json:"name"`
	EAN       string    `gorm:"size:50" json:"ean,omitempty"`
	RefID     string    `gorm:"size:100" json:"ref_id,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Sku) TableName() string {
	return "skus"
}

type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SkuID     int64  `gorm:"not null;index" json:"sku_id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"size:1000;not null" json:"url"`
	Label     string `gorm:"size:200" json:"label,omitempty"`
	Position  int    `json:"position"`
	IsMain    bool   `gorm:"default:false" json:"is_main"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

type Brand struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:200;not null" json:"name"`
}

func (Brand) TableName() string {
	return "brands"
}

type Category struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	VtexID   int64  `gorm:"not null;uniqueIndex" json:"vtex_id"`
	Name     string `gorm:"size:200;not null" json:"name"`
	ParentID *int64 `gorm:"index" json:"parent_id,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// AnymarketLink guarda o vínculo produto VTEX <-> produto Anymarket
type AnymarketLink struct {
	ProductID    int64      `gorm:"primaryKey" json:"product_id"`
	AnymarketID  string     `gorm:"size:50;not null" json:"anymarket_id"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (AnymarketLink) TableName() string {
	return "anymarket_links"
}
