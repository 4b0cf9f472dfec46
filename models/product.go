package models

import "time"

// DefaultMinStock is the low-stock threshold used when a product does not
// configure its own.
const DefaultMinStock = 10

// Product is a catalog entry. Prices are whole rupiah stored as int64;
// monetary arithmetic never touches floats.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SKU         string    `gorm:"uniqueIndex;size:32;not null" json:"sku" binding:"required"`
	Barcode     *string   `gorm:"size:32" json:"barcode,omitempty"`
	Name        string    `gorm:"not null" json:"name" binding:"required"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Price       int64     `gorm:"not null" json:"price" binding:"required,gt=0"`
	Cost        int64     `gorm:"not null;default:0" json:"cost,omitempty"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Category    string    `gorm:"index" json:"category" binding:"required"`
	MinStock    int       `gorm:"default:10" json:"min_stock,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MinStockThreshold resolves the configured threshold or the default.
func (p Product) MinStockThreshold() int {
	if p.MinStock > 0 {
		return p.MinStock
	}
	return DefaultMinStock
}

// LowStock reports whether stock is at or below the threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStockThreshold()
}
