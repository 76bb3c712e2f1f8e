package model

import (
	"time"
)

// Product is a merch catalog entry. Stock is tracked per size in
// product_variant rows.
type Product struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string           `gorm:"type:varchar(128);not null" json:"name"`
	Price       string           `gorm:"type:varchar(32)" json:"price"` // display price, e.g. "25€"
	Description string           `gorm:"type:text" json:"description"`
	Active      bool             `gorm:"not null;default:true" json:"active"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

// ProductVariant holds the stock counter for one size of a product.
// Stock never goes negative; every decrement is a conditional update.
type ProductVariant struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"uniqueIndex:idx_product_size;not null" json:"product_id"`
	Size      string `gorm:"type:varchar(32);uniqueIndex:idx_product_size;not null" json:"size"`
	Stock     int64  `gorm:"not null;default:0" json:"stock"`
}

func (ProductVariant) TableName() string {
	return "product_variant"
}
