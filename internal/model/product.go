package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents the product master data
type Product struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock       int             `json:"stock" gorm:"default:0"`
	CoverImages StringList      `json:"cover_image" gorm:"type:text"`
	Categories  []Category      `json:"categories,omitempty" gorm:"many2many:product_categories;"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// Category groups products for the storefront
type Category struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	CategoryName string         `json:"category_name" gorm:"type:varchar(100);not null"`
	CategorySlug string         `json:"category_slug" gorm:"type:varchar(120);uniqueIndex;not null"`
	MainImage    string         `json:"main_image" gorm:"type:text"`
	Status       bool           `json:"status" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
