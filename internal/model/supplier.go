package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier represents the supplier model stored in the database
type Supplier struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SupplierName string         `json:"supplier_name" gorm:"type:varchar(150);index;not null"`
	ContactName  string         `json:"contact_name" gorm:"type:varchar(100)"`
	ContactEmail string         `json:"contact_email" gorm:"type:varchar(100)"`
	ContactPhone string         `json:"contact_phone" gorm:"type:varchar(30)"`
	Address      string         `json:"address" gorm:"type:text"`
	PaymentTerms string         `json:"payment_terms" gorm:"type:varchar(100)"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ProductSupplier is one supplier's terms for supplying one product.
// A supplier offers a given product at most once.
type ProductSupplier struct {
	ProductID        uint            `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	SupplierID       uint            `json:"supplier_id" gorm:"primaryKey;autoIncrement:false;index"`
	CostPrice        decimal.Decimal `json:"cost_price" gorm:"type:decimal(12,2);not null"`
	LeadTimeDays     int             `json:"lead_time_days" gorm:"not null"`
	SpecialAgreement *string         `json:"special_agreement,omitempty" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SuppliedProduct is a ProductSupplier joined with the product's name
type SuppliedProduct struct {
	ProductSupplier
	ProductName string `json:"product_name"`
}
