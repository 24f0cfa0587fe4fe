package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// PurchaseOrder is an order placed with a single supplier
type PurchaseOrder struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	SupplierID   uint                `json:"supplier_id" gorm:"index;not null"`
	OrderDate    time.Time           `json:"order_date"`
	ExpectedDate time.Time           `json:"expected_date"`
	Status       string              `json:"status" gorm:"type:varchar(20);index;not null"`
	TotalAmount  decimal.Decimal     `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	Items        []PurchaseOrderItem `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	DeletedAt    gorm.DeletedAt      `json:"deleted_at,omitempty" gorm:"index"`
}

// PurchaseOrderItem is one product line of a purchase order
type PurchaseOrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint            `json:"purchase_order_id" gorm:"index;not null"`
	ProductID       uint            `json:"product_id" gorm:"index;not null"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	Cost            decimal.Decimal `json:"cost" gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	ProductName     string          `json:"product_name,omitempty" gorm:"-"`
}
