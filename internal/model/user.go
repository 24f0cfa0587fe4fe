package model

import "time"

// User is an account allowed to sign in to the dashboard
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100);not null"`
	Role         string    `json:"role" gorm:"type:varchar(30);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// All returns every model managed by migrations
func All() []interface{} {
	return []interface{}{
		&Product{},
		&Category{},
		&Supplier{},
		&ProductSupplier{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&User{},
	}
}
