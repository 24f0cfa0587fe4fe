package testutil

import (
	"testing"

	"github.com/rivacortez/management-demo/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateProduct inserts a product with the given name and price
func CreateProduct(t *testing.T, db *gorm.DB, name, price string, opts ...func(*model.Product)) model.Product {
	t.Helper()
	p := model.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: 10,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("testutil.CreateProduct: %v", err)
	}
	return p
}

// WithCoverImages sets the product's cover image URLs.
func WithCoverImages(urls ...string) func(*model.Product) {
	return func(p *model.Product) { p.CoverImages = urls }
}

// CreateSupplier inserts a supplier with the given name
func CreateSupplier(t *testing.T, db *gorm.DB, name string, opts ...func(*model.Supplier)) model.Supplier {
	t.Helper()
	s := model.Supplier{
		SupplierName: name,
		ContactName:  "Contact " + name,
		ContactPhone: "999000111",
		Address:      "Av. Principal 123, Lima",
		PaymentTerms: "30 days",
	}
	for _, opt := range opts {
		opt(&s)
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("testutil.CreateSupplier: %v", err)
	}
	return s
}

// WithAddress sets the supplier address.
func WithAddress(address string) func(*model.Supplier) {
	return func(s *model.Supplier) { s.Address = address }
}

// WithPaymentTerms sets the supplier payment terms.
func WithPaymentTerms(terms string) func(*model.Supplier) {
	return func(s *model.Supplier) { s.PaymentTerms = terms }
}

// CreateOffer links a supplier to a product with a cost and lead time
func CreateOffer(t *testing.T, db *gorm.DB, productID, supplierID uint, cost string, leadDays int) model.ProductSupplier {
	t.Helper()
	ps := model.ProductSupplier{
		ProductID:    productID,
		SupplierID:   supplierID,
		CostPrice:    decimal.RequireFromString(cost),
		LeadTimeDays: leadDays,
	}
	if err := db.Create(&ps).Error; err != nil {
		t.Fatalf("testutil.CreateOffer: %v", err)
	}
	return ps
}

// CreateCategory inserts an active category
func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) model.Category {
	t.Helper()
	c := model.Category{CategoryName: name, CategorySlug: slug, Status: true}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("testutil.CreateCategory: %v", err)
	}
	return c
}
