package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/prometheus"

	"gorm.io/gorm"
)

// UnknownProduct is shown for a supplied product whose product record is gone
const UnknownProduct = "Unknown product"

// SupplierFilter narrows a supplier listing. Every text match is a case-insensitive substring.
type SupplierFilter struct {
	// Query matches supplier name, contact name or address
	Query        string
	Address      string
	PaymentTerms string
	Page         Page
}

// SupplierRepository stores suppliers
type SupplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a supplier repository
func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// List returns suppliers matching filter ordered by name, with the total match count
func (r *SupplierRepository) List(ctx context.Context, filter SupplierFilter) ([]model.Supplier, int64, error) {
	defer prometheus.TrackDBOperation("supplier_list")(time.Now())

	q := r.db.WithContext(ctx).Model(&model.Supplier{})
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		q = q.Where("LOWER(supplier_name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Address != "" {
		q = q.Where("LOWER(address) LIKE ?", likePattern(filter.Address))
	}
	if filter.PaymentTerms != "" {
		q = q.Where("LOWER(payment_terms) LIKE ?", likePattern(filter.PaymentTerms))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	suppliers := []model.Supplier{}
	if err := filter.Page.apply(q.Order("supplier_name ASC").Order("id ASC")).Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

// Get returns one supplier
func (r *SupplierRepository) Get(ctx context.Context, id uint) (*model.Supplier, error) {
	defer prometheus.TrackDBOperation("supplier_get")(time.Now())

	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, translate(err)
	}
	return &supplier, nil
}

// FindByIDs returns the suppliers that exist among ids, in no particular order
func (r *SupplierRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Supplier, error) {
	defer prometheus.TrackDBOperation("supplier_find")(time.Now())

	suppliers := []model.Supplier{}
	if len(ids) == 0 {
		return suppliers, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Create inserts a supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	defer prometheus.TrackDBOperation("supplier_insert")(time.Now())

	return r.db.WithContext(ctx).Create(supplier).Error
}

// Update writes the editable columns of an existing supplier
func (r *SupplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	defer prometheus.TrackDBOperation("supplier_update")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Supplier{}, supplier.ID); err != nil {
			return err
		}
		return tx.Model(supplier).
			Select("supplier_name", "contact_name", "contact_email", "contact_phone", "address", "payment_terms", "notes").
			Updates(supplier).Error
	})
}

// Delete soft-deletes a supplier and drops its product offers
func (r *SupplierRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("supplier_delete")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Supplier{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("supplier_id = ?", id).Delete(&model.ProductSupplier{}).Error; err != nil {
			return fmt.Errorf("delete product offers: %w", err)
		}
		return nil
	})
}

// SuppliedProducts lists the offers of a supplier with the product names
func (r *SupplierRepository) SuppliedProducts(ctx context.Context, supplierID uint) ([]model.SuppliedProduct, error) {
	defer prometheus.TrackDBOperation("supplier_products")(time.Now())

	if err := mustExist(r.db.WithContext(ctx), &model.Supplier{}, supplierID); err != nil {
		return nil, err
	}

	rows := []model.SuppliedProduct{}
	err := r.db.WithContext(ctx).
		Table("product_suppliers AS ps").
		Select("ps.*, COALESCE(p.name, '') AS product_name").
		Joins("LEFT JOIN products AS p ON p.id = ps.product_id AND p.deleted_at IS NULL").
		Where("ps.supplier_id = ?", supplierID).
		Order("ps.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].ProductName == "" {
			rows[i].ProductName = UnknownProduct
		}
	}
	return rows, nil
}
