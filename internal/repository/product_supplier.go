package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/prometheus"

	"gorm.io/gorm"
)

// OfferDetail is a supplier offer with the product and supplier names
type OfferDetail struct {
	model.ProductSupplier
	ProductName  string `json:"product_name"`
	SupplierName string `json:"supplier_name"`
}

// OfferFilter narrows an offer listing. Zero ids do not filter.
type OfferFilter struct {
	ProductID  uint
	SupplierID uint
	// Query matches product or supplier name
	Query string
	Page  Page
}

// ProductSupplierRepository stores supplier offers
type ProductSupplierRepository struct {
	db *gorm.DB
}

// NewProductSupplierRepository creates a supplier offer repository
func NewProductSupplierRepository(db *gorm.DB) *ProductSupplierRepository {
	return &ProductSupplierRepository{db: db}
}

// ListByProduct returns every offer for a product in the order they were created
func (r *ProductSupplierRepository) ListByProduct(ctx context.Context, productID uint) ([]model.ProductSupplier, error) {
	defer prometheus.TrackDBOperation("offer_list_by_product")(time.Now())

	offers := []model.ProductSupplier{}
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").Order("supplier_id ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// ListAll returns every offer grouped by product, each group in creation order
func (r *ProductSupplierRepository) ListAll(ctx context.Context) ([]model.ProductSupplier, error) {
	defer prometheus.TrackDBOperation("offer_list_all")(time.Now())

	offers := []model.ProductSupplier{}
	err := r.db.WithContext(ctx).
		Order("product_id ASC").Order("created_at ASC").Order("supplier_id ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// List returns offers with product and supplier names, with the total match count
func (r *ProductSupplierRepository) List(ctx context.Context, filter OfferFilter) ([]OfferDetail, int64, error) {
	defer prometheus.TrackDBOperation("offer_list")(time.Now())

	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Table("product_suppliers AS ps").
			Joins("LEFT JOIN products AS p ON p.id = ps.product_id AND p.deleted_at IS NULL").
			Joins("LEFT JOIN suppliers AS s ON s.id = ps.supplier_id AND s.deleted_at IS NULL")
		if filter.ProductID != 0 {
			q = q.Where("ps.product_id = ?", filter.ProductID)
		}
		if filter.SupplierID != 0 {
			q = q.Where("ps.supplier_id = ?", filter.SupplierID)
		}
		if filter.Query != "" {
			pattern := likePattern(filter.Query)
			q = q.Where("LOWER(p.name) LIKE ? OR LOWER(s.supplier_name) LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []OfferDetail{}
	err := filter.Page.apply(query()).
		Select("ps.*, COALESCE(p.name, '') AS product_name, COALESCE(s.supplier_name, '') AS supplier_name").
		Order("ps.product_id ASC").Order("ps.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Get returns the offer of one supplier for one product
func (r *ProductSupplierRepository) Get(ctx context.Context, productID, supplierID uint) (*model.ProductSupplier, error) {
	defer prometheus.TrackDBOperation("offer_get")(time.Now())

	var offer model.ProductSupplier
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND supplier_id = ?", productID, supplierID).
		First(&offer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &offer, nil
}

// Create links a supplier to a product. Both must exist and the pair must be new.
func (r *ProductSupplierRepository) Create(ctx context.Context, offer *model.ProductSupplier) error {
	defer prometheus.TrackDBOperation("offer_insert")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Product{}, offer.ProductID); err != nil {
			return fmt.Errorf("product %d: %w", offer.ProductID, err)
		}
		if err := mustExist(tx, &model.Supplier{}, offer.SupplierID); err != nil {
			return fmt.Errorf("supplier %d: %w", offer.SupplierID, err)
		}

		var count int64
		err := tx.Model(&model.ProductSupplier{}).
			Where("product_id = ? AND supplier_id = ?", offer.ProductID, offer.SupplierID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(offer).Error
	})
}

// Update writes the cost, lead time and special agreement of an existing offer
func (r *ProductSupplierRepository) Update(ctx context.Context, offer *model.ProductSupplier) error {
	defer prometheus.TrackDBOperation("offer_update")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ProductSupplier
		err := tx.Where("product_id = ? AND supplier_id = ?", offer.ProductID, offer.SupplierID).
			First(&existing).Error
		if err != nil {
			return translate(err)
		}
		err = tx.Model(&model.ProductSupplier{}).
			Where("product_id = ? AND supplier_id = ?", offer.ProductID, offer.SupplierID).
			Updates(map[string]interface{}{
				"cost_price":        offer.CostPrice,
				"lead_time_days":    offer.LeadTimeDays,
				"special_agreement": offer.SpecialAgreement,
				"updated_at":        time.Now(),
			}).Error
		if err != nil {
			return err
		}
		offer.CreatedAt = existing.CreatedAt
		return nil
	})
}

// Delete removes an offer
func (r *ProductSupplierRepository) Delete(ctx context.Context, productID, supplierID uint) error {
	defer prometheus.TrackDBOperation("offer_delete")(time.Now())

	result := r.db.WithContext(ctx).
		Where("product_id = ? AND supplier_id = ?", productID, supplierID).
		Delete(&model.ProductSupplier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
