package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/prometheus"

	"gorm.io/gorm"
)

// ProductRepository stores products and their category links
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns products matching query on name, newest first, with the total match count
func (r *ProductRepository) List(ctx context.Context, query string, page Page) ([]model.Product, int64, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if query != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(query))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	products := []model.Product{}
	err := page.apply(q.Preload("Categories").Order("created_at DESC").Order("id DESC")).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Get returns one product with its categories
func (r *ProductRepository) Get(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_get")(time.Now())

	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Categories").First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// FindByIDs returns the products that exist among ids, in no particular order
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_find")(time.Now())

	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_insert")(time.Now())

	return r.db.WithContext(ctx).Omit("Categories").Create(product).Error
}

// Update writes the editable columns of an existing product
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_update")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Product{}, product.ID); err != nil {
			return err
		}
		return tx.Model(product).
			Select("name", "description", "price", "stock", "cover_images").
			Updates(product).Error
	})
}

// Delete soft-deletes a product and drops its supplier offers and category links
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("product_delete")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductSupplier{}).Error; err != nil {
			return fmt.Errorf("delete supplier offers: %w", err)
		}
		if err := tx.Exec("DELETE FROM product_categories WHERE product_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete category links: %w", err)
		}
		return nil
	})
}

// SetCategories replaces the product's categories with categoryIDs.
// Every category must exist.
func (r *ProductRepository) SetCategories(ctx context.Context, id uint, categoryIDs []uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_set_categories")(time.Now())

	var product model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return translate(err)
		}

		categories := []model.Category{}
		if len(categoryIDs) > 0 {
			if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
				return err
			}
			if len(categories) != len(uniqueIDs(categoryIDs)) {
				return fmt.Errorf("unknown category: %w", ErrNotFound)
			}
		}

		association := tx.Model(&product).Association("Categories")
		if len(categories) == 0 {
			if err := association.Clear(); err != nil {
				return err
			}
		} else if err := association.Replace(categories); err != nil {
			return err
		}
		product.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
