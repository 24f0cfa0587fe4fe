package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/prometheus"

	"gorm.io/gorm"
)

// OrderFilter narrows a purchase order listing
type OrderFilter struct {
	Status string
	// Query is a numeric order id or supplier id
	Query string
	Page  Page
}

// PurchaseOrderRepository stores purchase orders and their items
type PurchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

// List returns orders newest first without their items, with the total match count.
// A non-numeric query matches nothing.
func (r *PurchaseOrderRepository) List(ctx context.Context, filter OrderFilter) ([]model.PurchaseOrder, int64, error) {
	defer prometheus.TrackDBOperation("order_list")(time.Now())

	orders := []model.PurchaseOrder{}
	q := r.db.WithContext(ctx).Model(&model.PurchaseOrder{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if query := strings.TrimSpace(filter.Query); query != "" {
		id, err := strconv.ParseUint(query, 10, 64)
		if err != nil {
			return orders, 0, nil
		}
		q = q.Where("id = ? OR supplier_id = ?", id, id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := filter.Page.apply(q.Order("order_date DESC").Order("id DESC")).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Get returns an order with its items, each carrying its product name
func (r *PurchaseOrderRepository) Get(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	defer prometheus.TrackDBOperation("order_get")(time.Now())

	var order model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	if err := r.attachProductNames(ctx, order.Items); err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts an order together with its items
func (r *PurchaseOrderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	defer prometheus.TrackDBOperation("order_insert")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Supplier{}, order.SupplierID); err != nil {
			return fmt.Errorf("supplier %d: %w", order.SupplierID, err)
		}
		return tx.Create(order).Error
	})
}

// Save writes the order header and reconciles its items: items without an id are
// inserted, items with one are updated and stored items missing from order.Items are deleted.
func (r *PurchaseOrderRepository) Save(ctx context.Context, order *model.PurchaseOrder) error {
	defer prometheus.TrackDBOperation("order_update")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.PurchaseOrder{}, order.ID); err != nil {
			return err
		}

		err := tx.Model(order).
			Select("supplier_id", "order_date", "expected_date", "status", "total_amount").
			Updates(order).Error
		if err != nil {
			return err
		}

		keep := make([]uint, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			item.PurchaseOrderID = order.ID
			if item.ID == 0 {
				if err := tx.Create(item).Error; err != nil {
					return err
				}
			} else if err := tx.Model(item).Select("product_id", "quantity", "cost", "total").Updates(item).Error; err != nil {
				return err
			}
			keep = append(keep, item.ID)
		}

		stale := tx.Where("purchase_order_id = ?", order.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		return stale.Delete(&model.PurchaseOrderItem{}).Error
	})
}

func (r *PurchaseOrderRepository) attachProductNames(ctx context.Context, items []model.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []model.Product
	// soft-deleted products keep their names on past orders
	if err := r.db.WithContext(ctx).Unscoped().Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return err
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	for i := range items {
		if name, ok := names[items[i].ProductID]; ok {
			items[i].ProductName = name
		} else {
			items[i].ProductName = fmt.Sprintf("Product #%d", items[i].ProductID)
		}
	}
	return nil
}
