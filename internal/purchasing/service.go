package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore persists purchase orders
type OrderStore interface {
	Get(ctx context.Context, id uint) (*model.PurchaseOrder, error)
	Create(ctx context.Context, order *model.PurchaseOrder) error
	Save(ctx context.Context, order *model.PurchaseOrder) error
}

// OfferLookup finds a supplier's terms for a product
type OfferLookup interface {
	Get(ctx context.Context, productID, supplierID uint) (*model.ProductSupplier, error)
}

// ItemInput is a product and quantity to put on an order
type ItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// NewOrder describes an order to create
type NewOrder struct {
	SupplierID   uint
	OrderDate    time.Time
	ExpectedDate time.Time
	Items        []ItemInput
}

// OrderChanges holds the fields of an update. Nil fields are left as they are.
type OrderChanges struct {
	SupplierID   *uint
	OrderDate    *time.Time
	ExpectedDate *time.Time
	Status       *string
}

// Service applies the purchase order rules on top of storage
type Service struct {
	orders OrderStore
	offers OfferLookup
	now    func() time.Time
}

// NewService creates a purchasing service
func NewService(orders OrderStore, offers OfferLookup) *Service {
	return &Service{
		orders: orders,
		offers: offers,
		now:    time.Now,
	}
}

// Create places a pending order. Each item is priced at the supplier's cost for the product.
func (s *Service) Create(ctx context.Context, in NewOrder) (*model.PurchaseOrder, error) {
	order := &model.PurchaseOrder{
		SupplierID:   in.SupplierID,
		OrderDate:    in.OrderDate,
		ExpectedDate: in.ExpectedDate,
		Status:       model.OrderStatusPending,
		TotalAmount:  decimal.Zero,
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = s.now()
	}

	for _, item := range in.Items {
		cost, err := s.costFor(ctx, in.SupplierID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if _, err := AddItem(order, item.ProductID, item.Quantity, cost); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	logger.FromStdContext(ctx).Info("Purchase order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("supplier_id", order.SupplierID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	prometheus.RecordCatalogOperation("purchase_order", "create")
	return s.orders.Get(ctx, order.ID)
}

// Update edits a pending order's header or moves an order to another status.
// Changing the supplier reprices every item at the new supplier's cost.
func (s *Service) Update(ctx context.Context, id uint, changes OrderChanges) (*model.PurchaseOrder, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.editsFields(order) {
		if !CanEdit(order) {
			return nil, ErrOrderNotEditable
		}
		if changes.SupplierID != nil && *changes.SupplierID != order.SupplierID {
			if err := s.reprice(ctx, order, *changes.SupplierID); err != nil {
				return nil, err
			}
			order.SupplierID = *changes.SupplierID
		}
		if changes.OrderDate != nil {
			order.OrderDate = *changes.OrderDate
		}
		if changes.ExpectedDate != nil {
			order.ExpectedDate = *changes.ExpectedDate
		}
	}

	if changes.Status != nil {
		if err := ValidateTransition(order.Status, *changes.Status); err != nil {
			return nil, err
		}
		order.Status = *changes.Status
	}

	return s.save(ctx, order, "update")
}

// Cancel cancels a pending or approved order
func (s *Service) Cancel(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanCancel(order) {
		return nil, fmt.Errorf("%w: %s order cannot be cancelled", ErrInvalidTransition, order.Status)
	}
	order.Status = model.OrderStatusCancelled
	return s.save(ctx, order, "cancel")
}

// AddItem puts a product on a pending order, merging with an existing line for the same product
func (s *Service) AddItem(ctx context.Context, orderID uint, in ItemInput) (*model.PurchaseOrder, error) {
	order, err := s.editable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	cost, err := s.costFor(ctx, order.SupplierID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := AddItem(order, in.ProductID, in.Quantity, cost); err != nil {
		return nil, err
	}
	return s.save(ctx, order, "add_item")
}

// UpdateItem changes the quantity of an item on a pending order
func (s *Service) UpdateItem(ctx context.Context, orderID, itemID uint, quantity int) (*model.PurchaseOrder, error) {
	order, err := s.editable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := SetItemQuantity(order, itemID, quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, order, "update_item")
}

// RemoveItem drops an item from a pending order
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID uint) (*model.PurchaseOrder, error) {
	order, err := s.editable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := RemoveItem(order, itemID); err != nil {
		return nil, err
	}
	return s.save(ctx, order, "remove_item")
}

func (s *Service) editable(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(order) {
		return nil, ErrOrderNotEditable
	}
	return order, nil
}

func (s *Service) save(ctx context.Context, order *model.PurchaseOrder, operation string) (*model.PurchaseOrder, error) {
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order %d: %w", order.ID, err)
	}
	logger.FromStdContext(ctx).Info("Purchase order saved",
		zap.Uint("order_id", order.ID),
		zap.String("operation", operation),
		zap.String("status", order.Status),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	prometheus.RecordCatalogOperation("purchase_order", operation)
	return s.orders.Get(ctx, order.ID)
}

func (s *Service) reprice(ctx context.Context, order *model.PurchaseOrder, supplierID uint) error {
	for i := range order.Items {
		item := &order.Items[i]
		cost, err := s.costFor(ctx, supplierID, item.ProductID)
		if err != nil {
			return err
		}
		item.Cost = cost
		item.Total = lineTotal(item.Quantity, cost)
	}
	RecalculateTotal(order)
	return nil
}

func (s *Service) costFor(ctx context.Context, supplierID, productID uint) (decimal.Decimal, error) {
	offer, err := s.offers.Get(ctx, productID, supplierID)
	if errors.Is(err, repository.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("%w: product %d, supplier %d", ErrProductNotOffered, productID, supplierID)
	}
	if err != nil {
		return decimal.Zero, err
	}
	return offer.CostPrice, nil
}

func (c OrderChanges) editsFields(order *model.PurchaseOrder) bool {
	return (c.SupplierID != nil && *c.SupplierID != order.SupplierID) ||
		(c.OrderDate != nil && !c.OrderDate.Equal(order.OrderDate)) ||
		(c.ExpectedDate != nil && !c.ExpectedDate.Equal(order.ExpectedDate))
}
