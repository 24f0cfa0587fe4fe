// Package purchasing holds the purchase order lifecycle: which orders may change,
// how items merge and how totals are computed.
package purchasing

import (
	"errors"
	"fmt"

	"github.com/rivacortez/management-demo/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotEditable is returned when changing an order that is no longer pending
	ErrOrderNotEditable = errors.New("only pending orders can be edited")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidQuantity is returned for an item quantity below one
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrProductNotOffered is returned when the order's supplier does not offer the product
	ErrProductNotOffered = errors.New("product is not offered by the order's supplier")
	// ErrItemNotFound is returned when an item id is not on the order
	ErrItemNotFound = errors.New("item not found on order")
)

// transitions lists the statuses each status may move to
var transitions = map[string][]string{
	model.OrderStatusPending:  {model.OrderStatusApproved, model.OrderStatusCancelled},
	model.OrderStatusApproved: {model.OrderStatusDelivered, model.OrderStatusCancelled},
}

// IsValidStatus reports whether status is one of the known order statuses
func IsValidStatus(status string) bool {
	switch status {
	case model.OrderStatusPending, model.OrderStatusApproved, model.OrderStatusDelivered, model.OrderStatusCancelled:
		return true
	}
	return false
}

// CanEdit reports whether the order's fields and items may change
func CanEdit(order *model.PurchaseOrder) bool {
	return order.Status == model.OrderStatusPending
}

// CanCancel reports whether the order may still be cancelled
func CanCancel(order *model.PurchaseOrder) bool {
	return order.Status == model.OrderStatusPending || order.Status == model.OrderStatusApproved
}

// ValidateTransition checks a status change. Staying in the same status is allowed.
func ValidateTransition(from, to string) error {
	if !IsValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}

// AddItem adds quantity of a product at cost. A product already on the order has
// its quantity increased instead of getting a second line. Returns the affected item.
func AddItem(order *model.PurchaseOrder, productID uint, quantity int, cost decimal.Decimal) (*model.PurchaseOrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			item := &order.Items[i]
			item.Quantity += quantity
			item.Cost = cost
			item.Total = lineTotal(item.Quantity, item.Cost)
			RecalculateTotal(order)
			return item, nil
		}
	}

	order.Items = append(order.Items, model.PurchaseOrderItem{
		PurchaseOrderID: order.ID,
		ProductID:       productID,
		Quantity:        quantity,
		Cost:            cost,
		Total:           lineTotal(quantity, cost),
	})
	RecalculateTotal(order)
	return &order.Items[len(order.Items)-1], nil
}

// SetItemQuantity replaces the quantity of one item
func SetItemQuantity(order *model.PurchaseOrder, itemID uint, quantity int) (*model.PurchaseOrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item := &order.Items[i]
			item.Quantity = quantity
			item.Total = lineTotal(quantity, item.Cost)
			RecalculateTotal(order)
			return item, nil
		}
	}
	return nil, ErrItemNotFound
}

// RemoveItem drops one item from the order
func RemoveItem(order *model.PurchaseOrder, itemID uint) error {
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
			RecalculateTotal(order)
			return nil
		}
	}
	return ErrItemNotFound
}

// RecalculateTotal sets the order total to the sum of its item totals
func RecalculateTotal(order *model.PurchaseOrder) {
	total := decimal.Zero
	for _, item := range order.Items {
		total = total.Add(item.Total)
	}
	order.TotalAmount = total
}

func lineTotal(quantity int, cost decimal.Decimal) decimal.Decimal {
	return cost.Mul(decimal.NewFromInt(int64(quantity)))
}
