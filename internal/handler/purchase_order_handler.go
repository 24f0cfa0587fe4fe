package handler

import (
	"net/http"
	"time"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/purchasing"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// CreateOrderRequest defines the structure for placing a purchase order
type CreateOrderRequest struct {
	SupplierID   uint                   `json:"supplier_id" validate:"required"`
	OrderDate    string                 `json:"order_date"`
	ExpectedDate string                 `json:"expected_date"`
	Items        []purchasing.ItemInput `json:"items" validate:"dive"`
}

// UpdateOrderRequest defines the structure for editing a purchase order.
// Omitted fields are left unchanged.
type UpdateOrderRequest struct {
	SupplierID   *uint   `json:"supplier_id" validate:"omitempty,gt=0"`
	OrderDate    *string `json:"order_date"`
	ExpectedDate *string `json:"expected_date"`
	Status       *string `json:"status" validate:"omitempty,oneof=pending approved delivered cancelled"`
}

// ItemQuantityRequest sets the quantity of an order item
type ItemQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// PurchaseOrderHandler serves purchase orders and their items
type PurchaseOrderHandler struct {
	orders     *repository.PurchaseOrderRepository
	purchasing *purchasing.Service
}

// NewPurchaseOrderHandler creates a purchase order handler
func NewPurchaseOrderHandler(orders *repository.PurchaseOrderRepository, purchasing *purchasing.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, purchasing: purchasing}
}

// RegisterRoutes mounts the purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListOrders)
	g.POST("", h.CreateOrder)
	g.GET("/:id", h.GetOrder)
	g.PUT("/:id", h.UpdateOrder)
	g.POST("/:id/cancel", h.CancelOrder)
	g.GET("/:id/items", h.ListItems)
	g.POST("/:id/items", h.AddItem)
	g.PUT("/:id/items/:itemId", h.UpdateItem)
	g.DELETE("/:id/items/:itemId", h.RemoveItem)
}

// ListOrders lists orders filtered by status and a numeric order or supplier id (q)
func (h *PurchaseOrderHandler) ListOrders(c echo.Context) error {
	page, pageNum, limit := pageFromQuery(c)

	status := c.QueryParam("status")
	if status != "" && !purchasing.IsValidStatus(status) {
		return badRequest(c, "invalid status")
	}

	orders, total, err := h.orders.List(c.Request().Context(), repository.OrderFilter{
		Status: status,
		Query:  c.QueryParam("q"),
		Page:   page,
	})
	if err != nil {
		return respondError(c, err, "purchase order")
	}
	prometheus.RecordCatalogOperation("purchase_order", "list")
	return c.JSON(http.StatusOK, ListResponse{Data: orders, Total: total, Page: pageNum, Limit: limit})
}

// GetOrder returns an order with its items
func (h *PurchaseOrderHandler) GetOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	order, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "purchase order")
	}
	prometheus.RecordCatalogOperation("purchase_order", "get")
	return c.JSON(http.StatusOK, order)
}

// ListItems returns the items of an order with product names
func (h *PurchaseOrderHandler) ListItems(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	order, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "purchase order")
	}
	items := order.Items
	if items == nil {
		items = []model.PurchaseOrderItem{}
	}
	prometheus.RecordCatalogOperation("purchase_order", "list_items")
	return c.JSON(http.StatusOK, items)
}

// CreateOrder places a pending order
func (h *PurchaseOrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := purchasing.NewOrder{SupplierID: req.SupplierID, Items: req.Items}
	var err error
	if in.OrderDate, err = parseDate(req.OrderDate); err != nil {
		return badRequest(c, "invalid order_date")
	}
	if in.ExpectedDate, err = parseDate(req.ExpectedDate); err != nil {
		return badRequest(c, "invalid expected_date")
	}

	order, err := h.purchasing.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err, "supplier")
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrder edits a pending order or changes an order's status
func (h *PurchaseOrderHandler) UpdateOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req UpdateOrderRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	changes := purchasing.OrderChanges{SupplierID: req.SupplierID, Status: req.Status}
	if req.OrderDate != nil {
		d, err := parseDate(*req.OrderDate)
		if err != nil {
			return badRequest(c, "invalid order_date")
		}
		changes.OrderDate = &d
	}
	if req.ExpectedDate != nil {
		d, err := parseDate(*req.ExpectedDate)
		if err != nil {
			return badRequest(c, "invalid expected_date")
		}
		changes.ExpectedDate = &d
	}

	order, err := h.purchasing.Update(c.Request().Context(), id, changes)
	if err != nil {
		return respondError(c, err, "purchase order")
	}
	return c.JSON(http.StatusOK, order)
}

// CancelOrder cancels a pending or approved order
func (h *PurchaseOrderHandler) CancelOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	order, err := h.purchasing.Cancel(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "purchase order")
	}
	return c.JSON(http.StatusOK, order)
}

// AddItem puts a product on a pending order
func (h *PurchaseOrderHandler) AddItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req purchasing.ItemInput
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	order, err := h.purchasing.AddItem(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "purchase order")
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateItem changes the quantity of an item
func (h *PurchaseOrderHandler) UpdateItem(c echo.Context) error {
	id, itemID, err := itemKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req ItemQuantityRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	order, err := h.purchasing.UpdateItem(c.Request().Context(), id, itemID, req.Quantity)
	if err != nil {
		return respondError(c, err, "purchase order item")
	}
	return c.JSON(http.StatusOK, order)
}

// RemoveItem drops an item from a pending order
func (h *PurchaseOrderHandler) RemoveItem(c echo.Context) error {
	id, itemID, err := itemKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.purchasing.RemoveItem(c.Request().Context(), id, itemID)
	if err != nil {
		return respondError(c, err, "purchase order item")
	}
	return c.JSON(http.StatusOK, order)
}

func itemKey(c echo.Context) (uint, uint, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return 0, 0, err
	}
	return id, itemID, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty means zero.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
