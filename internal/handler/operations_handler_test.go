package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rivacortez/management-demo/internal/comparison"
	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCompareProduct(t *testing.T) {
	s := newTestServer(t)
	aceite := testutil.CreateProduct(t, s.db, "Aceite", "8.90")
	cheap := testutil.CreateSupplier(t, s.db, "Alicorp")
	fast := testutil.CreateSupplier(t, s.db, "Gloria")
	testutil.CreateOffer(t, s.db, aceite.ID, cheap.ID, "10.00", 5)
	testutil.CreateOffer(t, s.db, aceite.ID, fast.ID, "20.00", 1)

	rec := s.do(http.MethodGet, "/api/comparisons/products/"+itoa(aceite.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result comparison.Result
	decode(t, rec, &result)

	require.Len(t, result.Offers, 2)
	assert.Equal(t, "Alicorp", result.Offers[0].SupplierName)
	assert.Equal(t, 70.0, result.Offers[0].RecommendationScore)
	assert.Equal(t, comparison.LabelGood, result.Offers[0].Label)
	assert.Equal(t, 30.0, result.Offers[1].RecommendationScore)
	require.NotNil(t, result.Recommended)
	assert.Equal(t, cheap.ID, result.Recommended.SupplierID)
	assert.Equal(t, comparison.SortByScore, result.SortField)
	assert.Equal(t, comparison.Descending, result.Direction)

	rec = s.do(http.MethodGet, "/api/comparisons/products/"+itoa(aceite.ID)+"?sort=lead_time_days", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result = comparison.Result{}
	decode(t, rec, &result)
	require.Len(t, result.Offers, 2)
	assert.Equal(t, "Gloria", result.Offers[0].SupplierName)
	assert.False(t, result.Offers[0].IsRecommended)
	assert.Equal(t, cheap.ID, result.Recommended.SupplierID)
}

func TestCompareProductErrors(t *testing.T) {
	s := newTestServer(t)
	lonely := testutil.CreateProduct(t, s.db, "Vinagre", "3.50")

	rec := s.do(http.MethodGet, "/api/comparisons/products/"+itoa(lonely.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result comparison.Result
	decode(t, rec, &result)
	assert.Empty(t, result.Offers)
	assert.Nil(t, result.Recommended)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/comparisons/products/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/comparisons/products/"+itoa(lonely.ID)+"?sort=name", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/comparisons/products/"+itoa(lonely.ID)+"?order=up", nil).Code)
}

func TestPurchaseOrderFlow(t *testing.T) {
	s := newTestServer(t)
	aceite := testutil.CreateProduct(t, s.db, "Aceite", "8.90")
	vinagre := testutil.CreateProduct(t, s.db, "Vinagre", "3.50")
	alicorp := testutil.CreateSupplier(t, s.db, "Alicorp")
	testutil.CreateOffer(t, s.db, aceite.ID, alicorp.ID, "7.40", 3)
	testutil.CreateOffer(t, s.db, vinagre.ID, alicorp.ID, "2.10", 2)

	rec := s.do(http.MethodPost, "/api/purchase-orders", echo.Map{
		"supplier_id":   alicorp.ID,
		"order_date":    "2026-03-01",
		"expected_date": "2026-03-05",
		"items":         []echo.Map{{"product_id": aceite.ID, "quantity": 10}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order model.PurchaseOrder
	decode(t, rec, &order)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "74.00", order.TotalAmount.StringFixed(2))
	orderPath := "/api/purchase-orders/" + itoa(order.ID)

	rec = s.do(http.MethodPost, orderPath+"/items", echo.Map{"product_id": vinagre.ID, "quantity": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &order)
	assert.Equal(t, "84.50", order.TotalAmount.StringFixed(2))

	rec = s.do(http.MethodGet, orderPath+"/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []model.PurchaseOrderItem
	decode(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "Aceite", items[0].ProductName)

	rec = s.do(http.MethodPut, orderPath+"/items/"+itoa(items[0].ID), echo.Map{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, orderPath+"/items/"+itoa(items[0].ID), echo.Map{"quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &order)
	assert.Equal(t, "25.30", order.TotalAmount.StringFixed(2))

	rec = s.do(http.MethodPut, orderPath, echo.Map{"status": "delivered"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPut, orderPath, echo.Map{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodDelete, orderPath+"/items/"+itoa(items[1].ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, orderPath+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &order)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)

	rec = s.do(http.MethodGet, "/api/purchase-orders?status=cancelled", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListResponse
	decode(t, rec, &list)
	assert.EqualValues(t, 1, list.Total)
}

func TestPurchaseOrderValidation(t *testing.T) {
	s := newTestServer(t)
	aceite := testutil.CreateProduct(t, s.db, "Aceite", "8.90")
	alicorp := testutil.CreateSupplier(t, s.db, "Alicorp")

	rec := s.do(http.MethodPost, "/api/purchase-orders", echo.Map{"supplier_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/purchase-orders", echo.Map{"supplier_id": alicorp.ID, "order_date": "01/03/2026"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid order_date", errorMessage(t, rec))

	rec = s.do(http.MethodPost, "/api/purchase-orders", echo.Map{
		"supplier_id": alicorp.ID,
		"items":       []echo.Map{{"product_id": aceite.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/purchase-orders?status=lost", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/purchase-orders/42", nil).Code)
}

func multipartFile(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestImageUpload(t *testing.T) {
	s := newTestServer(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, multipartFile(t, "aceite.png", png))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "photos/1-aceite.png", body["path"])
	assert.Equal(t, testPublicPrefix+"photos/1-aceite.png", body["url"])

	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, multipartFile(t, "notes.png", []byte("just some text")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, multipartFile(t, "huge.png", append(png, make([]byte, 1<<20)...)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/images?path="+testPublicPrefix+"photos/1-aceite.png", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/images?path=photos/2-other.png", nil).Code)
	assert.Equal(t, []string{"photos/1-aceite.png", "photos/2-other.png"}, s.images.deletedKeys())

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/images", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/images?path=https://elsewhere.test/x.png", nil).Code)
}

func TestProductSupplierReport(t *testing.T) {
	s := newTestServer(t)
	aceite := testutil.CreateProduct(t, s.db, "Aceite", "8.90")
	gloria := testutil.CreateSupplier(t, s.db, "Gloria")
	testutil.CreateOffer(t, s.db, aceite.ID, gloria.ID, "7.00", 5)

	rec := s.do(http.MethodGet, "/api/reports/product-suppliers.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMIME, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "product-suppliers-")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aceite", rows[1][0])
	assert.Equal(t, "Gloria", rows[1][1])
}
