package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rivacortez/management-demo/internal/comparison"
	"github.com/rivacortez/management-demo/internal/purchasing"
	"github.com/rivacortez/management-demo/internal/report"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/internal/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPublicPrefix = "https://storage.test/storage/v1/object/public/images/"

// fakeImages is an in-memory ImageStore
type fakeImages struct {
	mu       sync.Mutex
	uploaded map[string][]byte
	deleted  []string
}

func newFakeImages() *fakeImages {
	return &fakeImages{uploaded: map[string][]byte{}}
}

func (f *fakeImages) Upload(_ context.Context, name, _ string, data []byte) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("photos/%d-%s", len(f.uploaded)+1, name)
	f.uploaded[key] = data
	return key, testPublicPrefix + key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, testPublicPrefix) {
		return "", false
	}
	return strings.TrimPrefix(url, testPublicPrefix), true
}

func (f *fakeImages) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	images *fakeImages
}

// newTestServer wires every API handler against an in-memory database
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	images := newFakeImages()

	products := repository.NewProductRepository(db)
	categories := repository.NewCategoryRepository(db)
	suppliers := repository.NewSupplierRepository(db)
	offers := repository.NewProductSupplierRepository(db)
	orders := repository.NewPurchaseOrderRepository(db)

	comparisons := comparison.NewService(products, offers, suppliers)

	e := echo.New()
	e.Validator = NewRequestValidator()
	api := e.Group("/api")
	NewProductHandler(products, images).RegisterRoutes(api.Group("/products"))
	NewCategoryHandler(categories, images).RegisterRoutes(api.Group("/categories"))
	NewSupplierHandler(suppliers).RegisterRoutes(api.Group("/suppliers"))
	NewProductSupplierHandler(offers).RegisterRoutes(api.Group("/product-suppliers"))
	NewComparisonHandler(comparisons).RegisterRoutes(api.Group("/comparisons"))
	NewPurchaseOrderHandler(orders, purchasing.NewService(orders, offers)).RegisterRoutes(api.Group("/purchase-orders"))
	NewImageHandler(images, 1<<20).RegisterRoutes(api.Group("/images"))
	NewReportHandler(report.NewGenerator(offers, products, comparisons)).RegisterRoutes(api.Group("/reports"))

	return &testServer{e: e, db: db, images: images}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
