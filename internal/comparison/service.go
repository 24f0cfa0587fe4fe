package comparison

import (
	"context"
	"fmt"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/prometheus"

	"go.uber.org/zap"
)

// UnknownSupplier is shown when an offer references a supplier that no longer exists
const UnknownSupplier = "Unknown"

// ProductLookup loads the product being compared
type ProductLookup interface {
	Get(ctx context.Context, id uint) (*model.Product, error)
}

// OfferSource lists every supplier offer for a product
type OfferSource interface {
	ListByProduct(ctx context.Context, productID uint) ([]model.ProductSupplier, error)
}

// SupplierDirectory resolves supplier display details
type SupplierDirectory interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.Supplier, error)
}

// RankedOffer is a scored offer with what the comparison view shows next to it
type RankedOffer struct {
	ScoredOffer
	SupplierName string `json:"supplier_name"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	Label        Label  `json:"label"`
}

// Result is the comparison of one product's suppliers
type Result struct {
	Product     *model.Product `json:"product"`
	Offers      []RankedOffer  `json:"offers"`
	Recommended *RankedOffer   `json:"recommended"`
	SortField   SortField      `json:"sort"`
	Direction   Direction      `json:"order"`
}

// Service fetches a product's offers and ranks them
type Service struct {
	products  ProductLookup
	offers    OfferSource
	suppliers SupplierDirectory
}

// NewService creates a comparison service
func NewService(products ProductLookup, offers OfferSource, suppliers SupplierDirectory) *Service {
	return &Service{
		products:  products,
		offers:    offers,
		suppliers: suppliers,
	}
}

// Compare ranks the suppliers of a product and returns the view sorted by field and dir.
// Re-sorting never changes which offer is recommended.
func (s *Service) Compare(ctx context.Context, productID uint, field SortField, dir Direction) (*Result, error) {
	log := logger.FromStdContext(ctx)

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}

	offers, err := s.offers.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list offers for product %d: %w", productID, err)
	}

	ranked, err := s.Rank(ctx, offers)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Product:   product,
		Offers:    ranked,
		SortField: field,
		Direction: dir,
	}
	if len(ranked) > 0 {
		recommended := ranked[0]
		result.Recommended = &recommended
		prometheus.RecordComparison(len(ranked), recommended.RecommendationScore, true)
	} else {
		prometheus.RecordComparison(0, 0, false)
	}

	SortOffers(result.Offers, field, dir)

	log.Debug("Compared product suppliers",
		zap.Uint("product_id", productID),
		zap.Int("offers", len(ranked)),
		zap.String("sort", string(field)),
		zap.String("order", string(dir)))
	return result, nil
}

// Rank scores a set of offers for one product and attaches supplier details and labels.
// The returned slice is in ranking order.
func (s *Service) Rank(ctx context.Context, offers []model.ProductSupplier) ([]RankedOffer, error) {
	scored := CompareOffers(offers)
	if len(scored) == 0 {
		return []RankedOffer{}, nil
	}

	ids := make([]uint, 0, len(scored))
	for _, o := range scored {
		ids = append(ids, o.SupplierID)
	}
	suppliers, err := s.suppliers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}
	byID := make(map[uint]model.Supplier, len(suppliers))
	for _, sup := range suppliers {
		byID[sup.ID] = sup
	}

	ranked := make([]RankedOffer, len(scored))
	for i, o := range scored {
		entry := RankedOffer{
			ScoredOffer:  o,
			SupplierName: UnknownSupplier,
			ContactName:  UnknownSupplier,
			ContactPhone: UnknownSupplier,
			Label:        LabelFor(o.RecommendationScore),
		}
		if sup, ok := byID[o.SupplierID]; ok {
			entry.SupplierName = sup.SupplierName
			entry.ContactName = sup.ContactName
			entry.ContactPhone = sup.ContactPhone
		}
		ranked[i] = entry
	}
	return ranked, nil
}
