// Package report exports the supplier offers of every product as a spreadsheet,
// ranked the same way the comparison view ranks them.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/rivacortez/management-demo/internal/comparison"
	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/money"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Product suppliers"

var header = []interface{}{
	"Product", "Supplier", "Cost", "Lead time (days)", "Special agreement", "Score", "Label", "Recommended",
}

// OfferLister lists every supplier offer, grouped by product
type OfferLister interface {
	ListAll(ctx context.Context) ([]model.ProductSupplier, error)
}

// ProductFinder resolves product names
type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error)
}

// Ranker scores the offers of one product
type Ranker interface {
	Rank(ctx context.Context, offers []model.ProductSupplier) ([]comparison.RankedOffer, error)
}

// Row is one offer line of the report
type Row struct {
	Product          string
	Supplier         string
	Cost             string
	LeadTimeDays     int
	SpecialAgreement string
	Score            float64
	Label            comparison.Label
	Recommended      bool
}

// Generator builds the product-supplier report
type Generator struct {
	offers   OfferLister
	products ProductFinder
	ranker   Ranker
}

// NewGenerator creates a report generator
func NewGenerator(offers OfferLister, products ProductFinder, ranker Ranker) *Generator {
	return &Generator{offers: offers, products: products, ranker: ranker}
}

// Rows returns one row per offer. Products keep their id order and each product's
// offers appear in ranking order.
func (g *Generator) Rows(ctx context.Context) ([]Row, error) {
	offers, err := g.offers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	groups, productIDs := groupByProduct(offers)
	products, err := g.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	rows := make([]Row, 0, len(offers))
	for _, productID := range productIDs {
		ranked, err := g.ranker.Rank(ctx, groups[productID])
		if err != nil {
			return nil, fmt.Errorf("rank offers of product %d: %w", productID, err)
		}

		name, ok := names[productID]
		if !ok {
			name = repository.UnknownProduct
		}
		for _, o := range ranked {
			row := Row{
				Product:      name,
				Supplier:     o.SupplierName,
				Cost:         money.FormatPrice(o.CostPrice),
				LeadTimeDays: o.LeadTimeDays,
				Score:        o.RecommendationScore,
				Label:        o.Label,
				Recommended:  o.IsRecommended,
			}
			if o.SpecialAgreement != nil {
				row.SpecialAgreement = *o.SpecialAgreement
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Write builds the report and writes it to w as an XLSX workbook
func (g *Generator) Write(ctx context.Context, w io.Writer) error {
	rows, err := g.Rows(ctx)
	if err != nil {
		return err
	}
	return WriteXLSX(w, rows)
}

// WriteXLSX writes rows as a single-sheet workbook with a bold header line
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", "B", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "E", "E", 40); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		recommended := ""
		if r.Recommended {
			recommended = "Yes"
		}
		values := []interface{}{
			r.Product, r.Supplier, r.Cost, r.LeadTimeDays, r.SpecialAgreement, r.Score, string(r.Label), recommended,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func groupByProduct(offers []model.ProductSupplier) (map[uint][]model.ProductSupplier, []uint) {
	groups := make(map[uint][]model.ProductSupplier)
	var order []uint
	for _, o := range offers {
		if _, seen := groups[o.ProductID]; !seen {
			order = append(order, o.ProductID)
		}
		groups[o.ProductID] = append(groups[o.ProductID], o)
	}
	return groups, order
}
