// Package comparison ranks the suppliers that offer a product.
//
// CompareOffers is a pure function over offers that are already in memory.
// Service wraps it with the data fetching and supplier lookups a request needs.
package comparison

import (
	"sort"

	"github.com/rivacortez/management-demo/internal/model"

	"github.com/shopspring/decimal"
)

// Price counts more than delivery speed. These weights are fixed.
const (
	priceWeight    = 0.7
	leadTimeWeight = 0.3
)

// ScoredOffer is a supplier offer annotated with its recommendation.
// It is recomputed for every comparison and never stored.
type ScoredOffer struct {
	model.ProductSupplier
	RecommendationScore float64 `json:"recommendation_score"`
	IsRecommended       bool    `json:"is_recommended"`
}

// CompareOffers scores every offer against the others in the set, sorts them by
// score (highest first, ties keep input order) and marks the first one recommended.
//
// All offers must belong to the same product and carry non-negative cost and lead
// time; neither is checked here.
func CompareOffers(offers []model.ProductSupplier) []ScoredOffer {
	if len(offers) == 0 {
		return []ScoredOffer{}
	}

	minCost, maxCost := costRange(offers)
	minLead, maxLead := leadTimeRange(offers)

	scored := make([]ScoredOffer, len(offers))
	for i, offer := range offers {
		priceScore := normalize(offer.CostPrice.InexactFloat64(), minCost, maxCost)
		leadTimeScore := normalize(float64(offer.LeadTimeDays), minLead, maxLead)

		scored[i] = ScoredOffer{
			ProductSupplier:     offer,
			RecommendationScore: roundScore(priceScore*priceWeight + leadTimeScore*leadTimeWeight),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RecommendationScore > scored[j].RecommendationScore
	})
	scored[0].IsRecommended = true

	return scored
}

// normalize maps value into [0, 1] where min scores 1 and max scores 0.
// When every value in the set is equal, all of them score 1.
func normalize(value, min, max float64) float64 {
	if max == min {
		return 1
	}
	return 1 - (value-min)/(max-min)
}

// roundScore converts a [0, 1] composite into a percentage with two decimals
func roundScore(score float64) float64 {
	return decimal.NewFromFloat(score * 100).Round(2).InexactFloat64()
}

func costRange(offers []model.ProductSupplier) (float64, float64) {
	min := offers[0].CostPrice.InexactFloat64()
	max := min
	for _, o := range offers[1:] {
		c := o.CostPrice.InexactFloat64()
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max
}

func leadTimeRange(offers []model.ProductSupplier) (float64, float64) {
	min := offers[0].LeadTimeDays
	max := min
	for _, o := range offers[1:] {
		if o.LeadTimeDays < min {
			min = o.LeadTimeDays
		}
		if o.LeadTimeDays > max {
			max = o.LeadTimeDays
		}
	}
	return float64(min), float64(max)
}
