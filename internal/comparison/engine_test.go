package comparison

import (
	"math/rand"
	"testing"

	"github.com/rivacortez/management-demo/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offer(supplierID uint, cost string, leadDays int) model.ProductSupplier {
	return model.ProductSupplier{
		ProductID:    1,
		SupplierID:   supplierID,
		CostPrice:    decimal.RequireFromString(cost),
		LeadTimeDays: leadDays,
	}
}

func TestCompareOffersEmpty(t *testing.T) {
	assert.Empty(t, CompareOffers(nil))
	assert.NotNil(t, CompareOffers([]model.ProductSupplier{}))
}

func TestCompareOffersSingle(t *testing.T) {
	got := CompareOffers([]model.ProductSupplier{offer(3, "42.10", 9)})

	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].RecommendationScore)
	assert.True(t, got[0].IsRecommended)
	assert.Equal(t, uint(3), got[0].SupplierID)
}

func TestCompareOffersPriceOutweighsLeadTime(t *testing.T) {
	got := CompareOffers([]model.ProductSupplier{
		offer(1, "10", 5),
		offer(2, "20", 1),
	})

	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].SupplierID)
	assert.Equal(t, 70.0, got[0].RecommendationScore)
	assert.True(t, got[0].IsRecommended)

	assert.Equal(t, uint(2), got[1].SupplierID)
	assert.Equal(t, 30.0, got[1].RecommendationScore)
	assert.False(t, got[1].IsRecommended)
}

func TestCompareOffersIdenticalTermsKeepInputOrder(t *testing.T) {
	got := CompareOffers([]model.ProductSupplier{
		offer(8, "15", 3),
		offer(4, "15", 3),
	})

	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].RecommendationScore)
	assert.Equal(t, 100.0, got[1].RecommendationScore)
	assert.Equal(t, uint(8), got[0].SupplierID)
	assert.True(t, got[0].IsRecommended)
	assert.False(t, got[1].IsRecommended)
}

func TestCompareOffersMiddleOfRange(t *testing.T) {
	// cost 15 sits halfway between 10 and 20, lead 3 halfway between 1 and 5
	got := CompareOffers([]model.ProductSupplier{
		offer(1, "20", 5),
		offer(2, "15", 3),
		offer(3, "10", 1),
	})

	require.Len(t, got, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{got[0].SupplierID, got[1].SupplierID, got[2].SupplierID})
	assert.Equal(t, 100.0, got[0].RecommendationScore)
	assert.Equal(t, 50.0, got[1].RecommendationScore)
	assert.Equal(t, 0.0, got[2].RecommendationScore)
}

func TestCompareOffersRoundsToTwoDecimals(t *testing.T) {
	// lead scores are 1, 2/3 and 0; the middle offer scores 0.3 * 2/3 = 20%
	// on lead time and 0.7 * 1/3 on price
	got := CompareOffers([]model.ProductSupplier{
		offer(1, "10", 4),
		offer(2, "20", 2),
		offer(3, "25", 1),
	})

	require.Len(t, got, 3)
	byID := map[uint]float64{}
	for _, o := range got {
		byID[o.SupplierID] = o.RecommendationScore
	}
	assert.Equal(t, 70.0, byID[1])
	assert.Equal(t, 43.33, byID[2])
	assert.Equal(t, 30.0, byID[3])
}

func TestCompareOffersProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(8)
		offers := make([]model.ProductSupplier, n)
		for i := range offers {
			cost := decimal.NewFromInt(int64(rng.Intn(10000))).Div(decimal.NewFromInt(100))
			offers[i] = model.ProductSupplier{
				ProductID:    1,
				SupplierID:   uint(i + 1),
				CostPrice:    cost,
				LeadTimeDays: rng.Intn(30),
			}
		}

		got := CompareOffers(offers)
		require.Len(t, got, n)

		recommended := 0
		for i, o := range got {
			assert.GreaterOrEqual(t, o.RecommendationScore, 0.0)
			assert.LessOrEqual(t, o.RecommendationScore, 100.0)
			assert.Equal(t, o.RecommendationScore, decimal.NewFromFloat(o.RecommendationScore).Round(2).InexactFloat64())
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].RecommendationScore, o.RecommendationScore)
			}
			if o.IsRecommended {
				recommended++
			}
		}
		assert.Equal(t, 1, recommended)
		assert.True(t, got[0].IsRecommended)
	}
}

func TestCompareOffersDoesNotModifyInput(t *testing.T) {
	offers := []model.ProductSupplier{offer(1, "20", 1), offer(2, "10", 5)}

	CompareOffers(offers)

	assert.Equal(t, uint(1), offers[0].SupplierID)
	assert.Equal(t, uint(2), offers[1].SupplierID)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 1.0, normalize(5, 5, 5))
	assert.Equal(t, 1.0, normalize(10, 10, 20))
	assert.Equal(t, 0.0, normalize(20, 10, 20))
	assert.Equal(t, 0.75, normalize(12.5, 10, 20))
}
