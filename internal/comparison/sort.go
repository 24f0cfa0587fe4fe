package comparison

import (
	"fmt"
	"sort"
)

// SortField is a column the comparison view can be ordered by
type SortField string

const (
	SortByCostPrice    SortField = "cost_price"
	SortByLeadTime     SortField = "lead_time_days"
	SortByScore        SortField = "recommendation_score"
	defaultSortField             = SortByScore
)

// Direction is ascending or descending
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseSortField accepts the empty string as the default field
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "":
		return defaultSortField, nil
	case SortByCostPrice, SortByLeadTime, SortByScore:
		return SortField(s), nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// ParseDirection accepts the empty string and returns the field's default direction
func ParseDirection(s string, field SortField) (Direction, error) {
	switch Direction(s) {
	case "":
		return DefaultDirection(field), nil
	case Ascending, Descending:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// DefaultDirection puts the best score first, and the cheapest or fastest offer first otherwise
func DefaultDirection(field SortField) Direction {
	if field == SortByScore {
		return Descending
	}
	return Ascending
}

// SortOffers reorders a ranked list for display. Equal values keep their ranking order,
// and the recommendation flags are left untouched.
func SortOffers(offers []RankedOffer, field SortField, dir Direction) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i].sortValue(field), offers[j].sortValue(field)
		if dir == Ascending {
			return a < b
		}
		return a > b
	})
}

func (o ScoredOffer) sortValue(field SortField) float64 {
	switch field {
	case SortByCostPrice:
		return o.CostPrice.InexactFloat64()
	case SortByLeadTime:
		return float64(o.LeadTimeDays)
	default:
		return o.RecommendationScore
	}
}
