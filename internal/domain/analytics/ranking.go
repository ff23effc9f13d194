package analytics

import (
	"math"
	"sort"
)

// SortKey selects the ordering of the performance ranking.
type SortKey string

const (
	SortPerformance SortKey = "performance"
	SortViews       SortKey = "views"
	SortVotes       SortKey = "votes"
	SortComments    SortKey = "comments"
	SortNewest      SortKey = "newest"
	SortOldest      SortKey = "oldest"
)

// ResolveSortKey maps a raw sortBy parameter onto a known key. Unrecognized
// values fall back to performance, matching the tolerant-input policy of
// the time range resolver.
func ResolveSortKey(sortBy string) SortKey {
	switch SortKey(sortBy) {
	case SortPerformance, SortViews, SortVotes, SortComments, SortNewest, SortOldest:
		return SortKey(sortBy)
	default:
		return SortPerformance
	}
}

// Score computes the weighted performance score for one product. The
// weights 0.4/0.3/0.2/0.1 are fixed policy, not configurable per request.
func Score(votes, comments, views, clicks int) float64 {
	raw := float64(votes)*0.4 + float64(comments)*0.3 + float64(views)*0.2 + float64(clicks)*0.1
	return math.Round(raw*100) / 100
}

// Rank assigns scores and orders products by the given sort key. Input
// rows carry raw totals from the store; Rank owns scoring and ordering so
// both stay testable without a database.
func Rank(products []ProductPerformance, key SortKey) []ProductPerformance {
	for i := range products {
		p := &products[i]
		p.PerformanceScore = Score(p.TotalVotes, p.TotalComments, p.TotalViews, p.TotalClicks)
	}

	switch key {
	case SortViews:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].TotalViews != products[j].TotalViews {
				return products[i].TotalViews > products[j].TotalViews
			}
			return products[i].PerformanceScore > products[j].PerformanceScore
		})
	case SortVotes:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].TotalVotes != products[j].TotalVotes {
				return products[i].TotalVotes > products[j].TotalVotes
			}
			return products[i].PerformanceScore > products[j].PerformanceScore
		})
	case SortComments:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].TotalComments != products[j].TotalComments {
				return products[i].TotalComments > products[j].TotalComments
			}
			return products[i].PerformanceScore > products[j].PerformanceScore
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		})
	default: // SortPerformance
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].PerformanceScore != products[j].PerformanceScore {
				return products[i].PerformanceScore > products[j].PerformanceScore
			}
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}

	return products
}
