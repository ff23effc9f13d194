package analytics

import (
	"math"
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/user"
)

// Compose merges the independent aggregate outputs plus subject identity
// into one immutable result. The engagement rate is the one value derived
// from two prior aggregates together, so it is computed here and nowhere
// else. GeneratedAt is the composition timestamp, not the window's "now"
// anchor.
func Compose(
	subject *user.User,
	overview Overview,
	recentActivity []ActivityPoint,
	performance []ProductPerformance,
	trends []TrendPoint,
	activity UserActivity,
	growth GrowthMetrics,
	topProducts []TopProduct,
	applied AppliedFilters,
) *Result {
	if overview.TotalViews > 0 {
		overview.EngagementRate = math.Round(
			float64(overview.TotalVotes+overview.TotalComments) / float64(overview.TotalViews) * 100)
	} else {
		overview.EngagementRate = 0
	}

	if recentActivity == nil {
		recentActivity = []ActivityPoint{}
	}
	if performance == nil {
		performance = []ProductPerformance{}
	}
	if trends == nil {
		trends = []TrendPoint{}
	}
	if topProducts == nil {
		topProducts = []TopProduct{}
	}

	return &Result{
		User:               subject,
		Overview:           overview,
		RecentActivity:     recentActivity,
		ProductPerformance: performance,
		EngagementTrends:   trends,
		UserActivity:       activity,
		GrowthMetrics:      growth,
		TopProducts:        topProducts,
		GeneratedAt:        time.Now().UTC(),
		FilterApplied:      applied,
	}
}
