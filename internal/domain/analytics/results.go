package analytics

import (
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/user"
)

// Overview holds all-time totals across the subject's filter-passing
// products. Filter-scoped but window-unscoped on purpose: it answers "how
// much have I accumulated", not "what happened recently". EngagementRate is
// derived during composition, never by the store.
type Overview struct {
	TotalProducts  int     `json:"total_products"`
	TotalVotes     int     `json:"total_votes_received"`
	TotalComments  int     `json:"total_comments_received"`
	TotalViews     int     `json:"total_views_received"`
	AvgVotes       float64 `json:"avg_votes_per_product"`
	AvgComments    float64 `json:"avg_comments_per_product"`
	AvgViews       float64 `json:"avg_views_per_product"`
	EngagementRate float64 `json:"engagement_rate"`
}

// ActivityPoint is one row of the recent-activity series: a daily count for
// a single event kind. Days without events have no entry; callers must not
// assume contiguous coverage.
type ActivityPoint struct {
	Date  string `json:"date"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ProductPerformance is one ranked row of the performance view, carrying
// all-time event totals and the weighted score.
type ProductPerformance struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Tagline          string    `json:"tagline"`
	Thumbnail        string    `json:"thumbnail"`
	CreatedAt        time.Time `json:"created_at"`
	TotalVotes       int       `json:"total_votes"`
	TotalComments    int       `json:"total_comments"`
	TotalViews       int       `json:"total_views"`
	TotalClicks      int       `json:"total_clicks"`
	PerformanceScore float64   `json:"performance_score"`
}

// TrendPoint is one row of the engagement trend series: a day pivoted into
// per-kind counts. Kinds missing within a present day are zero, but days
// with zero total activity are absent entirely.
type TrendPoint struct {
	Date     string `json:"date"`
	Votes    int    `json:"votes"`
	Comments int    `json:"comments"`
	Views    int    `json:"views"`
}

// UserActivity counts distinct products the subject engaged with as an
// actor, not as an owner. Unscoped by the compiled filter.
type UserActivity struct {
	ProductsVoted     int `json:"products_voted"`
	ProductsCommented int `json:"products_commented"`
	ProductsViewed    int `json:"products_viewed"`
	ProductsClicked   int `json:"products_clicked"`
}

// GrowthMetrics counts products owned by the subject created since three
// nested anchors. The windows are not mutually exclusive: a product created
// today counts in all three.
type GrowthMetrics struct {
	NewProducts      int `json:"new_products"`
	NewProductsWeek  int `json:"new_products_week"`
	NewProductsToday int `json:"new_products_today"`
}

// TopProduct is one row of the top-products ranking.
type TopProduct struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Thumbnail     string `json:"thumbnail"`
	TotalVotes    int    `json:"total_votes"`
	TotalComments int    `json:"total_comments"`
	TotalViews    int    `json:"total_views"`
}

// AppliedFilters echoes the options actually applied, defaults included, so
// callers can distinguish "no filter requested" from "filter requested but
// had no effect".
type AppliedFilters struct {
	TimeRange   string `json:"time_range"`
	Category    string `json:"category"`
	MinViews    int    `json:"min_views"`
	MinVotes    int    `json:"min_votes"`
	MinComments int    `json:"min_comments"`
	SortBy      string `json:"sort_by"`
	ActiveOnly  bool   `json:"active_only"`
}

// QuerySpec is the resolved, validated input shared by every aggregate
// computation of a request. Built once, passed by reference, never mutated.
type QuerySpec struct {
	Window  TimeWindow
	Filter  CompiledFilter
	Sort    SortKey
	Applied AppliedFilters
}

// NewQuerySpec resolves options into the immutable per-request spec.
func NewQuerySpec(opts Options, now time.Time) *QuerySpec {
	window := ResolveWindow(opts.TimeRange, now)
	sort := ResolveSortKey(opts.SortBy)

	return &QuerySpec{
		Window: window,
		Filter: Compile(opts),
		Sort:   sort,
		Applied: AppliedFilters{
			TimeRange:   window.Range,
			Category:    opts.Category,
			MinViews:    opts.MinViews,
			MinVotes:    opts.MinVotes,
			MinComments: opts.MinComments,
			SortBy:      string(sort),
			ActiveOnly:  opts.ActiveOnly,
		},
	}
}

// Result is the composed analytics payload. Constructed once by Compose and
// never mutated afterwards.
type Result struct {
	User               *user.User           `json:"user"`
	Overview           Overview             `json:"overview"`
	RecentActivity     []ActivityPoint      `json:"recent_activity"`
	ProductPerformance []ProductPerformance `json:"product_performance"`
	EngagementTrends   []TrendPoint         `json:"engagement_trends"`
	UserActivity       UserActivity         `json:"user_activity"`
	GrowthMetrics      GrowthMetrics        `json:"growth_metrics"`
	TopProducts        []TopProduct         `json:"top_products"`
	GeneratedAt        time.Time            `json:"generated_at"`
	FilterApplied      AppliedFilters       `json:"filter_applied"`
}
