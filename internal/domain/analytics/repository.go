package analytics

import "context"

// FactStore defines the read-only contract for the aggregate computations.
// Every method that touches products receives the shared QuerySpec and must
// apply its compiled filter; the adapter factors the filter translation into
// one helper so the five computations cannot drift apart.
type FactStore interface {
	// Overview returns all-time totals and per-product averages across the
	// subject's filter-passing products. Filter-scoped, window-unscoped.
	Overview(ctx context.Context, ownerID string, spec *QuerySpec) (Overview, error)

	// EventsByDay returns the subject's owned-product event counts of one
	// kind, grouped by calendar day within [window.Start, window.Now).
	EventsByDay(ctx context.Context, ownerID string, kind EventKind, spec *QuerySpec) ([]DailyCount, error)

	// ProductTotals returns one row per filter-passing owned product with
	// all-time event totals. Scoring and ordering belong to the domain.
	ProductTotals(ctx context.Context, ownerID string, spec *QuerySpec) ([]ProductPerformance, error)

	// ActorActivity counts distinct products the subject engaged with as an
	// actor. Unscoped by the compiled filter.
	ActorActivity(ctx context.Context, userID string) (UserActivity, error)

	// GrowthCounters counts owned products created since the window start,
	// since last week, and since yesterday. Unscoped by the compiled filter.
	GrowthCounters(ctx context.Context, ownerID string, window TimeWindow) (GrowthMetrics, error)

	// TopProducts returns at most five filter-passing owned products by
	// all-time votes, ties broken by views.
	TopProducts(ctx context.Context, ownerID string, spec *QuerySpec) ([]TopProduct, error)
}
