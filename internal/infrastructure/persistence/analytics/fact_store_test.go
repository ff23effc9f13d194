package analytics

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchboard/launchboard-go/internal/domain/analytics"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/persistence/database"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const testSchema = `
	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE TABLE products (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		tagline TEXT NOT NULL DEFAULT '',
		thumbnail TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);
	CREATE TABLE tags (id TEXT PRIMARY KEY, name TEXT NOT NULL UNIQUE);
	CREATE TABLE product_tags (
		product_id TEXT NOT NULL,
		tag_id TEXT NOT NULL,
		PRIMARY KEY (product_id, tag_id)
	);
	CREATE TABLE votes (id TEXT PRIMARY KEY, product_id TEXT NOT NULL, user_id TEXT NOT NULL, created_at TEXT NOT NULL);
	CREATE TABLE comments (id TEXT PRIMARY KEY, product_id TEXT NOT NULL, user_id TEXT NOT NULL, body TEXT NOT NULL DEFAULT '', created_at TEXT NOT NULL);
	CREATE TABLE views (id TEXT PRIMARY KEY, product_id TEXT NOT NULL, user_id TEXT NOT NULL, viewed_at TEXT NOT NULL);
	CREATE TABLE clicks (id TEXT PRIMARY KEY, product_id TEXT NOT NULL, user_id TEXT NOT NULL, created_at TEXT NOT NULL);
`

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)
	return logger
}

// seedStore builds an in-memory store with a fixed fixture:
//
//	maria owns alpha (active, tag "AI Tools"), beta (draft, tag "DevOps"),
//	gamma (active, untagged). All events are cast by bob.
//	alpha: 3 votes, 1 comment, 4 views, 1 click
//	beta:  1 vote, 1 view
//	gamma: 2 comments
//	carol owns seven quiet products for the top-N truncation case.
func seedStore(t *testing.T) *SQLFactStore {
	t.Helper()

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	exec := func(query string, args ...any) {
		t.Helper()
		_, err := db.Exec(query, args...)
		require.NoError(t, err)
	}

	exec(`INSERT INTO users (id, username, name, created_at) VALUES
		('u1', 'maria', 'Maria', '2024-01-10 09:00:00'),
		('u2', 'bob', 'Bob', '2024-02-01 09:00:00'),
		('u3', 'carol', 'Carol', '2024-03-01 09:00:00')`)

	exec(`INSERT INTO products (id, user_id, name, tagline, thumbnail, status, created_at) VALUES
		('p1', 'u1', 'alpha', 'a', '', 'active', '2025-06-10 09:00:00'),
		('p2', 'u1', 'beta', 'b', '', 'draft', '2025-05-01 09:00:00'),
		('p3', 'u1', 'gamma', 'g', '', 'active', '2024-12-01 09:00:00')`)

	for i := 0; i < 7; i++ {
		exec(`INSERT INTO products (id, user_id, name, created_at) VALUES (?, 'u3', ?, '2024-06-01 09:00:00')`,
			"q"+string(rune('0'+i)), "quiet")
	}

	exec(`INSERT INTO tags (id, name) VALUES ('t1', 'AI Tools'), ('t2', 'DevOps')`)
	exec(`INSERT INTO product_tags (product_id, tag_id) VALUES ('p1', 't1'), ('p2', 't2')`)

	exec(`INSERT INTO votes (id, product_id, user_id, created_at) VALUES
		('v1', 'p1', 'u2', '2025-06-14 10:00:00'),
		('v2', 'p1', 'u2', '2025-06-14 11:00:00'),
		('v3', 'p1', 'u2', '2025-06-01 10:00:00'),
		('v4', 'p2', 'u2', '2025-06-13 10:00:00')`)

	exec(`INSERT INTO comments (id, product_id, user_id, created_at) VALUES
		('c1', 'p1', 'u2', '2025-06-14 10:30:00'),
		('c2', 'p3', 'u2', '2025-05-20 10:00:00'),
		('c3', 'p3', 'u2', '2020-01-01 10:00:00')`)

	exec(`INSERT INTO views (id, product_id, user_id, viewed_at) VALUES
		('w1', 'p1', 'u2', '2025-06-13 08:00:00'),
		('w2', 'p1', 'u2', '2025-06-13 09:00:00'),
		('w3', 'p1', 'u2', '2025-06-12 09:00:00'),
		('w4', 'p1', 'u2', '2024-06-01 09:00:00'),
		('w5', 'p2', 'u2', '2025-06-14 09:00:00')`)

	exec(`INSERT INTO clicks (id, product_id, user_id, created_at) VALUES
		('k1', 'p1', 'u2', '2025-06-14 10:00:00')`)

	return NewSQLFactStore(db, quietLogger(t))
}

func specFor(opts analytics.Options) *analytics.QuerySpec {
	return analytics.NewQuerySpec(opts, testNow)
}

func TestOverviewUnfiltered(t *testing.T) {
	store := seedStore(t)

	overview, err := store.Overview(context.Background(), "u1", specFor(analytics.Options{}))
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalProducts)
	assert.Equal(t, 4, overview.TotalVotes)
	assert.Equal(t, 3, overview.TotalComments)
	assert.Equal(t, 5, overview.TotalViews)
	assert.Equal(t, 1.33, overview.AvgVotes)
	assert.Equal(t, 1.0, overview.AvgComments)
	assert.Equal(t, 1.67, overview.AvgViews)
}

func TestOverviewIsAllTimeRegardlessOfWindow(t *testing.T) {
	store := seedStore(t)

	narrow, err := store.Overview(context.Background(), "u1", specFor(analytics.Options{TimeRange: "7d"}))
	require.NoError(t, err)
	wide, err := store.Overview(context.Background(), "u1", specFor(analytics.Options{TimeRange: "all"}))
	require.NoError(t, err)

	assert.Equal(t, wide, narrow)
}

func TestOverviewZeroProducts(t *testing.T) {
	store := seedStore(t)

	overview, err := store.Overview(context.Background(), "u2", specFor(analytics.Options{}))
	require.NoError(t, err)

	assert.Equal(t, analytics.Overview{}, overview)
}

func TestFilterConsistencyAcrossAggregates(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	// minVotes=2 passes only alpha; the same entity set must appear in
	// overview, product totals, and top products.
	spec := specFor(analytics.Options{MinVotes: 2})

	overview, err := store.Overview(ctx, "u1", spec)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalProducts)
	assert.Equal(t, 3, overview.TotalVotes)

	totals, err := store.ProductTotals(ctx, "u1", spec)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "p1", totals[0].ID)

	top, err := store.TopProducts(ctx, "u1", spec)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p1", top[0].ID)
}

func TestCategoryFilterCaseSensitive(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	matched, err := store.ProductTotals(ctx, "u1", specFor(analytics.Options{Category: "AI"}))
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "p1", matched[0].ID)

	lower, err := store.ProductTotals(ctx, "u1", specFor(analytics.Options{Category: "ai"}))
	require.NoError(t, err)
	assert.Empty(t, lower)
}

func TestActiveOnlyFilter(t *testing.T) {
	store := seedStore(t)

	totals, err := store.ProductTotals(context.Background(), "u1", specFor(analytics.Options{ActiveOnly: true}))
	require.NoError(t, err)

	ids := make([]string, len(totals))
	for i, p := range totals {
		ids[i] = p.ID
	}
	assert.ElementsMatch(t, []string{"p1", "p3"}, ids)
}

func TestEventsByDayWindowAndGrouping(t *testing.T) {
	store := seedStore(t)

	days, err := store.EventsByDay(context.Background(), "u1", analytics.KindVote, specFor(analytics.Options{TimeRange: "30d"}))
	require.NoError(t, err)

	assert.Equal(t, []analytics.DailyCount{
		{Date: "2025-06-14", Count: 2},
		{Date: "2025-06-13", Count: 1},
		{Date: "2025-06-01", Count: 1},
	}, days)
}

func TestEventsByDayExcludesOutOfWindow(t *testing.T) {
	store := seedStore(t)

	days, err := store.EventsByDay(context.Background(), "u1", analytics.KindView, specFor(analytics.Options{TimeRange: "7d"}))
	require.NoError(t, err)

	// w4 (2024) falls outside the window entirely.
	assert.Equal(t, []analytics.DailyCount{
		{Date: "2025-06-14", Count: 1},
		{Date: "2025-06-13", Count: 2},
		{Date: "2025-06-12", Count: 1},
	}, days)
}

func TestProductTotalsCarriesAllTimeCounts(t *testing.T) {
	store := seedStore(t)

	totals, err := store.ProductTotals(context.Background(), "u1", specFor(analytics.Options{}))
	require.NoError(t, err)
	require.Len(t, totals, 3)

	byID := map[string]analytics.ProductPerformance{}
	for _, p := range totals {
		byID[p.ID] = p
	}

	assert.Equal(t, 3, byID["p1"].TotalVotes)
	assert.Equal(t, 1, byID["p1"].TotalComments)
	assert.Equal(t, 4, byID["p1"].TotalViews)
	assert.Equal(t, 1, byID["p1"].TotalClicks)
	assert.Equal(t, 2, byID["p3"].TotalComments)
	assert.Equal(t, 0, byID["p3"].TotalVotes)
}

func TestActorActivityDistinctCounts(t *testing.T) {
	store := seedStore(t)

	activity, err := store.ActorActivity(context.Background(), "u2")
	require.NoError(t, err)

	assert.Equal(t, analytics.UserActivity{
		ProductsVoted:     2,
		ProductsCommented: 2,
		ProductsViewed:    2,
		ProductsClicked:   1,
	}, activity)
}

func TestGrowthCountersNestedWindows(t *testing.T) {
	store := seedStore(t)

	window := analytics.ResolveWindow("30d", testNow)
	growth, err := store.GrowthCounters(context.Background(), "u1", window)
	require.NoError(t, err)

	// alpha was created five days ago: inside the range and the week,
	// but not within the last 24 hours.
	assert.Equal(t, analytics.GrowthMetrics{
		NewProducts:      1,
		NewProductsWeek:  1,
		NewProductsToday: 0,
	}, growth)
}

func TestTopProductsOrdering(t *testing.T) {
	store := seedStore(t)

	top, err := store.TopProducts(context.Background(), "u1", specFor(analytics.Options{}))
	require.NoError(t, err)

	require.Len(t, top, 3)
	assert.Equal(t, "p1", top[0].ID)
	assert.Equal(t, "p2", top[1].ID)
	assert.Equal(t, "p3", top[2].ID)
}

func TestTopProductsTruncatesToFive(t *testing.T) {
	store := seedStore(t)

	top, err := store.TopProducts(context.Background(), "u3", specFor(analytics.Options{}))
	require.NoError(t, err)
	assert.Len(t, top, 5)
}
