// Package analytics provides the concrete SQL-based fact store backing the
// aggregation engine. All reads are scoped to the subject's owned products
// and translate the request's compiled filter exactly once, through
// productFilterSQL, so the aggregate queries cannot drift apart.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/analytics"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/persistence/database"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLFactStore implements analytics.FactStore over database/sql.
type SQLFactStore struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLFactStore creates a new instance of the fact store.
func NewSQLFactStore(db *database.DB, logger *logging.ChanneledLogger) *SQLFactStore {
	return &SQLFactStore{
		db:     db,
		logger: logger,
	}
}

// productFilterSQL translates a compiled filter into a WHERE fragment (each
// clause prefixed with " AND ") against the products alias p, plus bind
// args. Category uses instr() rather than LIKE because LIKE is
// case-insensitive in SQLite and the category match is case-sensitive by
// contract.
func productFilterSQL(filter analytics.CompiledFilter) (string, []any) {
	var sb strings.Builder
	var args []any

	for _, clause := range filter.Clauses {
		switch clause.Field {
		case analytics.FieldTagName:
			sb.WriteString(` AND EXISTS (SELECT 1 FROM product_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.product_id = p.id AND instr(t.name, ?) > 0)`)
			args = append(args, clause.Value)
		case analytics.FieldViews:
			sb.WriteString(` AND (SELECT COUNT(*) FROM views fv WHERE fv.product_id = p.id) >= ?`)
			args = append(args, clause.Value)
		case analytics.FieldVotes:
			sb.WriteString(` AND (SELECT COUNT(*) FROM votes fvt WHERE fvt.product_id = p.id) >= ?`)
			args = append(args, clause.Value)
		case analytics.FieldComments:
			sb.WriteString(` AND (SELECT COUNT(*) FROM comments fc WHERE fc.product_id = p.id) >= ?`)
			args = append(args, clause.Value)
		case analytics.FieldStatus:
			sb.WriteString(` AND p.status = ?`)
			args = append(args, clause.Value)
		}
	}

	return sb.String(), args
}

// eventSource maps an event kind to its table and timestamp column.
func eventSource(kind analytics.EventKind) (table, timeCol string, err error) {
	switch kind {
	case analytics.KindVote:
		return "votes", "created_at", nil
	case analytics.KindComment:
		return "comments", "created_at", nil
	case analytics.KindView:
		return "views", "viewed_at", nil
	case analytics.KindClick:
		return "clicks", "created_at", nil
	default:
		return "", "", fmt.Errorf("unknown event kind: %s", kind)
	}
}

// Overview computes all-time totals and per-product averages across the
// subject's filter-passing products.
func (s *SQLFactStore) Overview(ctx context.Context, ownerID string, spec *analytics.QuerySpec) (analytics.Overview, error) {
	filterSQL, filterArgs := productFilterSQL(spec.Filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(SUM(t.votes), 0),
		       COALESCE(SUM(t.comments), 0),
		       COALESCE(SUM(t.views), 0),
		       COALESCE(ROUND(AVG(t.votes), 2), 0),
		       COALESCE(ROUND(AVG(t.comments), 2), 0),
		       COALESCE(ROUND(AVG(t.views), 2), 0)
		FROM (
			SELECT (SELECT COUNT(*) FROM votes fvt WHERE fvt.product_id = p.id) AS votes,
			       (SELECT COUNT(*) FROM comments fc WHERE fc.product_id = p.id) AS comments,
			       (SELECT COUNT(*) FROM views fv WHERE fv.product_id = p.id) AS views
			FROM products p
			WHERE p.user_id = ?%s
		) t`, filterSQL)

	args := append([]any{ownerID}, filterArgs...)

	start := time.Now()
	s.logger.Database().Debug("Executing overview aggregate", "ownerId", ownerID)

	var overview analytics.Overview
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&overview.TotalProducts,
		&overview.TotalVotes,
		&overview.TotalComments,
		&overview.TotalViews,
		&overview.AvgVotes,
		&overview.AvgComments,
		&overview.AvgViews,
	)
	if err != nil {
		s.logger.Database().Error("Overview aggregate failed", "error", err.Error(), "ownerId", ownerID)
		return analytics.Overview{}, fmt.Errorf("failed to compute overview: %w", err)
	}

	s.logger.Database().Info("Overview aggregate completed",
		"ownerId", ownerID,
		"totalProducts", overview.TotalProducts,
		"duration", time.Since(start))
	database.CheckAndLogSlowQuery(s.logger, query, time.Since(start))

	return overview, nil
}

// EventsByDay counts the subject's owned-product events of one kind per
// calendar day within [window.Start, window.Now).
func (s *SQLFactStore) EventsByDay(ctx context.Context, ownerID string, kind analytics.EventKind, spec *analytics.QuerySpec) ([]analytics.DailyCount, error) {
	table, timeCol, err := eventSource(kind)
	if err != nil {
		return nil, err
	}

	filterSQL, filterArgs := productFilterSQL(spec.Filter)

	query := fmt.Sprintf(`
		SELECT date(e.%s) AS day, COUNT(*)
		FROM %s e
		JOIN products p ON p.id = e.product_id
		WHERE p.user_id = ? AND e.%s >= ? AND e.%s < ?%s
		GROUP BY day
		ORDER BY day DESC`, timeCol, table, timeCol, timeCol, filterSQL)

	args := append([]any{
		ownerID,
		spec.Window.Start.Format(sqliteTimeFormat),
		spec.Window.Now.Format(sqliteTimeFormat),
	}, filterArgs...)

	start := time.Now()
	s.logger.Database().Debug("Executing daily event aggregate", "ownerId", ownerID, "kind", kind)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Database().Error("Daily event aggregate failed", "error", err.Error(), "ownerId", ownerID, "kind", kind)
		return nil, fmt.Errorf("failed to query %s by day: %w", table, err)
	}
	defer rows.Close()

	var counts []analytics.DailyCount
	for rows.Next() {
		var dc analytics.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			s.logger.Database().Error("Failed to scan daily count row", "error", err.Error(), "kind", kind)
			return nil, fmt.Errorf("failed to scan %s daily count: %w", table, err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		s.logger.Database().Error("Row iteration error for daily counts", "error", err.Error(), "kind", kind)
		return nil, err
	}

	s.logger.Database().Info("Daily event aggregate completed",
		"ownerId", ownerID,
		"kind", kind,
		"days", len(counts),
		"duration", time.Since(start))
	database.CheckAndLogSlowQuery(s.logger, query, time.Since(start))

	return counts, nil
}

// ProductTotals returns one row per filter-passing owned product with
// all-time event totals. Scoring and ordering happen in the domain layer.
func (s *SQLFactStore) ProductTotals(ctx context.Context, ownerID string, spec *analytics.QuerySpec) ([]analytics.ProductPerformance, error) {
	filterSQL, filterArgs := productFilterSQL(spec.Filter)

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.tagline, p.thumbnail, p.created_at,
		       (SELECT COUNT(*) FROM votes fvt WHERE fvt.product_id = p.id),
		       (SELECT COUNT(*) FROM comments fc WHERE fc.product_id = p.id),
		       (SELECT COUNT(*) FROM views fv WHERE fv.product_id = p.id),
		       (SELECT COUNT(*) FROM clicks fck WHERE fck.product_id = p.id)
		FROM products p
		WHERE p.user_id = ?%s`, filterSQL)

	args := append([]any{ownerID}, filterArgs...)

	start := time.Now()
	s.logger.Database().Debug("Executing product totals aggregate", "ownerId", ownerID)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Database().Error("Product totals aggregate failed", "error", err.Error(), "ownerId", ownerID)
		return nil, fmt.Errorf("failed to query product totals: %w", err)
	}
	defer rows.Close()

	var products []analytics.ProductPerformance
	for rows.Next() {
		var p analytics.ProductPerformance
		var createdAtStr string

		err := rows.Scan(&p.ID, &p.Name, &p.Tagline, &p.Thumbnail, &createdAtStr,
			&p.TotalVotes, &p.TotalComments, &p.TotalViews, &p.TotalClicks)
		if err != nil {
			s.logger.Database().Error("Failed to scan product totals row", "error", err.Error(), "ownerId", ownerID)
			return nil, fmt.Errorf("failed to scan product totals: %w", err)
		}

		p.CreatedAt, err = parseTimestamp(createdAtStr)
		if err != nil {
			s.logger.Database().Error("Failed to parse product timestamp", "error", err.Error(), "productId", p.ID)
			return nil, err
		}

		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		s.logger.Database().Error("Row iteration error for product totals", "error", err.Error(), "ownerId", ownerID)
		return nil, err
	}

	s.logger.Database().Info("Product totals aggregate completed",
		"ownerId", ownerID,
		"products", len(products),
		"duration", time.Since(start))
	database.CheckAndLogSlowQuery(s.logger, query, time.Since(start))

	return products, nil
}

// ActorActivity counts distinct products the subject engaged with as an
// actor. Deliberately unscoped by the compiled filter.
func (s *SQLFactStore) ActorActivity(ctx context.Context, userID string) (analytics.UserActivity, error) {
	const query = `
		SELECT
			(SELECT COUNT(DISTINCT product_id) FROM votes WHERE user_id = ?),
			(SELECT COUNT(DISTINCT product_id) FROM comments WHERE user_id = ?),
			(SELECT COUNT(DISTINCT product_id) FROM views WHERE user_id = ?),
			(SELECT COUNT(DISTINCT product_id) FROM clicks WHERE user_id = ?)`

	start := time.Now()
	s.logger.Database().Debug("Executing actor activity aggregate", "userId", userID)

	var activity analytics.UserActivity
	err := s.db.QueryRowContext(ctx, query, userID, userID, userID, userID).Scan(
		&activity.ProductsVoted,
		&activity.ProductsCommented,
		&activity.ProductsViewed,
		&activity.ProductsClicked,
	)
	if err != nil {
		s.logger.Database().Error("Actor activity aggregate failed", "error", err.Error(), "userId", userID)
		return analytics.UserActivity{}, fmt.Errorf("failed to compute actor activity: %w", err)
	}

	s.logger.Database().Info("Actor activity aggregate completed", "userId", userID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(s.logger, query, time.Since(start))

	return activity, nil
}

// GrowthCounters counts owned products created since three nested anchors.
// The windows overlap on purpose: a product created today counts in all
// three. Deliberately unscoped by the compiled filter.
func (s *SQLFactStore) GrowthCounters(ctx context.Context, ownerID string, window analytics.TimeWindow) (analytics.GrowthMetrics, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM products WHERE user_id = ? AND created_at >= ?),
			(SELECT COUNT(*) FROM products WHERE user_id = ? AND created_at >= ?),
			(SELECT COUNT(*) FROM products WHERE user_id = ? AND created_at >= ?)`

	start := time.Now()
	s.logger.Database().Debug("Executing growth counters aggregate", "ownerId", ownerID)

	var growth analytics.GrowthMetrics
	err := s.db.QueryRowContext(ctx, query,
		ownerID, window.Start.Format(sqliteTimeFormat),
		ownerID, window.LastWeekStart.Format(sqliteTimeFormat),
		ownerID, window.Yesterday.Format(sqliteTimeFormat),
	).Scan(&growth.NewProducts, &growth.NewProductsWeek, &growth.NewProductsToday)
	if err != nil {
		s.logger.Database().Error("Growth counters aggregate failed", "error", err.Error(), "ownerId", ownerID)
		return analytics.GrowthMetrics{}, fmt.Errorf("failed to compute growth counters: %w", err)
	}

	s.logger.Database().Info("Growth counters aggregate completed", "ownerId", ownerID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(s.logger, query, time.Since(start))

	return growth, nil
}

// TopProducts returns at most five filter-passing owned products ordered by
// all-time votes, ties broken by views.
func (s *SQLFactStore) TopProducts(ctx context.Context, ownerID string, spec *analytics.QuerySpec) ([]analytics.TopProduct, error) {
	filterSQL, filterArgs := productFilterSQL(spec.Filter)

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.thumbnail,
		       (SELECT COUNT(*) FROM votes fvt WHERE fvt.product_id = p.id) AS total_votes,
		       (SELECT COUNT(*) FROM comments fc WHERE fc.product_id = p.id) AS total_comments,
		       (SELECT COUNT(*) FROM views fv WHERE fv.product_id = p.id) AS total_views
		FROM products p
		WHERE p.user_id = ?%s
		ORDER BY total_votes DESC, total_views DESC
		LIMIT 5`, filterSQL)

	args := append([]any{ownerID}, filterArgs...)

	start := time.Now()
	s.logger.Database().Debug("Executing top products aggregate", "ownerId", ownerID)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Database().Error("Top products aggregate failed", "error", err.Error(), "ownerId", ownerID)
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	var top []analytics.TopProduct
	for rows.Next() {
		var tp analytics.TopProduct
		err := rows.Scan(&tp.ID, &tp.Name, &tp.Thumbnail, &tp.TotalVotes, &tp.TotalComments, &tp.TotalViews)
		if err != nil {
			s.logger.Database().Error("Failed to scan top product row", "error", err.Error(), "ownerId", ownerID)
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		top = append(top, tp)
	}
	if err := rows.Err(); err != nil {
		s.logger.Database().Error("Row iteration error for top products", "error", err.Error(), "ownerId", ownerID)
		return nil, err
	}

	s.logger.Database().Info("Top products aggregate completed",
		"ownerId", ownerID,
		"products", len(top),
		"duration", time.Since(start))
	database.CheckAndLogSlowQuery(s.logger, query, time.Since(start))

	return top, nil
}

// parseTimestamp handles the timestamp formats found in the store.
func parseTimestamp(timestampStr string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, timestampStr); err == nil {
		return t, nil
	}

	if t, err := time.Parse(sqliteTimeFormat, timestampStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp format: %s", timestampStr)
}
