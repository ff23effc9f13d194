// Package catalog provides the concrete SQL-based implementation of the
// catalog read repository.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/catalog"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/persistence/database"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// defaultListLimit bounds the recent-products listing when the caller
// supplies no limit.
const defaultListLimit = 20

// SQLProductRepository handles catalog reads.
type SQLProductRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLProductRepository creates a new instance of the repository.
func NewSQLProductRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProductRepository {
	return &SQLProductRepository{
		db:     db,
		logger: logger,
	}
}

// ListRecent returns the newest products, newest first.
func (r *SQLProductRepository) ListRecent(ctx context.Context, limit int) ([]*catalog.Product, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	const query = `
		SELECT id, user_id, name, tagline, thumbnail, status, created_at
		FROM products
		ORDER BY created_at DESC
		LIMIT ?`

	start := time.Now()
	r.logger.Database().Debug("Listing recent products", "limit", limit)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Database().Error("Recent products query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to query recent products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Database().Error("Failed to scan product row", "error", err.Error())
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for recent products", "error", err.Error())
		return nil, err
	}

	r.logger.Database().Info("Recent products listed", "count", len(products), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	return products, nil
}

// FindByID returns one product with its tags and all-time engagement totals.
func (r *SQLProductRepository) FindByID(ctx context.Context, id string) (*catalog.ProductDetail, error) {
	const query = `
		SELECT p.id, p.user_id, p.name, p.tagline, p.thumbnail, p.status, p.created_at,
		       (SELECT COUNT(*) FROM votes v WHERE v.product_id = p.id),
		       (SELECT COUNT(*) FROM comments c WHERE c.product_id = p.id),
		       (SELECT COUNT(*) FROM views vw WHERE vw.product_id = p.id)
		FROM products p
		WHERE p.id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading product detail", "productId", id)

	var detail catalog.ProductDetail
	var createdAtStr string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&detail.ID, &detail.OwnerID, &detail.Name, &detail.Tagline, &detail.Thumbnail,
		&detail.Status, &createdAtStr,
		&detail.TotalVotes, &detail.TotalComments, &detail.TotalViews,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		r.logger.Database().Error("Product detail query failed", "error", err.Error(), "productId", id)
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	detail.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		r.logger.Database().Error("Failed to parse product timestamp", "error", err.Error(), "productId", id)
		return nil, err
	}

	detail.Tags, err = r.productTags(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.Database().Info("Product detail loaded", "productId", id, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	return &detail, nil
}

// productTags loads the tag names attached to a product.
func (r *SQLProductRepository) productTags(ctx context.Context, productID string) ([]string, error) {
	const query = `
		SELECT t.name
		FROM tags t
		JOIN product_tags pt ON pt.tag_id = t.id
		WHERE pt.product_id = ?
		ORDER BY t.name`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.logger.Database().Error("Product tags query failed", "error", err.Error(), "productId", productID)
		return nil, fmt.Errorf("failed to query product tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// ListTags returns all tags with their product membership counts.
func (r *SQLProductRepository) ListTags(ctx context.Context) ([]*catalog.Tag, error) {
	const query = `
		SELECT t.id, t.name, COUNT(pt.product_id)
		FROM tags t
		LEFT JOIN product_tags pt ON pt.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.name`

	start := time.Now()
	r.logger.Database().Debug("Listing tags")

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Tags query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []*catalog.Tag
	for rows.Next() {
		var t catalog.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.ProductCount); err != nil {
			r.logger.Database().Error("Failed to scan tag row", "error", err.Error())
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Info("Tags listed", "count", len(tags), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	return tags, nil
}

func scanProduct(rows *sql.Rows) (*catalog.Product, error) {
	var p catalog.Product
	var createdAtStr string
	err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Tagline, &p.Thumbnail, &p.Status, &createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	p.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func parseTimestamp(timestampStr string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, timestampStr); err == nil {
		return t, nil
	}

	if t, err := time.Parse(sqliteTimeFormat, timestampStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp format: %s", timestampStr)
}
