// Package catalog defines the read-side entities of the product catalog and
// their repository contract. Write paths (submission, voting, tagging) are
// handled by external surfaces; this service only reads the facts they
// produce.
package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no product matches the requested id.
var ErrNotFound = errors.New("product not found")

// Product is an owned, votable artifact listed on the platform.
type Product struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Tagline   string    `json:"tagline"`
	Thumbnail string    `json:"thumbnail"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductDetail augments a product with its tags and all-time engagement
// totals for the detail endpoint.
type ProductDetail struct {
	Product
	Tags          []string `json:"tags"`
	TotalVotes    int      `json:"total_votes"`
	TotalComments int      `json:"total_comments"`
	TotalViews    int      `json:"total_views"`
}

// Tag is a category label with its product membership count.
type Tag struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

// ProductRepository defines the read operations over the catalog.
type ProductRepository interface {
	ListRecent(ctx context.Context, limit int) ([]*Product, error)
	FindByID(ctx context.Context, id string) (*ProductDetail, error)
	ListTags(ctx context.Context) ([]*Tag, error)
}
