package services

import (
	"context"
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/catalog"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

// CatalogService handles the public catalog read surface.
type CatalogService struct {
	products    catalog.ProductRepository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCatalogService creates a new catalog service with injected dependencies
func NewCatalogService(
	products catalog.ProductRepository,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *CatalogService {
	return &CatalogService{
		products:    products,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ListRecentProducts returns the newest products for the launch feed.
func (s *CatalogService) ListRecentProducts(ctx context.Context, limit int) ([]*catalog.Product, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperationWithContext(ctx, "catalog_product_list")
	defer s.perfTracker.CompleteOperation(marker)

	products, err := s.products.ListRecent(ctx, limit)
	if err != nil {
		marker.SetError(err)
		s.logger.Catalog().Error("Failed to list recent products", "error", err.Error())
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.Catalog().Info("Listed recent products", "count", len(products), "duration", time.Since(start))
	return products, nil
}

// GetProduct returns one product with tags and engagement totals. A miss
// returns catalog.ErrNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*catalog.ProductDetail, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperationWithContext(ctx, "catalog_product_detail")
	defer s.perfTracker.CompleteOperation(marker)

	detail, err := s.products.FindByID(ctx, id)
	if err != nil {
		marker.SetError(err)
		if err != catalog.ErrNotFound {
			s.logger.Catalog().Error("Failed to load product", "productId", id, "error", err.Error())
		}
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.Catalog().Info("Loaded product detail", "productId", id, "duration", time.Since(start))
	return detail, nil
}

// ListTags returns every tag with its product membership count.
func (s *CatalogService) ListTags(ctx context.Context) ([]*catalog.Tag, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperationWithContext(ctx, "catalog_tag_list")
	defer s.perfTracker.CompleteOperation(marker)

	tags, err := s.products.ListTags(ctx)
	if err != nil {
		marker.SetError(err)
		s.logger.Catalog().Error("Failed to list tags", "error", err.Error())
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.Catalog().Info("Listed tags", "count", len(tags), "duration", time.Since(start))
	return tags, nil
}
