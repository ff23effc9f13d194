package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchboard/launchboard-go/internal/application/services"
	"github.com/launchboard/launchboard-go/internal/domain/catalog"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

// CatalogHandlers contains the public catalog read handlers
type CatalogHandlers struct {
	catalogService *services.CatalogService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewCatalogHandlers creates catalog handlers with injected dependencies
func NewCatalogHandlers(catalogService *services.CatalogService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CatalogHandlers {
	return &CatalogHandlers{
		catalogService: catalogService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetProducts handles GET /api/v1/products
func (h *CatalogHandlers) GetProducts(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_products_request")
	defer h.perfTracker.CompleteOperation(marker)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			marker.SetError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	products, err := h.catalogService.ListRecentProducts(c.Request.Context(), limit)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	if products == nil {
		products = []*catalog.Product{}
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetProducts request", "duration", time.Since(start), "count", len(products), "success", true)
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /api/v1/products/:id
func (h *CatalogHandlers) GetProduct(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_product_request")
	defer h.perfTracker.CompleteOperation(marker)

	id := c.Param("id")
	detail, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetProduct request", "duration", time.Since(start), "productId", id, "success", true)
	c.JSON(http.StatusOK, detail)
}

// GetTags handles GET /api/v1/tags
func (h *CatalogHandlers) GetTags(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_tags_request")
	defer h.perfTracker.CompleteOperation(marker)

	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	if tags == nil {
		tags = []*catalog.Tag{}
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetTags request", "duration", time.Since(start), "count", len(tags), "success", true)
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
