package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/service"
)

// CatalogHandler serves the read-only tag and ingredient catalogs.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler instance
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers the catalog endpoints. All public.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.SearchIngredients)
}

// ListTags returns every tag.
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag returns one tag by id.
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// SearchIngredients returns ingredients matching the search query.
func (h *CatalogHandler) SearchIngredients(c *gin.Context) {
	ingredients, err := h.catalog.SearchIngredients(c.Request.Context(), c.Query("search"))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}
