package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

const maxImageUploadBytes = 10 << 20

// RecipeHandler handles recipe CRUD, favorites, the shopping cart and the
// shopping-list download.
type RecipeHandler struct {
	recipes *service.RecipeService
	cart    *service.CartService
	images  *service.ImageService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes *service.RecipeService, cart *service.CartService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, cart: cart, images: images}
}

// RegisterRoutes registers the recipe endpoints. Reads are public with
// optional auth so annotations resolve for logged-in callers; writes require
// auth. createLimiter may be nil when no rate limiting is configured.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator, createLimiter gin.HandlerFunc) {
	public := router.Group("/recipes", middleware.OptionalAuthMiddleware(validator))
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
	}

	authed := router.Group("/recipes", middleware.AuthMiddleware(validator))
	{
		if createLimiter != nil {
			authed.POST("", createLimiter, h.Create)
		} else {
			authed.POST("", h.Create)
		}
		authed.PATCH("/:id", h.Update)
		authed.DELETE("/:id", h.Delete)
		authed.POST("/:id/favorite", h.Favorite)
		authed.DELETE("/:id/favorite", h.Unfavorite)
		authed.POST("/:id/shopping_cart", h.AddToCart)
		authed.DELETE("/:id/shopping_cart", h.RemoveFromCart)
		authed.GET("/download_shopping_cart", h.DownloadShoppingCart)
		authed.POST("/upload_image", h.UploadImage)
	}
}

// List returns filtered recipes, newest first.
func (h *RecipeHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := service.RecipeFilter{
		TagSlugs:  c.QueryArray("tags"),
		Favorited: c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true",
		InCart:    c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true",
		Page:      page,
		Limit:     limit,
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &id
	}

	views, total, err := h.recipes.List(c.Request.Context(), filter, optionalUserID(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "results": views})
}

// Get returns one recipe aggregate.
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.recipes.Get(c.Request.Context(), id, optionalUserID(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Create publishes a new recipe.
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req types.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.recipes.Create(c.Request.Context(), userID, req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Update rewrites a recipe the user owns.
func (h *RecipeHandler) Update(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req types.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.recipes.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete removes a recipe the user owns.
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Favorite marks a recipe as a favorite.
func (h *RecipeHandler) Favorite(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.recipes.Favorite(c.Request.Context(), userID, id); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Unfavorite removes a recipe from favorites.
func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.recipes.Unfavorite(c.Request.Context(), userID, id); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToCart stages a recipe in the shopping cart.
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.cart.Add(c.Request.Context(), userID, id); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// RemoveFromCart takes a recipe out of the shopping cart.
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.cart.Remove(c.Request.Context(), userID, id); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart exports the aggregated shopping list. format=txt
// returns plain text; anything else returns a PDF.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := currentUserID(c)

	items, err := h.cart.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	if c.DefaultQuery("format", "pdf") == "txt" {
		c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingListText(items)))
		return
	}

	var buf bytes.Buffer
	if err := service.RenderShoppingListPDF(items, &buf); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// UploadImage stores a recipe image and returns its public URL.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(data) > maxImageUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}

	url, err := h.images.Upload(c.Request.Context(), data, header.Filename)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
