package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// UserHandler serves user profiles and subscriptions.
type UserHandler struct {
	subscriptions *service.SubscriptionService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(subscriptions *service.SubscriptionService) *UserHandler {
	return &UserHandler{subscriptions: subscriptions}
}

// RegisterRoutes registers the user endpoints.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	public := router.Group("/users", middleware.OptionalAuthMiddleware(validator))
	{
		public.GET("", h.ListUsers)
		public.GET("/:id", h.GetUser)
	}

	authed := router.Group("/users", middleware.AuthMiddleware(validator))
	{
		authed.GET("/subscriptions", h.Subscriptions)
		authed.POST("/:id/subscribe", h.Subscribe)
		authed.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

// ListUsers returns a page of registered users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	views, total, err := h.subscriptions.ListUsers(c.Request.Context(), optionalUserID(c), page, limit)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "results": views})
}

// GetUser returns one user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.subscriptions.GetUser(c.Request.Context(), id, optionalUserID(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Subscriptions lists the authors the user follows with recipe previews.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := currentUserID(c)
	page, limit := parsePagination(c)

	var recipesLimit *int
	if raw := c.Query("recipes_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipes_limit"})
			return
		}
		recipesLimit = &n
	}

	views, total, err := h.subscriptions.Subscriptions(c.Request.Context(), userID, recipesLimit, page, limit)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "results": views})
}

// Subscribe follows an author.
func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.subscriptions.Subscribe(c.Request.Context(), userID, id); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Unsubscribe stops following an author.
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, id); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
