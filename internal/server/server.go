package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires services, handlers and middleware into a ready-to-start server.
// redisClient and s3Config may be nil; rate limiting and image upload then
// degrade gracefully.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())

	auth := service.NewAuthService(db, cfg.JWTSecret)
	recipes := service.NewRecipeService(db)
	cart := service.NewCartService(db)
	subscriptions := service.NewSubscriptionService(db)
	catalog := service.NewCatalogService(db)
	images := service.NewImageService(s3Config)

	var createLimiter gin.HandlerFunc
	if redisClient != nil {
		createLimiter = middleware.NewRecipeCreationRateLimiter(redisClient).RateLimitMiddleware()
	} else {
		log.Println("redis not configured, recipe creation rate limiting disabled")
	}

	v1 := router.Group("/api/v1")
	v1.GET("/health", api.HealthCheck)
	api.NewAuthHandler(auth).RegisterRoutes(v1)
	api.NewRecipeHandler(recipes, cart, images).RegisterRoutes(v1, auth, createLimiter)
	api.NewCatalogHandler(catalog).RegisterRoutes(v1)
	api.NewUserHandler(subscriptions).RegisterRoutes(v1, auth)

	return &Server{router: router, db: db}
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins serving on the given address. Blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	log.Printf("listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
