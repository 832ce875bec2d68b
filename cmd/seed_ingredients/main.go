package main

import (
	"context"
	"flag"
	"log"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/service"
)

func main() {
	path := flag.String("file", "data/ingredients.json", "path to the ingredient fixture")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	inserted, err := service.NewCatalogService(db).LoadIngredients(context.Background(), *path)
	if err != nil {
		log.Fatalf("failed to load ingredients: %v", err)
	}
	log.Printf("loaded %d ingredients from %s", inserted, *path)
}
