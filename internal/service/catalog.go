package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// CatalogService serves the read-only tag and ingredient catalogs and seeds
// the ingredient table.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns every tag, unpaginated.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag returns one tag by id.
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// SearchIngredients returns ingredients whose name contains the query,
// case-insensitive. An empty query returns everything.
func (s *CatalogService) SearchIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	db := s.db.WithContext(ctx).Order("name")
	if query != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	var ingredients []models.Ingredient
	if err := db.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// ingredientFixture matches the ingredient fixture format.
type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// LoadIngredients seeds the ingredient catalog from a JSON fixture file.
// Pairs that already exist are skipped. Returns how many rows were inserted.
func (s *CatalogService) LoadIngredients(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixture: %w", err)
	}

	var entries []ingredientFixture
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse fixture: %w", err)
	}

	inserted := 0
	for _, entry := range entries {
		if entry.Name == "" || entry.MeasurementUnit == "" {
			continue
		}
		err := s.db.WithContext(ctx).Create(&models.Ingredient{
			Name:            entry.Name,
			MeasurementUnit: entry.MeasurementUnit,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
