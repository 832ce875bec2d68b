package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// SubscriptionService handles following authors and the subscriptions feed.
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes followerID follow authorID. Following yourself is rejected.
func (s *SubscriptionService) Subscribe(ctx context.Context, followerID, authorID uuid.UUID) error {
	if followerID == authorID {
		return ErrSelfFollow
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	err := s.db.WithContext(ctx).Create(&models.Follow{FollowerID: followerID, AuthorID: authorID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

// Unsubscribe removes the follow row; ErrNotFound when it was absent.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, followerID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscriptions lists the authors the user follows, oldest follow first, each
// with a capped preview of their recipes and their full recipe count.
// recipesLimit caps the preview per author; nil means no cap.
func (s *SubscriptionService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit *int, page, limit int) ([]types.SubscriptionView, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	if err := s.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&follows).Error; err != nil {
		return nil, 0, err
	}

	views := make([]types.SubscriptionView, 0, len(follows))
	for _, follow := range follows {
		var author models.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", follow.AuthorID).Error; err != nil {
			return nil, 0, err
		}

		var recipesCount int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", author.ID).
			Count(&recipesCount).Error; err != nil {
			return nil, 0, err
		}

		recipeQuery := s.db.WithContext(ctx).
			Where("author_id = ?", author.ID).
			Order("created_at DESC")
		if recipesLimit != nil {
			recipeQuery = recipeQuery.Limit(*recipesLimit)
		}
		var recipes []models.Recipe
		if err := recipeQuery.Find(&recipes).Error; err != nil {
			return nil, 0, err
		}

		previews := make([]types.RecipePreview, 0, len(recipes))
		for _, r := range recipes {
			previews = append(previews, types.RecipePreview{
				ID:          r.ID,
				Name:        r.Name,
				Image:       r.Image,
				CookingTime: r.CookingTime,
			})
		}

		views = append(views, types.SubscriptionView{
			UserView:     userView(author, true),
			Recipes:      previews,
			RecipesCount: recipesCount,
		})
	}
	return views, total, nil
}

// GetUser returns a user's public profile with the viewer's follow flag.
func (s *SubscriptionService) GetUser(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isSubscribed := false
	if viewer != nil {
		subscribed, err := subscribedAuthors(s.db.WithContext(ctx), *viewer, []uuid.UUID{user.ID})
		if err != nil {
			return nil, err
		}
		isSubscribed = subscribed[user.ID]
	}

	view := userView(user, isSubscribed)
	return &view, nil
}

// ListUsers returns a page of all registered users, oldest first.
func (s *SubscriptionService) ListUsers(ctx context.Context, viewer *uuid.UUID, page, limit int) ([]types.UserView, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).
		Order("created_at").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	subscribed := make(map[uuid.UUID]bool)
	if viewer != nil {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		var err error
		subscribed, err = subscribedAuthors(s.db.WithContext(ctx), *viewer, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	views := make([]types.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u, subscribed[u.ID]))
	}
	return views, total, nil
}
