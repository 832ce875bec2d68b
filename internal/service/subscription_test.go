package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/types"
)

func TestSubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db)
	follower := seedUser(t, db, "follower")
	author := seedUser(t, db, "author")

	ctx := context.Background()
	require.NoError(t, svc.Subscribe(ctx, follower.ID, author.ID))
	assert.ErrorIs(t, svc.Subscribe(ctx, follower.ID, author.ID), ErrAlreadyExists)

	view, err := svc.GetUser(ctx, author.ID, &follower.ID)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	// The relation is one-directional.
	view, err = svc.GetUser(ctx, follower.ID, &author.ID)
	require.NoError(t, err)
	assert.False(t, view.IsSubscribed)
}

func TestSubscribeSelfRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db)
	user := seedUser(t, db, "loner")

	assert.ErrorIs(t, svc.Subscribe(context.Background(), user.ID, user.ID), ErrSelfFollow)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db)
	follower := seedUser(t, db, "follower")

	assert.ErrorIs(t, svc.Subscribe(context.Background(), follower.ID, uuid.New()), ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db)
	follower := seedUser(t, db, "follower")
	author := seedUser(t, db, "author")

	ctx := context.Background()
	assert.ErrorIs(t, svc.Unsubscribe(ctx, follower.ID, author.ID), ErrNotFound)

	require.NoError(t, svc.Subscribe(ctx, follower.ID, author.ID))
	require.NoError(t, svc.Unsubscribe(ctx, follower.ID, author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, follower.ID, author.ID), ErrNotFound)
}

func TestSubscriptionsPreviewCap(t *testing.T) {
	db := newTestDB(t)
	subs := NewSubscriptionService(db)
	recipes := NewRecipeService(db)
	follower := seedUser(t, db, "follower")
	author := seedUser(t, db, "author")
	flour := seedIngredient(t, db, "flour", "g")

	for _, name := range []string{"Bread", "Buns", "Baguette"} {
		createRecipe(t, recipes, author.ID, name, nil,
			types.IngredientAmount{ID: flour.ID, Amount: 100})
	}

	ctx := context.Background()
	require.NoError(t, subs.Subscribe(ctx, follower.ID, author.ID))

	previewCap := 2
	views, total, err := subs.Subscriptions(ctx, follower.ID, &previewCap, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, views, 1)

	assert.Equal(t, author.ID, views[0].ID)
	assert.True(t, views[0].IsSubscribed)
	assert.Len(t, views[0].Recipes, 2)
	assert.EqualValues(t, 3, views[0].RecipesCount)

	views, _, err = subs.Subscriptions(ctx, follower.ID, nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, views[0].Recipes, 3)
}

func TestListUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db)
	viewer := seedUser(t, db, "viewer")
	followed := seedUser(t, db, "followed")
	seedUser(t, db, "stranger")

	ctx := context.Background()
	require.NoError(t, svc.Subscribe(ctx, viewer.ID, followed.ID))

	views, total, err := svc.ListUsers(ctx, &viewer.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, views, 3)

	subscribed := map[string]bool{}
	for _, v := range views {
		subscribed[v.Username] = v.IsSubscribed
	}
	assert.True(t, subscribed["followed"])
	assert.False(t, subscribed["stranger"])
	assert.False(t, subscribed["viewer"])
}
