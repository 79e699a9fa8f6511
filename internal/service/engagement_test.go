package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewsAreIdempotentPerUser(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db)
	engagement := NewEngagementService(db)
	author := newVerifiedUser(t, db)
	reader := newVerifiedUser(t, db)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, author, publishedInput("Viewed Dish"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, engagement.RecordView(ctx, recipe.ID, reader.ID))
	}

	views, _, err := engagement.Counts(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), views)

	// A second reader counts separately
	other := newVerifiedUser(t, db)
	require.NoError(t, engagement.RecordView(ctx, recipe.ID, other.ID))
	views, _, err = engagement.Counts(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db)
	engagement := NewEngagementService(db)
	author := newVerifiedUser(t, db)
	reader := newVerifiedUser(t, db)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, author, publishedInput("Liked Dish"))
	require.NoError(t, err)

	require.NoError(t, engagement.Like(ctx, recipe.ID, reader.ID))
	assert.ErrorIs(t, engagement.Like(ctx, recipe.ID, reader.ID), ErrAlreadyLiked)

	liked, err := engagement.IsLiked(ctx, recipe.ID, reader.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, engagement.Unlike(ctx, recipe.ID, reader.ID))
	assert.ErrorIs(t, engagement.Unlike(ctx, recipe.ID, reader.ID), ErrNotLiked)

	// Like again after unliking works
	require.NoError(t, engagement.Like(ctx, recipe.ID, reader.ID))
	_, likes, err := engagement.Counts(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
}
