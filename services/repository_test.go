package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"stageready/models"
)

const someID = "507f1f77bcf86cd799439011"

func TestUpdatesRejectUnparseableIDs(t *testing.T) {
	// parseID failures short-circuit before any store access.
	repo := NewRepository(nil)
	ctx := context.Background()
	name := "Jane"
	level := 2

	assert.ErrorIs(t, repo.UpdateUser(ctx, "not-an-id", models.UserUpdate{FirstName: &name}), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateSpeech(ctx, "not-an-id", someID, models.SpeechUpdate{Transcript: &name}), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateSpeech(ctx, someID, "not-an-id", models.SpeechUpdate{Transcript: &name}), ErrNotFound)
	assert.ErrorIs(t, repo.UpsertGamification(ctx, "not-an-id", models.GamificationUpdate{Level: &level}), ErrNotFound)

	progress, err := repo.UpdateBadgeProgress(ctx, "not-an-id", nil)
	assert.Nil(t, progress)
	assert.ErrorIs(t, err, ErrNotFound)
}

func updateReply(matched int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}

func TestUpdateUserMissingDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	name := "Jane"

	mt.Run("zero matches is a failure", func(mt *mtest.T) {
		mt.AddMockResponses(updateReply(0))
		repo := NewRepository(mt.DB)

		err := repo.UpdateUser(context.Background(), someID, models.UserUpdate{FirstName: &name})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("matched document succeeds", func(mt *mtest.T) {
		mt.AddMockResponses(updateReply(1))
		repo := NewRepository(mt.DB)

		err := repo.UpdateUser(context.Background(), someID, models.UserUpdate{FirstName: &name})
		assert.NoError(mt, err)
	})
}

func TestUpdateSpeechMissingDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	transcript := "Closing remarks"

	mt.Run("zero matches is a failure", func(mt *mtest.T) {
		mt.AddMockResponses(updateReply(0))
		repo := NewRepository(mt.DB)

		err := repo.UpdateSpeech(context.Background(), someID, someID, models.SpeechUpdate{Transcript: &transcript})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("empty edit writes nothing", func(mt *mtest.T) {
		repo := NewRepository(mt.DB)

		err := repo.UpdateSpeech(context.Background(), someID, someID, models.SpeechUpdate{})
		assert.NoError(mt, err)
	})
}

func TestUpdateBadgeProgressMissingDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	badges := []models.Badge{
		{ID: "first-speech", IsUnlocked: true},
		{ID: "streak-7", IsUnlocked: false},
	}

	mt.Run("zero matches returns no progress", func(mt *mtest.T) {
		mt.AddMockResponses(updateReply(0))
		repo := NewRepository(mt.DB)

		progress, err := repo.UpdateBadgeProgress(context.Background(), someID, badges)
		assert.Nil(mt, progress, "unpersisted progress must not be handed back")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("matched document returns recomputed counts", func(mt *mtest.T) {
		mt.AddMockResponses(updateReply(1))
		repo := NewRepository(mt.DB)

		progress, err := repo.UpdateBadgeProgress(context.Background(), someID, badges)
		require.NoError(mt, err)
		require.NotNil(mt, progress)
		assert.Equal(mt, 1, progress.UnlockedBadges)
		assert.Equal(mt, 2, progress.TotalBadges)
	})
}
