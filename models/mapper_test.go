package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserFromDocDefaults(t *testing.T) {
	user := UserFromDoc("u1", bson.M{"email": "jane@example.com"})

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, RoleUser, user.Role, "missing role defaults to user")
	assert.Equal(t, "", user.FirstName)
	assert.Equal(t, 0, user.Age)
	assert.True(t, user.CreatedAt.IsZero())
}

func TestUserFromDocConvertsStoreTimestamps(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	doc := bson.M{
		"email":     "jane@example.com",
		"role":      "admin",
		"createdAt": primitive.NewDateTimeFromTime(created),
		"updatedAt": created, // already a calendar date, passes through
		"interests": primitive.A{"public speaking", "debate"},
		"age":       int32(34),
	}
	user := UserFromDoc("u1", doc)

	assert.True(t, user.CreatedAt.Equal(created))
	assert.True(t, user.UpdatedAt.Equal(created))
	assert.Equal(t, []string{"public speaking", "debate"}, user.Interests)
	assert.Equal(t, 34, user.Age)
	assert.True(t, user.IsAdmin())
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", User{FirstName: "Jane", LastName: "Doe"}.DisplayName())
	assert.Equal(t, "Jane", User{FirstName: "Jane"}.DisplayName())
	assert.Equal(t, "jane@example.com", User{Email: "jane@example.com"}.DisplayName())
	assert.Equal(t, "Unknown User", User{}.DisplayName())
}

func TestSpeechFromDocDefaults(t *testing.T) {
	speech := SpeechFromDoc("s1", "u1", bson.M{})

	assert.Equal(t, "s1", speech.ID)
	assert.Equal(t, "u1", speech.UserID, "userId comes from the partition")
	assert.Equal(t, "general", speech.SpeechType)
	assert.Equal(t, "", speech.Transcript)
	assert.Zero(t, speech.Scores.Overall, "missing scores default to 0")
	assert.Zero(t, speech.Duration)
	assert.Zero(t, speech.WordCount)
}

func TestSpeechFromDocMapsNestedScores(t *testing.T) {
	created := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	doc := bson.M{
		"transcript": "Good morning everyone",
		"speechType": "presentation",
		"scores": bson.M{
			"overall":              3.5,
			"speech_pace":          int32(4), // stores mix integer and float numerics
			"articulation_clarity": 2.25,
		},
		"duration":    int64(95),
		"wordCount":   int32(240),
		"averagePace": 151.6,
		"createdAt":   primitive.NewDateTimeFromTime(created),
	}
	speech := SpeechFromDoc("s1", "u1", doc)

	assert.Equal(t, 3.5, speech.Scores.Overall)
	assert.Equal(t, 4.0, speech.Scores.SpeechPace)
	assert.Equal(t, 2.25, speech.Scores.ArticulationClarity)
	assert.Zero(t, speech.Scores.FillerWords)
	assert.Equal(t, 95.0, speech.Duration)
	assert.Equal(t, 240, speech.WordCount)
	assert.True(t, speech.CreatedAt.Equal(created))
}

func TestGamificationFromDocDefaults(t *testing.T) {
	gam := GamificationFromDoc("u1", bson.M{})

	assert.Equal(t, "u1", gam.UserID)
	assert.Equal(t, 1, gam.Level, "level defaults to 1")
	assert.Zero(t, gam.CurrentXP)
	assert.Zero(t, gam.LongestStreak)
	assert.True(t, gam.LastActivityDate.IsZero())
}

func TestBadgeProgressFromDoc(t *testing.T) {
	doc := bson.M{
		"totalBadges":    int32(2),
		"unlockedBadges": int32(1),
		"badges": bson.A{
			bson.M{"id": "first-speech", "name": "First Speech", "isUnlocked": true},
			bson.M{"id": "streak-7", "name": "Week Streak", "isUnlocked": false},
		},
	}
	progress := BadgeProgressFromDoc("u1", doc)

	assert.Equal(t, 2, progress.TotalBadges)
	assert.Equal(t, 1, progress.UnlockedBadges)
	assert.Len(t, progress.Badges, 2)
	assert.Equal(t, "first-speech", progress.Badges[0].ID)
	assert.True(t, progress.Badges[0].IsUnlocked)
	assert.False(t, progress.Badges[1].IsUnlocked)
}
