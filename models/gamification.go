package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Gamification tracks a user's level, XP and streaks. The record may not
// exist yet for a user; that is "not initialized", not an error.
type Gamification struct {
	UserID           string    `json:"userId"`
	Level            int       `json:"level"`
	CurrentXP        int       `json:"currentXP"`
	TotalXP          int       `json:"totalXP"`
	CurrentStreak    int       `json:"currentStreak"`
	LongestStreak    int       `json:"longestStreak"`
	LastActivityDate time.Time `json:"lastActivityDate,omitempty"`
}

// GamificationFromDoc shapes a raw gamification document
func GamificationFromDoc(userID string, doc bson.M) Gamification {
	level := docInt(doc, "level")
	if level == 0 {
		level = 1
	}
	return Gamification{
		UserID:           userID,
		Level:            level,
		CurrentXP:        docInt(doc, "currentXP"),
		TotalXP:          docInt(doc, "totalXP"),
		CurrentStreak:    docInt(doc, "currentStreak"),
		LongestStreak:    docInt(doc, "longestStreak"),
		LastActivityDate: docTime(doc, "lastActivityDate"),
	}
}

// GamificationUpdate is a partial gamification edit; nil fields are left untouched
type GamificationUpdate struct {
	Level         *int `json:"level"`
	CurrentXP     *int `json:"currentXP"`
	TotalXP       *int `json:"totalXP"`
	CurrentStreak *int `json:"currentStreak"`
	LongestStreak *int `json:"longestStreak"`
}

// Badge is one entry in a user's badge collection
type Badge struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string `bson:"icon,omitempty" json:"icon,omitempty"`
	IsUnlocked  bool   `bson:"isUnlocked" json:"isUnlocked"`
}

// BadgeProgress summarizes a user's badges. UnlockedBadges and TotalBadges
// are derived from Badges and must never be supplied by callers; use
// NewBadgeProgress so they cannot drift.
type BadgeProgress struct {
	UserID         string  `json:"userId"`
	TotalBadges    int     `json:"totalBadges"`
	UnlockedBadges int     `json:"unlockedBadges"`
	Badges         []Badge `json:"badges"`
}

// NewBadgeProgress builds a BadgeProgress with the derived counts recomputed
// from the badge sequence
func NewBadgeProgress(userID string, badges []Badge) BadgeProgress {
	if badges == nil {
		badges = []Badge{}
	}
	unlocked := 0
	for _, b := range badges {
		if b.IsUnlocked {
			unlocked++
		}
	}
	return BadgeProgress{
		UserID:         userID,
		TotalBadges:    len(badges),
		UnlockedBadges: unlocked,
		Badges:         badges,
	}
}

// BadgeProgressFromDoc shapes a raw badge-progress document. Counts are
// taken from the document as stored; the write path re-derives them.
func BadgeProgressFromDoc(userID string, doc bson.M) BadgeProgress {
	badges := []Badge{}
	if arr, ok := doc["badges"].(bson.A); ok {
		for _, v := range arr {
			var m bson.M
			switch b := v.(type) {
			case bson.M:
				m = b
			case bson.D:
				m = b.Map()
			default:
				continue
			}
			badges = append(badges, Badge{
				ID:          docString(m, "id"),
				Name:        docString(m, "name"),
				Description: docString(m, "description"),
				Icon:        docString(m, "icon"),
				IsUnlocked:  docBool(m, "isUnlocked"),
			})
		}
	}
	return BadgeProgress{
		UserID:         userID,
		TotalBadges:    docInt(doc, "totalBadges"),
		UnlockedBadges: docInt(doc, "unlockedBadges"),
		Badges:         badges,
	}
}
