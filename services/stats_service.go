package services

import (
	"context"
	"math"
	"time"

	"stageready/models"
)

// CorpusReader is the slice of the repository the aggregator scans
type CorpusReader interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUserSpeeches(ctx context.Context, userID string) ([]models.Speech, error)
}

// StatsService computes the dashboard snapshot by scanning every user's
// speech history. There are no maintained counters; every call recomputes
// from scratch. Full scan, fine at admin-console scale.
type StatsService struct {
	store CorpusReader
	now   func() time.Time
}

func NewStatsService(store CorpusReader) *StatsService {
	return &StatsService{store: store, now: time.Now}
}

func (ss *StatsService) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	users, err := ss.store.ListUsers(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	now := ss.now()
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)

	totalSpeeches := 0
	totalDuration := 0.0
	totalOverallScore := 0.0
	scoredSpeeches := 0
	speechesThisWeek := 0
	totalAdmins := 0
	activeUserIDs := map[string]struct{}{}

	for _, user := range users {
		if user.IsAdmin() {
			totalAdmins++
		}
		speeches, err := ss.store.ListUserSpeeches(ctx, user.ID)
		if err != nil {
			return models.DashboardStats{}, err
		}
		totalSpeeches += len(speeches)

		for _, speech := range speeches {
			totalDuration += speech.Duration
			// A zero overall score means "not yet scored" and is excluded
			// from the average.
			if speech.Scores.Overall > 0 {
				totalOverallScore += speech.Scores.Overall
				scoredSpeeches++
			}
			if !speech.CreatedAt.Before(sevenDaysAgo) {
				speechesThisWeek++
				activeUserIDs[user.ID] = struct{}{}
			}
		}
	}

	averageOverall := 0.0
	if scoredSpeeches > 0 {
		averageOverall = totalOverallScore / float64(scoredSpeeches)
	}

	return models.DashboardStats{
		TotalUsers:           len(users),
		TotalSpeeches:        totalSpeeches,
		ActiveUsersLast7Days: len(activeUserIDs),
		AverageOverallScore:  averageOverall,
		TotalPracticeMinutes: int(math.Round(totalDuration / 60)),
		SpeechesThisWeek:     speechesThisWeek,
		TotalAdmins:          totalAdmins,
	}, nil
}
