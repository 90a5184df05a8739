package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"stageready/models"
)

// Sort keys accepted by SpeechFilter. All sorts are descending; ties keep
// the store-returned order.
const (
	SortByDate     = "date"
	SortByScore    = "score"
	SortByDuration = "duration"
	SortByWords    = "words"
)

// SpeechFilter holds the browse/export parameters exactly as the console
// sends them. Applying a filter is a pure function of its inputs: same
// speeches, same users, same parameters give the same output every time.
type SpeechFilter struct {
	Search   string // case-insensitive substring over name, email, transcript, type
	Type     string // speech type, or "all"
	User     string // owning user id, or "all"
	DateFrom string // yyyy-mm-dd, inclusive from 00:00:00.000
	DateTo   string // yyyy-mm-dd, inclusive to 23:59:59.999
	MinScore string // overall lower bound; ignored if not numeric
	MaxScore string // overall upper bound; ignored if not numeric
	SortBy   string // date | score | duration | words
}

// Apply filters and sorts the speeches. The users list supplies email
// lookups for the free-text search. The input slice is never mutated.
func (f SpeechFilter) Apply(speeches []models.Speech, users []models.User) []models.Speech {
	result := make([]models.Speech, len(speeches))
	copy(result, speeches)

	if f.Type != "" && f.Type != "all" {
		result = keepSpeeches(result, func(s models.Speech) bool { return s.SpeechType == f.Type })
	}
	if f.User != "" && f.User != "all" {
		result = keepSpeeches(result, func(s models.Speech) bool { return s.UserID == f.User })
	}

	if from, ok := parseDay(f.DateFrom); ok {
		result = keepSpeeches(result, func(s models.Speech) bool { return !s.CreatedAt.Before(from) })
	}
	if to, ok := parseDay(f.DateTo); ok {
		end := to.Add(24*time.Hour - time.Millisecond)
		result = keepSpeeches(result, func(s models.Speech) bool { return !s.CreatedAt.After(end) })
	}

	if min, err := strconv.ParseFloat(f.MinScore, 64); err == nil {
		result = keepSpeeches(result, func(s models.Speech) bool { return s.Scores.Overall >= min })
	}
	if max, err := strconv.ParseFloat(f.MaxScore, 64); err == nil {
		result = keepSpeeches(result, func(s models.Speech) bool { return s.Scores.Overall <= max })
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		emails := map[string]string{}
		for _, u := range users {
			emails[u.ID] = strings.ToLower(u.Email)
		}
		result = keepSpeeches(result, func(s models.Speech) bool {
			return strings.Contains(strings.ToLower(s.UserName), q) ||
				strings.Contains(emails[s.UserID], q) ||
				strings.Contains(strings.ToLower(s.Transcript), q) ||
				strings.Contains(strings.ToLower(s.SpeechType), q)
		})
	}

	switch f.SortBy {
	case SortByScore:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Scores.Overall > result[j].Scores.Overall })
	case SortByDuration:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Duration > result[j].Duration })
	case SortByWords:
		sort.SliceStable(result, func(i, j int) bool { return result[i].WordCount > result[j].WordCount })
	default:
		SortSpeechesByDate(result)
	}
	return result
}

// SortSpeechesByDate orders speeches newest first, keeping the incoming
// order for equal timestamps
func SortSpeechesByDate(speeches []models.Speech) {
	sort.SliceStable(speeches, func(i, j int) bool {
		return speeches[i].CreatedAt.After(speeches[j].CreatedAt)
	})
}

func keepSpeeches(speeches []models.Speech, keep func(models.Speech) bool) []models.Speech {
	out := speeches[:0]
	for _, s := range speeches {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SpeechAggregates summarizes a filtered speech set. The score averages run
// over the scored subset only (overall > 0); total duration covers every
// filtered speech.
type SpeechAggregates struct {
	TotalSpeeches int     `json:"totalSpeeches"`
	TotalDuration float64 `json:"totalDuration"`
	AvgOverall    float64 `json:"avgOverall"`
	AvgPace       float64 `json:"avgPace"`
	AvgClarity    float64 `json:"avgClarity"`
	AvgFluency    float64 `json:"avgFluency"`
	AvgPitch      float64 `json:"avgPitch"`
}

// AggregateSpeeches computes the summary row shown above the speech table.
// An empty input yields all zeros.
func AggregateSpeeches(speeches []models.Speech) SpeechAggregates {
	agg := SpeechAggregates{TotalSpeeches: len(speeches)}
	if len(speeches) == 0 {
		return agg
	}

	scoredCount := 0
	var overall, pace, clarity, fluency, pitch float64
	for _, s := range speeches {
		agg.TotalDuration += s.Duration
		if s.Scores.Overall > 0 {
			scoredCount++
			overall += s.Scores.Overall
			pace += s.Scores.SpeechPace
			clarity += s.Scores.ArticulationClarity
			fluency += s.Scores.PausingFluency
			pitch += s.Scores.PitchVariation
		}
	}
	// max(n, 1) divisor: an empty scored subset reports 0, not NaN
	n := float64(scoredCount)
	if n == 0 {
		n = 1
	}
	agg.AvgOverall = overall / n
	agg.AvgPace = pace / n
	agg.AvgClarity = clarity / n
	agg.AvgFluency = fluency / n
	agg.AvgPitch = pitch / n
	return agg
}
