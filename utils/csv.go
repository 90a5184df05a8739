package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"stageready/models"
)

// CSV assembly for the console's export buttons. Every field is quoted and
// embedded quotes are doubled so transcripts with commas and quotes survive
// a spreadsheet round trip.

func csvField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// BuildCSV renders a header row plus one quoted row per record
func BuildCSV(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		b.WriteString("\n")
		for i, v := range row {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(csvField(v))
		}
	}
	return b.String()
}

// UsersCSV exports the user list with the console's fixed column order
func UsersCSV(users []models.User) string {
	headers := []string{"Name", "Email", "Role", "Gender", "Age", "Phone", "Bio", "Joined"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		age := ""
		if u.Age > 0 {
			age = strconv.Itoa(u.Age)
		}
		joined := ""
		if !u.CreatedAt.IsZero() {
			joined = u.CreatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			u.DisplayName(), u.Email, u.Role, u.Gender, age, u.PhoneNumber, u.Bio, joined,
		})
	}
	return BuildCSV(headers, rows)
}

// SpeechesCSV exports speeches. The User column is included only in the
// multi-user export; the per-user export drops it.
func SpeechesCSV(speeches []models.Speech, includeUser bool) string {
	headers := []string{
		"Type", "Overall", "Pace", "Clarity", "Pitch", "Fluency",
		"Loudness", "Emphasis", "Filler Words", "Duration (s)", "Words", "WPM", "Date", "Transcript",
	}
	if includeUser {
		headers = append([]string{"User"}, headers...)
	}
	rows := make([][]string, 0, len(speeches))
	for _, s := range speeches {
		row := []string{
			s.SpeechType,
			score2(s.Scores.Overall),
			score2(s.Scores.SpeechPace),
			score2(s.Scores.ArticulationClarity),
			score2(s.Scores.PitchVariation),
			score2(s.Scores.PausingFluency),
			score2(s.Scores.LoudnessControl),
			score2(s.Scores.ExpressiveEmphasis),
			score2(s.Scores.FillerWords),
			strconv.Itoa(int(math.Round(s.Duration))),
			strconv.Itoa(s.WordCount),
			strconv.FormatFloat(s.AvgPace, 'f', 0, 64),
			s.CreatedAt.UTC().Format(time.RFC3339),
			s.Transcript,
		}
		if includeUser {
			owner := s.UserName
			if owner == "" {
				owner = s.UserID
			}
			row = append([]string{owner}, row...)
		}
		rows = append(rows, row)
	}
	return BuildCSV(headers, rows)
}

func score2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ExportFileName yields e.g. stageready-users-2026-09-01.csv
func ExportFileName(subject string) string {
	return "stageready-" + subject + "-" + time.Now().UTC().Format("2006-01-02") + ".csv"
}

// UserSpeechesFileName yields e.g. speeches-jane-doe-2026-09-01.csv
func UserSpeechesFileName(displayName string) string {
	safe := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(displayName), "-"), "-")
	if safe == "" {
		safe = "user"
	}
	return "speeches-" + safe + "-" + time.Now().UTC().Format("2006-01-02") + ".csv"
}
