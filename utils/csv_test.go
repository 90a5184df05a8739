package utils

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stageready/models"
)

func TestSpeechesCSVRoundTrip(t *testing.T) {
	transcript := `He said "hello, world", then paused, "again"`
	speeches := []models.Speech{{
		ID:         "s1",
		UserID:     "u1",
		UserName:   `Jane "JJ" Doe`,
		SpeechType: "presentation",
		Scores:     models.SpeechScores{Overall: 3.456, SpeechPace: 2},
		Duration:   95.4,
		WordCount:  240,
		AvgPace:    151.6,
		Transcript: transcript,
		CreatedAt:  time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC),
	}}

	out := SpeechesCSV(speeches, true)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err, "a standard CSV reader must accept the export")
	require.Len(t, records, 2)

	header := records[0]
	assert.Equal(t, "User", header[0])
	assert.Equal(t, "Transcript", header[len(header)-1])
	require.Len(t, header, 15)

	row := records[1]
	require.Len(t, row, 15)
	assert.Equal(t, `Jane "JJ" Doe`, row[0])
	assert.Equal(t, "presentation", row[1])
	assert.Equal(t, "3.46", row[2])
	assert.Equal(t, "2.00", row[3])
	assert.Equal(t, "95", row[10], "duration is rounded to whole seconds")
	assert.Equal(t, "240", row[11])
	assert.Equal(t, "152", row[12], "WPM is rounded to a whole number")
	assert.Equal(t, "2025-06-15T09:30:00Z", row[13])
	assert.Equal(t, transcript, row[len(row)-1], "quotes and commas survive the round trip")
}

func TestSpeechesCSVWithoutUserColumn(t *testing.T) {
	out := SpeechesCSV([]models.Speech{{SpeechType: "general"}}, false)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Type", records[0][0])
	assert.Len(t, records[0], 14)
}

func TestSpeechesCSVFallsBackToUserID(t *testing.T) {
	out := SpeechesCSV([]models.Speech{{UserID: "u42"}}, true)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "u42", records[1][0])
}

func TestUsersCSV(t *testing.T) {
	users := []models.User{
		{
			FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
			Role: "admin", Gender: "female", Age: 34, PhoneNumber: "+15551234",
			Bio:       `Speaker, and "coach"`,
			CreatedAt: time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC),
		},
		{Email: "new@example.com", Role: "user"},
	}

	out := UsersCSV(users)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Email", "Role", "Gender", "Age", "Phone", "Bio", "Joined"}, records[0])

	jane := records[1]
	assert.Equal(t, "Jane Doe", jane[0])
	assert.Equal(t, "34", jane[4])
	assert.Equal(t, `Speaker, and "coach"`, jane[6])
	assert.Equal(t, "2024-02-10T08:00:00Z", jane[7])

	fresh := records[2]
	assert.Equal(t, "new@example.com", fresh[0], "display name falls back to email")
	assert.Equal(t, "", fresh[4], "unset age exports empty")
	assert.Equal(t, "", fresh[7], "unset join date exports empty")
}

func TestExportFileNames(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")

	assert.Equal(t, "stageready-users-"+today+".csv", ExportFileName("users"))
	assert.Equal(t, "speeches-jane-doe-"+today+".csv", UserSpeechesFileName("Jane Doe"))
	assert.Equal(t, "speeches-j-r-bob-smith-"+today+".csv", UserSpeechesFileName(`J.R. "Bob" Smith`))
	assert.Equal(t, "speeches-user-"+today+".csv", UserSpeechesFileName("???"))
}
