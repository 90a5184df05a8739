package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// SpeechScores holds the eight scored facets of a practice speech.
// A zero overall score means the speech has not been scored yet.
type SpeechScores struct {
	SpeechPace          float64 `json:"speech_pace"`
	PausingFluency      float64 `json:"pausing_fluency"`
	LoudnessControl     float64 `json:"loudness_control"`
	PitchVariation      float64 `json:"pitch_variation"`
	ArticulationClarity float64 `json:"articulation_clarity"`
	ExpressiveEmphasis  float64 `json:"expressive_emphasis"`
	FillerWords         float64 `json:"filler_words"`
	Overall             float64 `json:"overall"`
}

// Speech is one practice session recorded by the mobile app
type Speech struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	UserName   string       `json:"userName,omitempty"` // computed at read time, never stored
	Transcript string       `json:"transcript"`
	SpeechType string       `json:"speechType"`
	Scores     SpeechScores `json:"scores"`
	Duration   float64      `json:"duration"` // seconds
	WordCount  int          `json:"wordCount"`
	AvgPace    float64      `json:"averagePace"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// SpeechFromDoc shapes a raw speech document read from a user's partition.
// The userId always comes from the partition, not the document body.
func SpeechFromDoc(id, userID string, doc bson.M) Speech {
	speechType := docString(doc, "speechType")
	if speechType == "" {
		speechType = "general"
	}
	scores := docMap(doc, "scores")
	return Speech{
		ID:         id,
		UserID:     userID,
		Transcript: docString(doc, "transcript"),
		SpeechType: speechType,
		Scores: SpeechScores{
			SpeechPace:          docFloat(scores, "speech_pace"),
			PausingFluency:      docFloat(scores, "pausing_fluency"),
			LoudnessControl:     docFloat(scores, "loudness_control"),
			PitchVariation:      docFloat(scores, "pitch_variation"),
			ArticulationClarity: docFloat(scores, "articulation_clarity"),
			ExpressiveEmphasis:  docFloat(scores, "expressive_emphasis"),
			FillerWords:         docFloat(scores, "filler_words"),
			Overall:             docFloat(scores, "overall"),
		},
		Duration:  docFloat(doc, "duration"),
		WordCount: docInt(doc, "wordCount"),
		AvgPace:   docFloat(doc, "averagePace"),
		CreatedAt: docTime(doc, "createdAt"),
	}
}

// SpeechUpdate is a partial edit of a speech's scalar fields
type SpeechUpdate struct {
	Transcript *string `json:"transcript"`
	SpeechType *string `json:"speechType"`
}
