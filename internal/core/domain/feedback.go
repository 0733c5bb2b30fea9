package domain

import "time"

// FeedbackFlag categorises a problem with a response.
type FeedbackFlag string

// Available feedback flags.
const (
	FlagAccuracy FeedbackFlag = "accuracy"
	FlagBias     FeedbackFlag = "bias"
	FlagHarmful  FeedbackFlag = "harmful"
	FlagOther    FeedbackFlag = "other"
)

// IsValid returns true if the flag is recognised.
func (f FeedbackFlag) IsValid() bool {
	switch f {
	case FlagAccuracy, FlagBias, FlagHarmful, FlagOther:
		return true
	default:
		return false
	}
}

// Feedback is a user rating of a single model response.
type Feedback struct {
	// ID is the unique feedback identifier.
	ID string `json:"id"`

	// Prompt is the user prompt that produced the response.
	Prompt string `json:"prompt"`

	// Response is the rated model response.
	Response string `json:"response"`

	// Rating is 1 (unhelpful) to 5 (very helpful).
	Rating int `json:"rating"`

	// Flag optionally marks a problem category.
	Flag FeedbackFlag `json:"flag,omitempty"`

	// Notes holds free-text user remarks.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is when the feedback was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackSummary aggregates all recorded feedback.
type FeedbackSummary struct {
	Total         int                  `json:"total"`
	AverageRating float64              `json:"average_rating"`
	ByRating      map[int]int          `json:"by_rating"`
	ByFlag        map[FeedbackFlag]int `json:"by_flag"`
}
