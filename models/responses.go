package models

import "time"

// DetectionResult is the canonical classifier output. Confidence is nil when absent.
type DetectionResult struct {
	Emotion    EmotionLabel `json:"emotion"`
	Confidence *float64     `json:"confidence"`
}

// DetectResponse answers a frame submission. Emotion is nil when no face or label was found.
type DetectResponse struct {
	Timestamp  time.Time     `json:"timestamp"`
	Emotion    *EmotionLabel `json:"emotion"`
	Confidence *float64      `json:"confidence"`
	Message    string        `json:"message,omitempty"`
}

// SummaryResponse is a window aggregation ready for display. Summary drops unknown and is
// sorted by count; Entries keeps every label in first-appearance order, which is what the
// recommendation percentages are computed over.
type SummaryResponse struct {
	Total       int            `json:"total"`
	Summary     []SummaryEntry `json:"summary"`
	Entries     []SummaryEntry `json:"entries"`
	WindowStart time.Time      `json:"window_start"`
	WindowEnd   time.Time      `json:"window_end"`
}

// RecommendationResponse holds the recommendation text and action suggestions.
type RecommendationResponse struct {
	Recommendation string       `json:"recommendation"`
	Dominant       EmotionLabel `json:"dominant,omitempty"`
	Suggestions    []string     `json:"suggestions"`
}

// RecordsResponse lists raw records in a window.
type RecordsResponse struct {
	Records []EmotionRecord `json:"records"`
}
