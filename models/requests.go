package models

import (
	"fmt"
	"time"
)

// DetectRequest carries one frame as a data URL or bare base64.
type DetectRequest struct {
	Image string `json:"image"`
}

// RecommendationRequest carries a summary the client already computed.
type RecommendationRequest struct {
	Summary []SummaryEntry `json:"summary" binding:"required"`
}

// SaveSnapshotRequest persists a dashboard summary.
type SaveSnapshotRequest struct {
	Summary        []SummaryEntry `json:"summary" binding:"required"`
	Recommendation string         `json:"recommendation"`
	WindowStart    *time.Time     `json:"window_start"`
	WindowEnd      *time.Time     `json:"window_end"`
}

// Validate checks every entry and converts the window to UTC.
func (r *SaveSnapshotRequest) Validate() error {
	if err := ValidateSummary(r.Summary); err != nil {
		return err
	}
	if r.WindowStart != nil {
		utc := r.WindowStart.UTC()
		r.WindowStart = &utc
	}
	if r.WindowEnd != nil {
		utc := r.WindowEnd.UTC()
		r.WindowEnd = &utc
	}
	if r.WindowStart != nil && r.WindowEnd != nil && r.WindowStart.After(*r.WindowEnd) {
		return fmt.Errorf("window_start must be before window_end")
	}
	return nil
}

// SetGoalRequest sets the goal for the current week.
type SetGoalRequest struct {
	TargetEmotion string `json:"target_emotion" binding:"required"`
	Notes         string `json:"notes" binding:"max=2000"`
}

// ValidateSummary checks counts and percentages and normalizes labels in place.
func ValidateSummary(summary []SummaryEntry) error {
	for i, e := range summary {
		label, ok := ParseEmotion(string(e.Emotion))
		if !ok {
			return fmt.Errorf("summary[%d]: emotion is required", i)
		}
		if e.Count < 0 {
			return fmt.Errorf("summary[%d]: count must not be negative", i)
		}
		if e.Percentage < 0 || e.Percentage > 100 {
			return fmt.Errorf("summary[%d]: percentage must be within [0,100]", i)
		}
		summary[i].Emotion = label
	}
	return nil
}
