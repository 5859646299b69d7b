package models

import (
	"time"

	"gorm.io/datatypes"
)

// SummaryEntry is the count and share of one emotion within a window.
type SummaryEntry struct {
	Emotion    EmotionLabel `json:"emotion"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
}

// SummarySnapshot is a saved copy of a dashboard summary.
type SummarySnapshot struct {
	ID             string                             `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID         string                             `gorm:"type:varchar(50);index:idx_summary_snapshots_user_created" json:"user_id"`
	WindowStart    *time.Time                         `json:"window_start,omitempty"`
	WindowEnd      *time.Time                         `json:"window_end,omitempty"`
	Entries        datatypes.JSONType[[]SummaryEntry] `json:"entries"`
	Recommendation string                             `gorm:"type:text" json:"recommendation"`
	CreatedAt      time.Time                          `gorm:"index:idx_summary_snapshots_user_created" json:"created_at"`
}

func (SummarySnapshot) TableName() string {
	return "summary_snapshots"
}
