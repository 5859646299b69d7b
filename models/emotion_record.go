package models

import "time"

// EmotionRecord is one classified frame. Records are append-only.
type EmotionRecord struct {
	ID         string       `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID     string       `gorm:"type:varchar(50);index:idx_emotion_records_user_ts" json:"user_id"`
	Emotion    EmotionLabel `gorm:"type:varchar(32);not null" json:"emotion"`
	Confidence *float64     `json:"confidence"`
	Timestamp  time.Time    `gorm:"index:idx_emotion_records_user_ts" json:"timestamp"`
}

func (EmotionRecord) TableName() string {
	return "emotion_records"
}
