package models

import "time"

// WeeklyGoal is the emotion a user aims for during one week (Monday 00:00 UTC).
type WeeklyGoal struct {
	ID            string       `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID        string       `gorm:"type:varchar(50);index:idx_weekly_goals_user_week,unique" json:"user_id"`
	WeekStart     time.Time    `gorm:"index:idx_weekly_goals_user_week,unique" json:"week_start"`
	TargetEmotion EmotionLabel `gorm:"type:varchar(32);not null" json:"target_emotion"`
	Notes         string       `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (WeeklyGoal) TableName() string {
	return "weekly_goals"
}
