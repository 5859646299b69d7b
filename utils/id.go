package utils

import (
	"EmotionTrackerGo/config"

	"github.com/google/uuid"
)

// GenerateID returns a time-ordered UUIDv7 so records sort roughly by insertion, falling back
// to a random UUID if the clock source fails.
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		config.Logger.Warnw("uuid v7 unavailable, using v4", "error", err)
		return uuid.NewString()
	}
	return id.String()
}
