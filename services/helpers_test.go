package services

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/models"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.MigrateDB(db))
	return db
}

func rec(label string, ts time.Time) models.EmotionRecord {
	return models.EmotionRecord{Emotion: models.EmotionLabel(label), Timestamp: ts}
}

func ptr(f float64) *float64 {
	return &f
}

// stubClassifier returns a fixed result or error.
type stubClassifier struct {
	result *models.DetectionResult
	err    error
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, image []byte) (*models.DetectionResult, error) {
	s.calls++
	return s.result, s.err
}

// fixedClock returns a clock that can be moved in tests.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}
