package services

import (
	"EmotionTrackerGo/models"
	"EmotionTrackerGo/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNoRecords       = errors.New("no emotion records in window")
	ErrInvalidEmotion  = errors.New("invalid emotion label")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrInvalidSnapshot = errors.New("invalid summary snapshot")
	ErrInvalidSummary  = errors.New("invalid summary")
)

// EmotionStore is the append-only emotion log.
type EmotionStore interface {
	Append(ctx context.Context, record *models.EmotionRecord) error
	QueryWindow(ctx context.Context, userID string, start, end time.Time) ([]models.EmotionRecord, error)
}

// GormEmotionStore keeps emotion records in a SQL table.
type GormEmotionStore struct {
	db *gorm.DB
}

func NewGormEmotionStore(db *gorm.DB) *GormEmotionStore {
	return &GormEmotionStore{db: db}
}

// Append inserts one record, filling in the ID and timestamp when missing.
func (s *GormEmotionStore) Append(ctx context.Context, record *models.EmotionRecord) error {
	if record.ID == "" {
		record.ID = utils.GenerateID()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Timestamp = record.Timestamp.UTC()

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("append emotion record: %w", err)
	}
	return nil
}

// QueryWindow returns the user's records with start <= timestamp < end, oldest first.
func (s *GormEmotionStore) QueryWindow(ctx context.Context, userID string, start, end time.Time) ([]models.EmotionRecord, error) {
	var records []models.EmotionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, start.UTC(), end.UTC()).
		Order("timestamp asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query emotion records: %w", err)
	}
	return records, nil
}

// GoalStore persists weekly goals.
type GoalStore interface {
	Upsert(ctx context.Context, goal *models.WeeklyGoal) error
	ForWeek(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyGoal, error)
	Latest(ctx context.Context, userID string) (*models.WeeklyGoal, error)
}

type GormGoalStore struct {
	db *gorm.DB
}

func NewGormGoalStore(db *gorm.DB) *GormGoalStore {
	return &GormGoalStore{db: db}
}

// Upsert overwrites the target and notes of an existing goal for the same week.
func (s *GormGoalStore) Upsert(ctx context.Context, goal *models.WeeklyGoal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.WeeklyGoal
		err := tx.Where("user_id = ? AND week_start = ?", goal.UserID, goal.WeekStart).First(&existing).Error
		switch {
		case err == nil:
			existing.TargetEmotion = goal.TargetEmotion
			existing.Notes = goal.Notes
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("update goal: %w", err)
			}
			*goal = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if goal.ID == "" {
				goal.ID = utils.GenerateID()
			}
			if err := tx.Create(goal).Error; err != nil {
				return fmt.Errorf("create goal: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("look up goal: %w", err)
		}
	})
}

func (s *GormGoalStore) ForWeek(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyGoal, error) {
	var goal models.WeeklyGoal
	err := s.db.WithContext(ctx).Where("user_id = ? AND week_start = ?", userID, weekStart).First(&goal).Error
	return goalOrNotFound(&goal, err)
}

func (s *GormGoalStore) Latest(ctx context.Context, userID string) (*models.WeeklyGoal, error) {
	var goal models.WeeklyGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("week_start desc").First(&goal).Error
	return goalOrNotFound(&goal, err)
}

func goalOrNotFound(goal *models.WeeklyGoal, err error) (*models.WeeklyGoal, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query goal: %w", err)
	}
	return goal, nil
}

// SnapshotStore keeps the history of saved summaries.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *models.SummarySnapshot) error
	List(ctx context.Context, userID string, limit int) ([]models.SummarySnapshot, error)
}

type GormSnapshotStore struct {
	db *gorm.DB
}

func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{db: db}
}

func (s *GormSnapshotStore) Save(ctx context.Context, snapshot *models.SummarySnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = utils.GenerateID()
	}
	if err := s.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("save summary snapshot: %w", err)
	}
	return nil
}

// List returns the newest snapshots first.
func (s *GormSnapshotStore) List(ctx context.Context, userID string, limit int) ([]models.SummarySnapshot, error) {
	var snapshots []models.SummarySnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("list summary snapshots: %w", err)
	}
	return snapshots, nil
}
