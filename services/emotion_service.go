package services

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DefaultRecentWindow is the live dashboard window.
const DefaultRecentWindow = 2 * time.Minute

// EmotionService runs detection, aggregation, recommendations, snapshots and goals for a user.
type EmotionService struct {
	classifier   Classifier
	records      EmotionStore
	goals        GoalStore
	snapshots    SnapshotStore
	cache        SnapshotCache
	recentWindow time.Duration
	now          func() time.Time
}

// EmotionServiceOption customizes an EmotionService.
type EmotionServiceOption func(*EmotionService)

func WithRecentWindow(d time.Duration) EmotionServiceOption {
	return func(s *EmotionService) {
		if d > 0 {
			s.recentWindow = d
		}
	}
}

// WithSnapshotCache enables the latest-summary cache used by reports.
func WithSnapshotCache(cache SnapshotCache) EmotionServiceOption {
	return func(s *EmotionService) {
		s.cache = cache
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EmotionServiceOption {
	return func(s *EmotionService) {
		s.now = now
	}
}

func NewEmotionService(classifier Classifier, records EmotionStore, goals GoalStore, snapshots SnapshotStore, opts ...EmotionServiceOption) *EmotionService {
	s := &EmotionService{
		classifier:   classifier,
		records:      records,
		goals:        goals,
		snapshots:    snapshots,
		recentWindow: DefaultRecentWindow,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitFrame classifies one image and appends the result. It returns a nil record when the
// classifier could not resolve a label. A failed append is logged and the detection is still
// returned.
func (s *EmotionService) SubmitFrame(ctx context.Context, userID string, image []byte) (*models.EmotionRecord, error) {
	result, err := s.classifier.Classify(ctx, image)
	if err != nil {
		ClassifierFailuresTotal.Inc()
		return nil, err
	}
	if result == nil {
		UnresolvedFramesTotal.Inc()
		return nil, nil
	}

	record := &models.EmotionRecord{
		UserID:     userID,
		Emotion:    result.Emotion,
		Confidence: result.Confidence,
		Timestamp:  s.now().UTC(),
	}
	if err := s.records.Append(ctx, record); err != nil {
		config.Logger.Errorw("failed to save emotion record",
			"error", err,
			"uid", userID,
			"emotion", record.Emotion,
		)
	}
	DetectionsTotal.WithLabelValues(string(record.Emotion)).Inc()
	return record, nil
}

// QueryWindow returns raw records with start <= timestamp < end.
func (s *EmotionService) QueryWindow(ctx context.Context, userID string, start, end time.Time) ([]models.EmotionRecord, error) {
	return s.records.QueryWindow(ctx, userID, start, end)
}

// RecentWindow returns the live dashboard window ending now.
func (s *EmotionService) RecentWindow() (start, end time.Time) {
	return RecentWindow(s.now(), s.recentWindow)
}

// RecentSummary aggregates the live window. Entries are unfiltered; callers apply ForDisplay.
func (s *EmotionService) RecentSummary(ctx context.Context, userID string) ([]models.SummaryEntry, time.Time, time.Time, error) {
	start, end := s.RecentWindow()
	entries, err := s.summarize(ctx, userID, start, end)
	return entries, start, end, err
}

// WeeklySummary aggregates Monday to Monday (UTC) around day.
func (s *EmotionService) WeeklySummary(ctx context.Context, userID string, day time.Time) ([]models.SummaryEntry, time.Time, time.Time, error) {
	start, end := WeekWindow(day)
	entries, err := s.summarize(ctx, userID, start, end)
	return entries, start, end, err
}

func (s *EmotionService) summarize(ctx context.Context, userID string, start, end time.Time) ([]models.SummaryEntry, error) {
	records, err := s.records.QueryWindow(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return Aggregate(records, start, end), nil
}

// Recommendation uses precomputed when given, otherwise the recent summary. A precomputed
// summary is validated and its labels normalized before use.
func (s *EmotionService) Recommendation(ctx context.Context, userID string, precomputed []models.SummaryEntry) (models.RecommendationResponse, error) {
	var summary []models.SummaryEntry
	if precomputed != nil {
		summary = append([]models.SummaryEntry{}, precomputed...)
		if err := models.ValidateSummary(summary); err != nil {
			return models.RecommendationResponse{}, fmt.Errorf("%w: %v", ErrInvalidSummary, err)
		}
	} else {
		var err error
		summary, _, _, err = s.RecentSummary(ctx, userID)
		if err != nil {
			return models.RecommendationResponse{}, err
		}
	}

	resp := models.RecommendationResponse{
		Recommendation: Recommend(summary),
		Suggestions:    []string{},
	}
	if dominant, _, ok := Dominant(summary); ok {
		resp.Dominant = dominant
		if list := Suggestions(dominant); list != nil {
			resp.Suggestions = list
		}
	}
	return resp, nil
}

// SaveSnapshot stores the summary in history and refreshes the latest-summary cache.
func (s *EmotionService) SaveSnapshot(ctx context.Context, userID string, req models.SaveSnapshotRequest) (*models.SummarySnapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	recommendation := req.Recommendation
	if recommendation == "" {
		recommendation = Recommend(req.Summary)
	}

	snapshot := &models.SummarySnapshot{
		UserID:         userID,
		WindowStart:    req.WindowStart,
		WindowEnd:      req.WindowEnd,
		Entries:        datatypes.NewJSONType(req.Summary),
		Recommendation: recommendation,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, userID, req.Summary); err != nil {
			config.Logger.Errorw("failed to cache dashboard summary", "error", err, "uid", userID)
		}
	}
	return snapshot, nil
}

// Snapshots lists saved summaries, newest first.
func (s *EmotionService) Snapshots(ctx context.Context, userID string, limit int) ([]models.SummarySnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.snapshots.List(ctx, userID, limit)
}

// LatestSnapshot returns the cached dashboard summary, falling back to the newest stored one.
// A stored snapshot whose window ended before the recent window began is ignored.
func (s *EmotionService) LatestSnapshot(ctx context.Context, userID string) ([]models.SummaryEntry, bool) {
	if s.cache != nil {
		entries, found, err := s.cache.Latest(ctx, userID)
		if err != nil {
			config.Logger.Errorw("failed to read cached dashboard summary", "error", err, "uid", userID)
		} else if found {
			return entries, true
		}
	}

	list, err := s.snapshots.List(ctx, userID, 1)
	if err != nil {
		config.Logger.Errorw("failed to read summary snapshots", "error", err, "uid", userID)
		return nil, false
	}
	if len(list) == 0 {
		return nil, false
	}

	latest := list[0]
	ended := latest.CreatedAt
	if latest.WindowEnd != nil {
		ended = *latest.WindowEnd
	}
	if start, _ := s.RecentWindow(); ended.Before(start) {
		return nil, false
	}
	return latest.Entries.Data(), true
}

// SetGoal records the target emotion for the current week, replacing an earlier one.
func (s *EmotionService) SetGoal(ctx context.Context, userID, target, notes string) (*models.WeeklyGoal, error) {
	label, ok := models.ParseEmotion(target)
	if !ok || !label.IsKnown() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmotion, target)
	}

	weekStart, _ := WeekWindow(s.now())
	goal := &models.WeeklyGoal{
		UserID:        userID,
		WeekStart:     weekStart,
		TargetEmotion: label,
		Notes:         notes,
	}
	if err := s.goals.Upsert(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// CurrentGoal returns this week's goal, or the most recent one when none is set yet.
func (s *EmotionService) CurrentGoal(ctx context.Context, userID string) (*models.WeeklyGoal, error) {
	weekStart, _ := WeekWindow(s.now())
	goal, err := s.goals.ForWeek(ctx, userID, weekStart)
	if errors.Is(err, ErrGoalNotFound) {
		return s.goals.Latest(ctx, userID)
	}
	return goal, err
}

