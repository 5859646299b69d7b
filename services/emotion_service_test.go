package services

import (
	"EmotionTrackerGo/models"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc        *EmotionService
	classifier *stubClassifier
	clock      *fixedClock
	records    *GormEmotionStore
}

func newServiceFixture(t *testing.T, opts ...EmotionServiceOption) *serviceFixture {
	t.Helper()
	db := newTestDB(t)
	f := &serviceFixture{
		classifier: &stubClassifier{},
		clock:      &fixedClock{t: time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)},
		records:    NewGormEmotionStore(db),
	}
	opts = append([]EmotionServiceOption{WithClock(f.clock.Now)}, opts...)
	f.svc = NewEmotionService(f.classifier, f.records, NewGormGoalStore(db), NewGormSnapshotStore(db), opts...)
	return f
}

func (f *serviceFixture) seed(t *testing.T, userID string, labels ...string) {
	t.Helper()
	for i, label := range labels {
		require.NoError(t, f.records.Append(context.Background(), &models.EmotionRecord{
			UserID:    userID,
			Emotion:   models.EmotionLabel(label),
			Timestamp: f.clock.t.Add(-time.Duration(len(labels)-i) * time.Second),
		}))
	}
}

func TestEmotionService_SubmitFrame(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.classifier.result = &models.DetectionResult{Emotion: models.Happy, Confidence: ptr(0.9)}

	record, err := f.svc.SubmitFrame(ctx, "u1", []byte("frame"))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, models.Happy, record.Emotion)
	assert.True(t, record.Timestamp.Equal(f.clock.t))

	records, err := f.svc.QueryWindow(ctx, "u1", f.clock.t.Add(-time.Minute), f.clock.t.Add(time.Second))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEmotionService_SubmitFrameNoopAndError(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	record, err := f.svc.SubmitFrame(ctx, "u1", []byte("frame"))
	require.NoError(t, err)
	assert.Nil(t, record)

	f.classifier.err = ErrClassifierUnavailable
	_, err = f.svc.SubmitFrame(ctx, "u1", []byte("frame"))
	assert.ErrorIs(t, err, ErrClassifierUnavailable)

	records, err := f.svc.QueryWindow(ctx, "u1", f.clock.t.Add(-time.Hour), f.clock.t.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEmotionService_RecentSummaryAndRecommendation(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.seed(t, "u1", "happy", "happy", "sad")
	// outside the two minute window
	require.NoError(t, f.records.Append(ctx, &models.EmotionRecord{UserID: "u1", Emotion: models.Angry, Timestamp: f.clock.t.Add(-3 * time.Minute)}))

	entries, start, end, err := f.svc.RecentSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, f.clock.t.Add(-2*time.Minute), start)
	assert.True(t, end.After(f.clock.t))
	assert.Equal(t, 3, Total(entries))

	rec, err := f.svc.Recommendation(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, models.Happy, rec.Dominant)
	assert.Contains(t, rec.Recommendation, "66.7%")
	assert.Len(t, rec.Suggestions, 3)

	supplied, err := f.svc.Recommendation(ctx, "u1", []models.SummaryEntry{{Emotion: models.Fear, Count: 1}})
	require.NoError(t, err)
	assert.Equal(t, models.Fear, supplied.Dominant)
	assert.Contains(t, supplied.Recommendation, "100.0%")

	empty, err := f.svc.Recommendation(ctx, "nobody", nil)
	require.NoError(t, err)
	assert.Equal(t, NotEnoughDataMessage, empty.Recommendation)
	assert.NotNil(t, empty.Suggestions)
}

func TestEmotionService_WithRecentWindow(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, WithRecentWindow(10*time.Second))
	require.NoError(t, f.records.Append(ctx, &models.EmotionRecord{UserID: "u1", Emotion: models.Happy, Timestamp: f.clock.t.Add(-5 * time.Second)}))
	require.NoError(t, f.records.Append(ctx, &models.EmotionRecord{UserID: "u1", Emotion: models.Sad, Timestamp: f.clock.t.Add(-30 * time.Second)}))

	entries, _, _, err := f.svc.RecentSummary(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.Happy, entries[0].Emotion)
}

func TestEmotionService_WeeklySummary(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{monday, monday.Add(6*24*time.Hour + 23*time.Hour), monday.AddDate(0, 0, 7), monday.Add(-time.Second)} {
		require.NoError(t, f.records.Append(ctx, &models.EmotionRecord{UserID: "u1", Emotion: models.Neutral, Timestamp: ts}))
	}

	entries, start, end, err := f.svc.WeeklySummary(ctx, "u1", f.clock.t)
	require.NoError(t, err)
	assert.Equal(t, monday, start)
	assert.Equal(t, monday.AddDate(0, 0, 7), end)
	assert.Equal(t, 2, Total(entries))
}

func TestEmotionService_Snapshots(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	cache := NewRedisSnapshotCache(client, time.Hour)
	f := newServiceFixture(t, WithSnapshotCache(cache))

	_, found := f.svc.LatestSnapshot(ctx, "u1")
	assert.False(t, found)

	snap, err := f.svc.SaveSnapshot(ctx, "u1", models.SaveSnapshotRequest{
		Summary: []models.SummaryEntry{{Emotion: "HAPPY", Count: 2, Percentage: 100}},
	})
	require.NoError(t, err)
	assert.Contains(t, snap.Recommendation, "happy")

	cached, found, err := cache.Latest(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.Happy, cached[0].Emotion)

	list, err := f.svc.Snapshots(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, snap.ID, list[0].ID)

	_, err = f.svc.SaveSnapshot(ctx, "u1", models.SaveSnapshotRequest{
		Summary: []models.SummaryEntry{{Emotion: models.Happy, Count: -1}},
	})
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestEmotionService_LatestSnapshotFallsBackToHistory(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	_, err := f.svc.SaveSnapshot(ctx, "u1", models.SaveSnapshotRequest{
		Summary:        []models.SummaryEntry{{Emotion: models.Sad, Count: 1, Percentage: 100}},
		Recommendation: "custom",
	})
	require.NoError(t, err)

	entries, found := f.svc.LatestSnapshot(ctx, "u1")
	require.True(t, found)
	assert.Equal(t, models.Sad, entries[0].Emotion)
}

func TestEmotionService_Goals(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	_, err := f.svc.CurrentGoal(ctx, "u1")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	_, err = f.svc.SetGoal(ctx, "u1", "unknown", "")
	assert.ErrorIs(t, err, ErrInvalidEmotion)
	_, err = f.svc.SetGoal(ctx, "u1", "", "")
	assert.ErrorIs(t, err, ErrInvalidEmotion)
	_, err = f.svc.SetGoal(ctx, "u1", "bored", "")
	assert.ErrorIs(t, err, ErrInvalidEmotion)

	goal, err := f.svc.SetGoal(ctx, "u1", "Happy", "smile")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), goal.WeekStart)

	_, err = f.svc.SetGoal(ctx, "u1", "neutral", "calm")
	require.NoError(t, err)

	current, err := f.svc.CurrentGoal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Neutral, current.TargetEmotion)
	assert.Equal(t, "calm", current.Notes)

	// next week without a goal falls back to the latest one
	f.clock.t = f.clock.t.AddDate(0, 0, 7)
	current, err = f.svc.CurrentGoal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Neutral, current.TargetEmotion)
}

func TestEmotionService_BuildReport(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	_, err := f.svc.BuildReport(ctx, "u1", "alice")
	assert.True(t, errors.Is(err, ErrNoRecords))

	labels := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		if i%5 == 0 {
			labels = append(labels, "sad")
		} else {
			labels = append(labels, "happy")
		}
	}
	f.seed(t, "u1", labels...)
	_, err = f.svc.SetGoal(ctx, "u1", "happy", "keep smiling")
	require.NoError(t, err)

	data, err := f.svc.BuildReport(ctx, "u1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", data.Username)
	assert.Len(t, data.Timeline, reportTimelineLimit)
	assert.True(t, data.Timeline[0].Timestamp.After(data.Timeline[1].Timestamp))
	require.NotEmpty(t, data.Summary)
	assert.Equal(t, models.Happy, data.Summary[0].Emotion)
	assert.Contains(t, data.Recommendation, "aligns well with your weekly goal (happy)")

	var buf bytes.Buffer
	require.NoError(t, WriteReportPDF(&buf, data))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteReportPDF_EmptySections(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReportPDF(&buf, &ReportData{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestEmotionService_RecommendationValidatesSummary(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	_, err := f.svc.Recommendation(ctx, "u1", []models.SummaryEntry{{Emotion: "HAPPY", Count: 2}, {Emotion: models.Sad, Count: -1}})
	assert.ErrorIs(t, err, ErrInvalidSummary)

	_, err = f.svc.Recommendation(ctx, "u1", []models.SummaryEntry{{Emotion: models.Sad, Count: 1, Percentage: 120}})
	assert.ErrorIs(t, err, ErrInvalidSummary)

	input := []models.SummaryEntry{{Emotion: "HAPPY", Count: 2}, {Emotion: " Sad", Count: 1}}
	rec, err := f.svc.Recommendation(ctx, "u1", input)
	require.NoError(t, err)
	assert.Equal(t, models.Happy, rec.Dominant)
	assert.Contains(t, rec.Recommendation, "66.7%")
	assert.Len(t, rec.Suggestions, 3)
	// the caller's slice is left alone
	assert.Equal(t, models.EmotionLabel("HAPPY"), input[0].Emotion)
}

func TestEmotionService_LatestSnapshotIgnoresStaleHistory(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	windowStart := f.clock.t.Add(-2 * time.Minute)
	windowEnd := f.clock.t
	_, err := f.svc.SaveSnapshot(ctx, "u1", models.SaveSnapshotRequest{
		Summary:     []models.SummaryEntry{{Emotion: models.Angry, Count: 3, Percentage: 100}},
		WindowStart: &windowStart,
		WindowEnd:   &windowEnd,
	})
	require.NoError(t, err)

	_, found := f.svc.LatestSnapshot(ctx, "u1")
	assert.True(t, found)

	f.clock.t = f.clock.t.Add(time.Hour)
	_, found = f.svc.LatestSnapshot(ctx, "u1")
	assert.False(t, found)

	// the report falls back to a fresh aggregation
	require.NoError(t, f.records.Append(ctx, &models.EmotionRecord{UserID: "u1", Emotion: models.Happy, Timestamp: f.clock.t.Add(-time.Second)}))
	data, err := f.svc.BuildReport(ctx, "u1", "alice")
	require.NoError(t, err)
	require.Len(t, data.Summary, 1)
	assert.Equal(t, models.Happy, data.Summary[0].Emotion)
}
