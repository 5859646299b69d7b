package client

import (
	"EmotionTrackerGo/models"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	openErr  error
	captures atomic.Int32
	closed   atomic.Bool
}

func (s *fakeSource) Open(ctx context.Context) error { return s.openErr }

func (s *fakeSource) Capture(ctx context.Context) ([]byte, error) {
	s.captures.Add(1)
	return []byte("frame"), nil
}

func (s *fakeSource) Close() error {
	s.closed.Store(true)
	return nil
}

// fakeAPI hands out a new timestamp on every submission.
type fakeAPI struct {
	mu        sync.Mutex
	base      time.Time
	submits   int
	snapshots []models.SaveSnapshotRequest
	submitErr error
	sameTS    bool
	recInput  []models.SummaryEntry
}

func (a *fakeAPI) SubmitFrame(ctx context.Context, image []byte) (*models.DetectResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitErr != nil {
		return nil, a.submitErr
	}
	a.submits++
	ts := a.base.Add(time.Duration(a.submits) * time.Second)
	if a.sameTS {
		ts = a.base
	}
	label := models.Happy
	conf := 0.9
	return &models.DetectResponse{Timestamp: ts, Emotion: &label, Confidence: &conf}, nil
}

func (a *fakeAPI) RecentSummary(ctx context.Context) (*models.SummaryResponse, error) {
	return &models.SummaryResponse{
		Total:   2,
		Summary: []models.SummaryEntry{{Emotion: models.Happy, Count: 1, Percentage: 50}},
		Entries: []models.SummaryEntry{{Emotion: models.Unknown, Count: 1, Percentage: 50}, {Emotion: models.Happy, Count: 1, Percentage: 50}},
	}, nil
}

func (a *fakeAPI) Recommendation(ctx context.Context, summary []models.SummaryEntry) (*models.RecommendationResponse, error) {
	a.mu.Lock()
	a.recInput = summary
	a.mu.Unlock()
	return &models.RecommendationResponse{Recommendation: "Great work", Dominant: models.Happy, Suggestions: []string{"smile"}}, nil
}

func (a *fakeAPI) SaveSnapshot(ctx context.Context, req models.SaveSnapshotRequest) error {
	a.mu.Lock()
	a.snapshots = append(a.snapshots, req)
	a.mu.Unlock()
	return nil
}

func (a *fakeAPI) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submits, len(a.snapshots)
}

type recordingRenderer struct {
	mu         sync.Mutex
	detections []UpdateKind
	summaries  int
	errs       []error
}

func (r *recordingRenderer) RenderDetection(view View, kind UpdateKind) {
	r.mu.Lock()
	r.detections = append(r.detections, kind)
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderSummary(view View) {
	r.mu.Lock()
	r.summaries++
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func TestPoller_AutoStop(t *testing.T) {
	source := &fakeSource{}
	api := &fakeAPI{base: time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)}
	renderer := &recordingRenderer{}
	p := NewPoller(source, api, renderer, WithInterval(10*time.Millisecond), WithDuration(55*time.Millisecond))

	start := time.Now()
	require.NoError(t, p.Run(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)

	submits, snapshots := api.counts()
	assert.GreaterOrEqual(t, submits, 2)
	assert.Equal(t, submits, snapshots)
	assert.True(t, source.closed.Load())
	assert.Empty(t, renderer.errs)

	v := p.Session().View()
	assert.Equal(t, models.Happy, v.Emotion)
	assert.Len(t, v.Summary, 1)

	// recommendations are asked for over every label, unknown included
	require.Len(t, api.recInput, 2)
	assert.Equal(t, models.Unknown, api.recInput[0].Emotion)
	assert.Equal(t, "Great work", v.Recommendation)
}

func TestPoller_FirstCaptureIsImmediate(t *testing.T) {
	source := &fakeSource{}
	api := &fakeAPI{}
	p := NewPoller(source, api, &recordingRenderer{}, WithInterval(time.Hour), WithDuration(time.Hour))

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	assert.Eventually(t, func() bool { return source.captures.Load() == 1 }, time.Second, 5*time.Millisecond)
	p.Stop()
	p.Stop()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), source.captures.Load())
}

func TestPoller_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(&fakeSource{}, &fakeAPI{}, &recordingRenderer{}, WithInterval(5*time.Millisecond), WithDuration(time.Hour))

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestPoller_CameraUnavailable(t *testing.T) {
	source := &fakeSource{openErr: errors.New("device busy")}
	api := &fakeAPI{}
	p := NewPoller(source, api, &recordingRenderer{})

	err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrCameraUnavailable)
	assert.Equal(t, int32(0), source.captures.Load())
	submits, _ := api.counts()
	assert.Zero(t, submits)
}

func TestPoller_DuplicateTimestampSkipsRefresh(t *testing.T) {
	api := &fakeAPI{sameTS: true}
	renderer := &recordingRenderer{}
	p := NewPoller(&fakeSource{}, api, renderer, WithInterval(10*time.Millisecond), WithDuration(60*time.Millisecond))

	require.NoError(t, p.Run(context.Background()))

	submits, snapshots := api.counts()
	assert.GreaterOrEqual(t, submits, 2)
	assert.Equal(t, 1, snapshots)
	assert.Equal(t, 1, renderer.summaries)
	assert.Equal(t, []UpdateKind{UpdateFull}, renderer.detections)
}

func TestPoller_ErrorsAreRendered(t *testing.T) {
	api := &fakeAPI{submitErr: errors.New("server down")}
	renderer := &recordingRenderer{}
	p := NewPoller(&fakeSource{}, api, renderer, WithInterval(time.Hour), WithDuration(time.Hour))

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	assert.Eventually(t, func() bool {
		renderer.mu.Lock()
		defer renderer.mu.Unlock()
		return len(renderer.errs) == 1
	}, time.Second, 5*time.Millisecond)
	p.Stop()
	require.NoError(t, <-done)

	assert.ErrorContains(t, renderer.errs[0], "server down")
}

func TestDirectorySource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("second"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	src := NewDirectorySource(dir)
	_, err := src.Capture(ctx)
	assert.Error(t, err)

	require.NoError(t, src.Open(ctx))
	for _, want := range []string{"first", "second", "first"} {
		frame, err := src.Capture(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, string(frame))
	}
	require.NoError(t, src.Close())

	assert.Error(t, NewDirectorySource(t.TempDir()).Open(ctx))
	assert.Error(t, NewDirectorySource(filepath.Join(dir, "missing")).Open(ctx))
}

func TestLogRenderer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewLogRenderer(zap.New(core).Sugar())

	r.RenderDetection(View{Emotion: models.Sad, Confidence: f64(0.42)}, UpdateFull)
	r.RenderSummary(View{})
	r.RenderError(errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "42.0%", entries[0].ContextMap()["confidence"])
	assert.Equal(t, "no emotions detected in the last window", entries[1].ContextMap()["message"])
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}
