package client

import (
	"EmotionTrackerGo/models"
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultDuration = 2 * time.Minute
)

// Poller captures a frame every interval, submits it and refreshes the session display. It
// stops on its own after duration, when Stop is called, or when the Run context ends.
type Poller struct {
	source   FrameSource
	api      API
	renderer Renderer
	session  *Session
	interval time.Duration
	duration time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
}

type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithDuration(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.duration = d
		}
	}
}

// WithSession shares an existing session, e.g. with a UI.
func WithSession(s *Session) PollerOption {
	return func(p *Poller) {
		if s != nil {
			p.session = s
		}
	}
}

func NewPoller(source FrameSource, api API, renderer Renderer, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		api:      api,
		renderer: renderer,
		session:  NewSession(),
		interval: DefaultInterval,
		duration: DefaultDuration,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session returns the display state driven by this poller.
func (p *Poller) Session() *Session {
	return p.session
}

// Stop ends the session. Safe to call more than once and from any goroutine.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

// Run opens the frame source and drives captures until stopped. A source that cannot be
// opened aborts before any timer starts. Run waits for in-flight submissions before it
// returns and closes the source. A Poller runs once.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.source.Open(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer p.source.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	autoStop := time.AfterFunc(p.duration, p.Stop)
	defer func() {
		ticker.Stop()
		autoStop.Stop()
	}()

	var wg sync.WaitGroup
	p.launch(ctx, &wg)
	for {
		select {
		case <-p.stopCh:
			cancel()
			wg.Wait()
			return nil
		case <-ctx.Done():
			p.Stop()
			wg.Wait()
			return nil
		case <-ticker.C:
			p.launch(ctx, &wg)
		}
	}
}

// launch does not wait for earlier ticks; results land in whatever order they finish.
func (p *Poller) launch(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.tick(ctx); err != nil && ctx.Err() == nil {
			p.renderer.RenderError(err)
		}
	}()
}

func (p *Poller) tick(ctx context.Context) error {
	frame, err := p.source.Capture(ctx)
	if err != nil {
		return fmt.Errorf("capture frame: %w", err)
	}

	detection, err := p.api.SubmitFrame(ctx, frame)
	if err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}

	kind := p.session.ApplyDetection(detection)
	if kind == UpdateNone {
		return nil
	}
	p.renderer.RenderDetection(p.session.View(), kind)
	if kind != UpdateFull {
		return nil
	}
	return p.refresh(ctx)
}

// refresh reloads the summary and recommendation and saves a snapshot of them.
func (p *Poller) refresh(ctx context.Context) error {
	summary, err := p.api.RecentSummary(ctx)
	if err != nil {
		return fmt.Errorf("load summary: %w", err)
	}
	p.session.ApplySummary(summary)

	// unknown stays in the denominator, same as GET /recommendation
	entries := summary.Entries
	if entries == nil {
		entries = summary.Summary
	}
	rec, err := p.api.Recommendation(ctx, entries)
	if err != nil {
		return fmt.Errorf("load recommendation: %w", err)
	}
	p.session.ApplyRecommendation(rec)
	p.renderer.RenderSummary(p.session.View())

	if len(summary.Summary) == 0 {
		return nil
	}
	start, end := summary.WindowStart, summary.WindowEnd
	err = p.api.SaveSnapshot(ctx, models.SaveSnapshotRequest{
		Summary:        summary.Summary,
		Recommendation: rec.Recommendation,
		WindowStart:    &start,
		WindowEnd:      &end,
	})
	if err != nil {
		// snapshots are best effort
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
