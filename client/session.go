package client

import (
	"EmotionTrackerGo/models"
	"sync"
	"time"
)

// UpdateKind says how much of the display a detection changes.
type UpdateKind int

const (
	UpdateNone UpdateKind = iota
	UpdateConfidence
	UpdateFull
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateConfidence:
		return "confidence"
	case UpdateFull:
		return "full"
	default:
		return "none"
	}
}

// View is a copy of what is currently displayed.
type View struct {
	Timestamp      time.Time
	Emotion        models.EmotionLabel
	Confidence     *float64
	Total          int
	Summary        []models.SummaryEntry
	Recommendation string
	Suggestions    []string
}

// NoData reports whether the last summary had nothing to show.
func (v View) NoData() bool {
	return len(v.Summary) == 0
}

// Session holds the display state of one capture session. It is safe for concurrent use;
// overlapping submissions resolve as last writer wins.
type Session struct {
	mu        sync.Mutex
	view      View
	displayed bool
}

func NewSession() *Session {
	return &Session{}
}

// ApplyDetection updates the display from one detection. A detection carrying the timestamp
// already on screen only refreshes the confidence, and only when it changed.
func (s *Session) ApplyDetection(d *models.DetectResponse) UpdateKind {
	if d == nil || d.Emotion == nil {
		return UpdateNone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.displayed && d.Timestamp.Equal(s.view.Timestamp) {
		if sameConfidence(s.view.Confidence, d.Confidence) {
			return UpdateNone
		}
		s.view.Confidence = copyFloat(d.Confidence)
		return UpdateConfidence
	}

	s.displayed = true
	s.view.Timestamp = d.Timestamp
	s.view.Emotion = *d.Emotion
	s.view.Confidence = copyFloat(d.Confidence)
	return UpdateFull
}

// ApplySummary replaces the cached summary.
func (s *Session) ApplySummary(resp *models.SummaryResponse) {
	if resp == nil {
		return
	}
	s.mu.Lock()
	s.view.Total = resp.Total
	s.view.Summary = append([]models.SummaryEntry(nil), resp.Summary...)
	s.mu.Unlock()
}

// ApplyRecommendation replaces the cached recommendation.
func (s *Session) ApplyRecommendation(resp *models.RecommendationResponse) {
	if resp == nil {
		return
	}
	s.mu.Lock()
	s.view.Recommendation = resp.Recommendation
	s.view.Suggestions = append([]string(nil), resp.Suggestions...)
	s.mu.Unlock()
}

// View returns a copy of the current display state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	v.Confidence = copyFloat(s.view.Confidence)
	v.Summary = append([]models.SummaryEntry(nil), s.view.Summary...)
	v.Suggestions = append([]string(nil), s.view.Suggestions...)
	return v
}

func sameConfidence(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
