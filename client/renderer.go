package client

import (
	"fmt"

	"go.uber.org/zap"
)

// Renderer shows session updates to the user.
type Renderer interface {
	RenderDetection(view View, kind UpdateKind)
	RenderSummary(view View)
	RenderError(err error)
}

// LogRenderer writes updates to a zap logger.
type LogRenderer struct {
	log *zap.SugaredLogger
}

func NewLogRenderer(log *zap.SugaredLogger) *LogRenderer {
	return &LogRenderer{log: log}
}

func (r *LogRenderer) RenderDetection(view View, kind UpdateKind) {
	r.log.Infow("emotion",
		"update", kind.String(),
		"emotion", view.Emotion,
		"confidence", formatConfidence(view.Confidence),
		"timestamp", view.Timestamp,
	)
}

func (r *LogRenderer) RenderSummary(view View) {
	if view.NoData() {
		r.log.Infow("summary", "message", "no emotions detected in the last window")
		return
	}
	r.log.Infow("summary",
		"total", view.Total,
		"entries", view.Summary,
		"recommendation", view.Recommendation,
	)
}

func (r *LogRenderer) RenderError(err error) {
	r.log.Errorw("capture error", "error", err)
}

func formatConfidence(c *float64) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *c*100)
}
