package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DetectionsTotal counts resolved detections by emotion.
	DetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emotion_detections_total",
			Help: "Frames resolved to an emotion label",
		},
		[]string{"emotion"},
	)

	// ClassifierFailuresTotal counts frames dropped because the classifier failed.
	ClassifierFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emotion_classifier_failures_total",
			Help: "Classifier calls that failed or were rejected by the circuit breaker",
		},
	)

	// UnresolvedFramesTotal counts frames where no label could be resolved.
	UnresolvedFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emotion_unresolved_frames_total",
			Help: "Frames with no face or no usable classifier label",
		},
	)
)
